package assets

import (
	"errors"
	"fmt"

	"github.com/alnah/go-panwrap/internal/config"
	"github.com/alnah/go-panwrap/internal/frontmatter"
	"github.com/alnah/go-panwrap/internal/yamlutil"
)

// Layers holds the two default layers a build starts from.
type Layers struct {
	Schema    *config.Schema
	Variables map[string]any
	// Dir is where the files came from, "" for the embedded copy.
	Dir string
}

// LoadLayers reads and decodes panwrap.yaml and variables.yaml through l.
// A missing variables file contributes no variables.
func LoadLayers(l Loader) (*Layers, error) {
	data, err := l.Load(DefaultsFile)
	if err != nil {
		return nil, err
	}
	schema, err := config.LoadSchema(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", DefaultsFile, err)
	}

	vars := map[string]any{}
	data, err = l.Load(VariablesFile)
	switch {
	case errors.Is(err, ErrAssetNotFound):
	case err != nil:
		return nil, err
	default:
		if vars, err = yamlutil.UnmarshalMap(data); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", config.ErrDefaultsParse, VariablesFile, err)
		}
		frontmatter.ExpandPaths(vars)
	}

	return &Layers{Schema: schema, Variables: vars, Dir: l.Dir()}, nil
}
