package assets

import (
	"embed"
	"fmt"
)

//go:embed defaults/*
var defaults embed.FS

// EmbeddedLoader reads the defaults compiled into the binary.
type EmbeddedLoader struct{}

// NewEmbeddedLoader creates an EmbeddedLoader.
func NewEmbeddedLoader() *EmbeddedLoader {
	return &EmbeddedLoader{}
}

// Load reads a file from the embedded defaults.
func (e *EmbeddedLoader) Load(name string) ([]byte, error) {
	if err := ValidateAssetName(name); err != nil {
		return nil, err
	}

	content, err := defaults.ReadFile("defaults/" + name)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrAssetNotFound, name)
	}
	return content, nil
}

// Dir returns "", the embedded copy has no location on disk.
func (e *EmbeddedLoader) Dir() string { return "" }

// Compile-time interface check.
var _ Loader = (*EmbeddedLoader)(nil)
