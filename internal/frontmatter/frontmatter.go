// Package frontmatter finds delimited metadata blocks in document text and
// decodes them as YAML.
//
// A document may contain several blocks. Scanning is line based: a line
// starting with one of the start markers opens a block when none is open, a
// line starting with one of the end markers closes it. Only the first block
// that decodes to a mapping holding the requested entry key matters.
package frontmatter

import (
	"errors"
	"fmt"
	"strings"

	"github.com/alnah/go-panwrap/internal/fileutil"
	"github.com/alnah/go-panwrap/internal/yamlutil"
)

// Sentinel errors for front matter discovery.
var (
	ErrMalformedBlock      = errors.New("block is not a YAML mapping")
	ErrFrontMatterNotFound = errors.New("no front matter block with settings entry")
)

// Default block delimiters.
var (
	StartMarkers = []string{"---"}
	EndMarkers   = []string{"---", "..."}
)

// PathKeys lists the keys whose values are filesystem paths and get their
// leading "~" expanded wherever they are loaded.
var PathKeys = []string{"bibliography", "csl", "template"}

// Block is the raw lines found strictly between a start and an end marker,
// newline terminators stripped.
type Block []string

// Text joins the block lines back into YAML source.
func (b Block) Text() string {
	return strings.Join(b, "\n")
}

// FindBlocks scans text once and returns every terminated block in
// discovery order. A block still open at end of input is dropped.
func FindBlocks(text string, start, end []string) []Block {
	blocks, _ := scan(text, start, end)
	return blocks
}

// Unterminated reports whether text ends inside an open block, i.e. whether
// FindBlocks silently dropped trailing content.
func Unterminated(text string, start, end []string) bool {
	_, open := scan(text, start, end)
	return open
}

func scan(text string, start, end []string) (blocks []Block, open bool) {
	var current Block
	for _, line := range splitLines(text) {
		if !open && hasAnyPrefix(line, start) {
			open = true
			current = Block{}
			continue
		}
		if hasAnyPrefix(line, end) {
			if open {
				blocks = append(blocks, current)
			}
			open = false
			current = nil
			continue
		}
		if open {
			current = append(current, line)
		}
	}
	return blocks, open
}

func splitLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.TrimSuffix(text, "\n")
	if text == "" {
		return nil
	}
	return strings.Split(text, "\n")
}

func hasAnyPrefix(line string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(line, p) {
			return true
		}
	}
	return false
}

// Load decodes a block as a YAML mapping and expands path-valued keys.
// Anything that is not a mapping is reported as ErrMalformedBlock.
func Load(b Block) (map[string]any, error) {
	text := b.Text()
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: empty block", ErrMalformedBlock)
	}
	m, err := yamlutil.UnmarshalMap([]byte(text))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedBlock, err)
	}
	ExpandPaths(m)
	return m, nil
}

// ExpandPaths rewrites the PathKeys entries of m in place.
func ExpandPaths(m map[string]any) {
	for _, k := range PathKeys {
		if s, ok := m[k].(string); ok && s != "" {
			m[k] = fileutil.ExpandHome(s)
		}
	}
}

// Find returns the mapping stored under entryKey in the first block that
// decodes and contains it. Malformed blocks and blocks without the key are
// skipped. A key present with a null value yields an empty mapping.
func Find(text, entryKey string) (map[string]any, error) {
	for _, b := range FindBlocks(text, StartMarkers, EndMarkers) {
		m, err := Load(b)
		if err != nil {
			continue
		}
		raw, ok := m[entryKey]
		if !ok {
			continue
		}
		entry, err := asMapping(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %v", ErrMalformedBlock, entryKey, err)
		}
		ExpandPaths(entry)
		return entry, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrFrontMatterNotFound, entryKey)
}

func asMapping(v any) (map[string]any, error) {
	switch m := v.(type) {
	case nil:
		return map[string]any{}, nil
	case map[string]any:
		return m, nil
	case map[any]any:
		out := make(map[string]any, len(m))
		for k, val := range m {
			out[fmt.Sprint(k)] = val
		}
		return out, nil
	default:
		return nil, fmt.Errorf("expected a mapping, got %T", v)
	}
}
