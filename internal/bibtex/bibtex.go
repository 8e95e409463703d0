// Package bibtex reduces a BibTeX database to the entries a document cites.
package bibtex

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/dlclark/regexp2"
)

// ErrBibliographyNotFound is returned when the bibliography cannot be read.
var ErrBibliographyNotFound = errors.New("bibliography not found")

// citationPattern follows the converter's citation syntax: "@key" or
// "@{key}", not preceded by a word character so e-mail addresses do not
// count. Go's regexp has no lookbehind, hence regexp2.
var citationPattern = regexp2.MustCompile(
	`(?<![\w@])@(?:\{([^{}\s]+)\}|(\w[\w:.#$%&\-+?<>~/]*))`,
	regexp2.None,
)

// trailing punctuation is part of the sentence, not the key.
const keyTrailing = ":.#$%&-+?<>~/"

// CitationKeys returns the distinct citation keys in text, in first-seen order.
func CitationKeys(text string) []string {
	var keys []string
	seen := make(map[string]bool)

	m, _ := citationPattern.FindStringMatch(text)
	for m != nil {
		key := m.GroupByNumber(1).String()
		if key == "" {
			key = strings.TrimRight(m.GroupByNumber(2).String(), keyTrailing)
		}
		if key != "" && !seen[key] {
			seen[key] = true
			keys = append(keys, key)
		}
		m, _ = citationPattern.FindNextMatch(m)
	}
	return keys
}

// SubsetFile writes to outPath the entries of the database at bibPath that
// docText cites, and returns the cited keys the database lacks.
func SubsetFile(docText, bibPath, outPath string) (missing []string, err error) {
	data, err := os.ReadFile(bibPath) // #nosec G304 -- path comes from the document settings
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrBibliographyNotFound, bibPath, err)
	}

	keys := CitationKeys(docText)
	db := Parse(string(data))
	if err := os.WriteFile(outPath, []byte(db.Subset(keys).String()), 0o644); err != nil { // #nosec G306 -- read by the converter
		return nil, fmt.Errorf("writing bibliography subset: %w", err)
	}
	return db.Missing(keys), nil
}
