package config

import (
	"fmt"
	"sort"
	"strings"

	"github.com/alnah/go-panwrap/internal/frontmatter"
	"github.com/alnah/go-panwrap/internal/yamlutil"
)

// Class selects the merge policy and the way a setting reaches the converter.
type Class int

const (
	// ClassOverwrite: document value replaces the default (bibliography, csl).
	ClassOverwrite Class = iota
	// ClassOutput: requested output formats, always a list.
	ClassOutput
	// ClassAppend: "<key>-default" ++ declared lines, written to an include file.
	ClassAppend
	// ClassOptions: converter flags merged by name.
	ClassOptions
	// ClassTemplate: template path, pulls in sibling variables.
	ClassTemplate
	// ClassExtraction: bibliography subsetting switches.
	ClassExtraction
	// ClassDebug: build debugging switches.
	ClassDebug
	// ClassDefaultList: the "<key>-default" half of an append or options key.
	ClassDefaultList
	// ClassVariable: any other key, passed as --variable.
	ClassVariable
)

// Well-known setting keys.
const (
	KeyOutput          = "output"
	KeyTemplate        = "template"
	KeyBibliography    = "bibliography"
	KeyCSL             = "csl"
	KeyInHeaderLines   = "in-header-lines"
	KeyBeforeBodyLines = "before-body-lines"
	KeyOptions         = "pandoc-options"
	KeyExtraction      = "extract-bibliography"
	KeyDebug           = "debug"

	// DefaultSuffix pairs an append or options key with its default list.
	DefaultSuffix = "-default"
)

// Sub-keys of the dictionary settings.
const (
	SubExtract       = "extract"
	SubKeep          = "keep"
	SubKeepTempFiles = "keep-tempfiles"
)

// Rule fixes a key's class and value shape.
type Rule struct {
	Class Class
	Shape Kind
}

var fixedRules = map[string]Rule{
	KeyOutput:          {Class: ClassOutput, Shape: List},
	KeyTemplate:        {Class: ClassTemplate, Shape: Scalar},
	KeyBibliography:    {Class: ClassOverwrite, Shape: Scalar},
	KeyCSL:             {Class: ClassOverwrite, Shape: Scalar},
	KeyInHeaderLines:   {Class: ClassAppend, Shape: List},
	KeyBeforeBodyLines: {Class: ClassAppend, Shape: List},
	KeyOptions:         {Class: ClassOptions, Shape: List},
	KeyExtraction:      {Class: ClassExtraction, Shape: Dict},
	KeyDebug:           {Class: ClassDebug, Shape: Dict},
}

// Schema is the closed set of settings a document may declare, with the
// default value of each. It is derived from the defaults file: whatever
// keys that file defines are the known keys.
type Schema struct {
	rules    map[string]Rule
	defaults map[string]Value
}

// NewSchema builds a schema from decoded defaults. Keys with a fixed rule
// must match its shape; other keys take their shape from the default value.
func NewSchema(defaults map[string]any) (*Schema, error) {
	s := &Schema{
		rules:    make(map[string]Rule, len(defaults)),
		defaults: make(map[string]Value, len(defaults)),
	}

	for _, key := range sortedKeys(defaults) {
		raw := defaults[key]
		rule := ruleFor(key, raw)
		v, err := convert(raw, rule.Shape)
		if err != nil {
			return nil, fmt.Errorf("%w: default %q: %v", ErrSettingType, key, err)
		}
		s.rules[key] = rule
		s.defaults[key] = v
	}

	// Paired "-default" lists must have their base key and vice versa, or
	// the merge below would silently drop one half.
	var missing []string
	for key, rule := range s.rules {
		switch rule.Class {
		case ClassAppend, ClassOptions:
			if _, ok := s.rules[key+DefaultSuffix]; !ok {
				missing = append(missing, key+DefaultSuffix)
			}
		case ClassDefaultList:
			base := strings.TrimSuffix(key, DefaultSuffix)
			if _, ok := s.rules[base]; !ok {
				missing = append(missing, base)
			}
		}
	}
	for _, key := range missing {
		s.rules[key] = ruleFor(key, nil)
		s.defaults[key] = ListValue()
	}

	return s, nil
}

// LoadSchema decodes a defaults file and builds its schema.
func LoadSchema(data []byte) (*Schema, error) {
	m, err := yamlutil.UnmarshalMap(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDefaultsParse, err)
	}
	frontmatter.ExpandPaths(m)
	return NewSchema(m)
}

func ruleFor(key string, raw any) Rule {
	if r, ok := fixedRules[key]; ok {
		return r
	}
	if base, ok := strings.CutSuffix(key, DefaultSuffix); ok {
		if r, ok := fixedRules[base]; ok && (r.Class == ClassAppend || r.Class == ClassOptions) {
			return Rule{Class: ClassDefaultList, Shape: List}
		}
	}
	return Rule{Class: ClassVariable, Shape: shapeFor(raw)}
}

// Rule returns the rule for key.
func (s *Schema) Rule(key string) (Rule, bool) {
	r, ok := s.rules[key]
	return r, ok
}

// Default returns the default value for key.
func (s *Schema) Default(key string) Value {
	return s.defaults[key]
}

// Keys returns the known keys in lexical order.
func (s *Schema) Keys() []string {
	keys := make([]string, 0, len(s.rules))
	for k := range s.rules {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
