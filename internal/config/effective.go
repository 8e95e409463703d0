package config

import "fmt"

// Effective is the merged, build-ready configuration for one document.
// It is produced fresh for every build and never persisted.
type Effective struct {
	schema        *Schema
	values        map[string]Value
	options       *OptionSet
	variables     map[string]any
	template      string
	variablesFile string
	extract       bool
	keepBib       bool
	keepTemp      bool
}

// Get returns the merged value for key.
func (e *Effective) Get(key string) (Value, bool) {
	v, ok := e.values[key]
	return v, ok
}

// Keys returns every setting key in lexical order.
func (e *Effective) Keys() []string { return e.schema.Keys() }

// Rule exposes the schema rule for key.
func (e *Effective) Rule(key string) (Rule, bool) { return e.schema.Rule(key) }

// Outputs returns the requested output formats, in declaration order.
func (e *Effective) Outputs() []string { return e.values[KeyOutput].Items() }

// Lines returns the merged lines of an append key.
func (e *Effective) Lines(key string) []string { return e.values[key].Items() }

// Options returns the merged converter options as command-line tokens.
func (e *Effective) Options() []string {
	if e.options == nil {
		return nil
	}
	return e.options.Tokens()
}

// Template returns the resolved template path, or "" when none is selected.
func (e *Effective) Template() string { return e.template }

// VariablesFile returns the template variables file that was loaded, if any.
func (e *Effective) VariablesFile() string { return e.variablesFile }

// Bibliography returns the bibliography path, or "".
func (e *Effective) Bibliography() string { return e.values[KeyBibliography].Str() }

// CSL returns the citation style path, or "".
func (e *Effective) CSL() string { return e.values[KeyCSL].Str() }

// Extraction reports whether the bibliography should be subset before
// conversion, and whether the subset should be kept next to the document.
func (e *Effective) Extraction() (extract, keep bool) { return e.extract, e.keepBib }

// KeepTempFiles reports whether the working directory should survive the build.
func (e *Effective) KeepTempFiles() bool { return e.keepTemp }

// Variables returns a copy of the variables to inject into the working copy.
func (e *Effective) Variables() map[string]any { return copyMap(e.variables) }

// Override replaces a known setting. The value must match the key's shape.
func (e *Effective) Override(key string, v Value) error {
	rule, ok := e.schema.Rule(key)
	if !ok {
		return &UnknownSettingError{Keys: []string{key}, Known: e.schema.Keys()}
	}
	if !v.IsNull() && v.Kind() != rule.Shape {
		return fmt.Errorf("%w: %q: want %s, got %s", ErrSettingType, key, rule.Shape, v.Kind())
	}
	e.values[key] = v
	switch key {
	case KeyTemplate:
		e.template = v.Str()
	case KeyExtraction, KeyDebug:
		return e.resolveSwitches()
	}
	return nil
}

// ConverterVariables renders the variable-class settings as --variable
// flags, keys in lexical order. A scalar gives "key:value", a mapping one
// "key:sub=value" per entry, a list one "key:item" per item.
func (e *Effective) ConverterVariables() []string {
	var out []string
	for _, key := range e.schema.Keys() {
		rule, _ := e.schema.Rule(key)
		if rule.Class != ClassVariable {
			continue
		}
		v := e.values[key]
		if v.Empty() {
			continue
		}
		switch v.Kind() {
		case Scalar:
			out = append(out, fmt.Sprintf("--variable=%s:%s", key, v.Str()))
		case Dict:
			for _, sub := range v.SortedKeys() {
				val, _ := v.Lookup(sub)
				out = append(out, fmt.Sprintf("--variable=%s:%s=%s", key, sub, val))
			}
		case List:
			for _, item := range v.Items() {
				out = append(out, fmt.Sprintf("--variable=%s:%s", key, item))
			}
		}
	}
	return out
}
