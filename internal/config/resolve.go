package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/alnah/go-panwrap/internal/fileutil"
	"github.com/alnah/go-panwrap/internal/frontmatter"
	"github.com/alnah/go-panwrap/internal/yamlutil"
)

// DefaultsDirPlaceholder in a template path stands for the directory the
// defaults were loaded from, so bundled templates can be referenced
// without hard-coding an install location.
const DefaultsDirPlaceholder = "{PANWRAP}"

// VariablesSuffix replaces a template's extension to find its variables file.
const VariablesSuffix = ".yaml"

// ResolveOptions carries the inputs to Resolve besides the two setting layers.
type ResolveOptions struct {
	// SourceDir anchors relative template paths.
	SourceDir string
	// DefaultsDir replaces DefaultsDirPlaceholder in template paths.
	DefaultsDir string
	// Variables is the default variables layer (may be nil).
	Variables map[string]any
	// ReadFile reads the template variables file; nil means os.ReadFile.
	ReadFile func(string) ([]byte, error)
}

// Resolve merges the document-declared settings over the schema defaults
// and returns the effective configuration. Keys the schema does not know
// fail with *UnknownSettingError before anything else is merged.
func Resolve(schema *Schema, document map[string]any, opts ResolveOptions) (*Effective, error) {
	if err := checkKeys(schema, document); err != nil {
		return nil, err
	}

	declared := make(map[string]Value, len(document))
	for _, key := range sortedKeys(document) {
		rule, _ := schema.Rule(key)
		v, err := convert(document[key], rule.Shape)
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %v", ErrSettingType, key, err)
		}
		declared[key] = v
	}

	eff := &Effective{
		schema: schema,
		values: make(map[string]Value, len(schema.rules)),
	}

	// Plain overwrite and dictionary merge first, so "-default" halves are
	// settled before the append and option keys read them.
	for _, key := range schema.Keys() {
		rule, _ := schema.Rule(key)
		def := schema.Default(key)
		v, ok := declared[key]
		switch {
		case !ok:
			eff.values[key] = def
		case rule.Shape == Dict && v.Kind() == Dict && def.Kind() == Dict:
			eff.values[key] = mergeDict(def, v)
		default:
			eff.values[key] = v
		}
	}

	for _, key := range schema.Keys() {
		rule, _ := schema.Rule(key)
		switch rule.Class {
		case ClassAppend:
			eff.values[key] = appendLines(eff.values[key+DefaultSuffix], schema.Default(key), declared, key)
		case ClassOptions:
			eff.options = mergeOptions(eff.values[key+DefaultSuffix], schema.Default(key), declared, key)
			eff.values[key] = ListValue(eff.options.Tokens()...)
		}
	}

	if err := eff.resolveSwitches(); err != nil {
		return nil, err
	}

	eff.variables = copyMap(opts.Variables)
	if err := eff.resolveTemplate(opts); err != nil {
		return nil, err
	}

	return eff, nil
}

func checkKeys(schema *Schema, document map[string]any) error {
	var unknown []string
	for _, key := range sortedKeys(document) {
		if _, ok := schema.Rule(key); !ok {
			unknown = append(unknown, key)
		}
	}
	if len(unknown) == 0 {
		return nil
	}
	return &UnknownSettingError{Keys: unknown, Known: schema.Keys()}
}

func mergeDict(base, over Value) Value {
	m := base.Map()
	if m == nil {
		m = make(map[string]string)
	}
	for k, v := range over.Map() {
		m[k] = v
	}
	return DictValue(m)
}

// appendLines is "<key>-default" followed by the document's lines when it
// declares the key, or by the defaults' own lines when it does not.
func appendLines(defaultList, ownDefault Value, declared map[string]Value, key string) Value {
	tail := ownDefault.Items()
	if v, ok := declared[key]; ok {
		tail = v.Items()
	}
	return ListValue(append(defaultList.Items(), tail...)...)
}

// mergeOptions overlays the document's options onto the defaults keyed by
// flag name, so a document can change one flag without losing the rest.
func mergeOptions(defaultList, ownDefault Value, declared map[string]Value, key string) *OptionSet {
	set := ParseOptions(append(defaultList.Items(), ownDefault.Items()...))
	if v, ok := declared[key]; ok {
		set.Merge(ParseOptions(v.Items()))
	}
	return set
}

func (e *Effective) resolveSwitches() error {
	var err error
	ex := e.values[KeyExtraction]
	if e.extract, err = boolEntry(ex, SubExtract); err != nil {
		return fmt.Errorf("%w: %s.%s: %v", ErrSettingType, KeyExtraction, SubExtract, err)
	}
	if e.keepBib, err = boolEntry(ex, SubKeep); err != nil {
		return fmt.Errorf("%w: %s.%s: %v", ErrSettingType, KeyExtraction, SubKeep, err)
	}
	if e.keepTemp, err = boolEntry(e.values[KeyDebug], SubKeepTempFiles); err != nil {
		return fmt.Errorf("%w: %s.%s: %v", ErrSettingType, KeyDebug, SubKeepTempFiles, err)
	}
	return nil
}

func boolEntry(v Value, key string) (bool, error) {
	s, ok := v.Lookup(key)
	if !ok || s == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(strings.ToLower(s))
	if err != nil {
		switch strings.ToLower(s) {
		case "yes", "on":
			return true, nil
		case "no", "off":
			return false, nil
		}
		return false, fmt.Errorf("not a boolean: %q", s)
	}
	return b, nil
}

// resolveTemplate turns the template setting into an absolute path and
// overlays the variables file sitting next to it. A missing variables
// file contributes nothing; any other failure is fatal.
func (e *Effective) resolveTemplate(opts ResolveOptions) error {
	tv := e.values[KeyTemplate]
	if tv.Empty() {
		return nil
	}

	path := tv.Str()
	if strings.Contains(path, DefaultsDirPlaceholder) {
		if opts.DefaultsDir == "" {
			return fmt.Errorf("%w: template %s", ErrNoDefaultsDir, path)
		}
		path = strings.ReplaceAll(path, DefaultsDirPlaceholder, opts.DefaultsDir)
	}
	path = fileutil.ExpandHome(path)
	if !filepath.IsAbs(path) && opts.SourceDir != "" {
		path = filepath.Join(opts.SourceDir, path)
	}
	e.template = path
	e.values[KeyTemplate] = ScalarValue(path)

	varsPath := strings.TrimSuffix(path, filepath.Ext(path)) + VariablesSuffix
	if varsPath == path {
		return nil
	}
	e.variablesFile = varsPath

	read := opts.ReadFile
	if read == nil {
		read = os.ReadFile
	}
	data, err := read(varsPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			e.variablesFile = ""
			return nil
		}
		return fmt.Errorf("%w: %s: %v", ErrVariablesLoad, varsPath, err)
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil
	}

	loaded, err := yamlutil.UnmarshalMap(data)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrVariablesLoad, varsPath, err)
	}
	frontmatter.ExpandPaths(loaded)
	for k, v := range loaded {
		e.variables[k] = v
	}
	return nil
}

func copyMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
