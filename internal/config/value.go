package config

import (
	"fmt"
	"sort"
	"strings"
)

// Kind tags the shape of a setting value.
type Kind int

// Value shapes. Null marks a setting that is present but unset; it is
// skipped when converter arguments are built.
const (
	Null Kind = iota
	Scalar
	List
	Dict
)

func (k Kind) String() string {
	switch k {
	case Null:
		return "null"
	case Scalar:
		return "scalar"
	case List:
		return "list"
	case Dict:
		return "mapping"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Value is one setting: a scalar string, a list of strings, or a string
// mapping. The zero Value is Null.
type Value struct {
	kind   Kind
	scalar string
	list   []string
	dict   map[string]string
}

// NullValue returns an unset value.
func NullValue() Value { return Value{} }

// ScalarValue wraps s.
func ScalarValue(s string) Value { return Value{kind: Scalar, scalar: s} }

// ListValue wraps a copy of items.
func ListValue(items ...string) Value {
	return Value{kind: List, list: append([]string{}, items...)}
}

// DictValue wraps a copy of m.
func DictValue(m map[string]string) Value {
	cp := make(map[string]string, len(m))
	for k, v := range m {
		cp[k] = v
	}
	return Value{kind: Dict, dict: cp}
}

func (v Value) Kind() Kind   { return v.kind }
func (v Value) IsNull() bool { return v.kind == Null }

// Str returns the scalar string, or "" for other shapes.
func (v Value) Str() string { return v.scalar }

// Items returns a copy of the list items.
func (v Value) Items() []string { return append([]string(nil), v.list...) }

// Map returns a copy of the mapping.
func (v Value) Map() map[string]string {
	if v.dict == nil {
		return nil
	}
	cp := make(map[string]string, len(v.dict))
	for k, s := range v.dict {
		cp[k] = s
	}
	return cp
}

// Lookup returns one mapping entry.
func (v Value) Lookup(key string) (string, bool) {
	s, ok := v.dict[key]
	return s, ok
}

// SortedKeys returns the mapping keys in lexical order.
func (v Value) SortedKeys() []string {
	keys := make([]string, 0, len(v.dict))
	for k := range v.dict {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Empty reports whether the value carries nothing to pass on.
func (v Value) Empty() bool {
	switch v.kind {
	case Scalar:
		return v.scalar == ""
	case List:
		return len(v.list) == 0
	case Dict:
		return len(v.dict) == 0
	default:
		return true
	}
}

func (v Value) String() string {
	switch v.kind {
	case Scalar:
		return v.scalar
	case List:
		return "[" + strings.Join(v.list, ", ") + "]"
	case Dict:
		parts := make([]string, 0, len(v.dict))
		for _, k := range v.SortedKeys() {
			parts = append(parts, k+"="+v.dict[k])
		}
		return "{" + strings.Join(parts, ", ") + "}"
	default:
		return "null"
	}
}

// convert turns a decoded YAML value into a Value of the requested shape.
// A scalar is accepted where a list is expected and becomes a one-item
// list; every other mismatch is an error.
func convert(raw any, shape Kind) (Value, error) {
	if raw == nil {
		return NullValue(), nil
	}

	switch shape {
	case Scalar:
		s, err := scalarString(raw)
		if err != nil {
			return Value{}, err
		}
		return ScalarValue(s), nil

	case List:
		items, ok := raw.([]any)
		if !ok {
			s, err := scalarString(raw)
			if err != nil {
				return Value{}, fmt.Errorf("want %s, got %s", List, shapeOf(raw))
			}
			return ListValue(s), nil
		}
		out := make([]string, 0, len(items))
		for i, item := range items {
			s, err := scalarString(item)
			if err != nil {
				return Value{}, fmt.Errorf("item %d: %w", i, err)
			}
			out = append(out, s)
		}
		return ListValue(out...), nil

	case Dict:
		entries, err := stringKeyed(raw)
		if err != nil {
			return Value{}, fmt.Errorf("want %s, got %s", Dict, shapeOf(raw))
		}
		out := make(map[string]string, len(entries))
		for k, item := range entries {
			if item == nil {
				out[k] = ""
				continue
			}
			s, err := scalarString(item)
			if err != nil {
				return Value{}, fmt.Errorf("entry %q: %w", k, err)
			}
			out[k] = s
		}
		return DictValue(out), nil

	default:
		return NullValue(), nil
	}
}

// shapeFor picks the shape a default value establishes for a key the
// schema has no fixed rule for.
func shapeFor(raw any) Kind {
	switch raw.(type) {
	case []any:
		return List
	case map[string]any, map[any]any:
		return Dict
	default:
		return Scalar
	}
}

func shapeOf(raw any) Kind {
	if raw == nil {
		return Null
	}
	return shapeFor(raw)
}

func scalarString(raw any) (string, error) {
	switch v := raw.(type) {
	case nil:
		return "", nil
	case string:
		return v, nil
	case []any, map[string]any, map[any]any:
		return "", fmt.Errorf("want %s, got %s", Scalar, shapeOf(raw))
	default:
		return fmt.Sprint(v), nil
	}
}

func stringKeyed(raw any) (map[string]any, error) {
	switch m := raw.(type) {
	case map[string]any:
		return m, nil
	case map[any]any:
		out := make(map[string]any, len(m))
		for k, v := range m {
			out[fmt.Sprint(k)] = v
		}
		return out, nil
	default:
		return nil, fmt.Errorf("not a mapping: %T", raw)
	}
}
