package config

import (
	"errors"
	"reflect"
	"testing"
)

func TestNewSchema(t *testing.T) {
	t.Parallel()

	s, err := NewSchema(map[string]any{
		"output":                 []any{"pdf"},
		"in-header-lines":        []any{},
		"pandoc-options-default": []any{"--toc"},
		"fontsize":               "11pt",
		"geometry":               map[string]any{"margin": "2cm"},
		"debug":                  map[string]any{"keep-tempfiles": false},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tests := []struct {
		key   string
		class Class
		shape Kind
	}{
		{key: "output", class: ClassOutput, shape: List},
		{key: "in-header-lines", class: ClassAppend, shape: List},
		{key: "in-header-lines-default", class: ClassDefaultList, shape: List},
		{key: "pandoc-options", class: ClassOptions, shape: List},
		{key: "pandoc-options-default", class: ClassDefaultList, shape: List},
		{key: "fontsize", class: ClassVariable, shape: Scalar},
		{key: "geometry", class: ClassVariable, shape: Dict},
		{key: "debug", class: ClassDebug, shape: Dict},
	}
	for _, tt := range tests {
		r, ok := s.Rule(tt.key)
		if !ok {
			t.Errorf("Rule(%q) missing", tt.key)
			continue
		}
		if r.Class != tt.class || r.Shape != tt.shape {
			t.Errorf("Rule(%q) = %+v, want class %d shape %s", tt.key, r, tt.class, tt.shape)
		}
	}

	if _, ok := s.Rule("template"); ok {
		t.Error("keys absent from the defaults must stay unknown")
	}
	if got := s.Default("pandoc-options-default").Items(); !reflect.DeepEqual(got, []string{"--toc"}) {
		t.Errorf("Default(pandoc-options-default) = %q", got)
	}
}

func TestNewSchemaShapeMismatch(t *testing.T) {
	t.Parallel()

	_, err := NewSchema(map[string]any{"debug": []any{"x"}})
	if !errors.Is(err, ErrSettingType) {
		t.Errorf("error = %v, want ErrSettingType", err)
	}
}

func TestLoadSchema(t *testing.T) {
	t.Parallel()

	s, err := LoadSchema([]byte("output: html\ncsl: null\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := s.Default("output").Items(); !reflect.DeepEqual(got, []string{"html"}) {
		t.Errorf("scalar output should normalize to a list, got %q", got)
	}
	if !s.Default("csl").IsNull() {
		t.Error("null default should stay null")
	}
	if want := []string{"csl", "output"}; !reflect.DeepEqual(s.Keys(), want) {
		t.Errorf("Keys() = %q, want %q", s.Keys(), want)
	}

	if _, err := LoadSchema([]byte("- a\n- b\n")); !errors.Is(err, ErrDefaultsParse) {
		t.Errorf("error = %v, want ErrDefaultsParse", err)
	}
}

func TestValueString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		v    Value
		want string
	}{
		{v: NullValue(), want: "null"},
		{v: ScalarValue("pdf"), want: "pdf"},
		{v: ListValue("a", "b"), want: "[a, b]"},
		{v: DictValue(map[string]string{"b": "2", "a": "1"}), want: "{a=1, b=2}"},
	}
	for _, tt := range tests {
		if got := tt.v.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}

	if !ScalarValue("").Empty() || ListValue("x").Empty() {
		t.Error("Empty() misreports")
	}
}
