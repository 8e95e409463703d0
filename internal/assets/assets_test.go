package assets

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/alnah/go-panwrap/internal/config"
)

func TestLoadLayersEmbedded(t *testing.T) {
	t.Parallel()

	layers, err := LoadLayers(NewEmbeddedLoader())
	if err != nil {
		t.Fatalf("embedded defaults must load: %v", err)
	}
	for _, key := range []string{
		config.KeyOutput, config.KeyTemplate, config.KeyBibliography, config.KeyCSL,
		config.KeyInHeaderLines, config.KeyBeforeBodyLines, config.KeyOptions,
		config.KeyExtraction, config.KeyDebug,
	} {
		if _, ok := layers.Schema.Rule(key); !ok {
			t.Errorf("embedded schema lacks %q", key)
		}
	}
	if got := layers.Schema.Default(config.KeyOutput).Items(); len(got) != 1 || got[0] != "pdf" {
		t.Errorf("default output = %q, want [pdf]", got)
	}
	if _, ok := layers.Variables["lang"]; !ok {
		t.Error("embedded variables lack lang")
	}
	if layers.Dir != "" {
		t.Errorf("Dir = %q, want empty", layers.Dir)
	}
}

func TestLoadLayersCustom(t *testing.T) {
	t.Parallel()

	t.Run("variables fall back", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		writeFile(t, filepath.Join(dir, DefaultsFile), "output: [html, docx]\ncsl: ~/styles/apa.csl\n")
		r, err := NewResolver(dir)
		if err != nil {
			t.Fatal(err)
		}
		layers, err := LoadLayers(r)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, ok := layers.Schema.Rule(config.KeyTemplate); ok {
			t.Error("schema should hold only the custom file's keys")
		}
		if layers.Schema.Default(config.KeyCSL).Str() == "~/styles/apa.csl" {
			t.Error("csl default should be home-expanded")
		}
		if _, ok := layers.Variables["lang"]; !ok {
			t.Error("embedded variables.yaml should fill in")
		}
		if layers.Dir != r.Dir() {
			t.Errorf("Dir = %q, want %q", layers.Dir, r.Dir())
		}
	})

	t.Run("malformed defaults", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		writeFile(t, filepath.Join(dir, DefaultsFile), "- not\n- a mapping\n")
		r, err := NewResolver(dir)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := LoadLayers(r); !errors.Is(err, config.ErrDefaultsParse) {
			t.Errorf("error = %v, want ErrDefaultsParse", err)
		}
	})

	t.Run("malformed variables", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		writeFile(t, filepath.Join(dir, DefaultsFile), "output: pdf\n")
		writeFile(t, filepath.Join(dir, VariablesFile), "just a string\n")
		r, err := NewResolver(dir)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := LoadLayers(r); !errors.Is(err, config.ErrDefaultsParse) {
			t.Errorf("error = %v, want ErrDefaultsParse", err)
		}
	})
}
