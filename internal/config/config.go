// Package config resolves the layered build settings for a document.
//
// Three layers feed a build. Host settings (Settings) describe the machine:
// where the converter and TeX live, which viewer opens results. The defaults
// file defines every per-document setting a document may override, and so
// fixes the Schema. The document's own front matter entry overrides those
// defaults key by key, each key merged according to its Class.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/alnah/go-panwrap/internal/fileutil"
	"github.com/alnah/go-panwrap/internal/yamlutil"
)

// Sentinel errors for host settings.
var (
	ErrSettingsNotFound  = errors.New("settings file not found")
	ErrEmptySettingsName = errors.New("settings name cannot be empty")
	ErrSettingsParse     = errors.New("failed to parse settings")
	ErrInvalidLocale     = errors.New("locale must be a UTF-8 locale")
)

// Built-in host defaults.
const (
	DefaultConverter = "pandoc"
	DefaultLocale    = "en_US.UTF-8"
	DefaultEntryKey  = "panwrap_"
	settingsDirName  = "panwrap"
)

// Settings holds host-level configuration, the equivalent of an editor
// plugin's settings file.
type Settings struct {
	Converter   string `yaml:"converter"`    // converter binary name or path
	PandocPath  string `yaml:"pandoc_path"`  // directory prefixed onto PATH
	TexPath     string `yaml:"tex_path"`     // directory prefixed onto PATH, before PandocPath
	PDFViewer   string `yaml:"pdf_viewer"`   // command used by "open", e.g. "xdg-open"
	Preview     string `yaml:"preview"`      // command used by "preview"; empty = built-in HTML preview
	DefaultsDir string `yaml:"defaults_dir"` // directory with panwrap.yaml / variables.yaml; empty = embedded
	Locale      string `yaml:"locale"`       // forced into LANG and LC_ALL
	EntryKey    string `yaml:"entry_key"`    // front matter key holding the settings
}

// DefaultSettings returns settings that work on a typical Unix host with
// pandoc on PATH.
func DefaultSettings() *Settings {
	return &Settings{
		Converter: DefaultConverter,
		PDFViewer: defaultViewer(),
		Locale:    DefaultLocale,
		EntryKey:  DefaultEntryKey,
	}
}

// Validate checks settings after loading or after flag and env overrides.
func (s *Settings) Validate() error {
	if strings.TrimSpace(s.Converter) == "" {
		return fmt.Errorf("%w: converter: must not be empty", ErrSettingsParse)
	}
	if strings.TrimSpace(s.EntryKey) == "" {
		return fmt.Errorf("%w: entry_key: must not be empty", ErrSettingsParse)
	}
	if s.Locale != "" {
		l := strings.ToLower(s.Locale)
		if !strings.Contains(l, "utf-8") && !strings.Contains(l, "utf8") {
			return fmt.Errorf("%w: %q", ErrInvalidLocale, s.Locale)
		}
	}
	return nil
}

// ExpandPaths expands "~" in every path-valued field.
func (s *Settings) ExpandPaths() {
	s.PandocPath = fileutil.ExpandHome(s.PandocPath)
	s.TexPath = fileutil.ExpandHome(s.TexPath)
	s.DefaultsDir = fileutil.ExpandHome(s.DefaultsDir)
	if fileutil.IsFilePath(s.Converter) {
		s.Converter = fileutil.ExpandHome(s.Converter)
	}
}

// LoadSettings loads settings from a file path or a settings name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise it is searched in the current directory, then in
// ~/.config/panwrap/. Fields absent from the file keep their defaults;
// unknown fields are rejected.
func LoadSettings(nameOrPath string) (*Settings, error) {
	if nameOrPath == "" {
		return nil, ErrEmptySettingsName
	}

	var path string
	var err error
	if fileutil.IsFilePath(nameOrPath) {
		path = fileutil.ExpandHome(nameOrPath)
	} else {
		path, err = resolveSettingsPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(path) // #nosec G304 -- settings path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrSettingsNotFound, path)
		}
		return nil, fmt.Errorf("reading settings file: %w", err)
	}

	s := DefaultSettings()
	if len(strings.TrimSpace(string(data))) > 0 {
		if err := yamlutil.UnmarshalStrict(data, s); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrSettingsParse, err)
		}
	}
	s.ExpandPaths()

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// SearchPaths returns the candidate files for a settings name, in lookup order.
func SearchPaths(name string) []string {
	extensions := []string{".yaml", ".yml"}
	paths := make([]string, 0, len(extensions)*2)
	for _, ext := range extensions {
		paths = append(paths, name+ext)
	}
	if dir, err := os.UserConfigDir(); err == nil {
		for _, ext := range extensions {
			paths = append(paths, filepath.Join(dir, settingsDirName, name+ext))
		}
	}
	return paths
}

func resolveSettingsPath(name string) (string, error) {
	tried := SearchPaths(name)
	for _, p := range tried {
		if fileutil.FileExists(p) {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: tried %s", ErrSettingsNotFound, strings.Join(tried, ", "))
}

func defaultViewer() string {
	switch runtime.GOOS {
	case "darwin":
		return "open"
	case "windows":
		return "cmd /c start"
	default:
		return "xdg-open"
	}
}
