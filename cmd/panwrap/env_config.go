package main

import (
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"

	"github.com/joho/godotenv"

	"github.com/alnah/go-panwrap/internal/config"
	"github.com/alnah/go-panwrap/internal/fileutil"
)

const envPrefix = "PANWRAP_"

// envConfig holds host settings taken from environment variables.
// Precedence: flags > env vars > settings file > built-in defaults.
type envConfig struct {
	ConfigPath  string // PANWRAP_CONFIG: settings file name or path
	DefaultsDir string // PANWRAP_DEFAULTS_DIR: defaults directory
	Converter   string // PANWRAP_CONVERTER: converter binary
	PandocPath  string // PANWRAP_PANDOC_PATH: prefixed onto PATH
	TexPath     string // PANWRAP_TEX_PATH: prefixed onto PATH
	Viewer      string // PANWRAP_VIEWER: command used by open
	Locale      string // PANWRAP_LOCALE: forced LANG / LC_ALL
	LogLevel    string // PANWRAP_LOG_LEVEL: debug, info, warn, error
}

// knownEnvVars lists valid PANWRAP_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	"PANWRAP_CONFIG":       true,
	"PANWRAP_DEFAULTS_DIR": true,
	"PANWRAP_CONVERTER":    true,
	"PANWRAP_PANDOC_PATH":  true,
	"PANWRAP_TEX_PATH":     true,
	"PANWRAP_VIEWER":       true,
	"PANWRAP_LOCALE":       true,
	"PANWRAP_LOG_LEVEL":    true,
}

// readDotEnv reads the env files that exist, later files winning. The
// process environment is not modified.
func readDotEnv(files []string) (map[string]string, error) {
	out := map[string]string{}
	for _, f := range files {
		if !fileutil.FileExists(f) {
			continue
		}
		vars, err := godotenv.Read(f)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", f, err)
		}
		for k, v := range vars {
			out[k] = v
		}
	}
	return out, nil
}

// loadEnvConfig reads PANWRAP_* values. A variable set in the process
// environment wins over the same variable from an env file.
func loadEnvConfig(getenv func(string) string, dotenv map[string]string) *envConfig {
	get := func(name string) string {
		if v := getenv(name); v != "" {
			return v
		}
		return dotenv[name]
	}
	return &envConfig{
		ConfigPath:  get("PANWRAP_CONFIG"),
		DefaultsDir: get("PANWRAP_DEFAULTS_DIR"),
		Converter:   get("PANWRAP_CONVERTER"),
		PandocPath:  get("PANWRAP_PANDOC_PATH"),
		TexPath:     get("PANWRAP_TEX_PATH"),
		Viewer:      get("PANWRAP_VIEWER"),
		Locale:      get("PANWRAP_LOCALE"),
		LogLevel:    get("PANWRAP_LOG_LEVEL"),
	}
}

// warnUnknownEnvVars warns about unrecognized PANWRAP_* variables, from
// the environment or an env file. Helps catch typos like PANWRAP_CONVERTOR.
func warnUnknownEnvVars(w io.Writer, environ []string, dotenv map[string]string) {
	seen := map[string]bool{}
	for _, kv := range environ {
		seen[strings.SplitN(kv, "=", 2)[0]] = true
	}
	for k := range dotenv {
		seen[k] = true
	}

	names := make([]string, 0, len(seen))
	for name := range seen {
		if strings.HasPrefix(name, envPrefix) && !knownEnvVars[name] {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(w, "warning: unknown environment variable %s (typo?)\n", name)
	}
}

// applyEnvConfig overlays the env values that are set onto s.
func applyEnvConfig(env *envConfig, s *config.Settings) {
	if env.DefaultsDir != "" {
		s.DefaultsDir = env.DefaultsDir
	}
	if env.Converter != "" {
		s.Converter = env.Converter
	}
	if env.PandocPath != "" {
		s.PandocPath = env.PandocPath
	}
	if env.TexPath != "" {
		s.TexPath = env.TexPath
	}
	if env.Viewer != "" {
		s.PDFViewer = env.Viewer
	}
	if env.Locale != "" {
		s.Locale = env.Locale
	}
}

// parseLogLevel maps a PANWRAP_LOG_LEVEL value to a slog level.
func parseLogLevel(s string) (slog.Level, bool) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelWarn, false
	}
	return l, true
}
