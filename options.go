package panwrap

import (
	"log/slog"
	"time"

	"github.com/alnah/go-panwrap/internal/assets"
	"github.com/alnah/go-panwrap/internal/config"
)

// Settings is the host configuration: converter location, tool search
// paths, viewer commands, locale and defaults directory.
type Settings = config.Settings

// DefaultsLoader reads the defaults files (panwrap.yaml, variables.yaml).
type DefaultsLoader = assets.Loader

// DefaultSettings returns settings for a host with pandoc on PATH.
func DefaultSettings() *Settings { return config.DefaultSettings() }

// LoadSettings loads host settings from a file path or a settings name.
func LoadSettings(nameOrPath string) (*Settings, error) { return config.LoadSettings(nameOrPath) }

// Option configures a Builder.
type Option func(*Builder)

// WithSettings sets the host settings. Nil is ignored.
func WithSettings(s *Settings) Option {
	return func(b *Builder) {
		if s != nil {
			b.settings = s
		}
	}
}

// WithDefaultsLoader replaces the loader built from Settings.DefaultsDir.
func WithDefaultsLoader(l DefaultsLoader) Option {
	return func(b *Builder) { b.loader = l }
}

// WithRunner sets the command runner; tests use it to fake the converter.
func WithRunner(r CommandRunner) Option {
	return func(b *Builder) { b.runner = r }
}

// WithLogger sets the structured logger. Builds log nothing by default.
func WithLogger(l *slog.Logger) Option {
	return func(b *Builder) {
		if l != nil {
			b.logger = l
		}
	}
}

// WithClock sets the time source used for "auto" date variables.
func WithClock(now func() time.Time) Option {
	return func(b *Builder) { b.now = now }
}

// WithEnviron sets the base environment handed to the converter.
func WithEnviron(environ func() []string) Option {
	return func(b *Builder) { b.environ = environ }
}

// WithKeepTempFiles keeps every working directory, whatever the
// document's debug setting says.
func WithKeepTempFiles(keep bool) Option {
	return func(b *Builder) { b.keepTemp = keep }
}
