package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"

	flag "github.com/spf13/pflag"

	panwrap "github.com/alnah/go-panwrap"
	"github.com/alnah/go-panwrap/internal/config"
	"github.com/alnah/go-panwrap/internal/hints"
)

// ErrNoInput is returned when a document command gets no file, or several.
var ErrNoInput = errors.New("expected exactly one document")

// reportedError marks an error the notifier has already shown, so run
// prints only its hint.
type reportedError struct{ error }

func (e reportedError) Unwrap() error { return e.error }

// session is what a document command needs: the processor over the
// document, plus the effective settings and logger.
type session struct {
	path      string
	settings  *config.Settings
	processor *panwrap.Processor
	logger    *slog.Logger
	flags     *commandFlags
	deps      *Dependencies
}

// run executes the CLI and returns the process exit code.
func run(ctx context.Context, args []string, deps *Dependencies) int {
	if len(args) < 2 {
		printUsage(deps.Stderr)
		return ExitUsage
	}

	command, rest := args[1], args[2:]
	switch command {
	case "help", "-h", "--help":
		return runHelp(rest, deps)
	case "version", "--version":
		fmt.Fprintf(deps.Stdout, "panwrap %s\n", Version)
		return ExitSuccess
	case "process", "open", "preview", "watch", "doctor":
	default:
		fmt.Fprintf(deps.Stderr, "Unknown command: %s\n", command)
		printUsage(deps.Stderr)
		return ExitUsage
	}

	flags, positional, err := parseCommandFlags(command, rest, deps.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return ExitSuccess
		}
		fmt.Fprintln(deps.Stderr, err)
		return ExitUsage
	}
	if command == "doctor" {
		if len(positional) != 0 {
			fmt.Fprintf(deps.Stderr, "doctor takes no document, got %d\n", len(positional))
			printCommandUsage(deps.Stderr, command)
			return ExitUsage
		}
		return runDoctor(ctx, flags, deps)
	}
	if len(positional) != 1 {
		fmt.Fprintf(deps.Stderr, "%v, got %d\n", ErrNoInput, len(positional))
		printCommandUsage(deps.Stderr, command)
		return ExitUsage
	}

	s, err := newSession(positional[0], flags, deps)
	if err == nil {
		switch command {
		case "process":
			err = s.process(ctx)
		case "open":
			err = reported(s.processor.Open(ctx))
		case "preview":
			_, err = s.processor.Preview(ctx)
			err = reported(err)
		case "watch":
			err = s.watch(ctx)
		}
	}
	if err != nil {
		printError(deps, err, flags, s)
	}
	return exitCodeFor(err)
}

func reported(err error) error {
	if err == nil {
		return nil
	}
	return reportedError{err}
}

// newSession resolves host settings and wires the processor for path.
func newSession(path string, flags *commandFlags, deps *Dependencies) (*session, error) {
	settings, logger, err := resolveSettings(flags, deps)
	if err != nil {
		return nil, err
	}
	b, err := newBuilder(settings, logger, flags, deps)
	if err != nil {
		return nil, err
	}

	notifier := &termNotifier{w: deps.Stderr, quiet: flags.common.quiet, icons: deps.Icons}
	return &session{
		path:      path,
		settings:  settings,
		processor: panwrap.NewProcessor(b, panwrap.DocumentPath(path), notifier),
		logger:    logger,
		flags:     flags,
		deps:      deps,
	}, nil
}

// resolveSettings applies flags > env > settings file > defaults and
// returns the settings with the logger the run should use.
func resolveSettings(flags *commandFlags, deps *Dependencies) (*config.Settings, *slog.Logger, error) {
	dotenv, err := readDotEnv(deps.DotEnv)
	if err != nil {
		return nil, nil, err
	}
	warnUnknownEnvVars(deps.Stderr, deps.Environ(), dotenv)
	env := loadEnvConfig(deps.Getenv, dotenv)

	logger := newLogger(deps, flags.common, env.LogLevel)

	settings := config.DefaultSettings()
	name := flags.common.config
	if name == "" {
		name = env.ConfigPath
	}
	if name != "" {
		if settings, err = config.LoadSettings(name); err != nil {
			return nil, nil, fmt.Errorf("loading settings: %w", err)
		}
		logger.Debug("settings loaded", "name", name)
	}
	applyEnvConfig(env, settings)
	applyHostFlags(&flags.host, settings)
	settings.ExpandPaths()
	return settings, logger, nil
}

func newBuilder(settings *config.Settings, logger *slog.Logger, flags *commandFlags, deps *Dependencies) (*panwrap.Builder, error) {
	opts := []panwrap.Option{
		panwrap.WithSettings(settings),
		panwrap.WithLogger(logger),
		panwrap.WithClock(deps.Now),
		panwrap.WithEnviron(deps.Environ),
		panwrap.WithKeepTempFiles(flags.keepTemp),
	}
	if deps.Runner != nil {
		opts = append(opts, panwrap.WithRunner(deps.Runner))
	}
	return panwrap.NewBuilder(opts...)
}

func applyHostFlags(f *hostFlags, s *config.Settings) {
	if f.defaultsDir != "" {
		s.DefaultsDir = f.defaultsDir
	}
	if f.converter != "" {
		s.Converter = f.converter
	}
	if f.pdfViewer != "" {
		s.PDFViewer = f.pdfViewer
	}
}

// newLogger logs to stderr. -v means debug, -q means errors only,
// otherwise PANWRAP_LOG_LEVEL or warn.
func newLogger(deps *Dependencies, f commonFlags, envLevel string) *slog.Logger {
	level := slog.LevelWarn
	switch {
	case f.verbose:
		level = slog.LevelDebug
	case f.quiet:
		level = slog.LevelError
	case envLevel != "":
		if l, ok := parseLogLevel(envLevel); ok {
			level = l
		} else {
			fmt.Fprintf(deps.Stderr, "warning: invalid PANWRAP_LOG_LEVEL %q, using warn\n", envLevel)
		}
	}
	return slog.New(slog.NewTextHandler(deps.Stderr, &slog.HandlerOptions{Level: level}))
}

// process runs one build and waits for it.
func (s *session) process(ctx context.Context) error {
	o := <-s.processor.Process(ctx)

	if s.flags.json {
		if err := writeJSON(s.deps.Stdout, newJSONResult(s.path, o.Result, o.Err)); err != nil {
			return fmt.Errorf("writing result: %w", err)
		}
	}
	if o.Err != nil {
		return reported(o.Err)
	}
	if o.Result.WorkDir != "" && !s.flags.common.quiet {
		fmt.Fprintf(s.deps.Stderr, "working directory kept: %s\n", o.Result.WorkDir)
	}
	return reported(o.Result.Err())
}

// printError prints err unless the notifier already did, then any hint.
func printError(deps *Dependencies, err error, flags *commandFlags, s *session) {
	var shown reportedError
	if !errors.As(err, &shown) {
		fmt.Fprintf(deps.Stderr, "error: %v\n", err)
	}
	if h := hintFor(err, flags, s); h != "" {
		fmt.Fprintln(deps.Stderr, h[1:])
	}
}

// hintFor returns an actionable hint for err, or "". s is nil when the
// session could not be set up.
func hintFor(err error, flags *commandFlags, s *session) string {
	var unknown *panwrap.UnknownSettingError
	switch {
	case errors.As(err, &unknown):
		return hints.ForUnknownSetting(unknown.Keys, unknown.Known)
	case errors.Is(err, panwrap.ErrFrontMatterNotFound):
		key := config.DefaultEntryKey
		if s != nil {
			key = s.settings.EntryKey
		}
		return hints.ForFrontMatterNotFound(key)
	case errors.Is(err, panwrap.ErrBibliographyNotFound):
		return hints.ForBibliography()
	case errors.Is(err, panwrap.ErrBuildInProgress):
		return hints.ForBuildInProgress()
	case errors.Is(err, exec.ErrNotFound):
		converter := config.DefaultConverter
		if s != nil {
			converter = s.settings.Converter
		}
		return hints.ForConverterNotFound(converter)
	case errors.Is(err, config.ErrSettingsNotFound):
		name := flags.common.config
		if name == "" {
			name = "panwrap"
		}
		return hints.ForSettingsNotFound(config.SearchPaths(name))
	}
	return ""
}
