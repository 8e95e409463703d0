package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"
	"time"

	panwrap "github.com/alnah/go-panwrap"
	"github.com/alnah/go-panwrap/internal/assets"
	"github.com/alnah/go-panwrap/internal/config"
	"github.com/alnah/go-panwrap/internal/hints"
)

// Diagnosis states.
const (
	statusReady    = "ready"
	statusWarnings = "warnings"
	statusErrors   = "errors"
)

// versionTimeout bounds the "<converter> --version" call.
const versionTimeout = 10 * time.Second

// texEngines are the PDF engines pandoc drives by default, in preference order.
var texEngines = []string{"xelatex", "lualatex", "pdflatex"}

// doctorResult holds all diagnostic information.
type doctorResult struct {
	Status    string        `json:"status"`
	Converter converterInfo `json:"converter"`
	TeX       texInfo       `json:"tex"`
	Viewer    toolInfo      `json:"viewer"`
	Defaults  defaultsInfo  `json:"defaults"`
	Env       envInfo       `json:"environment"`
	Warnings  []string      `json:"warnings,omitempty"`
	Errors    []string      `json:"errors,omitempty"`
}

type converterInfo struct {
	Name    string `json:"name"`
	Path    string `json:"path,omitempty"`
	Version string `json:"version,omitempty"`
}

type texInfo struct {
	Dir    string `json:"tex_path,omitempty"`
	Engine string `json:"engine,omitempty"`
	Path   string `json:"path,omitempty"`
}

type toolInfo struct {
	Command string `json:"command"`
	Path    string `json:"path,omitempty"`
}

type defaultsInfo struct {
	Source   string `json:"source"`
	Settings int    `json:"settings"`
}

type envInfo struct {
	OS           string `json:"os"`
	Arch         string `json:"arch"`
	Container    bool   `json:"container"`
	Locale       string `json:"locale"`
	TempWritable bool   `json:"temp_writable"`
}

func (r *doctorResult) warn(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

func (r *doctorResult) fail(format string, args ...any) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

// runDoctor executes the doctor command and returns an exit code.
// Exit codes: 0 = OK (including warnings), 1 = errors found.
func runDoctor(ctx context.Context, flags *commandFlags, deps *Dependencies) int {
	settings, logger, err := resolveSettings(flags, deps)
	if err != nil {
		printError(deps, err, flags, nil)
		return exitCodeFor(err)
	}
	b, err := newBuilder(settings, logger, flags, deps)
	if err != nil {
		printError(deps, err, flags, nil)
		return exitCodeFor(err)
	}

	runner := deps.Runner
	if runner == nil {
		runner = panwrap.ExecRunner{}
	}
	result := diagnose(ctx, b, runner)

	if flags.json {
		if err := writeJSON(deps.Stdout, result); err != nil {
			fmt.Fprintf(deps.Stderr, "error: writing diagnosis: %v\n", err)
			return ExitGeneral
		}
	} else {
		printDoctorResult(deps.Stdout, result)
	}

	if result.Status == statusErrors {
		return ExitGeneral
	}
	return ExitSuccess
}

// diagnose performs all checks against the settings b was built with.
func diagnose(ctx context.Context, b *panwrap.Builder, runner panwrap.CommandRunner) *doctorResult {
	s := b.Settings()
	env := b.Environ()
	result := &doctorResult{
		Status: statusReady,
		Env: envInfo{
			OS:        runtime.GOOS,
			Arch:      runtime.GOARCH,
			Container: hints.IsInContainer(),
			Locale:    s.Locale,
		},
	}

	checkConverter(ctx, result, s, env, runner)
	checkTeX(result, s, env)
	checkViewer(result, s, env)
	checkDefaults(result, b.Defaults())
	checkTemp(result)

	switch {
	case len(result.Errors) > 0:
		result.Status = statusErrors
	case len(result.Warnings) > 0:
		result.Status = statusWarnings
	}
	return result
}

func checkConverter(ctx context.Context, result *doctorResult, s *config.Settings, env []string, runner panwrap.CommandRunner) {
	result.Converter.Name = s.Converter
	path, err := panwrap.LookPath(s.Converter, env)
	if err != nil {
		result.fail("converter %q not found; set pandoc_path or PANWRAP_PANDOC_PATH", s.Converter)
		return
	}
	result.Converter.Path = path

	ctx, cancel := context.WithTimeout(ctx, versionTimeout)
	defer cancel()
	out, err := runner.Run(ctx, panwrap.Command{Name: path, Args: []string{"--version"}, Env: env})
	if err != nil {
		result.warn("could not get converter version: %v", err)
		return
	}
	first, _, _ := strings.Cut(strings.TrimSpace(string(out)), "\n")
	result.Converter.Version = strings.TrimSpace(first)
}

func checkTeX(result *doctorResult, s *config.Settings, env []string) {
	result.TeX.Dir = s.TexPath
	if s.TexPath != "" {
		if info, err := os.Stat(s.TexPath); err != nil || !info.IsDir() {
			result.warn("tex_path %s is not a directory", s.TexPath)
		}
	}
	for _, engine := range texEngines {
		if path, err := panwrap.LookPath(engine, env); err == nil {
			result.TeX.Engine = engine
			result.TeX.Path = path
			return
		}
	}
	result.warn("no TeX engine found (%s); pdf output will fail", strings.Join(texEngines, ", "))
}

func checkViewer(result *doctorResult, s *config.Settings, env []string) {
	result.Viewer.Command = s.PDFViewer
	fields := strings.Fields(s.PDFViewer)
	if len(fields) == 0 {
		result.warn("no pdf_viewer set; open and preview will fail")
		return
	}
	path, err := panwrap.LookPath(fields[0], env)
	if err != nil {
		result.warn("viewer %q not found", fields[0])
		return
	}
	result.Viewer.Path = path
}

func checkDefaults(result *doctorResult, l panwrap.DefaultsLoader) {
	result.Defaults.Source = "embedded"
	if dir := l.Dir(); dir != "" {
		result.Defaults.Source = dir
	}
	layers, err := assets.LoadLayers(l)
	if err != nil {
		result.fail("defaults: %v", err)
		return
	}
	result.Defaults.Settings = len(layers.Schema.Keys())
}

func checkTemp(result *doctorResult) {
	f, err := os.CreateTemp("", "panwrap-doctor-*")
	if err != nil {
		result.fail("temp directory not writable: %s", os.TempDir())
		return
	}
	_ = f.Close()
	_ = os.Remove(f.Name())
	result.Env.TempWritable = true
}

// printDoctorResult outputs human-readable diagnostic results.
func printDoctorResult(w io.Writer, r *doctorResult) {
	fmt.Fprintln(w, "panwrap doctor")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Converter")
	if r.Converter.Path != "" {
		fmt.Fprintf(w, "  [OK] Found at %s\n", r.Converter.Path)
		if r.Converter.Version != "" {
			fmt.Fprintf(w, "  [OK] Version: %s\n", r.Converter.Version)
		}
	} else {
		fmt.Fprintf(w, "  [ERROR] %s not found\n", r.Converter.Name)
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "TeX")
	if r.TeX.Engine != "" {
		fmt.Fprintf(w, "  [OK] %s at %s\n", r.TeX.Engine, r.TeX.Path)
	} else {
		fmt.Fprintln(w, "  [WARN] No engine found")
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Viewer")
	if r.Viewer.Path != "" {
		fmt.Fprintf(w, "  [OK] %s\n", r.Viewer.Path)
	} else {
		fmt.Fprintf(w, "  [WARN] %q not found\n", r.Viewer.Command)
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Defaults")
	if r.Defaults.Settings > 0 {
		fmt.Fprintf(w, "  [OK] %d settings from %s\n", r.Defaults.Settings, r.Defaults.Source)
	} else {
		fmt.Fprintf(w, "  [ERROR] Could not load %s\n", r.Defaults.Source)
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Environment")
	fmt.Fprintf(w, "  [OK] Platform: %s/%s\n", r.Env.OS, r.Env.Arch)
	fmt.Fprintf(w, "  [OK] Locale: %s\n", r.Env.Locale)
	if r.Env.Container {
		fmt.Fprintln(w, "  [OK] Container: detected")
	}
	if r.Env.TempWritable {
		fmt.Fprintln(w, "  [OK] Temp directory: writable")
	} else {
		fmt.Fprintln(w, "  [ERROR] Temp directory: not writable")
	}
	fmt.Fprintln(w)

	if len(r.Warnings) > 0 {
		fmt.Fprintln(w, "Warnings:")
		for _, warn := range r.Warnings {
			fmt.Fprintf(w, "  [WARN] %s\n", warn)
		}
		fmt.Fprintln(w)
	}
	if len(r.Errors) > 0 {
		fmt.Fprintln(w, "Errors:")
		for _, err := range r.Errors {
			fmt.Fprintf(w, "  [ERROR] %s\n", err)
		}
		fmt.Fprintln(w)
	}

	switch r.Status {
	case statusReady:
		fmt.Fprintln(w, "Status: Ready to build")
	case statusWarnings:
		fmt.Fprintln(w, "Status: Ready with warnings")
	case statusErrors:
		fmt.Fprintln(w, "Status: Not ready (see errors above)")
	}
}
