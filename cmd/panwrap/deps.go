package main

import (
	"io"
	"os"
	"runtime"
	"time"

	panwrap "github.com/alnah/go-panwrap"
)

// Dependencies holds injectable dependencies for testability.
type Dependencies struct {
	Now     func() time.Time
	Stdout  io.Writer
	Stderr  io.Writer
	Getenv  func(string) string
	Environ func() []string
	// Runner runs the converter and viewers; nil means panwrap.ExecRunner.
	Runner panwrap.CommandRunner
	// Icons selects emoji status markers instead of bracketed words.
	Icons bool
	// DotEnv names the env files loaded before reading PANWRAP_* variables.
	DotEnv []string
}

// DefaultDeps returns production dependencies.
func DefaultDeps() *Dependencies {
	return &Dependencies{
		Now:     time.Now,
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
		Getenv:  os.Getenv,
		Environ: os.Environ,
		Icons:   runtime.GOOS == "darwin",
		DotEnv:  []string{".env"},
	}
}
