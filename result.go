package panwrap

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// BuildResult summarizes one build.
type BuildResult struct {
	// ID identifies the build; it also names the working directory.
	ID     string
	Source string
	// Files lists the outputs written, as file names in the document directory.
	Files []string
	// Errors holds the exit status of each failed format, in order.
	Errors   []int
	Failures []*InvocationError
	// WorkDir is set only when the working directory was kept for inspection.
	WorkDir string
	// Extracted is the kept bibliography subset, if any.
	Extracted string
	// Missing lists cited keys absent from the bibliography.
	Missing  []string
	Duration time.Duration
}

// Success reports whether every requested format was produced.
func (r *BuildResult) Success() bool { return len(r.Errors) == 0 }

// Err joins the per-format failures, or returns nil.
func (r *BuildResult) Err() error {
	if r.Success() {
		return nil
	}
	errs := make([]error, len(r.Failures))
	for i, f := range r.Failures {
		errs[i] = f
	}
	return errors.Join(errs...)
}

// Summary is the one-line outcome shown to the user.
func (r *BuildResult) Summary() string {
	if !r.Success() {
		return fmt.Sprintf("%d error(s)", len(r.Errors))
	}
	s := ""
	if len(r.Files) > 1 {
		s = "s"
	}
	return fmt.Sprintf("wrote file%s: %s", s, strings.Join(r.Files, ", "))
}
