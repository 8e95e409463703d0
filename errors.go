package panwrap

import (
	"errors"
	"fmt"

	"github.com/alnah/go-panwrap/internal/bibtex"
	"github.com/alnah/go-panwrap/internal/config"
	"github.com/alnah/go-panwrap/internal/frontmatter"
)

// Sentinel errors for build operations.
var (
	ErrBuildInProgress     = errors.New("a build is already running")
	ErrConverterInvocation = errors.New("converter invocation failed")
	ErrSourceRead          = errors.New("failed to read source document")
	ErrInvalidOutput       = errors.New("invalid output format")
	ErrNoDocument          = errors.New("no current document")
	ErrOutputNotFound      = errors.New("output file not found; process the document first")
	ErrNoViewer            = errors.New("no viewer command configured")

	// Resolution errors, re-exported so callers need not import internal packages.
	ErrMalformedBlock       = frontmatter.ErrMalformedBlock
	ErrFrontMatterNotFound  = frontmatter.ErrFrontMatterNotFound
	ErrUnknownSetting       = config.ErrUnknownSetting
	ErrSettingType          = config.ErrSettingType
	ErrVariablesLoad        = config.ErrVariablesLoad
	ErrDefaultsParse        = config.ErrDefaultsParse
	ErrNoDefaultsDir        = config.ErrNoDefaultsDir
	ErrBibliographyNotFound = bibtex.ErrBibliographyNotFound
)

// UnknownSettingError lists the document keys the defaults do not define.
type UnknownSettingError = config.UnknownSettingError

// InvocationError records one output format whose converter run failed.
// It matches ErrConverterInvocation with errors.Is.
type InvocationError struct {
	Format string
	// Code is the exit status, or -1 when the process could not be started
	// or was killed by a signal.
	Code   int
	Output string
	Err    error
}

func (e *InvocationError) Error() string {
	return fmt.Sprintf("%s: %s: exit status %d", ErrConverterInvocation, e.Format, e.Code)
}

// Unwrap exposes both the sentinel and the underlying process error.
func (e *InvocationError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrConverterInvocation}
	}
	return []error{ErrConverterInvocation, e.Err}
}
