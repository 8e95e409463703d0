package main

// Notes:
// - exitCodeFor: we test the sentinel errors of every class, plus wrapped
//   and reported errors to verify the errors.Is() chain.
// - Exit code constants: we verify Unix conventions (0=success, 1=general, 2=usage)
//   and custom codes are below 126.
// These are acceptable gaps: we test observable behavior, not implementation details.

import (
	"errors"
	"fmt"
	"os"
	"testing"

	panwrap "github.com/alnah/go-panwrap"
	"github.com/alnah/go-panwrap/internal/config"
)

// ---------------------------------------------------------------------------
// TestExitCodeFor - Error to exit code mapping
// ---------------------------------------------------------------------------

func TestExitCodeFor(t *testing.T) {
	t.Parallel()

	invocation := &panwrap.InvocationError{Format: "pdf", Code: 43}

	tests := []struct {
		name string
		err  error
		want int
	}{
		// Success
		{"nil error", nil, ExitSuccess},

		// Converter errors (exit 4)
		{"converter invocation", panwrap.ErrConverterInvocation, ExitConverter},
		{"invocation error", invocation, ExitConverter},
		{"joined failures", errors.Join(invocation, &panwrap.InvocationError{Format: "html"}), ExitConverter},
		{"reported failure", reportedError{invocation}, ExitConverter},

		// I/O errors (exit 3)
		{"source read", panwrap.ErrSourceRead, ExitIO},
		{"bibliography", fmt.Errorf("staging: %w", panwrap.ErrBibliographyNotFound), ExitIO},
		{"output not found", panwrap.ErrOutputNotFound, ExitIO},
		{"file not exist", os.ErrNotExist, ExitIO},
		{"permission denied", os.ErrPermission, ExitIO},

		// Usage/config errors (exit 2)
		{"no input", ErrNoInput, ExitUsage},
		{"no document", panwrap.ErrNoDocument, ExitUsage},
		{"front matter not found", panwrap.ErrFrontMatterNotFound, ExitUsage},
		{"unknown setting", &panwrap.UnknownSettingError{Keys: []string{"x"}}, ExitUsage},
		{"setting type", panwrap.ErrSettingType, ExitUsage},
		{"variables load", panwrap.ErrVariablesLoad, ExitUsage},
		{"defaults parse", panwrap.ErrDefaultsParse, ExitUsage},
		{"no defaults dir", panwrap.ErrNoDefaultsDir, ExitUsage},
		{"invalid output", panwrap.ErrInvalidOutput, ExitUsage},
		{"settings not found", fmt.Errorf("loading settings: %w", config.ErrSettingsNotFound), ExitUsage},
		{"settings parse", config.ErrSettingsParse, ExitUsage},
		{"invalid locale", config.ErrInvalidLocale, ExitUsage},

		// General errors (exit 1)
		{"build in progress", panwrap.ErrBuildInProgress, ExitGeneral},
		{"unknown error", errors.New("something else"), ExitGeneral},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := exitCodeFor(tt.err); got != tt.want {
				t.Errorf("exitCodeFor(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestExitCodeConstants(t *testing.T) {
	t.Parallel()

	if ExitSuccess != 0 || ExitGeneral != 1 || ExitUsage != 2 {
		t.Error("exit codes must follow Unix conventions")
	}
	for _, code := range []int{ExitIO, ExitConverter} {
		if code >= 126 {
			t.Errorf("exit code %d collides with shell-reserved codes", code)
		}
	}
}
