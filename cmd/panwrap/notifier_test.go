package main

import (
	"bytes"
	"errors"
	"testing"
	"time"

	panwrap "github.com/alnah/go-panwrap"
)

// ---------------------------------------------------------------------------
// TestTermNotifier - Status lines
// ---------------------------------------------------------------------------

func TestTermNotifier(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		quiet   bool
		icons   bool
		message string
		kind    panwrap.Kind
		want    string
	}{
		{name: "working", message: "building a.md", kind: panwrap.KindWorking, want: "building a.md...\n"},
		{name: "clear prints nothing", kind: panwrap.KindClear, want: ""},
		{name: "success", message: "wrote file: a.pdf", kind: panwrap.KindSuccess, want: "[SUCCESS] wrote file: a.pdf\n"},
		{name: "error", message: "1 error(s)", kind: panwrap.KindError, want: "[ERROR] 1 error(s)\n"},
		{name: "success icon", icons: true, message: "wrote file: a.pdf", kind: panwrap.KindSuccess, want: "✅ wrote file: a.pdf\n"},
		{name: "error icon", icons: true, message: "1 error(s)", kind: panwrap.KindError, want: "❌ 1 error(s)\n"},
		{name: "info", message: "build already running", kind: panwrap.KindInfo, want: "build already running\n"},
		{name: "quiet hides success", quiet: true, message: "wrote file: a.pdf", kind: panwrap.KindSuccess, want: ""},
		{name: "quiet keeps errors", quiet: true, message: "1 error(s)", kind: panwrap.KindError, want: "[ERROR] 1 error(s)\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			n := &termNotifier{w: &buf, quiet: tt.quiet, icons: tt.icons}
			n.Report(tt.message, tt.kind)
			if got := buf.String(); got != tt.want {
				t.Errorf("output = %q, want %q", got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestNewJSONResult - --json rendering
// ---------------------------------------------------------------------------

func TestNewJSONResult(t *testing.T) {
	t.Parallel()

	t.Run("aborted build", func(t *testing.T) {
		t.Parallel()

		got := newJSONResult("a.md", nil, panwrap.ErrFrontMatterNotFound)
		if got.Success || got.Error == "" || got.Source != "a.md" || got.Files == nil {
			t.Errorf("result = %+v", got)
		}
	})

	t.Run("partial failure", func(t *testing.T) {
		t.Parallel()

		res := &panwrap.BuildResult{
			ID:       "id-1",
			Source:   "/docs/a.md",
			Files:    []string{"a.html"},
			Errors:   []int{43},
			Failures: []*panwrap.InvocationError{{Format: "pdf", Code: 43, Output: "no latex", Err: errors.New("exit status 43")}},
			Duration: 1500 * time.Millisecond,
		}
		got := newJSONResult("a.md", res, nil)
		if got.Success {
			t.Error("Success = true with a failed format")
		}
		if got.Summary != "1 error(s)" || got.DurationMS != 1500 || got.Source != "/docs/a.md" {
			t.Errorf("result = %+v", got)
		}
		if len(got.Failures) != 1 || got.Failures[0] != (jsonFailure{Format: "pdf", Code: 43, Output: "no latex"}) {
			t.Errorf("Failures = %+v", got.Failures)
		}
	})
}

// ---------------------------------------------------------------------------
// TestRunHelp - Help output
// ---------------------------------------------------------------------------

func TestRunHelp(t *testing.T) {
	t.Parallel()

	for _, command := range []string{"process", "open", "preview", "watch", "doctor"} {
		t.Run(command, func(t *testing.T) {
			t.Parallel()

			deps, stdout, _ := testDeps(&fakeRunner{}, nil)
			if code := runHelp([]string{command}, deps); code != ExitSuccess {
				t.Errorf("exit code = %d", code)
			}
			if !bytes.Contains(stdout.Bytes(), []byte("Usage: panwrap "+command)) {
				t.Errorf("stdout = %q", stdout)
			}
		})
	}
}
