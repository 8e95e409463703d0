package fileutil_test

// Notes:
// - WithWorkDir MkdirTemp failure: not tested because forcing TMPDIR to an
//   unwritable location would race with parallel tests.
// - CopyFile Close error branch: triggering disk write failures is platform-specific.
// These are acceptable gaps: we test observable behavior, not implementation details.

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alnah/go-panwrap/internal/fileutil"
)

// ---------------------------------------------------------------------------
// TestValidateExtension - Extension validation
// ---------------------------------------------------------------------------

func TestValidateExtension(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		extension string
		wantErr   error
	}{
		{name: "pdf", extension: "pdf"},
		{name: "html", extension: "html"},
		{name: "empty", extension: "", wantErr: fileutil.ErrExtensionEmpty},
		{name: "forward slash", extension: "../etc/passwd", wantErr: fileutil.ErrExtensionPathTraversal},
		{name: "backslash", extension: "..\\windows", wantErr: fileutil.ErrExtensionPathTraversal},
		{name: "null byte", extension: "pdf\x00exe", wantErr: fileutil.ErrExtensionPathTraversal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := fileutil.ValidateExtension(tt.extension)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateExtension(%q) = %v, want %v", tt.extension, err, tt.wantErr)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestExpandHome - Home-relative path expansion
// ---------------------------------------------------------------------------

func TestExpandHome(t *testing.T) {
	t.Parallel()

	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory available")
	}

	tests := []struct {
		in   string
		want string
	}{
		{in: "~", want: home},
		{in: "~/refs/library.bib", want: filepath.Join(home, "refs", "library.bib")},
		{in: "/abs/path.csl", want: "/abs/path.csl"},
		{in: "relative/template.tex", want: "relative/template.tex"},
		{in: "~other/file", want: "~other/file"},
		{in: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()

			if got := fileutil.ExpandHome(tt.in); got != tt.want {
				t.Errorf("ExpandHome(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestSplitSource - Source path decomposition
// ---------------------------------------------------------------------------

func TestSplitSource(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path                string
		dir, base, wantExtn string
	}{
		{path: "/notes/paper.md", dir: "/notes", base: "paper", wantExtn: ".md"},
		{path: "/notes/paper.draft.markdown", dir: "/notes", base: "paper.draft", wantExtn: ".markdown"},
		{path: "README", dir: ".", base: "README", wantExtn: ""},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			t.Parallel()

			dir, base, ext := fileutil.SplitSource(tt.path)
			if dir != tt.dir || base != tt.base || ext != tt.wantExtn {
				t.Errorf("SplitSource(%q) = (%q, %q, %q), want (%q, %q, %q)",
					tt.path, dir, base, ext, tt.dir, tt.base, tt.wantExtn)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestWithWorkDir - Scoped working directory
// ---------------------------------------------------------------------------

func TestWithWorkDir(t *testing.T) {
	t.Parallel()

	t.Run("removed after success", func(t *testing.T) {
		t.Parallel()

		var seen string
		kept, err := fileutil.WithWorkDir("panwrap-test-*", false, func(dir string) error {
			seen = dir
			return os.WriteFile(filepath.Join(dir, "x.txt"), []byte("x"), 0o600)
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if kept != "" {
			t.Errorf("kept = %q, want empty", kept)
		}
		if _, err := os.Stat(seen); !os.IsNotExist(err) {
			t.Errorf("working directory %s still exists", seen)
		}
	})

	t.Run("removed after failure", func(t *testing.T) {
		t.Parallel()

		boom := errors.New("boom")
		var seen string
		_, err := fileutil.WithWorkDir("panwrap-test-*", false, func(dir string) error {
			seen = dir
			return boom
		})
		if !errors.Is(err, boom) {
			t.Fatalf("error = %v, want %v", err, boom)
		}
		if _, err := os.Stat(seen); !os.IsNotExist(err) {
			t.Errorf("working directory %s still exists", seen)
		}
	})

	t.Run("retained on request", func(t *testing.T) {
		t.Parallel()

		var seen string
		kept, err := fileutil.WithWorkDir("panwrap-test-*", true, func(dir string) error {
			seen = dir
			return nil
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		t.Cleanup(func() { _ = os.RemoveAll(kept) })
		if kept != seen {
			t.Errorf("kept = %q, want %q", kept, seen)
		}
		if _, err := os.Stat(kept); err != nil {
			t.Errorf("retained directory missing: %v", err)
		}
	})

	t.Run("unique per call", func(t *testing.T) {
		t.Parallel()

		var a, b string
		_, _ = fileutil.WithWorkDir("panwrap-test-*", false, func(dir string) error {
			a = dir
			_, _ = fileutil.WithWorkDir("panwrap-test-*", false, func(inner string) error {
				b = inner
				return nil
			})
			return nil
		})
		if a == b {
			t.Errorf("nested working directories collide: %s", a)
		}
	})
}

// ---------------------------------------------------------------------------
// TestWriteLines / TestCopyFile - Staging helpers
// ---------------------------------------------------------------------------

func TestWriteLines(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "header.tex")
	if err := fileutil.WriteLines(path, []string{`\usepackage{a}`, `\usepackage{b}`}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if want := "\\usepackage{a}\n\\usepackage{b}\n"; string(got) != want {
		t.Errorf("content = %q, want %q", got, want)
	}
}

func TestCopyFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	src := filepath.Join(dir, "in.bib")
	dst := filepath.Join(dir, "nested", "out.bib")
	if err := os.WriteFile(src, []byte("@book{a,}"), 0o600); err != nil {
		t.Fatal(err)
	}

	if err := fileutil.CopyFile(src, dst); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, err := os.ReadFile(dst)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "@book{a,}" {
		t.Errorf("content = %q", got)
	}

	if err := fileutil.CopyFile(filepath.Join(dir, "missing"), dst); err == nil {
		t.Error("expected error for missing source")
	}
}

// ---------------------------------------------------------------------------
// TestWriteTempFile - Temporary file creation
// ---------------------------------------------------------------------------

func TestWriteTempFile(t *testing.T) {
	t.Parallel()

	path, cleanup, err := fileutil.WriteTempFile("<p>hi</p>", "html")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasSuffix(path, ".html") {
		t.Errorf("path %q should end with .html", path)
	}
	if !fileutil.FileExists(path) {
		t.Fatal("temp file missing")
	}
	cleanup()
	if fileutil.FileExists(path) {
		t.Error("temp file still exists after cleanup")
	}

	if _, _, err := fileutil.WriteTempFile("x", "../x"); !errors.Is(err, fileutil.ErrExtensionPathTraversal) {
		t.Errorf("error = %v, want ErrExtensionPathTraversal", err)
	}
}

// ---------------------------------------------------------------------------
// TestIsFilePath - Name vs path detection
// ---------------------------------------------------------------------------

func TestIsFilePath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want bool
	}{
		{in: "panwrap", want: false},
		{in: "my-settings", want: false},
		{in: "./settings.yaml", want: true},
		{in: "/usr/bin/pandoc", want: true},
		{in: `C:\tools\pandoc.exe`, want: true},
	}
	for _, tt := range tests {
		if got := fileutil.IsFilePath(tt.in); got != tt.want {
			t.Errorf("IsFilePath(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
