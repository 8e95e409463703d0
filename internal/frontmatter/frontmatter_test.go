package frontmatter_test

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/alnah/go-panwrap/internal/frontmatter"
)

// ---------------------------------------------------------------------------
// TestFindBlocks - Line-based block scanning
// ---------------------------------------------------------------------------

func TestFindBlocks(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		text string
		want []frontmatter.Block
	}{
		{
			name: "no blocks",
			text: "# Title\n\nBody text.\n",
			want: nil,
		},
		{
			name: "single block",
			text: "---\ntitle: A\n---\nBody\n",
			want: []frontmatter.Block{{"title: A"}},
		},
		{
			name: "dots close a block",
			text: "---\ntitle: A\nauthor: B\n...\nBody\n",
			want: []frontmatter.Block{{"title: A", "author: B"}},
		},
		{
			name: "several blocks in order",
			text: "---\na: 1\n---\ntext\n---\nb: 2\n...\nmore\n---\nc: 3\n---\n",
			want: []frontmatter.Block{{"a: 1"}, {"b: 2"}, {"c: 3"}},
		},
		{
			name: "unterminated trailing block is dropped",
			text: "---\na: 1\n---\nbody\n---\nb: 2\n",
			want: []frontmatter.Block{{"a: 1"}},
		},
		{
			name: "end marker outside a block is ignored",
			text: "...\nbody\n---\na: 1\n---\n",
			want: []frontmatter.Block{{"a: 1"}},
		},
		{
			name: "empty block",
			text: "---\n---\n",
			want: []frontmatter.Block{{}},
		},
		{
			name: "CRLF line endings",
			text: "---\r\na: 1\r\n---\r\n",
			want: []frontmatter.Block{{"a: 1"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := frontmatter.FindBlocks(tt.text, frontmatter.StartMarkers, frontmatter.EndMarkers)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("FindBlocks() = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestFindBlocks_CustomMarkers(t *testing.T) {
	t.Parallel()

	text := "<!--\nkey: val\n-->\nbody\n"
	got := frontmatter.FindBlocks(text, []string{"<!--"}, []string{"-->"})
	want := []frontmatter.Block{{"key: val"}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("FindBlocks() = %#v, want %#v", got, want)
	}
}

func TestUnterminated(t *testing.T) {
	t.Parallel()

	if frontmatter.Unterminated("---\na: 1\n---\n", frontmatter.StartMarkers, frontmatter.EndMarkers) {
		t.Error("closed block reported as unterminated")
	}
	if !frontmatter.Unterminated("---\na: 1\n", frontmatter.StartMarkers, frontmatter.EndMarkers) {
		t.Error("open block not reported")
	}
}

// ---------------------------------------------------------------------------
// TestLoad - Block decoding and path expansion
// ---------------------------------------------------------------------------

func TestLoad(t *testing.T) {
	t.Parallel()

	t.Run("mapping decodes", func(t *testing.T) {
		t.Parallel()

		m, err := frontmatter.Load(frontmatter.Block{"title: Report", "output: [pdf, html]"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if m["title"] != "Report" {
			t.Errorf("title = %v", m["title"])
		}
	})

	t.Run("path keys expanded", func(t *testing.T) {
		t.Parallel()

		home, err := os.UserHomeDir()
		if err != nil {
			t.Skip("no home directory")
		}
		m, err := frontmatter.Load(frontmatter.Block{"bibliography: ~/refs.bib", "title: ~/not-a-path"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if want := filepath.Join(home, "refs.bib"); m["bibliography"] != want {
			t.Errorf("bibliography = %v, want %v", m["bibliography"], want)
		}
		if m["title"] != "~/not-a-path" {
			t.Errorf("non-path key was expanded: %v", m["title"])
		}
	})

	malformed := []struct {
		name  string
		block frontmatter.Block
	}{
		{name: "empty", block: frontmatter.Block{}},
		{name: "syntax error", block: frontmatter.Block{"a: [unclosed"}},
		{name: "plain prose", block: frontmatter.Block{"This is just a horizontal-rule section."}},
		{name: "sequence", block: frontmatter.Block{"- a", "- b"}},
	}
	for _, tt := range malformed {
		t.Run("malformed "+tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := frontmatter.Load(tt.block)
			if !errors.Is(err, frontmatter.ErrMalformedBlock) {
				t.Errorf("error = %v, want ErrMalformedBlock", err)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestFind - Entry key lookup across blocks
// ---------------------------------------------------------------------------

func TestFind(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		text    string
		want    map[string]any
		wantErr error
	}{
		{
			name:    "no front matter at all",
			text:    "# Title\n\nJust text.\n",
			wantErr: frontmatter.ErrFrontMatterNotFound,
		},
		{
			name:    "block without entry key",
			text:    "---\ntitle: A\n---\nbody\n",
			wantErr: frontmatter.ErrFrontMatterNotFound,
		},
		{
			name: "entry in first block",
			text: "---\ntitle: A\npanwrap_:\n  output: html\n---\nbody\n",
			want: map[string]any{"output": "html"},
		},
		{
			name: "malformed block skipped",
			text: "---\nnot: [valid\n---\n---\npanwrap_:\n  output: pdf\n---\n",
			want: map[string]any{"output": "pdf"},
		},
		{
			name: "first matching block wins",
			text: "---\npanwrap_:\n  output: pdf\n---\n---\npanwrap_:\n  output: html\n---\n",
			want: map[string]any{"output": "pdf"},
		},
		{
			name: "null entry is empty",
			text: "---\npanwrap_:\n---\n",
			want: map[string]any{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := frontmatter.Find(tt.text, "panwrap_")
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Find() = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestFind_EntryNotMapping(t *testing.T) {
	t.Parallel()

	_, err := frontmatter.Find("---\npanwrap_: yes please\n---\n", "panwrap_")
	if !errors.Is(err, frontmatter.ErrMalformedBlock) {
		t.Errorf("error = %v, want ErrMalformedBlock", err)
	}
}

// ---------------------------------------------------------------------------
// TestCompose - Working copy with trailing variables block
// ---------------------------------------------------------------------------

func TestCompose(t *testing.T) {
	t.Parallel()

	src := []byte("---\ntitle: A\n---\nBody.\n")
	vars := map[string]any{"papersize": "a4", "fontsize": "11pt"}

	out, err := frontmatter.Compose(src, vars)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s := string(out)
	if !strings.HasPrefix(s, string(src)) {
		t.Error("source must be preserved verbatim at the start")
	}
	if !strings.HasSuffix(s, "---\n") {
		t.Errorf("missing closing delimiter:\n%s", s)
	}

	blocks := frontmatter.FindBlocks(s, frontmatter.StartMarkers, frontmatter.EndMarkers)
	if len(blocks) != 2 {
		t.Fatalf("blocks = %d, want 2:\n%s", len(blocks), s)
	}
	m, err := frontmatter.Load(blocks[1])
	if err != nil {
		t.Fatalf("appended block does not parse: %v", err)
	}
	if m["papersize"] != "a4" || m["fontsize"] != "11pt" {
		t.Errorf("appended variables = %v", m)
	}
	if strings.Index(s, "fontsize") > strings.Index(s, "papersize") {
		t.Error("variables should be emitted in sorted key order")
	}
}

func TestCompose_Separation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		source string
		vars   map[string]any
		want   string
	}{
		{name: "empty variables", source: "Body\n", want: "Body\n\n---\n{}\n---\n"},
		{name: "no trailing newline", source: "---\npanwrap_:\n---\nlast line", want: "---\npanwrap_:\n---\nlast line\n\n---\n{}\n---\n"},
		{name: "no trailing newline with variables", source: "last line", vars: map[string]any{"lang": "en"}, want: "last line\n\n---\nlang: en\n---\n"},
		{name: "empty source", source: "", want: "\n---\n{}\n---\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			out, err := frontmatter.Compose([]byte(tt.source), tt.vars)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if string(out) != tt.want {
				t.Errorf("Compose() = %q, want %q", out, tt.want)
			}

			blocks := frontmatter.FindBlocks(string(out), frontmatter.StartMarkers, frontmatter.EndMarkers)
			m, err := frontmatter.Load(blocks[len(blocks)-1])
			if err != nil {
				t.Fatalf("appended block does not parse: %v", err)
			}
			if len(m) != len(tt.vars) {
				t.Errorf("appended block = %v, want %v", m, tt.vars)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestStrip - Leading block removal
// ---------------------------------------------------------------------------

func TestStrip(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "leading block removed", in: "---\na: 1\n---\n# Body\n", want: "# Body\n"},
		{name: "dots terminator", in: "---\na: 1\n...\ntext", want: "text"},
		{name: "no block", in: "# Body\n", want: "# Body\n"},
		{name: "unterminated kept", in: "---\na: 1\n", want: "---\na: 1\n"},
		{name: "block not at top kept", in: "text\n---\na: 1\n---\n", want: "text\n---\na: 1\n---\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := frontmatter.Strip(tt.in); got != tt.want {
				t.Errorf("Strip() = %q, want %q", got, tt.want)
			}
		})
	}
}
