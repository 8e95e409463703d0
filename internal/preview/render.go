package preview

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"strings"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/alnah/go-panwrap/internal/frontmatter"
)

// ErrRender indicates HTML rendering failed.
var ErrRender = errors.New("preview rendering failed")

// DefaultCodeStyle is the chroma style used for code blocks.
const DefaultCodeStyle = "github"

const baseCSS = `body{max-width:46em;margin:2em auto;padding:0 1em;font-family:Georgia,serif;line-height:1.5}
pre{padding:.6em;overflow-x:auto}
table{border-collapse:collapse}td,th{border:1px solid #ccc;padding:.2em .5em}
mark{background:#ff0}`

var page = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>{{.CSS}}</style>
</head>
<body>
{{.Body}}
</body>
</html>
`))

// Options controls one rendering.
type Options struct {
	// Title of the page; defaults to "Preview".
	Title string
	// SourceDir anchors relative image and link paths. Empty leaves them alone.
	SourceDir string
	// CodeStyle names a chroma style; empty means DefaultCodeStyle.
	CodeStyle string
}

// Renderer converts Markdown to HTML with goldmark.
type Renderer struct {
	md goldmark.Markdown
}

// NewRenderer creates a Renderer with GFM extensions and syntax highlighting.
func NewRenderer() *Renderer {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			extension.Footnote,
			highlighting.NewHighlighting(
				highlighting.WithFormatOptions(chromahtml.WithClasses(true)),
			),
		),
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
		// No WithUnsafe: raw HTML in the document is not passed through.
		goldmark.WithRendererOptions(html.WithXHTML()),
	)
	return &Renderer{md: md}
}

// Render converts source, front matter included, to a standalone page.
// Goldmark has no context support, so conversion runs in a goroutine and
// Render returns early on cancellation.
func (r *Renderer) Render(ctx context.Context, source string, opts Options) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	type result struct {
		html string
		err  error
	}
	done := make(chan result, 1)

	go func() {
		out, err := r.render(source, opts)
		done <- result{html: out, err: err}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-done:
		return res.html, res.err
	}
}

func (r *Renderer) render(source string, opts Options) (string, error) {
	body := Preprocess(frontmatter.Strip(source))

	var buf bytes.Buffer
	if err := r.md.Convert([]byte(body), &buf); err != nil {
		return "", fmt.Errorf("%w: %v", ErrRender, err)
	}
	fragment, err := RewriteRelativePaths(ConvertMarkPlaceholders(buf.String()), opts.SourceDir)
	if err != nil {
		return "", fmt.Errorf("%w: rewriting paths: %v", ErrRender, err)
	}

	css, err := stylesheet(opts.CodeStyle)
	if err != nil {
		return "", err
	}

	title := opts.Title
	if title == "" {
		title = "Preview"
	}

	var out strings.Builder
	err = page.Execute(&out, struct {
		Title string
		CSS   template.CSS
		Body  template.HTML
	}{
		Title: title,
		CSS:   template.CSS(sanitizeCSS(css)), // #nosec G203 -- generated by chroma
		Body:  template.HTML(fragment),        // #nosec G203 -- goldmark output without unsafe HTML
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrRender, err)
	}
	return out.String(), nil
}

// stylesheet returns the page CSS followed by the chroma classes for style.
// An unknown style name falls back to chroma's default.
func stylesheet(style string) (string, error) {
	if style == "" {
		style = DefaultCodeStyle
	}
	var b strings.Builder
	b.WriteString(baseCSS)
	b.WriteByte('\n')
	if err := chromahtml.New(chromahtml.WithClasses(true)).WriteCSS(&b, styles.Get(style)); err != nil {
		return "", fmt.Errorf("%w: code style: %v", ErrRender, err)
	}
	return b.String(), nil
}

// sanitizeCSS escapes sequences that could close the <style> block.
func sanitizeCSS(css string) string {
	return strings.ReplaceAll(css, "</", `<\/`)
}
