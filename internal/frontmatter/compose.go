package frontmatter

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/alnah/go-panwrap/internal/yamlutil"
)

// Compose returns source with vars appended as a trailing YAML block,
// delimited like front matter. A blank line always separates the block
// from the body, otherwise the opening "---" would underline the last
// line as a heading. Keys are sorted so repeated builds of the same
// document produce identical working copies. An empty vars mapping emits
// "{}".
func Compose(source []byte, vars map[string]any) ([]byte, error) {
	body := []byte("{}\n")
	if len(vars) > 0 {
		var err error
		body, err = yamlutil.MarshalSorted(vars)
		if err != nil {
			return nil, fmt.Errorf("serializing variables: %w", err)
		}
	}

	var buf bytes.Buffer
	buf.Grow(len(source) + len(body) + 10)
	buf.Write(source)
	if len(source) > 0 && source[len(source)-1] != '\n' {
		buf.WriteByte('\n')
	}
	buf.WriteString("\n---\n")
	buf.Write(body)
	if len(body) > 0 && body[len(body)-1] != '\n' {
		buf.WriteByte('\n')
	}
	buf.WriteString("---\n")
	return buf.Bytes(), nil
}

// Strip removes a front matter block at the very top of text and returns the
// remaining body. Text that does not open with a start marker, or whose
// leading block is never closed, is returned unchanged.
func Strip(text string) string {
	lines := strings.SplitAfter(text, "\n")
	if len(lines) == 0 || !hasAnyPrefix(lines[0], StartMarkers) {
		return text
	}
	for i := 1; i < len(lines); i++ {
		if hasAnyPrefix(lines[i], EndMarkers) {
			return strings.Join(lines[i+1:], "")
		}
	}
	return text
}
