package main

import (
	"fmt"
	"io"
	"sync"

	panwrap "github.com/alnah/go-panwrap"
)

// termNotifier prints status lines to a terminal. Quiet mode keeps errors
// only.
type termNotifier struct {
	mu    sync.Mutex
	w     io.Writer
	quiet bool
	icons bool
}

func (n *termNotifier) Report(message string, kind panwrap.Kind) {
	if kind == panwrap.KindClear || message == "" {
		return
	}
	if n.quiet && kind != panwrap.KindError {
		return
	}

	n.mu.Lock()
	defer n.mu.Unlock()
	switch kind {
	case panwrap.KindWorking:
		fmt.Fprintf(n.w, "%s...\n", message)
	case panwrap.KindSuccess, panwrap.KindError:
		fmt.Fprintf(n.w, "%s %s\n", n.marker(kind), message)
	default:
		fmt.Fprintln(n.w, message)
	}
}

func (n *termNotifier) marker(kind panwrap.Kind) string {
	switch {
	case kind == panwrap.KindError && n.icons:
		return "❌"
	case kind == panwrap.KindError:
		return "[ERROR]"
	case n.icons:
		return "✅"
	default:
		return "[SUCCESS]"
	}
}
