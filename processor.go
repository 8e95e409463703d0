package panwrap

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/alnah/go-panwrap/internal/fileutil"
	"github.com/alnah/go-panwrap/internal/preview"
)

// Kind classifies a status message. A KindWorking message stays visible
// until a KindClear arrives.
type Kind int

const (
	KindInfo Kind = iota
	KindWorking
	KindClear
	KindSuccess
	KindError
)

func (k Kind) String() string {
	switch k {
	case KindWorking:
		return "working"
	case KindClear:
		return "clear"
	case KindSuccess:
		return "success"
	case KindError:
		return "error"
	default:
		return "info"
	}
}

// Notifier shows status to the user: an editor status bar, a terminal.
type Notifier interface {
	Report(message string, kind Kind)
}

// DocumentSource yields the document the commands act on.
type DocumentSource interface {
	CurrentPath() (string, error)
}

// DocumentPath is a fixed DocumentSource.
type DocumentPath string

func (p DocumentPath) CurrentPath() (string, error) {
	if p == "" {
		return "", ErrNoDocument
	}
	return string(p), nil
}

// Outcome is delivered once per accepted or rejected Process call.
type Outcome struct {
	SessionID string
	Result    *BuildResult
	Err       error
}

// Processor implements the three document commands (process, open,
// preview) on top of a Builder, with one build in flight at a time.
type Processor struct {
	builder  *Builder
	guard    *Guard
	docs     DocumentSource
	notify   Notifier
	logger   *slog.Logger
	renderer *preview.Renderer
}

// NewProcessor wires a Processor. The builder's runner and logger are
// reused for the viewer commands.
func NewProcessor(b *Builder, docs DocumentSource, n Notifier) *Processor {
	return &Processor{
		builder:  b,
		guard:    &Guard{},
		docs:     docs,
		notify:   n,
		logger:   b.logger,
		renderer: preview.NewRenderer(),
	}
}

// Busy reports whether a build is in flight.
func (p *Processor) Busy() bool { return p.guard.Busy() }

// Process builds the current document in the background. The returned
// channel yields exactly one Outcome and is then closed. A call made while
// another build is running is rejected with ErrBuildInProgress.
func (p *Processor) Process(ctx context.Context) <-chan Outcome {
	out := make(chan Outcome, 1)

	path, err := p.docs.CurrentPath()
	if err != nil {
		out <- Outcome{Err: p.fail(err)}
		close(out)
		return out
	}

	session, err := p.guard.Start()
	if err != nil {
		p.notify.Report("build already running", KindInfo)
		out <- Outcome{Err: err}
		close(out)
		return out
	}

	log := p.logger.With("session", session.ID)
	p.notify.Report("building "+filepath.Base(path), KindWorking)
	log.Debug("session started", "source", path)

	go func() {
		defer close(out)
		defer session.End()

		res, err := p.builder.Build(ctx, path)
		session.End()

		p.notify.Report("", KindClear)
		p.report(log, res, err)
		out <- Outcome{SessionID: session.ID, Result: res, Err: err}
	}()
	return out
}

func (p *Processor) report(log *slog.Logger, res *BuildResult, err error) {
	switch {
	case err != nil:
		log.Error("build aborted", "error", err)
		p.notify.Report(err.Error(), KindError)
	case !res.Success():
		p.notify.Report(res.Summary(), KindError)
	default:
		p.notify.Report(res.Summary(), KindSuccess)
	}
}

// Open shows the current document's PDF with the configured viewer.
func (p *Processor) Open(ctx context.Context) error {
	path, err := p.docs.CurrentPath()
	if err != nil {
		return p.fail(err)
	}
	dir, base, _ := fileutil.SplitSource(path)
	target := filepath.Join(dir, base+".pdf")
	if !fileutil.FileExists(target) {
		return p.fail(fmt.Errorf("%w: %s", ErrOutputNotFound, target))
	}
	return p.launch(ctx, p.builder.settings.PDFViewer, target, dir)
}

// Preview shows the current document. With a preview command configured
// the command gets the document path; otherwise the document is rendered
// to a temporary HTML page, which is opened with the viewer. It returns
// the path that was shown.
func (p *Processor) Preview(ctx context.Context) (string, error) {
	path, err := p.docs.CurrentPath()
	if err != nil {
		return "", p.fail(err)
	}
	dir, base, _ := fileutil.SplitSource(path)

	if cmd := p.builder.settings.Preview; cmd != "" {
		return path, p.launch(ctx, cmd, path, dir)
	}

	data, err := os.ReadFile(path) // #nosec G304 -- the current document
	if err != nil {
		return "", p.fail(fmt.Errorf("%w: %v", ErrSourceRead, err))
	}
	page, err := p.renderer.Render(ctx, string(data), preview.Options{Title: base, SourceDir: dir})
	if err != nil {
		return "", p.fail(err)
	}
	// The page outlives this call; the viewer may read it after we return.
	out, _, err := fileutil.WriteTempFile(page, "html")
	if err != nil {
		return "", p.fail(err)
	}
	p.notify.Report("preview written to "+out, KindInfo)
	return out, p.launch(ctx, p.builder.settings.PDFViewer, out, dir)
}

// launch runs a user command line with target appended.
func (p *Processor) launch(ctx context.Context, commandLine, target, dir string) error {
	fields := strings.Fields(commandLine)
	if len(fields) == 0 {
		return p.fail(ErrNoViewer)
	}
	cmd := Command{
		Name: fields[0],
		Args: append(fields[1:], target),
		Dir:  dir,
		Env:  p.builder.environ(),
	}
	p.logger.Info("launching viewer", "argv", cmd.String())
	if out, err := p.builder.runner.Run(ctx, cmd); err != nil {
		p.logger.Error("viewer failed", "error", err, "output", strings.TrimSpace(string(out)))
		return p.fail(fmt.Errorf("%s: %w", fields[0], err))
	}
	return nil
}

// fail reports err to the user and returns it.
func (p *Processor) fail(err error) error {
	p.notify.Report(err.Error(), KindError)
	return err
}
