package panwrap

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/alnah/go-panwrap/internal/assets"
	"github.com/alnah/go-panwrap/internal/bibtex"
	"github.com/alnah/go-panwrap/internal/config"
	"github.com/alnah/go-panwrap/internal/dateutil"
	"github.com/alnah/go-panwrap/internal/fileutil"
	"github.com/alnah/go-panwrap/internal/frontmatter"
)

// Working-file naming.
const (
	workDirPrefix     = "panwrap-"
	workCopySuffix    = "-temp"
	subsetSuffix      = "-bibliography.bib"
	keptSubsetSuffix  = "-extracted.bib"
	includeFlagPrefix = "--include-"
	linesSuffix       = "-lines"
)

// includeKeys are materialized as include files, in this order.
var includeKeys = []string{config.KeyInHeaderLines, config.KeyBeforeBodyLines}

// Builder turns a source document into one output file per requested format.
// A Builder holds no per-build state and may be shared; use a Guard to
// keep builds from overlapping.
type Builder struct {
	settings *Settings
	loader   DefaultsLoader
	runner   CommandRunner
	logger   *slog.Logger
	now      func() time.Time
	environ  func() []string
	keepTemp bool
}

// NewBuilder creates a Builder. Without WithDefaultsLoader, defaults come
// from Settings.DefaultsDir with the embedded copy as fallback.
func NewBuilder(opts ...Option) (*Builder, error) {
	b := &Builder{
		settings: DefaultSettings(),
		runner:   ExecRunner{},
		logger:   slog.New(slog.DiscardHandler),
		now:      time.Now,
		environ:  os.Environ,
	}
	for _, opt := range opts {
		opt(b)
	}

	if err := b.settings.Validate(); err != nil {
		return nil, err
	}
	if b.loader == nil {
		r, err := assets.NewResolver(b.settings.DefaultsDir)
		if err != nil {
			return nil, fmt.Errorf("defaults directory: %w", err)
		}
		b.loader = r
	}
	return b, nil
}

// Settings returns the host settings in use.
func (b *Builder) Settings() *Settings { return b.settings }

// Environ returns the environment the converter runs with.
func (b *Builder) Environ() []string { return converterEnv(b.environ(), b.settings) }

// Defaults returns the loader the defaults layers are read from.
func (b *Builder) Defaults() DefaultsLoader { return b.loader }

// job is the state of one build.
type job struct {
	id      string
	dir     string // document directory
	base    string // document name without extension
	ext     string
	source  []byte
	eff     *config.Effective
	vars    map[string]any
	outputs []string
	log     *slog.Logger
}

// Build resolves the document's settings and runs the converter once per
// output format. Resolution problems (no settings entry, unknown key,
// unreadable bibliography) abort the build before the converter runs and
// are returned as the error. A failing format does not stop the others;
// its failure is recorded in the result.
func (b *Builder) Build(ctx context.Context, sourcePath string) (*BuildResult, error) {
	start := b.now()
	j, err := b.prepare(sourcePath, start)
	if err != nil {
		return nil, err
	}

	result := &BuildResult{ID: j.id, Source: filepath.Join(j.dir, j.base+j.ext)}
	retain := b.keepTemp || j.eff.KeepTempFiles()

	kept, err := fileutil.WithWorkDir(workDirPrefix+j.id+"-*", retain, func(workDir string) error {
		return b.run(ctx, j, workDir, result)
	})
	result.Duration = b.now().Sub(start)
	if kept != "" {
		result.WorkDir = kept
		j.log.Info("working directory kept", "workdir", kept)
	}
	if err != nil {
		return result, err
	}

	j.log.Info("build finished", "files", len(result.Files), "errors", len(result.Errors), "duration", result.Duration)
	return result, nil
}

// prepare reads the document and resolves its effective settings. Nothing
// is written to disk.
func (b *Builder) prepare(sourcePath string, now time.Time) (*job, error) {
	path, err := filepath.Abs(fileutil.ExpandHome(sourcePath))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSourceRead, err)
	}
	data, err := os.ReadFile(path) // #nosec G304 -- the document being built
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSourceRead, err)
	}

	j := &job{id: uuid.NewString(), source: data}
	j.dir, j.base, j.ext = fileutil.SplitSource(path)
	j.log = b.logger.With("build", j.id, "source", path)

	text := string(data)
	if frontmatter.Unterminated(text, frontmatter.StartMarkers, frontmatter.EndMarkers) {
		j.log.Warn("document ends inside an unterminated front matter block; the block is ignored")
	}
	entry, err := frontmatter.Find(text, b.settings.EntryKey)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	layers, err := assets.LoadLayers(b.loader)
	if err != nil {
		return nil, err
	}
	j.eff, err = config.Resolve(layers.Schema, entry, config.ResolveOptions{
		SourceDir:   j.dir,
		DefaultsDir: layers.Dir,
		Variables:   layers.Variables,
	})
	if err != nil {
		return nil, err
	}
	if vf := j.eff.VariablesFile(); vf != "" {
		j.log.Debug("template variables loaded", "file", vf)
	}

	for _, f := range j.eff.Outputs() {
		if err := fileutil.ValidateExtension(f); err != nil {
			return nil, fmt.Errorf("%w: %q: %v", ErrInvalidOutput, f, err)
		}
		j.outputs = append(j.outputs, f)
	}

	if j.vars, err = dateutil.ResolveVariables(j.eff.Variables(), now); err != nil {
		return nil, err
	}
	return j, nil
}

// run stages the working directory and invokes the converter per format.
func (b *Builder) run(ctx context.Context, j *job, workDir string, result *BuildResult) error {
	args, err := b.stage(j, workDir, result)
	if err != nil {
		return err
	}

	composed, err := frontmatter.Compose(j.source, j.vars)
	if err != nil {
		return fmt.Errorf("composing working copy: %w", err)
	}
	workCopy := filepath.Join(workDir, j.base+workCopySuffix+j.ext)
	if err := os.WriteFile(workCopy, composed, 0o600); err != nil {
		return fmt.Errorf("writing working copy: %w", err)
	}

	env := b.Environ()
	for _, format := range j.outputs {
		if err := ctx.Err(); err != nil {
			return err
		}
		name := j.base + "." + format
		cmd := Command{
			Name: b.settings.Converter,
			Args: append(slices.Clone(args), "--output="+filepath.Join(j.dir, name), workCopy),
			Dir:  j.dir,
			Env:  env,
		}
		log := j.log.With("format", format)
		log.Info("invoking converter", "argv", cmd.String())

		out, err := b.runner.Run(ctx, cmd)
		if err != nil {
			fail := &InvocationError{Format: format, Code: exitCode(err), Output: string(out), Err: err}
			result.Errors = append(result.Errors, fail.Code)
			result.Failures = append(result.Failures, fail)
			log.Error("converter failed", "argv", cmd.String(), "code", fail.Code, "error", err, "output", strings.TrimSpace(fail.Output))
			continue
		}
		if len(out) > 0 {
			log.Info("converter output", "output", strings.TrimSpace(string(out)))
		}
		result.Files = append(result.Files, name)
	}
	return nil
}

// stage writes the include files and bibliography subset into workDir and
// returns the converter arguments shared by every format.
func (b *Builder) stage(j *job, workDir string, result *BuildResult) ([]string, error) {
	var args []string

	for _, key := range includeKeys {
		lines := j.eff.Lines(key)
		if len(lines) == 0 {
			continue
		}
		path := filepath.Join(workDir, j.base+"-"+key+j.ext)
		if err := fileutil.WriteLines(path, lines); err != nil {
			return nil, err
		}
		args = append(args, includeFlagPrefix+strings.TrimSuffix(key, linesSuffix)+"="+path)
	}

	args = append(args, j.eff.Options()...)

	if t := j.eff.Template(); t != "" {
		args = append(args, "--template="+t)
	}

	if bib := j.eff.Bibliography(); bib != "" {
		if extract, keep := j.eff.Extraction(); extract {
			subset, err := b.extract(j, workDir, bib, keep, result)
			if err != nil {
				return nil, err
			}
			bib = subset
		}
		args = append(args, "--bibliography="+bib)
	}
	if csl := j.eff.CSL(); csl != "" {
		args = append(args, "--csl="+csl)
	}

	return append(args, j.eff.ConverterVariables()...), nil
}

// extract writes the cited subset of bib into workDir, optionally copying
// it next to the document, and returns the subset path.
func (b *Builder) extract(j *job, workDir, bib string, keep bool, result *BuildResult) (string, error) {
	if !filepath.IsAbs(bib) {
		bib = filepath.Join(j.dir, bib)
	}
	subset := filepath.Join(workDir, j.base+subsetSuffix)
	missing, err := bibtex.SubsetFile(string(j.source), bib, subset)
	if err != nil {
		return "", err
	}
	if len(missing) > 0 {
		result.Missing = missing
		j.log.Warn("cited keys not in bibliography", "keys", missing, "bibliography", bib)
	}
	if keep {
		dst := filepath.Join(j.dir, j.base+keptSubsetSuffix)
		if err := fileutil.CopyFile(subset, dst); err != nil {
			return "", err
		}
		result.Extracted = dst
	}
	return subset, nil
}
