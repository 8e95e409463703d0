// Package panwrap builds documents with pandoc from settings declared in
// the document itself.
//
// # Quick Start
//
// A document carries its build settings under the panwrap_ key of a front
// matter block:
//
//	---
//	title: Notes
//	panwrap_:
//	  output: [pdf, html]
//	  pandoc-options: [--toc]
//	  bibliography: ~/refs/library.bib
//	---
//
// Build it:
//
//	b, err := panwrap.NewBuilder()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	res, err := b.Build(ctx, "notes.md")
//	if err != nil {
//	    log.Fatal(err) // nothing was converted
//	}
//	fmt.Println(res.Summary()) // "wrote files: notes.pdf, notes.html"
//
// # Settings Layers
//
// The defaults file (panwrap.yaml, embedded or loaded from
// Settings.DefaultsDir) defines every key a document may set. Each key is
// merged by class:
//
//   - output, template, bibliography, csl: the document value replaces the default
//   - in-header-lines, before-body-lines: appended to the paired "-default" list
//   - pandoc-options: merged by flag name over pandoc-options-default
//   - extract-bibliography, debug, and mapping variables: merged key by key
//   - any other key: passed to pandoc as --variable
//
// A document key the defaults do not define fails the build with
// UnknownSettingError before pandoc runs.
//
// # Builds
//
// Each build stages include files, an optional bibliography subset, and a
// working copy of the document with the resolved variables appended, all in
// a private temporary directory removed when the build ends. Pandoc runs
// once per output format, sequentially. A failing format is recorded in
// BuildResult and does not stop the rest.
//
// # Editor Commands
//
// Processor exposes process, open and preview for a host such as an editor
// or the panwrap CLI. It admits one build at a time; a second request while
// a build runs is rejected with ErrBuildInProgress.
//
//	p := panwrap.NewProcessor(b, panwrap.DocumentPath("notes.md"), notifier)
//	outcome := <-p.Process(ctx)
package panwrap
