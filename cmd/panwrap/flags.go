package main

import (
	"io"

	flag "github.com/spf13/pflag"
)

// commonFlags holds flags shared by the document commands.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
}

// hostFlags override host settings for one run.
type hostFlags struct {
	defaultsDir string
	converter   string
	pdfViewer   string
}

// commandFlags holds all flags for the document commands and doctor.
type commandFlags struct {
	common   commonFlags
	host     hostFlags
	json     bool
	keepTemp bool
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "settings file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "log converter command lines and output")
}

// addHostFlags adds host setting overrides to a FlagSet.
func addHostFlags(fs *flag.FlagSet, f *hostFlags) {
	fs.StringVarP(&f.defaultsDir, "defaults-dir", "d", "", "directory holding panwrap.yaml and variables.yaml")
	fs.StringVar(&f.converter, "converter", "", "converter binary name or path")
	fs.StringVar(&f.pdfViewer, "viewer", "", "command used to open results")
}

// parseCommandFlags parses a document command's flags and returns the
// positional args.
func parseCommandFlags(command string, args []string, usage io.Writer) (*commandFlags, []string, error) {
	fs := flag.NewFlagSet(command, flag.ContinueOnError)
	fs.SetOutput(usage)
	f := &commandFlags{}

	addCommonFlags(fs, &f.common)
	addHostFlags(fs, &f.host)
	if command == "process" || command == "watch" {
		fs.BoolVar(&f.keepTemp, "keep-temp", false, "keep each build's working directory")
	}
	switch command {
	case "process":
		fs.BoolVar(&f.json, "json", false, "print the build result as JSON")
	case "doctor":
		fs.BoolVar(&f.json, "json", false, "print the diagnosis as JSON")
	}

	fs.Usage = func() { printCommandUsage(usage, command) }

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}
