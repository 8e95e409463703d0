package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: panwrap <command> [flags] <file>")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  process    Build a document with pandoc")
	fmt.Fprintln(w, "  open       Open the document's PDF")
	fmt.Fprintln(w, "  preview    Preview the document")
	fmt.Fprintln(w, "  watch      Rebuild the document whenever it is saved")
	fmt.Fprintln(w, "  doctor     Check the converter, TeX and viewer setup")
	fmt.Fprintln(w, "  version    Show version information")
	fmt.Fprintln(w, "  help       Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'panwrap help <command>' for details on a specific command.")
}

var commandSummaries = map[string]string{
	"process": "Build a document with pandoc, once per output format in its panwrap_ settings.",
	"open":    "Open <file>'s PDF (same directory, same base name) with the viewer.",
	"preview": "Preview <file> with the preview command, or as HTML in the viewer.",
	"watch":   "Build <file> now and again each time it is written. Saves made\nwhile a build runs are skipped, not queued.",
	"doctor":  "Check that the converter, a TeX engine and the viewer can be found\nwith the current settings, and that the defaults files load.",
}

// printCommandUsage prints usage for a document command.
func printCommandUsage(w io.Writer, command string) {
	if command == "doctor" {
		fmt.Fprintln(w, "Usage: panwrap doctor [flags]")
	} else {
		fmt.Fprintf(w, "Usage: panwrap %s <file> [flags]\n", command)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, commandSummaries[command])
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Settings:")
	fmt.Fprintln(w, "  -c, --config <name>       Settings file name or path")
	fmt.Fprintln(w, "  -d, --defaults-dir <dir>  Directory with panwrap.yaml / variables.yaml")
	fmt.Fprintln(w, "      --converter <path>    Converter binary (default: pandoc)")
	fmt.Fprintln(w, "      --viewer <cmd>        Command used to open results")
	if command == "process" || command == "watch" {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Build:")
		fmt.Fprintln(w, "      --keep-temp           Keep the working directory for inspection")
	}
	switch command {
	case "process":
		fmt.Fprintln(w, "      --json                Print the build result as JSON")
	case "doctor":
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Output:")
		fmt.Fprintln(w, "      --json                Print the diagnosis as JSON")
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output Control:")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Log converter command lines and output")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment:")
	fmt.Fprintln(w, "  PANWRAP_CONFIG, PANWRAP_DEFAULTS_DIR, PANWRAP_CONVERTER, PANWRAP_PANDOC_PATH,")
	fmt.Fprintln(w, "  PANWRAP_TEX_PATH, PANWRAP_VIEWER, PANWRAP_LOCALE, PANWRAP_LOG_LEVEL")
	fmt.Fprintln(w, "  Values may also come from a .env file in the current directory.")
}

// runHelp prints help for a specific command.
func runHelp(args []string, deps *Dependencies) int {
	if len(args) == 0 {
		printUsage(deps.Stdout)
		return ExitSuccess
	}

	switch args[0] {
	case "process", "open", "preview", "watch", "doctor":
		printCommandUsage(deps.Stdout, args[0])
	case "version":
		fmt.Fprintln(deps.Stdout, "Usage: panwrap version")
		fmt.Fprintln(deps.Stdout)
		fmt.Fprintln(deps.Stdout, "Show version information.")
	case "help":
		fmt.Fprintln(deps.Stdout, "Usage: panwrap help [command]")
		fmt.Fprintln(deps.Stdout)
		fmt.Fprintln(deps.Stdout, "Show help for a command.")
	default:
		fmt.Fprintf(deps.Stderr, "Unknown command: %s\n", args[0])
		printUsage(deps.Stderr)
		return ExitUsage
	}
	return ExitSuccess
}
