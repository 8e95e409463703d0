// Package hints provides actionable error hints for common failure scenarios.
// Hints are formatted consistently as "\n  hint: <text>" for appending to error messages.
package hints

import (
	"fmt"
	"os"
	"strings"

	"github.com/agext/levenshtein"

	"github.com/alnah/go-panwrap/internal/fileutil"
)

// IsInContainer detects if running inside a Docker container or similar.
// Checks for /.dockerenv file which Docker creates automatically.
var IsInContainer = func() bool {
	return fileutil.FileExists("/.dockerenv")
}

// maxSuggestDistance bounds how different a known key may be and still be
// offered as the intended spelling.
const maxSuggestDistance = 3

// ForConverterNotFound returns hints for a converter binary that could not
// be started.
func ForConverterNotFound(converter string) string {
	var hints []string
	if IsInContainer() {
		hints = append(hints, "install "+converter+" in the container image")
	}
	if os.Getenv("PANWRAP_PANDOC_PATH") == "" {
		hints = append(hints, "set pandoc_path in the settings file or PANWRAP_PANDOC_PATH")
	}
	hints = append(hints, "or pass --converter /path/to/"+converter)
	return formatHints(hints)
}

// ForUnknownSetting suggests the closest known key for each unknown one.
func ForUnknownSetting(unknown, known []string) string {
	var hints []string
	for _, key := range unknown {
		if best := closest(key, known); best != "" {
			hints = append(hints, fmt.Sprintf("did you mean %q instead of %q?", best, key))
		}
	}
	if len(hints) == 0 {
		return format("settings must be defined in the defaults file first")
	}
	return formatHints(hints)
}

func closest(key string, known []string) string {
	best, bestDist := "", maxSuggestDistance+1
	for _, k := range known {
		if d := levenshtein.Distance(key, k, nil); d < bestDist {
			best, bestDist = k, d
		}
	}
	return best
}

// ForFrontMatterNotFound explains where the settings entry must live.
func ForFrontMatterNotFound(entryKey string) string {
	return format("add a '---' block containing a " + entryKey + " entry, e.g. " + entryKey + ": {output: pdf}")
}

// ForSettingsNotFound returns hints for settings file not found errors.
// Suggests --config and creating a settings file in the user config dir.
func ForSettingsNotFound(searchedPaths []string) string {
	hint := "use --config /path/to/settings.yaml"
	for _, p := range searchedPaths {
		if strings.Contains(p, "panwrap") {
			hint += " or create " + p
			break
		}
	}
	return format(hint)
}

// ForBibliography returns hints for an unreadable bibliography.
func ForBibliography() string {
	return format("check the bibliography path; relative paths resolve from the document directory")
}

// ForBuildInProgress explains a rejected build.
func ForBuildInProgress() string {
	return format("wait for the current build to finish; builds are not queued")
}

// format creates a single hint string with consistent formatting.
func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}

// formatHints joins multiple hints with consistent formatting.
func formatHints(hints []string) string {
	if len(hints) == 0 {
		return ""
	}
	return format(strings.Join(hints, "; "))
}
