// Package dateutil resolves "auto" date variables to the build date.
//
// A variable whose key mentions "date" and whose value is "auto" or
// "auto:FORMAT" is replaced with the current date when the working copy is
// composed. FORMAT uses the tokens YYYY, YY, MMMM, MMM, MM, M, DD and D, or
// one of the named presets; text in brackets is copied literally.
package dateutil

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
)

// ErrInvalidDateFormat indicates an invalid date format string.
var ErrInvalidDateFormat = errors.New("invalid date format")

const (
	// MaxDateFormatLength bounds a format string.
	MaxDateFormatLength = 50
	// DefaultDateFormat applies to a bare "auto".
	DefaultDateFormat = "YYYY-MM-DD"

	autoWord   = "auto"
	autoPrefix = "auto:"
)

// Longest tokens first so "MMMM" is not read as "MM" "MM".
var dateTokens = []struct {
	token  string
	layout string
}{
	{"YYYY", "2006"},
	{"MMMM", "January"},
	{"MMM", "Jan"},
	{"YY", "06"},
	{"MM", "01"},
	{"DD", "02"},
	{"M", "1"},
	{"D", "2"},
}

// DatePresets names common formats.
var DatePresets = map[string]string{
	"iso":      "YYYY-MM-DD",
	"european": "DD/MM/YYYY",
	"us":       "MM/DD/YYYY",
	"long":     "MMMM D, YYYY",
}

// ParseDateFormat converts a token format into a time layout.
func ParseDateFormat(format string) (string, error) {
	switch {
	case format == "":
		return "", fmt.Errorf("%w: format cannot be empty", ErrInvalidDateFormat)
	case len(format) > MaxDateFormatLength:
		return "", fmt.Errorf("%w: format exceeds %d characters", ErrInvalidDateFormat, MaxDateFormatLength)
	}

	var layout strings.Builder
	for rest := format; rest != ""; {
		if rest[0] == '[' {
			literal, after, ok := strings.Cut(rest[1:], "]")
			if !ok {
				return "", fmt.Errorf("%w: unclosed bracket at position %d", ErrInvalidDateFormat, len(format)-len(rest))
			}
			layout.WriteString(literal)
			rest = after
			continue
		}
		n := 1
		token := rest[:1]
		for _, t := range dateTokens {
			if strings.HasPrefix(rest, t.token) {
				n, token = len(t.token), t.layout
				break
			}
		}
		layout.WriteString(token)
		rest = rest[n:]
	}
	return layout.String(), nil
}

// IsAuto reports whether value asks for the build date.
func IsAuto(value string) bool {
	lower := strings.ToLower(value)
	return lower == autoWord || strings.HasPrefix(lower, autoPrefix)
}

// ResolveDate formats t according to an "auto" or "auto:FORMAT" value.
// Any other value is returned unchanged.
func ResolveDate(value string, t time.Time) (string, error) {
	if !IsAuto(value) {
		return value, nil
	}

	format := DefaultDateFormat
	if len(value) > len(autoWord) {
		format = value[len(autoPrefix):]
		if format == "" {
			return "", fmt.Errorf("%w: format cannot be empty after %q", ErrInvalidDateFormat, autoPrefix)
		}
		if preset, ok := DatePresets[strings.ToLower(format)]; ok {
			format = preset
		}
	}

	layout, err := ParseDateFormat(format)
	if err != nil {
		return "", err
	}
	return t.Format(layout), nil
}

// ResolveVariables returns a copy of vars with every date-named string
// variable resolved against t. Keys are visited in lexical order so the
// first bad format reported is stable.
func ResolveVariables(vars map[string]any, t time.Time) (map[string]any, error) {
	keys := make([]string, 0, len(vars))
	for k := range vars {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make(map[string]any, len(vars))
	for _, k := range keys {
		v := vars[k]
		s, ok := v.(string)
		if ok && strings.Contains(strings.ToLower(k), "date") {
			resolved, err := ResolveDate(s, t)
			if err != nil {
				return nil, fmt.Errorf("variable %q: %w", k, err)
			}
			v = resolved
		}
		out[k] = v
	}
	return out, nil
}
