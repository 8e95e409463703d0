package config

import "strings"

// aliases maps short flags to their long names so both spellings share a
// merge key.
var aliases = map[string]string{
	"-s": "--standalone",
	"-f": "--from",
	"-r": "--from",
	"-t": "--to",
	"-w": "--to",
	"-N": "--number-sections",
	"-F": "--filter",
	"-L": "--lua-filter",
	"-V": "--variable",
	"-M": "--metadata",
	"-H": "--include-in-header",
	"-B": "--include-before-body",
	"-A": "--include-after-body",
	"-c": "--css",
}

// repeatable lists converter flags that may legitimately appear several
// times. Filters and includes are keyed by name and value, so two
// different filters both survive a merge. Variables and metadata are
// keyed by the name they set, so a document value replaces a default one.
var repeatable = map[string]bool{
	"--filter":              true,
	"--lua-filter":          true,
	"--variable":            true,
	"--metadata":            true,
	"--include-in-header":   true,
	"--include-before-body": true,
	"--include-after-body":  true,
	"--css":                 true,
}

// Option is one converter flag in parsed form.
type Option struct {
	Name     string
	Value    string
	HasValue bool
	// Separate is set for the two-token form ("--from markdown").
	Separate bool
}

func (o Option) key() string {
	name := o.Name
	if long, ok := aliases[name]; ok {
		name = long
	}
	if !repeatable[name] || !o.HasValue {
		return name
	}
	if name == "--variable" || name == "--metadata" {
		if i := strings.IndexAny(o.Value, "=:"); i >= 0 {
			return name + "=" + o.Value[:i]
		}
	}
	return name + "=" + o.Value
}

// Tokens renders the option back into command-line tokens.
func (o Option) Tokens() []string {
	switch {
	case !o.HasValue:
		return []string{o.Name}
	case o.Separate:
		return []string{o.Name, o.Value}
	default:
		return []string{o.Name + "=" + o.Value}
	}
}

// OptionSet is an insertion-ordered set of options keyed by flag name.
type OptionSet struct {
	order []string
	byKey map[string]Option
}

// ParseOptions parses option lines. A line may hold several flags. Words
// following a flag, up to the next flag, form its value, so values may
// contain spaces and negative numbers ("-1") are values, not flags.
// "--name=value" splits on the first "=". A later option with the same key
// replaces the earlier one in place.
func ParseOptions(lines []string) *OptionSet {
	s := &OptionSet{byKey: make(map[string]Option)}
	for _, line := range lines {
		fields := strings.Fields(line)
		for i := 0; i < len(fields); i++ {
			tok := fields[i]
			if !isFlag(tok) {
				// Stray word with no flag in front: keep it verbatim.
				s.put(Option{Name: tok})
				continue
			}
			j := i + 1
			for j < len(fields) && !isFlag(fields[j]) {
				j++
			}
			rest := strings.Join(fields[i+1:j], " ")
			i = j - 1

			if name, val, ok := strings.Cut(tok, "="); ok {
				if rest != "" {
					val += " " + rest
				}
				s.put(Option{Name: name, Value: val, HasValue: true})
				continue
			}
			if rest != "" {
				s.put(Option{Name: tok, Value: rest, HasValue: true, Separate: true})
				continue
			}
			s.put(Option{Name: tok})
		}
	}
	return s
}

// isFlag reports whether tok starts a new option: "--name" or "-x" with a
// letter, which leaves "-1" and "-" to be values.
func isFlag(tok string) bool {
	if len(tok) < 2 || tok[0] != '-' {
		return false
	}
	if tok[1] == '-' {
		return len(tok) > 2
	}
	c := tok[1]
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}

func (s *OptionSet) put(o Option) {
	k := o.key()
	if _, ok := s.byKey[k]; !ok {
		s.order = append(s.order, k)
	}
	s.byKey[k] = o
}

// Merge overlays other onto s: options sharing a key take other's value
// and keep their original position, new ones are appended.
func (s *OptionSet) Merge(other *OptionSet) {
	if other == nil {
		return
	}
	for _, k := range other.order {
		s.put(other.byKey[k])
	}
}

// Options returns the options in order.
func (s *OptionSet) Options() []Option {
	out := make([]Option, 0, len(s.order))
	for _, k := range s.order {
		out = append(out, s.byKey[k])
	}
	return out
}

// Tokens flattens the set into command-line tokens.
func (s *OptionSet) Tokens() []string {
	var out []string
	for _, o := range s.Options() {
		out = append(out, o.Tokens()...)
	}
	return out
}

// Len returns the number of distinct options.
func (s *OptionSet) Len() int { return len(s.order) }
