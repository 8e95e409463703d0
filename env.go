package panwrap

import (
	"os"
	"strings"

	"github.com/alnah/go-panwrap/internal/config"
)

// converterEnv derives the converter's environment from base: PATH gets
// tex_path then pandoc_path prefixed, LANG and LC_ALL are forced to the
// UTF-8 locale, and everything else (HOME included) is inherited.
func converterEnv(base []string, s *config.Settings) []string {
	env := make([]string, 0, len(base)+3)
	path := ""
	for _, kv := range base {
		k, v, _ := strings.Cut(kv, "=")
		switch k {
		case "PATH":
			path = v
		case "LANG", "LC_ALL":
		default:
			env = append(env, kv)
		}
	}

	var dirs []string
	for _, d := range []string{s.TexPath, s.PandocPath, path} {
		if d != "" {
			dirs = append(dirs, d)
		}
	}
	env = append(env, "PATH="+strings.Join(dirs, string(os.PathListSeparator)))

	locale := s.Locale
	if locale == "" {
		locale = config.DefaultLocale
	}
	return append(env, "LANG="+locale, "LC_ALL="+locale)
}
