package bibtex

import "strings"

// Entry is one "@type{...}" block, kept byte for byte.
type Entry struct {
	Type string // lower-cased entry type, e.g. "article"
	Key  string // citation key; empty for special blocks
	Raw  string
}

// Special reports whether the entry is a @string, @preamble or @comment
// block. Those carry no key and are kept in every subset, since cited
// entries may refer to their macros.
func (e Entry) Special() bool {
	switch e.Type {
	case "string", "preamble", "comment":
		return true
	}
	return false
}

// Database is a parsed bibliography.
type Database struct {
	// Preamble is everything before the first entry, verbatim.
	Preamble string
	Entries  []Entry
}

// Parse splits data into a preamble and entries. Text between entries is
// not part of any entry and is dropped. An entry whose delimiters never
// close runs to the end of the input.
func Parse(data string) *Database {
	db := &Database{}
	pos := 0
	first := true
	for {
		start, typ, open := nextEntry(data, pos)
		if start < 0 {
			if first {
				db.Preamble = data
			}
			return db
		}
		if first {
			db.Preamble = data[:start]
			first = false
		}
		end := closeEntry(data, open)
		raw := data[start:end]
		e := Entry{Type: strings.ToLower(typ), Raw: raw}
		if !e.Special() {
			e.Key = entryKey(data[open+1 : end])
		}
		db.Entries = append(db.Entries, e)
		pos = end
	}
}

// nextEntry finds the next "@type{" or "@type(" at or after pos. It
// returns the index of '@', the type, and the index of the opening
// delimiter, or start -1 when there is none.
func nextEntry(data string, pos int) (start int, typ string, open int) {
	for {
		i := strings.IndexByte(data[pos:], '@')
		if i < 0 {
			return -1, "", -1
		}
		at := pos + i
		j := at + 1
		for j < len(data) && isTypeChar(data[j]) {
			j++
		}
		typ = data[at+1 : j]
		for j < len(data) && (data[j] == ' ' || data[j] == '\t') {
			j++
		}
		if typ != "" && j < len(data) && (data[j] == '{' || data[j] == '(') {
			return at, typ, j
		}
		pos = at + 1
	}
}

func isTypeChar(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' || c == '_' || c == '-'
}

// closeEntry returns the index just past the delimiter matching data[open].
func closeEntry(data string, open int) int {
	closer := byte('}')
	if data[open] == '(' {
		closer = ')'
	}
	depth := 0
	for i := open + 1; i < len(data); i++ {
		switch c := data[i]; {
		case c == '{':
			depth++
		case c == '}' && depth > 0:
			depth--
		case c == closer && depth == 0:
			return i + 1
		}
	}
	return len(data)
}

func entryKey(body string) string {
	key, _, _ := strings.Cut(body, ",")
	return strings.TrimSpace(key)
}

// Keys returns the keys of the regular entries, in order.
func (db *Database) Keys() []string {
	var keys []string
	for _, e := range db.Entries {
		if !e.Special() {
			keys = append(keys, e.Key)
		}
	}
	return keys
}

// Subset returns a database with the preamble, every special block and the
// entries whose key is in keys, all in their original order. Special blocks
// stay in Entries rather than being folded into Preamble, so an empty key
// set yields a database whose Entries are exactly its special blocks and
// whose Keys are empty.
func (db *Database) Subset(keys []string) *Database {
	want := make(map[string]bool, len(keys))
	for _, k := range keys {
		want[k] = true
	}
	out := &Database{Preamble: db.Preamble}
	for _, e := range db.Entries {
		if e.Special() || want[e.Key] {
			out.Entries = append(out.Entries, e)
		}
	}
	return out
}

// Missing returns the keys that no entry carries, in the given order.
func (db *Database) Missing(keys []string) []string {
	have := make(map[string]bool, len(db.Entries))
	for _, e := range db.Entries {
		have[e.Key] = true
	}
	var missing []string
	for _, k := range keys {
		if !have[k] {
			missing = append(missing, k)
		}
	}
	return missing
}

// String renders the database: the preamble verbatim, then the entries
// separated by blank lines.
func (db *Database) String() string {
	var b strings.Builder
	b.WriteString(db.Preamble)
	for i, e := range db.Entries {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(e.Raw)
	}
	if len(db.Entries) > 0 {
		b.WriteByte('\n')
	}
	return b.String()
}
