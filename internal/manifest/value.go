package manifest

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

func isBareKey(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'a' && c <= 'z':
		case c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9':
		case c == '_' || c == '-':
		default:
			return false
		}
	}
	return true
}

func renderKeySegment(s string) string {
	if isBareKey(s) {
		return s
	}
	return String(s)
}

// RenderKeyPath renders a parsed key path back to dotted TOML form, quoting
// segments that are not bare keys.
func RenderKeyPath(path []string) string {
	parts := make([]string, 0, len(path))
	for _, seg := range path {
		parts = append(parts, renderKeySegment(seg))
	}
	return strings.Join(parts, ".")
}

// ParseKeyPath parses a dotted TOML key into its segments. Segments may be
// bare, basic-quoted or literal-quoted.
func ParseKeyPath(s string) ([]string, error) {
	var path []string
	i := 0
	for {
		for i < len(s) && (s[i] == ' ' || s[i] == '\t') {
			i++
		}
		if i >= len(s) {
			return nil, fmt.Errorf("empty key segment in %q", s)
		}
		switch s[i] {
		case '"', '\'':
			end, ok := skipString(s, i)
			if !ok {
				return nil, fmt.Errorf("unterminated quoted key in %q", s)
			}
			seg, ok := ParseString(s[i:end])
			if !ok {
				return nil, fmt.Errorf("invalid quoted key in %q", s)
			}
			path = append(path, seg)
			i = end
		default:
			start := i
			for i < len(s) && s[i] != '.' && s[i] != ' ' && s[i] != '\t' {
				i++
			}
			seg := s[start:i]
			if !isBareKey(seg) {
				return nil, fmt.Errorf("invalid key segment %q", seg)
			}
			path = append(path, seg)
		}
		for i < len(s) && (s[i] == ' ' || s[i] == '\t') {
			i++
		}
		if i >= len(s) {
			return path, nil
		}
		if s[i] != '.' {
			return nil, fmt.Errorf("unexpected character %q in key %q", s[i], s)
		}
		i++
	}
}

// String renders s as a TOML basic string.
func String(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\b':
			b.WriteString(`\b`)
		case '\t':
			b.WriteString(`\t`)
		case '\n':
			b.WriteString(`\n`)
		case '\f':
			b.WriteString(`\f`)
		case '\r':
			b.WriteString(`\r`)
		default:
			if r < 0x20 {
				fmt.Fprintf(&b, `\u%04X`, r)
			} else {
				b.WriteRune(r)
			}
		}
	}
	b.WriteByte('"')
	return b.String()
}

// ParseString interprets raw as a single-line TOML string value and returns
// its unquoted contents. ok is false when raw is not a plain string.
func ParseString(raw string) (string, bool) {
	s := strings.TrimSpace(raw)
	if len(s) < 2 {
		return "", false
	}
	switch s[0] {
	case '"':
		if strings.HasPrefix(s, `"""`) {
			return "", false
		}
		if s[len(s)-1] != '"' {
			return "", false
		}
		return unescapeBasic(s[1 : len(s)-1])
	case '\'':
		if strings.HasPrefix(s, "'''") {
			return "", false
		}
		if s[len(s)-1] != '\'' {
			return "", false
		}
		return s[1 : len(s)-1], true
	}
	return "", false
}

func unescapeBasic(s string) (string, bool) {
	if !strings.ContainsRune(s, '\\') {
		return s, true
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' {
			b.WriteByte(c)
			continue
		}
		i++
		if i >= len(s) {
			return "", false
		}
		switch s[i] {
		case '"':
			b.WriteByte('"')
		case '\\':
			b.WriteByte('\\')
		case 'b':
			b.WriteByte('\b')
		case 't':
			b.WriteByte('\t')
		case 'n':
			b.WriteByte('\n')
		case 'f':
			b.WriteByte('\f')
		case 'r':
			b.WriteByte('\r')
		case 'u', 'U':
			width := 4
			if s[i] == 'U' {
				width = 8
			}
			if i+width >= len(s) {
				return "", false
			}
			code, err := strconv.ParseUint(s[i+1:i+1+width], 16, 32)
			if err != nil {
				return "", false
			}
			b.WriteRune(rune(code))
			i += width
		default:
			return "", false
		}
	}
	return b.String(), true
}

// ParseStringArray interprets raw as a TOML array and returns its string
// elements, unquoted and in order. Comments and non-string elements inside
// the array are skipped. ok is false when raw is not an array.
func ParseStringArray(raw string) ([]string, bool) {
	s := strings.TrimSpace(raw)
	if len(s) < 2 || s[0] != '[' || s[len(s)-1] != ']' {
		return nil, false
	}
	items := []string{}
	for _, seg := range splitTopLevel(s[1:len(s)-1], ',') {
		seg = strings.TrimSpace(stripComments(seg))
		if seg == "" {
			continue
		}
		if item, ok := ParseString(seg); ok {
			items = append(items, item)
		}
	}
	return items, true
}

// RenderStringArrayMultiline renders items as a tab-indented multiline TOML
// array with one element per line.
func RenderStringArrayMultiline(items []string) string {
	if len(items) == 0 {
		return "[]"
	}
	var b strings.Builder
	b.WriteByte('[')
	for _, item := range items {
		b.WriteString("\n\t")
		b.WriteString(String(item))
		b.WriteByte(',')
	}
	b.WriteString("\n]")
	return b.String()
}

type inlinePair struct {
	key     string
	keyText string
	val     string
}

// InlineTable is an editable view of an inline table value. Pair order is
// preserved; Render produces canonical Cargo spacing, so a mutated entry comes
// out as { k = v, k2 = v2 } regardless of its original spacing.
type InlineTable struct {
	pairs []inlinePair
}

// ParseInline interprets raw as an inline table. isInline is false when raw is
// some other kind of value; err is set when raw looks like an inline table but
// cannot be parsed.
func ParseInline(raw string) (it *InlineTable, isInline bool, err error) {
	s := strings.TrimSpace(raw)
	if len(s) < 2 || s[0] != '{' || s[len(s)-1] != '}' {
		return nil, false, nil
	}
	inner := s[1 : len(s)-1]
	it = &InlineTable{}
	if strings.TrimSpace(inner) == "" {
		return it, true, nil
	}
	for _, seg := range splitTopLevel(inner, ',') {
		eq := findTopLevel(seg, '=')
		if eq < 0 {
			return nil, true, fmt.Errorf("inline table pair %q has no '='", strings.TrimSpace(seg))
		}
		keyText := strings.TrimSpace(seg[:eq])
		path, perr := ParseKeyPath(keyText)
		if perr != nil {
			return nil, true, perr
		}
		val := strings.TrimSpace(seg[eq+1:])
		if val == "" {
			return nil, true, fmt.Errorf("inline table pair %q has no value", keyText)
		}
		it.pairs = append(it.pairs, inlinePair{
			key:     strings.Join(path, "."),
			keyText: keyText,
			val:     val,
		})
	}
	return it, true, nil
}

func (it *InlineTable) Len() int {
	return len(it.pairs)
}

func (it *InlineTable) Keys() []string {
	keys := make([]string, 0, len(it.pairs))
	for _, p := range it.pairs {
		keys = append(keys, p.key)
	}
	return keys
}

func (it *InlineTable) Has(key string) bool {
	_, ok := it.Get(key)
	return ok
}

// Get returns the trimmed value text for key.
func (it *InlineTable) Get(key string) (string, bool) {
	for _, p := range it.pairs {
		if p.key == key {
			return p.val, true
		}
	}
	return "", false
}

// Set updates key to the rendered value, appending the pair when absent. It
// reports whether the table changed.
func (it *InlineTable) Set(key string, rendered string) bool {
	for i, p := range it.pairs {
		if p.key == key {
			if p.val == rendered {
				return false
			}
			it.pairs[i].val = rendered
			return true
		}
	}
	it.pairs = append(it.pairs, inlinePair{key: key, keyText: renderKeySegment(key), val: rendered})
	return true
}

// Remove deletes key and reports whether it existed.
func (it *InlineTable) Remove(key string) bool {
	for i, p := range it.pairs {
		if p.key == key {
			it.pairs = append(it.pairs[:i], it.pairs[i+1:]...)
			return true
		}
	}
	return false
}

// SortKeys stably reorders pairs by ascending rank and reports whether the
// order changed.
func (it *InlineTable) SortKeys(rank func(key string) int) bool {
	before := it.Keys()
	sort.SliceStable(it.pairs, func(i, j int) bool {
		return rank(it.pairs[i].key) < rank(it.pairs[j].key)
	})
	for i, key := range it.Keys() {
		if key != before[i] {
			return true
		}
	}
	return false
}

// Render serializes the table with canonical spacing.
func (it *InlineTable) Render() string {
	if len(it.pairs) == 0 {
		return "{}"
	}
	parts := make([]string, 0, len(it.pairs))
	for _, p := range it.pairs {
		parts = append(parts, p.keyText+" = "+p.val)
	}
	return "{ " + strings.Join(parts, ", ") + " }"
}

func stripComments(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch c {
		case '"', '\'':
			end, ok := skipString(s, i)
			if !ok {
				b.WriteString(s[i:])
				return b.String()
			}
			b.WriteString(s[i:end])
			i = end - 1
		case '#':
			for i < len(s) && s[i] != '\n' {
				i++
			}
			if i < len(s) {
				b.WriteByte('\n')
			}
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

// splitTopLevel splits s on sep occurring outside strings, arrays, inline
// tables and comments.
func splitTopLevel(s string, sep byte) []string {
	var parts []string
	depth := 0
	start := 0
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '"', '\'':
			if end, ok := skipString(s, i); ok {
				i = end - 1
			}
		case '[', '{':
			depth++
		case ']', '}':
			depth--
		case '#':
			for i < len(s) && s[i] != '\n' {
				i++
			}
		case sep:
			if depth == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	return append(parts, s[start:])
}

// findTopLevel returns the index of the first sep outside strings and
// brackets, or -1.
func findTopLevel(s string, sep byte) int {
	depth := 0
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '"', '\'':
			if end, ok := skipString(s, i); ok {
				i = end - 1
			}
		case '[', '{':
			depth++
		case ']', '}':
			depth--
		case sep:
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// skipString advances past the string starting at s[i] and returns the index
// just after its closing quote. Handles basic and literal strings including
// their multiline forms; ok is false when the string is unterminated.
func skipString(s string, i int) (int, bool) {
	quote := s[i]
	if quote != '"' && quote != '\'' {
		return i, false
	}
	triple := string(quote) + string(quote) + string(quote)
	if strings.HasPrefix(s[i:], triple) {
		end := strings.Index(s[i+3:], triple)
		for quote == '"' && end >= 0 && escaped(s[i+3:], end) {
			next := strings.Index(s[i+3+end+3:], triple)
			if next < 0 {
				end = -1
				break
			}
			end += 3 + next
		}
		if end < 0 {
			return len(s), false
		}
		return i + 3 + end + 3, true
	}
	for j := i + 1; j < len(s); j++ {
		switch s[j] {
		case '\\':
			if quote == '"' {
				j++
			}
		case quote:
			return j + 1, true
		case '\n':
			return j, false
		}
	}
	return len(s), false
}

func escaped(s string, idx int) bool {
	backslashes := 0
	for idx-backslashes-1 >= 0 && s[idx-backslashes-1] == '\\' {
		backslashes++
	}
	return backslashes%2 == 1
}
