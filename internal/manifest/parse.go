package manifest

import (
	"fmt"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
)

// Parse builds a Document from manifest text. path is recorded for error
// context and write-back. The parser is line oriented: every physical line
// lands in exactly one table as a blank, comment or key/value line, and
// multiline values (strings, arrays) stay attached to their key/value line,
// so Bytes reproduces the input exactly.
func Parse(path string, text []byte) (*Document, error) {
	doc := &Document{path: path}
	s := string(text)
	if strings.HasPrefix(s, "\ufeff") {
		doc.prefix = "\ufeff"
		s = s[len("\ufeff"):]
	}
	root := &Table{}
	doc.tables = append(doc.tables, root)
	cur := root

	lines := splitPhysical(s)
	for idx := 0; idx < len(lines); idx++ {
		raw := lines[idx]
		trimmed := strings.TrimSpace(raw)
		switch {
		case trimmed == "":
			cur.lines = append(cur.lines, &Line{kind: lineBlank, raw: raw})
		case strings.HasPrefix(trimmed, "#"):
			cur.lines = append(cur.lines, &Line{kind: lineComment, raw: raw})
		case strings.HasPrefix(trimmed, "["):
			table, err := parseHeader(raw)
			if err != nil {
				return nil, parseError(path, idx+1, err)
			}
			doc.tables = append(doc.tables, table)
			cur = table
		default:
			line, consumed, err := parseKeyValue(lines, idx)
			if err != nil {
				return nil, parseError(path, idx+1, err)
			}
			cur.lines = append(cur.lines, line)
			idx += consumed
		}
	}
	return doc, nil
}

func parseError(path string, lineNo int, cause error) error {
	return errbuilder.New().
		WithCode(errbuilder.CodeInvalidArgument).
		WithMsg(fmt.Sprintf("failed to parse %s", path)).
		WithCause(fmt.Errorf("line %d: %w", lineNo, cause))
}

func splitPhysical(s string) []string {
	var lines []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			lines = append(lines, s[start:i+1])
			start = i + 1
		}
	}
	if start < len(s) {
		lines = append(lines, s[start:])
	}
	return lines
}

func parseHeader(raw string) (*Table, error) {
	i := 0
	for i < len(raw) && (raw[i] == ' ' || raw[i] == '\t') {
		i++
	}
	if i >= len(raw) || raw[i] != '[' {
		return nil, fmt.Errorf("expected '[' in table header")
	}
	i++
	array := false
	if i < len(raw) && raw[i] == '[' {
		array = true
		i++
	}
	closing := -1
	for j := i; j < len(raw); {
		switch raw[j] {
		case '"', '\'':
			end, ok := skipString(raw, j)
			if !ok {
				return nil, fmt.Errorf("unterminated quoted key in table header")
			}
			j = end
		case ']':
			closing = j
			j = len(raw)
		default:
			j++
		}
	}
	if closing < 0 {
		return nil, fmt.Errorf("missing ']' in table header")
	}
	rest := raw[closing+1:]
	if array {
		if !strings.HasPrefix(rest, "]") {
			return nil, fmt.Errorf("missing ']]' in array table header")
		}
		rest = rest[1:]
	}
	if err := validateSuffix(rest); err != nil {
		return nil, err
	}
	path, err := ParseKeyPath(raw[i:closing])
	if err != nil {
		return nil, err
	}
	return &Table{headerRaw: raw, keyPath: path, array: array}, nil
}

func parseKeyValue(lines []string, idx int) (*Line, int, error) {
	raw := lines[idx]
	eq := findTopLevel(raw, '=')
	if eq < 0 {
		return nil, 0, fmt.Errorf("expected '=' in %q", strings.TrimSpace(raw))
	}
	keyRaw := raw[:eq]
	path, err := ParseKeyPath(keyRaw)
	if err != nil {
		return nil, 0, err
	}
	valueRaw, suffixRaw, consumed, err := scanValue(lines, idx, raw[eq+1:])
	if err != nil {
		return nil, 0, err
	}
	line := &Line{
		kind:      lineKeyValue,
		key:       path,
		keyRaw:    keyRaw,
		valueRaw:  valueRaw,
		suffixRaw: suffixRaw,
	}
	return line, consumed, nil
}

// scanValue consumes one TOML value starting in after (the text following
// '='), pulling in further physical lines for multiline strings and arrays.
// It returns the value text, the trailing text of the final line, and how
// many extra lines were consumed.
func scanValue(lines []string, idx int, after string) (string, string, int, error) {
	buf := after
	consumed := 0
	i := 0
	for i < len(buf) && (buf[i] == ' ' || buf[i] == '\t') {
		i++
	}
	if i >= len(buf) || buf[i] == '\n' || buf[i] == '\r' || buf[i] == '#' {
		return "", "", 0, fmt.Errorf("missing value")
	}

	var end int
	switch buf[i] {
	case '"', '\'':
		quote := buf[i]
		for {
			e, ok := skipString(buf, i)
			if ok {
				end = e
				break
			}
			triple := strings.Repeat(string(quote), 3)
			if !strings.HasPrefix(buf[i:], triple) || idx+consumed+1 >= len(lines) {
				return "", "", 0, fmt.Errorf("unterminated string")
			}
			consumed++
			buf += lines[idx+consumed]
		}
	case '[':
		for {
			e, ok := scanBracketed(buf, i, '[', ']')
			if ok {
				end = e
				break
			}
			if idx+consumed+1 >= len(lines) {
				return "", "", 0, fmt.Errorf("unterminated array")
			}
			consumed++
			buf += lines[idx+consumed]
		}
	case '{':
		e, ok := scanBracketed(buf, i, '{', '}')
		if !ok {
			return "", "", 0, fmt.Errorf("unterminated inline table")
		}
		end = e
	default:
		end = i
		for end < len(buf) && buf[end] != '#' && buf[end] != '\n' && buf[end] != '\r' {
			end++
		}
		for end > i && (buf[end-1] == ' ' || buf[end-1] == '\t') {
			end--
		}
	}

	valueRaw := buf[:end]
	suffixRaw := buf[end:]
	if err := validateSuffix(suffixRaw); err != nil {
		return "", "", 0, err
	}
	return valueRaw, suffixRaw, consumed, nil
}

func scanBracketed(s string, i int, lb, rb byte) (int, bool) {
	depth := 0
	for j := i; j < len(s); j++ {
		switch c := s[j]; c {
		case '"', '\'':
			end, ok := skipString(s, j)
			if !ok {
				return 0, false
			}
			j = end - 1
		case lb:
			depth++
		case rb:
			depth--
			if depth == 0 {
				return j + 1, true
			}
		case '#':
			for j < len(s) && s[j] != '\n' {
				j++
			}
		}
	}
	return 0, false
}

func validateSuffix(s string) error {
	i := 0
	for i < len(s) && (s[i] == ' ' || s[i] == '\t') {
		i++
	}
	if i < len(s) && s[i] == '#' {
		for i < len(s) && s[i] != '\n' {
			i++
		}
	}
	if i < len(s) && s[i] == '\r' {
		i++
	}
	if i < len(s) && s[i] == '\n' {
		i++
	}
	if i != len(s) {
		return fmt.Errorf("unexpected characters %q after value", strings.TrimSpace(s))
	}
	return nil
}
