// Package manifest implements an order and format preserving model of TOML
// build manifests. A parsed Document keeps every byte of the input attached to
// its tables and lines, so serializing an untouched Document reproduces the
// file exactly; mutation APIs rewrite only the line they target.
package manifest

import "strings"

type lineKind int

const (
	lineBlank lineKind = iota
	lineComment
	lineKeyValue
)

// Line is one logical line of a table: a blank line, a comment, or a
// key/value pair. Key/value lines may span several physical lines (multiline
// strings and arrays); the original text is retained in keyRaw, valueRaw and
// suffixRaw so untouched lines serialize byte for byte.
type Line struct {
	kind      lineKind
	raw       string
	key       []string
	keyRaw    string
	valueRaw  string
	suffixRaw string
}

// Key returns the parsed (dotted) key path of a key/value line, nil otherwise.
func (l *Line) Key() []string {
	return l.key
}

// Value returns the value text with surrounding whitespace trimmed.
func (l *Line) Value() string {
	return strings.TrimSpace(l.valueRaw)
}

// SetValue replaces the line's value with rendered text, keeping the key and
// any trailing comment. It reports whether the stored value actually changed.
func (l *Line) SetValue(rendered string) bool {
	if l.kind != lineKeyValue || l.Value() == rendered {
		return false
	}
	l.valueRaw = " " + rendered
	return true
}

func (l *Line) text() string {
	if l.kind == lineKeyValue {
		return l.keyRaw + "=" + l.valueRaw + l.suffixRaw
	}
	return l.raw
}

func (l *Line) endsWithNewline() bool {
	return strings.HasSuffix(l.text(), "\n")
}

func (l *Line) terminate() {
	if l.endsWithNewline() {
		return
	}
	if l.kind == lineKeyValue {
		l.suffixRaw += "\n"
	} else {
		l.raw += "\n"
	}
}

// Table is a [header] or [[header]] section, or the headerless root section
// holding everything before the first header.
type Table struct {
	headerRaw string
	keyPath   []string
	array     bool
	lines     []*Line
}

func (t *Table) KeyPath() []string {
	return t.keyPath
}

func (t *Table) IsArray() bool {
	return t.array
}

// Items returns the table's key/value lines in order.
func (t *Table) Items() []*Line {
	items := make([]*Line, 0, len(t.lines))
	for _, l := range t.lines {
		if l.kind == lineKeyValue {
			items = append(items, l)
		}
	}
	return items
}

// Get returns the key/value line for a single-segment key, or nil.
func (t *Table) Get(key string) *Line {
	for _, l := range t.lines {
		if l.kind == lineKeyValue && len(l.key) == 1 && l.key[0] == key {
			return l
		}
	}
	return nil
}

func (t *Table) Has(key string) bool {
	return t.Get(key) != nil
}

// SetValue sets key to the rendered value text, updating an existing line in
// place or appending a new one after the last non-blank line. It reports
// whether anything changed.
func (t *Table) SetValue(key string, rendered string) bool {
	if line := t.Get(key); line != nil {
		return line.SetValue(rendered)
	}
	line := &Line{
		kind:      lineKeyValue,
		key:       []string{key},
		keyRaw:    renderKeySegment(key) + " ",
		valueRaw:  " " + rendered,
		suffixRaw: "\n",
	}
	t.insert(line)
	return true
}

// Remove deletes the key/value line for key and reports whether it existed.
func (t *Table) Remove(key string) bool {
	for i, l := range t.lines {
		if l.kind == lineKeyValue && len(l.key) == 1 && l.key[0] == key {
			t.lines = append(t.lines[:i], t.lines[i+1:]...)
			return true
		}
	}
	return false
}

func (t *Table) insert(line *Line) {
	idx := len(t.lines)
	for idx > 0 && t.lines[idx-1].kind == lineBlank {
		idx--
	}
	if idx > 0 {
		t.lines[idx-1].terminate()
	}
	t.lines = append(t.lines, nil)
	copy(t.lines[idx+1:], t.lines[idx:])
	t.lines[idx] = line
}

func (t *Table) lastLine() *Line {
	if len(t.lines) == 0 {
		return nil
	}
	return t.lines[len(t.lines)-1]
}

func (t *Table) write(b *strings.Builder) {
	b.WriteString(t.headerRaw)
	for _, l := range t.lines {
		b.WriteString(l.text())
	}
}

// Document is a parsed manifest: the root table followed by every header
// section in file order.
type Document struct {
	path   string
	prefix string
	tables []*Table
}

func (d *Document) Path() string {
	return d.path
}

// Tables returns all sections including the root table.
func (d *Document) Tables() []*Table {
	return d.tables
}

// Table returns the first non-array section whose key path equals path
// exactly, or nil. Table() with no arguments returns the root section.
func (d *Document) Table(path ...string) *Table {
	for _, t := range d.tables {
		if t.array || len(t.keyPath) != len(path) {
			continue
		}
		match := true
		for i := range path {
			if t.keyPath[i] != path[i] {
				match = false
				break
			}
		}
		if match {
			return t
		}
	}
	return nil
}

// EnsureTable returns the section for path, appending a new one at the end of
// the document when absent. New sections are separated from preceding content
// by a blank line; no bare parent header is emitted for nested paths.
func (d *Document) EnsureTable(path ...string) *Table {
	if t := d.Table(path...); t != nil {
		return t
	}
	if last := d.lastTable(); last != nil {
		if line := last.lastLine(); line != nil {
			line.terminate()
			if line.kind != lineBlank {
				last.lines = append(last.lines, &Line{kind: lineBlank, raw: "\n"})
			}
		} else if last.headerRaw != "" {
			if !strings.HasSuffix(last.headerRaw, "\n") {
				last.headerRaw += "\n"
			}
			last.lines = append(last.lines, &Line{kind: lineBlank, raw: "\n"})
		}
	}
	t := &Table{
		headerRaw: renderHeader(path),
		keyPath:   append([]string(nil), path...),
	}
	d.tables = append(d.tables, t)
	return t
}

func (d *Document) lastTable() *Table {
	for i := len(d.tables) - 1; i >= 0; i-- {
		t := d.tables[i]
		if t.headerRaw != "" || len(t.lines) > 0 {
			return t
		}
	}
	return nil
}

// Bytes serializes the document. For an unmodified document the result is
// byte-identical to the parsed input.
func (d *Document) Bytes() []byte {
	var b strings.Builder
	b.WriteString(d.prefix)
	for _, t := range d.tables {
		t.write(&b)
	}
	return []byte(b.String())
}

func renderHeader(path []string) string {
	return "[" + RenderKeyPath(path) + "]\n"
}
