package core

import (
	"fmt"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"cargo-repin/internal/manifest"
)

type entryForm int

const (
	entryInline entryForm = iota
	entryString
	entrySubTable
)

// depEntry is a uniform editing view over the shapes a dependency declaration
// takes in a manifest: an inline table value, a plain version string, or an
// expanded [dependencies.name] section.
type depEntry struct {
	name   string
	form   entryForm
	line   *manifest.Line
	inline *manifest.InlineTable
	table  *manifest.Table
	dirty  bool
}

func isDependencyTableName(name string) bool {
	switch name {
	case "dependencies", "dev-dependencies", "build-dependencies":
		return true
	}
	return false
}

func isDependencyTablePath(keyPath []string) bool {
	return len(keyPath) > 0 && isDependencyTableName(keyPath[len(keyPath)-1])
}

// collectEntries gathers every dependency entry of the document, in file
// order, from all dependency tables (top-level, workspace and target
// specific) and their expanded sub-table forms.
func collectEntries(doc *manifest.Document) ([]*depEntry, error) {
	return entriesMatching(doc, isDependencyTablePath)
}

func entriesMatching(doc *manifest.Document, pred func([]string) bool) ([]*depEntry, error) {
	var entries []*depEntry
	for _, table := range doc.Tables() {
		if table.IsArray() {
			continue
		}
		keyPath := table.KeyPath()
		switch {
		case pred(keyPath):
			for _, item := range table.Items() {
				if len(item.Key()) != 1 {
					continue
				}
				entry, err := newLineEntry(doc, item)
				if err != nil {
					return nil, err
				}
				entries = append(entries, entry)
			}
		case len(keyPath) > 1 && pred(keyPath[:len(keyPath)-1]):
			entries = append(entries, &depEntry{
				name:  keyPath[len(keyPath)-1],
				form:  entrySubTable,
				table: table,
			})
		}
	}
	return entries, nil
}

func newLineEntry(doc *manifest.Document, line *manifest.Line) (*depEntry, error) {
	name := line.Key()[0]
	inline, isInline, err := manifest.ParseInline(line.Value())
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("failed to parse %s", doc.Path())).
			WithCause(fmt.Errorf("dependency %q: %w", name, err))
	}
	if isInline {
		return &depEntry{name: name, form: entryInline, line: line, inline: inline}, nil
	}
	return &depEntry{name: name, form: entryString, line: line}, nil
}

// packageName is the effective crate name: the package key when present,
// otherwise the entry key.
func (e *depEntry) packageName() string {
	if pkg, ok := e.getString("package"); ok {
		return pkg
	}
	return e.name
}

// getRaw returns the trimmed value text for key.
func (e *depEntry) getRaw(key string) (string, bool) {
	switch e.form {
	case entryInline:
		return e.inline.Get(key)
	case entrySubTable:
		if line := e.table.Get(key); line != nil {
			return line.Value(), true
		}
	}
	return "", false
}

// getString returns the unquoted string value for key.
func (e *depEntry) getString(key string) (string, bool) {
	raw, ok := e.getRaw(key)
	if !ok {
		return "", false
	}
	return manifest.ParseString(raw)
}

func (e *depEntry) has(key string) bool {
	_, ok := e.getRaw(key)
	return ok
}

func (e *depEntry) setString(key, value string) bool {
	return e.setRaw(key, manifest.String(value))
}

func (e *depEntry) setRaw(key, rendered string) bool {
	switch e.form {
	case entryInline:
		changed := e.inline.Set(key, rendered)
		e.dirty = e.dirty || changed
		return changed
	case entrySubTable:
		return e.table.SetValue(key, rendered)
	}
	return false
}

func (e *depEntry) remove(key string) bool {
	switch e.form {
	case entryInline:
		changed := e.inline.Remove(key)
		e.dirty = e.dirty || changed
		return changed
	case entrySubTable:
		return e.table.Remove(key)
	}
	return false
}

// replaceValue swaps the entry's whole value, converting a plain version
// string into an inline table. Sub-table entries are left to key-level edits.
func (e *depEntry) replaceValue(rendered string) bool {
	if e.line == nil {
		return false
	}
	changed := e.line.SetValue(rendered)
	if changed && e.form == entryString {
		if inline, isInline, err := manifest.ParseInline(rendered); err == nil && isInline {
			e.form = entryInline
			e.inline = inline
			e.dirty = false
		}
	}
	return changed
}

func (e *depEntry) sortKeys(rank func(string) int) bool {
	if e.form != entryInline {
		return false
	}
	changed := e.inline.SortKeys(rank)
	e.dirty = e.dirty || changed
	return changed
}

// flush writes pending inline-table mutations back to the underlying line.
func (e *depEntry) flush() {
	if e.form == entryInline && e.dirty {
		e.line.SetValue(e.inline.Render())
		e.dirty = false
	}
}
