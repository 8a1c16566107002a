package inifile

import (
	"fmt"
	"strings"
)

// DefaultSection is the name of the fallback section whose entries are
// visible to every other section during interpolation.
const DefaultSection = "DEFAULT"

// Entry is a single key/value pair within a section. Keys are stored in
// folded (lower-case) form; values are raw, uninterpolated text.
type Entry struct {
	Key   string
	Value string
}

// Section is an ordered collection of entries under one [name] header.
type Section struct {
	Name string

	entries []*Entry
	index   map[string]*Entry
}

func newSection(name string) *Section {
	return &Section{
		Name:  name,
		index: make(map[string]*Entry),
	}
}

// FoldKey normalizes a key the way the dialect does: trimmed and lower-cased.
func FoldKey(key string) string {
	return strings.ToLower(strings.TrimSpace(key))
}

// Get returns the value for key and whether the key exists.
func (s *Section) Get(key string) (string, bool) {
	e, ok := s.index[FoldKey(key)]
	if !ok {
		return "", false
	}
	return e.Value, true
}

// Value returns the value for key, or the empty string if absent.
func (s *Section) Value(key string) string {
	v, _ := s.Get(key)
	return v
}

// Has reports whether key exists in the section.
func (s *Section) Has(key string) bool {
	_, ok := s.index[FoldKey(key)]
	return ok
}

// Set replaces the value of an existing key in place, or appends a new entry
// at the end of the section.
func (s *Section) Set(key, value string) {
	k := FoldKey(key)
	if e, ok := s.index[k]; ok {
		e.Value = value
		return
	}
	e := &Entry{Key: k, Value: value}
	s.entries = append(s.entries, e)
	s.index[k] = e
}

// Keys returns the section's keys in their original order.
func (s *Section) Keys() []string {
	keys := make([]string, len(s.entries))
	for i, e := range s.entries {
		keys[i] = e.Key
	}
	return keys
}

// Entries returns a copy of the section's entries in their original order.
func (s *Section) Entries() []Entry {
	out := make([]Entry, len(s.entries))
	for i, e := range s.entries {
		out[i] = *e
	}
	return out
}

// Len returns the number of entries in the section.
func (s *Section) Len() int {
	return len(s.entries)
}

// Document is an ordered set of sections parsed from one INI file.
type Document struct {
	// Name identifies the source, usually a file path. It is carried through
	// for error reporting only.
	Name string

	sections []*Section
	index    map[string]*Section
}

// NewDocument creates an empty document.
func NewDocument(name string) *Document {
	return &Document{
		Name:  name,
		index: make(map[string]*Section),
	}
}

// Section returns the named section and whether it exists. Section names are
// case-sensitive, matching the dialect.
func (d *Document) Section(name string) (*Section, bool) {
	s, ok := d.index[name]
	return s, ok
}

// AddSection appends a new, empty section. Adding a name that already exists
// is an error; the dialect forbids duplicate section headers.
func (d *Document) AddSection(name string) (*Section, error) {
	if _, ok := d.index[name]; ok {
		return nil, fmt.Errorf("duplicate section %q", name)
	}
	s := newSection(name)
	d.sections = append(d.sections, s)
	d.index[name] = s
	return s, nil
}

// Sections returns all sections, including [DEFAULT] if present, in their
// original order.
func (d *Document) Sections() []*Section {
	return d.sections
}

// Names returns the section names in their original order.
func (d *Document) Names() []string {
	names := make([]string, len(d.sections))
	for i, s := range d.sections {
		names[i] = s.Name
	}
	return names
}

// Defaults returns the [DEFAULT] section, or nil if the document has none.
func (d *Document) Defaults() *Section {
	s, ok := d.index[DefaultSection]
	if !ok {
		return nil
	}
	return s
}

// Clone returns a deep copy of the document.
func (d *Document) Clone() *Document {
	out := NewDocument(d.Name)
	for _, s := range d.sections {
		ns, _ := out.AddSection(s.Name)
		for _, e := range s.entries {
			ns.Set(e.Key, e.Value)
		}
	}
	return out
}
