package inifile

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// ParseError describes a syntax problem at a specific line of the input.
type ParseError struct {
	File string
	Line int
	Msg  string
}

// Error implements the error interface for ParseError.
func (e *ParseError) Error() string {
	return fmt.Sprintf("%s:%d: %s", e.File, e.Line, e.Msg)
}

// ParseFile reads and parses the INI file at path.
func ParseFile(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Parse(f, path)
}

// Parse reads the configparser-flavored INI dialect from r. The name is used
// in error messages, conventionally the file path.
//
// Rules: '[name]' headers open sections; 'key = value' or 'key : value'
// lines add entries; lines whose first non-blank character is ';' or '#' are
// comments; a non-blank line starting with whitespace continues the previous
// entry's value; a blank line ends a multi-line value. Keys are folded to
// lower case. Duplicate sections, duplicate keys within a section, and
// entries before the first section header are errors.
func Parse(r io.Reader, name string) (*Document, error) {
	doc := NewDocument(name)

	var (
		current *Section
		last    *Entry
		lineNo  int
	)

	fail := func(format string, args ...any) error {
		return &ParseError{File: name, Line: lineNo, Msg: fmt.Sprintf(format, args...)}
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		trimmed := strings.TrimSpace(line)

		// Blank lines end any multi-line value in progress.
		if trimmed == "" {
			last = nil
			continue
		}

		if trimmed[0] == ';' || trimmed[0] == '#' {
			last = nil
			continue
		}

		// Continuation: leading whitespace on a non-blank, non-comment line.
		if line[0] == ' ' || line[0] == '\t' {
			if last == nil {
				return nil, fail("continuation line without a preceding entry")
			}
			last.Value += "\n" + trimmed
			continue
		}

		if trimmed[0] == '[' {
			end := strings.IndexByte(trimmed, ']')
			if end < 0 {
				return nil, fail("section header missing closing ']'")
			}
			if rest := strings.TrimSpace(trimmed[end+1:]); rest != "" {
				return nil, fail("unexpected text after section header: %q", rest)
			}
			sectionName := strings.TrimSpace(trimmed[1:end])
			if sectionName == "" {
				return nil, fail("empty section name")
			}
			section, err := doc.AddSection(sectionName)
			if err != nil {
				return nil, fail("duplicate section %q", sectionName)
			}
			current = section
			last = nil
			continue
		}

		sep := separatorIndex(trimmed)
		if sep < 0 {
			return nil, fail("expected 'key = value', got %q", trimmed)
		}
		if current == nil {
			return nil, fail("entry before any section header")
		}
		key := FoldKey(trimmed[:sep])
		if key == "" {
			return nil, fail("empty key")
		}
		if current.Has(key) {
			return nil, fail("duplicate key %q in section %q", key, current.Name)
		}
		value := strings.TrimSpace(trimmed[sep+1:])
		current.Set(key, value)
		last = current.index[key]
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading %s: %w", name, err)
	}

	return doc, nil
}

// separatorIndex returns the position of the first '=' or ':' in the line,
// whichever comes first, or -1 if neither is present.
func separatorIndex(line string) int {
	eq := strings.IndexByte(line, '=')
	co := strings.IndexByte(line, ':')
	switch {
	case eq < 0:
		return co
	case co < 0:
		return eq
	case eq < co:
		return eq
	default:
		return co
	}
}
