package inifile

import (
	"bufio"
	"io"
	"strings"
)

// Encode writes the document back out as INI text. Sections appear in their
// original order, as do keys within each section; multi-line values are
// written with indented continuation lines. Comments are not part of the
// document model, so the output is the comment-free semantic content.
// Parsing the output yields a document identical to this one.
func (d *Document) Encode(w io.Writer) error {
	bw := bufio.NewWriter(w)
	for i, s := range d.sections {
		if i > 0 {
			bw.WriteByte('\n')
		}
		bw.WriteByte('[')
		bw.WriteString(s.Name)
		bw.WriteString("]\n")
		for _, e := range s.entries {
			lines := strings.Split(e.Value, "\n")
			bw.WriteString(e.Key)
			bw.WriteString(" = ")
			bw.WriteString(lines[0])
			bw.WriteByte('\n')
			for _, cont := range lines[1:] {
				bw.WriteString("    ")
				bw.WriteString(cont)
				bw.WriteByte('\n')
			}
		}
	}
	return bw.Flush()
}

// String returns the encoded document as a string.
func (d *Document) String() string {
	var sb strings.Builder
	_ = d.Encode(&sb)
	return sb.String()
}
