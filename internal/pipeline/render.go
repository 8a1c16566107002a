package pipeline

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/vk/pipeini/internal/inifile"
)

// Format selects the output encoding for a rendered document.
type Format string

const (
	FormatINI  Format = "ini"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat validates a user-supplied format name.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(s)) {
	case FormatINI:
		return FormatINI, nil
	case FormatJSON:
		return FormatJSON, nil
	case FormatYAML:
		return FormatYAML, nil
	}
	return "", fmt.Errorf("unknown format %q: must be 'ini', 'json', or 'yaml'", s)
}

// Render encodes the document in the requested format. Section and key order
// are preserved in every format.
func Render(doc *inifile.Document, format Format) ([]byte, error) {
	switch format {
	case FormatINI:
		var buf bytes.Buffer
		if err := doc.Encode(&buf); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	case FormatJSON:
		return renderJSON(doc)
	case FormatYAML:
		return renderYAML(doc)
	}
	return nil, fmt.Errorf("unknown format %q", format)
}

// renderJSON emits the document as a two-level JSON object. encoding/json
// maps would reorder keys, so the object is written by hand with marshalled
// scalars.
func renderJSON(doc *inifile.Document) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString("{\n")
	sections := doc.Sections()
	for i, section := range sections {
		name, err := json.Marshal(section.Name)
		if err != nil {
			return nil, err
		}
		fmt.Fprintf(&buf, "  %s: {\n", name)
		entries := section.Entries()
		for j, entry := range entries {
			k, err := json.Marshal(entry.Key)
			if err != nil {
				return nil, err
			}
			v, err := json.Marshal(entry.Value)
			if err != nil {
				return nil, err
			}
			fmt.Fprintf(&buf, "    %s: %s", k, v)
			if j < len(entries)-1 {
				buf.WriteByte(',')
			}
			buf.WriteByte('\n')
		}
		buf.WriteString("  }")
		if i < len(sections)-1 {
			buf.WriteByte(',')
		}
		buf.WriteByte('\n')
	}
	buf.WriteString("}\n")
	return buf.Bytes(), nil
}

// renderYAML emits the document through yaml.Node mappings, which keep
// insertion order.
func renderYAML(doc *inifile.Document) ([]byte, error) {
	root := &yaml.Node{Kind: yaml.MappingNode}
	for _, section := range doc.Sections() {
		sectionNode := &yaml.Node{Kind: yaml.MappingNode}
		for _, entry := range section.Entries() {
			sectionNode.Content = append(sectionNode.Content,
				scalarNode(entry.Key), scalarNode(entry.Value))
		}
		root.Content = append(root.Content, scalarNode(section.Name), sectionNode)
	}
	return yaml.Marshal(root)
}

func scalarNode(value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: value}
}
