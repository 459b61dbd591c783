package document

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// MarshalJSON writes $schema first, then the root keywords, then the
// definitions in discovery order. Output is byte identical across runs.
func (d *Document) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(`{"$schema":`)
	if err := writeJSON(&buf, d.Dialect.SchemaURI()); err != nil {
		return nil, err
	}

	root, err := json.Marshal(d.Root)
	if err != nil {
		return nil, fmt.Errorf("marshal root: %w", err)
	}
	if body := bytes.TrimSpace(root); len(body) > 2 {
		buf.WriteByte(',')
		buf.Write(body[1 : len(body)-1])
	}

	buf.WriteByte(',')
	if err := writeJSON(&buf, d.Dialect.DefinitionsKey()); err != nil {
		return nil, err
	}
	buf.WriteString(":{")
	for i, def := range d.Definitions {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeJSON(&buf, def.Name); err != nil {
			return nil, err
		}
		buf.WriteByte(':')
		if err := writeJSON(&buf, def.Schema); err != nil {
			return nil, fmt.Errorf("marshal definition %s: %w", def.Name, err)
		}
	}
	buf.WriteString("}}")

	return buf.Bytes(), nil
}

// MarshalIndent is MarshalJSON indented with indent per level.
func (d *Document) MarshalIndent(indent string) ([]byte, error) {
	compact, err := d.MarshalJSON()
	if err != nil {
		return nil, err
	}

	var out bytes.Buffer
	if err := json.Indent(&out, compact, "", indent); err != nil {
		return nil, err
	}
	out.WriteByte('\n')
	return out.Bytes(), nil
}

func writeJSON(buf *bytes.Buffer, v interface{}) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	buf.Write(b)
	return nil
}
