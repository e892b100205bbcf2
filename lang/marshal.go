package lang

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"strings"

	"github.com/goccy/go-yaml"
)

// state converts the document to an ordered structure suitable for JSON and
// YAML serialization: sequence name → head arguments plus an "elements" list
// of the body elements. Key order and case are preserved; interleaved text
// nodes (comments, loop control statements) are omitted from structured
// output.
func (d *Document) state() yaml.MapSlice {
	root := yaml.MapSlice{}

	for _, seq := range d.Sequences() {
		entry := yaml.MapSlice{}

		for key, value := range seq.Head().Args.All() {
			entry = append(entry, yaml.MapItem{Key: key, Value: valueState(value)})
		}

		elems := []any{}

		for _, n := range seq.Body() {
			if e, ok := n.(*Element); ok && e.Type != "" {
				elems = append(elems, e.state())
			}
		}

		entry = append(entry, yaml.MapItem{Key: "elements", Value: elems})
		root = append(root, yaml.MapItem{Key: seq.Name(), Value: entry})
	}

	return root
}

// state converts an element to an ordered serializable mapping.
func (e *Element) state() yaml.MapSlice {
	var name any
	if e.Name != "" {
		name = e.Name
	}

	entry := yaml.MapSlice{
		{Key: "name", Value: name},
		{Key: "type", Value: e.Type},
	}

	for key, value := range e.Args.All() {
		entry = append(entry, yaml.MapItem{Key: key, Value: valueState(value)})
	}

	return entry
}

// valueState converts a value to its native serializable form. Numbers stay
// numeric; symbolic values serialize as their expression text.
func valueState(v *Value) any {
	if v == nil {
		return nil
	}

	switch v.Kind {
	case KindNumber:
		if v.IsInt {
			return v.Int
		}

		return v.Float

	case KindString:
		return v.Str

	case KindArray:
		items := make([]any, len(v.Items))
		for i, item := range v.Items {
			items[i] = valueState(item)
		}

		return items

	default:
		return v.Text
	}
}

// FormatJSON writes the document's sequences as JSON. Key order and key case
// are preserved, which [encoding/json] cannot do for maps, so objects are
// encoded by hand while leaf values delegate to [json.Marshal].
func (d *Document) FormatJSON(_ context.Context, w io.Writer, indent int) error {
	buf := new(bytes.Buffer)

	err := encodeOrderedJSON(buf, d.state(), indent, 0)
	if err != nil {
		return err
	}

	buf.WriteByte('\n')

	_, err = w.Write(buf.Bytes())

	return err
}

// FormatYAML writes the document's sequences as YAML using ordered mappings.
func (d *Document) FormatYAML(ctx context.Context, w io.Writer, indent int) error {
	var opts []yaml.EncodeOption
	if indent > 0 {
		opts = append(opts, yaml.Indent(indent))
	}

	data, err := yaml.MarshalContext(ctx, d.state(), opts...)
	if err != nil {
		return err
	}

	_, err = w.Write(data)

	return err
}

// encodeOrderedJSON encodes ordered mappings, lists, and leaves as JSON.
func encodeOrderedJSON(
	buf *bytes.Buffer,
	value any,
	indent, depth int,
) error {
	pad := func(d int) string {
		if indent <= 0 {
			return ""
		}

		return "\n" + strings.Repeat(" ", d*indent)
	}

	sep := func() string {
		if indent <= 0 {
			return ", "
		}

		return ","
	}

	switch value := value.(type) {
	case yaml.MapSlice:
		if len(value) == 0 {
			buf.WriteString("{}")

			return nil
		}

		buf.WriteByte('{')

		for i, item := range value {
			if i > 0 {
				buf.WriteString(sep())
			}

			buf.WriteString(pad(depth + 1))

			key, err := json.Marshal(item.Key)
			if err != nil {
				return err
			}

			buf.Write(key)
			buf.WriteString(": ")

			if err := encodeOrderedJSON(buf, item.Value, indent, depth+1); err != nil {
				return err
			}
		}

		buf.WriteString(pad(depth))
		buf.WriteByte('}')

		return nil

	case []any:
		if len(value) == 0 {
			buf.WriteString("[]")

			return nil
		}

		buf.WriteByte('[')

		for i, item := range value {
			if i > 0 {
				buf.WriteString(sep())
			}

			buf.WriteString(pad(depth + 1))

			if err := encodeOrderedJSON(buf, item, indent, depth+1); err != nil {
				return err
			}
		}

		buf.WriteString(pad(depth))
		buf.WriteByte(']')

		return nil

	default:
		leaf, err := json.Marshal(value)
		if err != nil {
			return err
		}

		buf.Write(leaf)

		return nil
	}
}
