package lang

import (
	"fmt"
	"io"
	"strings"
)

// String renders the element in MAD-X format:
// "[name: ]type[, key[=value]]*;". Arguments with a nil value render as a
// bare key.
func (e *Element) String() string {
	var b strings.Builder

	if e.Name != "" {
		b.WriteString(e.Name)
		b.WriteString(": ")
	}

	b.WriteString(e.Type)

	for key, value := range e.Args.All() {
		b.WriteString(", ")
		b.WriteString(key)

		if value != nil {
			b.WriteString(value.Argument())
		}
	}

	b.WriteString(";")

	return b.String()
}

// String renders the LINE statement in MAD-X format.
func (l *Line) String() string {
	return l.Name + ": LINE=(" + strings.Join(l.Elems, ",") + ");"
}

// String renders the sequence in MAD-X format, preface first.
func (s *Sequence) String() string {
	parts := make([]string, 0, len(s.Preface)+len(s.Nodes))

	for _, n := range s.Preface {
		parts = append(parts, formatNode(n))
	}

	for _, n := range s.Nodes {
		parts = append(parts, formatNode(n))
	}

	return strings.Join(parts, "\n")
}

// formatNode renders any node as MAD-X text.
func formatNode(n Node) string {
	switch n := n.(type) {
	case Text:
		return string(n)

	case fmt.Stringer:
		return n.String()

	default:
		return ""
	}
}

// Format writes the document as MAD-X text.
func (d *Document) Format(w io.Writer) error {
	for i, n := range d.Nodes {
		if i > 0 {
			if _, err := io.WriteString(w, "\n"); err != nil {
				return err
			}
		}

		if _, err := io.WriteString(w, formatNode(n)); err != nil {
			return err
		}
	}

	_, err := io.WriteString(w, "\n")

	return err
}
