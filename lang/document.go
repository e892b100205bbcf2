package lang

import (
	"log/slog"
	"strings"

	"github.com/ardnew/madseq/log"
)

// Node is one top-level entry of a MAD-X document: a [Text], an [Element],
// a [Line], or a [Sequence].
type Node interface{ node() }

// Text is an opaque section of a MAD-X document: a comment, a blank line, or
// a statement outside the grammar madseq understands. It is preserved
// verbatim.
type Text string

func (Text) node() {}

// Line is a MAD-X LINE statement naming a list of previously defined
// elements.
type Line struct {
	Name  string
	Elems []string
}

func (*Line) node() {}

// Sequence is a SEQUENCE..ENDSEQUENCE group.
//
// Nodes holds the head element (type "sequence"), the body, and the tail
// element (type "endsequence"). The body may interleave [Text] nodes with
// elements. Preface holds template nodes rendered before the sequence.
type Sequence struct {
	Nodes   []Node
	Preface []Node
}

func (*Sequence) node() {}

// Head returns the opening element of type "sequence".
func (s *Sequence) Head() *Element {
	e, _ := s.Nodes[0].(*Element)

	return e
}

// Tail returns the closing element of type "endsequence".
func (s *Sequence) Tail() *Element {
	e, _ := s.Nodes[len(s.Nodes)-1].(*Element)

	return e
}

// Body returns the nodes between head and tail.
func (s *Sequence) Body() []Node {
	return s.Nodes[1 : len(s.Nodes)-1]
}

// Name returns the sequence name from its head element.
func (s *Sequence) Name() string { return s.Head().Name }

// DetectSequences groups SEQUENCE..ENDSEQUENCE runs in a node list into
// [Sequence] nodes and expands LINE statements into equivalent sequences.
// All other nodes pass through unchanged.
//
// A SEQUENCE with no terminating ENDSEQUENCE, or a LINE referencing a name
// with no prior element definition, is [ErrSequenceStructure].
//
// LINE expansion synthesizes a sequence with refer=entry. In inline mode the
// named elements are spliced into the body directly; otherwise the body
// holds thin reference elements whose base is the named element.
func DetectSequences(nodes []Node, inline bool) ([]Node, error) {
	byName := make(map[string]*Element)

	for _, n := range nodes {
		if e, ok := n.(*Element); ok && e.Name != "" {
			byName[strings.ToLower(e.Name)] = e
		}
	}

	var out []Node

	for i := 0; i < len(nodes); i++ {
		switch n := nodes[i].(type) {
		case *Element:
			if !n.TypeIs("sequence") {
				out = append(out, n)

				continue
			}

			n.Args.SetDefault("refer", NewIdentifier("entry"))

			seq := []Node{n}
			closed := false

			for i++; i < len(nodes); i++ {
				seq = append(seq, nodes[i])

				if e, ok := nodes[i].(*Element); ok && e.TypeIs("endsequence") {
					closed = true

					break
				}
			}

			if !closed {
				return nil, ErrSequenceStructure.With(
					slog.String("sequence", n.Name),
					slog.String("reason", "missing endsequence"),
				)
			}

			out = append(out, &Sequence{Nodes: seq})

		case *Line:
			seq, err := expandLine(n, byName, inline)
			if err != nil {
				return nil, err
			}

			out = append(out, seq)

		default:
			out = append(out, n)
		}
	}

	return out, nil
}

// expandLine synthesizes a sequence equivalent to a LINE statement.
func expandLine(
	ln *Line,
	byName map[string]*Element,
	inline bool,
) (*Sequence, error) {
	head := NewElement(ln.Name, "sequence", nil, nil)
	head.Set("refer", NewIdentifier("entry"))

	seq := []Node{head}

	for _, name := range ln.Elems {
		elem, ok := byName[strings.ToLower(name)]
		if !ok {
			return nil, ErrSequenceStructure.With(
				slog.String("line", ln.Name),
				slog.String("undefined", name),
			)
		}

		if inline {
			seq = append(seq, elem)
		} else {
			seq = append(seq, NewElement("", name, nil, elem))
		}
	}

	seq = append(seq, NewElement("", "endsequence", nil, nil))

	return &Sequence{Nodes: seq}, nil
}

// Definitions is a request-scoped, case-insensitive table of named elements
// used to resolve base references during a transform pass.
type Definitions struct {
	byName map[string]*Element
}

// NewDefinitions creates an empty definitions table.
func NewDefinitions() *Definitions {
	return &Definitions{byName: make(map[string]*Element)}
}

// Set registers an element under name.
func (d *Definitions) Set(name string, e *Element) {
	d.byName[strings.ToLower(name)] = e
}

// Get returns the element registered under name, or nil.
func (d *Definitions) Get(name string) *Element {
	return d.byName[strings.ToLower(name)]
}

// NodeTransform rewrites one document node. The definitions table is shared
// across the whole pass and is populated in document order.
type NodeTransform func(Node, *Definitions) (Node, error)

// Document is an ordered list of top-level MAD-X nodes.
type Document struct {
	Nodes []Node
}

// Transform creates a new document by applying tr to each node in order.
// The definitions table is scoped to this call and is not persisted.
func (d *Document) Transform(tr NodeTransform) (*Document, error) {
	defs := NewDefinitions()
	out := make([]Node, 0, len(d.Nodes))

	for _, n := range d.Nodes {
		m, err := tr(n, defs)
		if err != nil {
			return nil, err
		}

		out = append(out, m)
	}

	return &Document{Nodes: out}, nil
}

// Sequences returns the sequence nodes of the document in order.
func (d *Document) Sequences() []*Sequence {
	var seqs []*Sequence

	for _, n := range d.Nodes {
		if s, ok := n.(*Sequence); ok {
			seqs = append(seqs, s)
		}
	}

	return seqs
}

// parseConfig holds optional parsing behavior.
type parseConfig struct {
	logger log.Logger
	inline bool
}

// ParseOption configures document parsing.
type ParseOption func(*parseConfig)

// WithLogger sets the structured logger for trace-level parse debugging.
// If not provided, the logger is zero-valued and all logging is a no-op.
func WithLogger(logger log.Logger) ParseOption {
	return func(cfg *parseConfig) {
		cfg.logger = logger
	}
}

// WithInlineLines controls LINE statement expansion. When enabled, the
// referenced elements are spliced into the synthesized sequence directly
// instead of through thin reference elements.
func WithInlineLines(inline bool) ParseOption {
	return func(cfg *parseConfig) {
		cfg.inline = inline
	}
}
