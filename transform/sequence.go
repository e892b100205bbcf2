package transform

import (
	"log/slog"
	"strings"

	"github.com/ardnew/madseq/lang"
)

// referOffsets maps a sequence's refer convention to the fraction of an
// element's length between its entry and its addressed position.
var referOffsets = map[string]*lang.Value{
	"entry":  lang.NewInt(0),
	"centre": lang.NewFloat(0.5),
	"exit":   lang.NewInt(1),
}

// SequenceTransform applies an ordered rule list to every sequence of a
// document. Use it as the [lang.NodeTransform] of [lang.Document.Transform].
type SequenceTransform struct {
	rules []*ElementTransform
}

// New compiles the selectors into a sequence transformation. An implicit
// catch-all rule is appended, so every element matches some rule: unselected
// elements are kept whole with their position recomputed.
func New(selectors ...Selector) (*SequenceTransform, error) {
	rules := make([]*ElementTransform, 0, len(selectors)+1)

	for _, sel := range selectors {
		rule, err := NewElementTransform(sel)
		if err != nil {
			return nil, err
		}

		rules = append(rules, rule)
	}

	catchAll, err := NewElementTransform(Selector{})
	if err != nil {
		return nil, err
	}

	return &SequenceTransform{rules: append(rules, catchAll)}, nil
}

// Apply transforms one top-level document node.
//
// Named elements are registered in defs and have their base resolved against
// previously defined names. Sequences are rebuilt by slicing each body
// element with the first matching rule; all other nodes pass through
// unchanged.
func (t *SequenceTransform) Apply(node lang.Node, defs *lang.Definitions) (lang.Node, error) {
	if elem, ok := node.(*lang.Element); ok {
		if elem.Name != "" {
			defs.Set(elem.Name, elem)
		}

		elem.Base = defs.Get(elem.Type)
	}

	seq, ok := node.(*lang.Sequence)
	if !ok {
		return node, nil
	}

	head := seq.Head().Copy()

	referName := head.GetDefault("refer", lang.NewIdentifier("centre")).Expr()

	refer, ok := referOffsets[strings.ToLower(referName)]
	if !ok {
		return nil, ErrUnknownRefer.With(
			slog.String("refer", referName),
			slog.String("sequence", head.Name),
		)
	}

	var templates, elements []lang.Node

	position := lang.NewInt(0)

	for _, node := range seq.Body() {
		elem, ok := node.(*lang.Element)
		if !ok || elem.Type == "" {
			elements = append(elements, node)

			continue
		}

		elem.Base = defs.Get(elem.Type)

		tmpl, out, next, err := t.matchRule(elem).Slice(elem, position, refer)
		if err != nil {
			return nil, err
		}

		templates = append(templates, tmpl...)
		elements = append(elements, out...)
		position = next
	}

	head.Set("L", position)

	if len(templates) > 0 {
		wrapped := make([]lang.Node, 0, len(templates)+2)
		wrapped = append(wrapped, lang.Text("! Template elements for "+head.Name+":"))
		wrapped = append(wrapped, templates...)
		wrapped = append(wrapped, lang.Text(""))
		templates = wrapped
	}

	nodes := make([]lang.Node, 0, len(elements)+2)
	nodes = append(nodes, head)
	nodes = append(nodes, elements...)
	nodes = append(nodes, seq.Tail())

	return &lang.Sequence{Nodes: nodes, Preface: templates}, nil
}

// matchRule returns the first rule matching the element. The trailing
// catch-all guarantees a match.
func (t *SequenceTransform) matchRule(elem *lang.Element) *ElementTransform {
	for _, rule := range t.rules {
		if rule.Match(elem) {
			return rule
		}
	}

	return t.rules[len(t.rules)-1]
}
