package transform

import (
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"

	"github.com/ardnew/madseq/lang"
)

// ElementTransform is one compiled slicing rule. Construct it with
// [NewElementTransform], which validates the selector's mutually exclusive
// keys once so that [ElementTransform.Slice] never revisits the policy.
type ElementTransform struct {
	match      func(*lang.Element) bool
	position   func(elem *lang.Element, length, offset, refer *lang.Value) *lang.Value
	count      func(length *lang.Value) (int, error)
	rescale    func(*lang.Element, *lang.Value) (*lang.Element, error)
	distribute distribution
	template   bool
}

// distribution emits the slices of one rescaled element.
type distribution func(
	elem *lang.Element,
	offset, refer *lang.Value,
	num int,
	length *lang.Value,
) []lang.Node

// NewElementTransform compiles a selector into a slicing rule.
//
// It returns [ErrAmbiguousSelector] if the selector specifies both name and
// type, or both density and slice, and [ErrUnknownStyle] for a distribution
// style other than uniform or loop.
func NewElementTransform(sel Selector) (*ElementTransform, error) {
	t := &ElementTransform{template: sel.Template}

	switch {
	case sel.Name != "" && sel.Type != "":
		return nil, ErrAmbiguousSelector.With(
			slog.String("given", "name, type"),
		)

	case sel.Name != "":
		t.match = func(elem *lang.Element) bool { return elem.NameIs(sel.Name) }

	case sel.Type != "":
		t.match = func(elem *lang.Element) bool {
			return strings.EqualFold(elem.BaseType(), sel.Type)
		}

	default:
		t.match = func(*lang.Element) bool { return true }
	}

	if sel.UseAt == nil || *sel.UseAt {
		t.position = entryPosition
	} else {
		t.position = func(_ *lang.Element, _, offset, _ *lang.Value) *lang.Value {
			return offset
		}
	}

	switch {
	case sel.Density != nil && sel.Slice != nil:
		return nil, ErrAmbiguousSelector.With(
			slog.String("given", "density, slice"),
		)

	case sel.Density != nil:
		density := *sel.Density
		t.count = func(length *lang.Value) (int, error) {
			f, ok := length.AsFloat()
			if !ok {
				return 0, ErrNumericValue.With(
					slog.String("key", "L"),
					slog.String("value", length.Expr()),
				)
			}

			return int(math.Ceil(math.Abs(f * density))), nil
		}

	default:
		num := 1
		if sel.Slice != nil {
			num = *sel.Slice
		}

		t.count = func(*lang.Value) (int, error) { return num, nil }
	}

	if sel.Makethin {
		t.rescale = RescaleMakethin
	} else {
		t.rescale = RescaleThick
	}

	switch strings.ToLower(sel.Style) {
	case "", "uniform":
		t.distribute = uniformSlices
	case "loop":
		t.distribute = loopSlices
	default:
		return nil, ErrUnknownStyle.With(slog.String("style", sel.Style))
	}

	return t, nil
}

// Match reports whether this rule applies to the element.
func (t *ElementTransform) Match(elem *lang.Element) bool { return t.match(elem) }

// Slice subdivides one element at the given running offset.
//
// It returns any template definitions produced, the nodes replacing the
// element in the sequence body, and the running offset advanced past the
// element. The input element is never modified.
func (t *ElementTransform) Slice(
	elem *lang.Element,
	offset, refer *lang.Value,
) (templates, nodes []lang.Node, next *lang.Value, err error) {
	length := elem.GetDefault("L", lang.NewInt(0))
	entry := t.position(elem, length, offset, refer)

	num, err := t.count(length)
	if err != nil {
		return nil, nil, nil, err
	}

	if num < 1 {
		num = 1
	}

	sliceLen := lang.Div(length, lang.NewInt(int64(num)))

	ratio := one
	if num > 1 {
		ratio = lang.NewFloat(1 / float64(num))
	}

	scaled, err := t.rescale(elem, ratio)
	if err != nil {
		return nil, nil, nil, err
	}

	out := scaled

	if t.template {
		tmpl := scaled.Copy()
		tmpl.Delete("at")
		templates = append(templates, tmpl)

		// Reference the template by name; each placed instance carries only
		// its position.
		out = lang.NewElement("", tmpl.Name, nil, tmpl)
	}

	nodes = t.distribute(out, entry, refer, num, sliceLen)

	return templates, nodes, lang.Add(entry, length), nil
}

// entryPosition converts an explicit at argument to the element's entry
// offset under the sequence's refer convention, or falls back to the running
// offset when the element carries no at.
func entryPosition(elem *lang.Element, length, offset, refer *lang.Value) *lang.Value {
	at, ok := elem.Get("at")
	if !ok {
		return offset
	}

	return lang.Sub(at, lang.Mul(length, refer))
}

// uniformSlices emits num copies of the element at evenly spaced offsets.
// Copies are renamed name..i when an element is split more than once.
func uniformSlices(
	elem *lang.Element,
	offset, refer *lang.Value,
	num int,
	length *lang.Value,
) []lang.Node {
	nodes := make([]lang.Node, 0, num)

	for i := range num {
		slice := elem.Copy()
		slice.Set("at", lang.Add(
			offset,
			lang.Mul(lang.Add(lang.NewInt(int64(i)), refer), length),
		))

		if slice.Name != "" && num > 1 {
			slice.Name = elem.Name + ".." + strconv.Itoa(i)
		}

		nodes = append(nodes, slice)
	}

	return nodes
}

// loopSlices emits a single anonymous element parametrized over a loop
// counter, bracketed by literal loop control statements. The result is only
// meaningful in textual output.
func loopSlices(
	elem *lang.Element,
	offset, refer *lang.Value,
	num int,
	length *lang.Value,
) []lang.Node {
	slice := elem.Copy()
	slice.Name = ""
	slice.Set("at", lang.Add(
		offset,
		lang.Mul(lang.Add(lang.NewIdentifier("i"), refer), length),
	))

	return []lang.Node{
		lang.Text("i = 0;"),
		lang.Text(fmt.Sprintf("while (i < %d) {", num)),
		slice,
		lang.Text("i = i + 1;"),
		lang.Text("}"),
	}
}
