package transform

import (
	"errors"
	"strings"
	"testing"

	"github.com/ardnew/madseq/lang"
)

// applyString parses source, applies the selectors, and returns the
// transformed document.
func applyString(t *testing.T, source string, selectors ...Selector) *lang.Document {
	t.Helper()

	st, err := New(selectors...)
	if err != nil {
		t.Fatal(err)
	}

	doc, err := lang.ParseString(source)
	if err != nil {
		t.Fatal(err)
	}

	doc, err = doc.Transform(st.Apply)
	if err != nil {
		t.Fatal(err)
	}

	return doc
}

// bodyElements returns the element nodes of the first sequence body.
func bodyElements(t *testing.T, doc *lang.Document) []*lang.Element {
	t.Helper()

	seqs := doc.Sequences()
	if len(seqs) == 0 {
		t.Fatal("document has no sequences")
	}

	var elems []*lang.Element

	for _, n := range seqs[0].Body() {
		if e, ok := n.(*lang.Element); ok {
			elems = append(elems, e)
		}
	}

	return elems
}

// TestSliceUniform verifies fixed-count slicing of a single element under
// refer=entry addressing.
func TestSliceUniform(t *testing.T) {
	source := "S: SEQUENCE, refer=entry;\n" +
		"Q: QUADRUPOLE, L=2, K1=3, at=0;\n" +
		"ENDSEQUENCE;\n"

	two := 2
	doc := applyString(t, source, Selector{Type: "quadrupole", Slice: &two})

	elems := bodyElements(t, doc)
	if len(elems) != 2 {
		t.Fatalf("body has %d elements, want 2", len(elems))
	}

	for i, want := range []struct {
		name string
		at   int64
	}{
		{name: "Q..0", at: 0},
		{name: "Q..1", at: 1},
	} {
		elem := elems[i]

		if elem.Name != want.name {
			t.Errorf("elems[%d].Name = %q, want %q", i, elem.Name, want.name)
		}

		if v, _ := elem.Get("L"); !v.Equal(lang.NewInt(1)) {
			t.Errorf("elems[%d].L = %v, want 1", i, v)
		}

		if v, _ := elem.Get("K1"); !v.Equal(lang.NewInt(3)) {
			t.Errorf("elems[%d].K1 = %v, want 3", i, v)
		}

		if v, _ := elem.Get("at"); !v.Equal(lang.NewInt(want.at)) {
			t.Errorf("elems[%d].at = %v, want %d", i, v, want.at)
		}
	}

	head := doc.Sequences()[0].Head()
	if v, _ := head.Get("L"); !v.Equal(lang.NewInt(2)) {
		t.Errorf("head.L = %v, want total length 2", v)
	}
}

// TestSliceConservation verifies that slicing preserves total length and
// produces strictly increasing offsets separated by the slice length.
func TestSliceConservation(t *testing.T) {
	source := "S: SEQUENCE, refer=entry;\n" +
		"B: SBEND, L=2, angle=1, at=0;\n" +
		"D: DRIFT, L=3, at=2;\n" +
		"ENDSEQUENCE;\n"

	four := 4
	doc := applyString(t, source, Selector{Type: "sbend", Slice: &four})

	elems := bodyElements(t, doc)
	if len(elems) != 5 {
		t.Fatalf("body has %d elements, want 5", len(elems))
	}

	var total float64

	prev := -1.0

	for _, elem := range elems[:4] {
		length, ok := elem.GetDefault("L", lang.NewInt(0)).AsFloat()
		if !ok {
			t.Fatalf("non-numeric slice length in %v", elem)
		}

		total += length

		at, ok := elem.GetDefault("at", nil).AsFloat()
		if !ok {
			t.Fatalf("non-numeric at in %v", elem)
		}

		if at <= prev {
			t.Errorf("offsets not strictly increasing: %v after %v", at, prev)
		}

		if prev >= 0 && at-prev != 0.5 {
			t.Errorf("offset step = %v, want slice length 0.5", at-prev)
		}

		prev = at
	}

	if total != 2 {
		t.Errorf("sum of slice lengths = %v, want 2", total)
	}

	// The trailing drift keeps its position and length.
	if v, _ := elems[4].Get("at"); !v.Equal(lang.NewInt(2)) {
		t.Errorf("drift at = %v, want 2", v)
	}

	head := doc.Sequences()[0].Head()
	if v, _ := head.Get("L"); !v.Equal(lang.NewInt(5)) {
		t.Errorf("head.L = %v, want 5", v)
	}
}

// TestSliceReferCentre verifies entry-offset conversion of explicit at
// values under centre addressing.
func TestSliceReferCentre(t *testing.T) {
	source := "S: SEQUENCE, refer=centre;\n" +
		"Q: QUADRUPOLE, L=2, at=1;\n" +
		"ENDSEQUENCE;\n"

	two := 2
	doc := applyString(t, source, Selector{Type: "quadrupole", Slice: &two})

	elems := bodyElements(t, doc)
	if len(elems) != 2 {
		t.Fatalf("body has %d elements, want 2", len(elems))
	}

	// Entry position is at - L*refer = 0; slices are addressed by their own
	// centres at 0.5 and 1.5.
	if v, _ := elems[0].Get("at"); !v.Equal(lang.NewFloat(0.5)) {
		t.Errorf("elems[0].at = %v, want 0.5", v)
	}

	if v, _ := elems[1].Get("at"); !v.Equal(lang.NewFloat(1.5)) {
		t.Errorf("elems[1].at = %v, want 1.5", v)
	}
}

func TestSliceUseAtDisabled(t *testing.T) {
	source := "S: SEQUENCE, refer=entry;\n" +
		"D1: DRIFT, L=1, at=100;\n" +
		"D2: DRIFT, L=1, at=200;\n" +
		"ENDSEQUENCE;\n"

	useAt := false
	doc := applyString(t, source, Selector{UseAt: &useAt})

	elems := bodyElements(t, doc)

	// Explicit at values are ignored; the running offset packs the elements
	// back to back.
	if v, _ := elems[0].Get("at"); !v.Equal(lang.NewInt(0)) {
		t.Errorf("elems[0].at = %v, want 0", v)
	}

	if v, _ := elems[1].Get("at"); !v.Equal(lang.NewInt(1)) {
		t.Errorf("elems[1].at = %v, want 1", v)
	}
}

func TestSliceDensity(t *testing.T) {
	source := "S: SEQUENCE, refer=entry;\n" +
		"B: SBEND, L=3, angle=1, at=0;\n" +
		"ENDSEQUENCE;\n"

	density := 1.5
	doc := applyString(t, source, Selector{Type: "sbend", Density: &density})

	// ceil(|3 * 1.5|) = 5 slices.
	elems := bodyElements(t, doc)
	if len(elems) != 5 {
		t.Fatalf("body has %d elements, want 5", len(elems))
	}
}

func TestSliceDensitySymbolicLength(t *testing.T) {
	source := "S: SEQUENCE, refer=entry;\n" +
		"B: SBEND, L=len, angle=1, at=0;\n" +
		"ENDSEQUENCE;\n"

	density := 1.5

	st, err := New(Selector{Type: "sbend", Density: &density})
	if err != nil {
		t.Fatal(err)
	}

	doc, err := lang.ParseString(source)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := doc.Transform(st.Apply); !errors.Is(err, ErrNumericValue) {
		t.Errorf("error = %v, want ErrNumericValue", err)
	}
}

func TestSliceTemplate(t *testing.T) {
	source := "S: SEQUENCE, refer=entry;\n" +
		"Q: QUADRUPOLE, L=2, K1=3, at=0;\n" +
		"ENDSEQUENCE;\n"

	two := 2
	doc := applyString(t, source,
		Selector{Type: "quadrupole", Slice: &two, Template: true})

	seq := doc.Sequences()[0]

	// The preface holds the marker comments around the template definition.
	if len(seq.Preface) != 3 {
		t.Fatalf("preface has %d nodes, want 3", len(seq.Preface))
	}

	if got := string(seq.Preface[0].(lang.Text)); got != "! Template elements for S:" {
		t.Errorf("preface marker = %q", got)
	}

	tmpl, ok := seq.Preface[1].(*lang.Element)
	if !ok {
		t.Fatalf("preface[1] is %T, want *Element", seq.Preface[1])
	}

	if tmpl.Name != "Q" || tmpl.Args.Has("at") {
		t.Errorf("template = %v, want named definition without position", tmpl)
	}

	if v, _ := tmpl.Get("L"); !v.Equal(lang.NewInt(1)) {
		t.Errorf("template L = %v, want 1", v)
	}

	// Body instances reference the template by name and carry only at.
	for i, elem := range bodyElements(t, doc) {
		if elem.Name != "" || elem.Type != "Q" {
			t.Errorf("instance[%d] = %q: %q, want anonymous Q reference",
				i, elem.Name, elem.Type)
		}

		if elem.Args.Len() != 1 || !elem.Args.Has("at") {
			t.Errorf("instance[%d] args = %v, want at only", i, elem.Args.Keys())
		}

		// Parameters resolve through the template.
		if v, _ := elem.Get("K1"); !v.Equal(lang.NewInt(3)) {
			t.Errorf("instance[%d].K1 = %v, want 3", i, v)
		}
	}
}

func TestSliceLoop(t *testing.T) {
	source := "S: SEQUENCE, refer=entry;\n" +
		"Q: QUADRUPOLE, L=2, at=0;\n" +
		"ENDSEQUENCE;\n"

	two := 2
	doc := applyString(t, source,
		Selector{Type: "quadrupole", Slice: &two, Style: "loop"})

	seq := doc.Sequences()[0]
	body := seq.Body()

	want := []string{"i = 0;", "while (i < 2) {", "", "i = i + 1;", "}"}

	if len(body) != len(want) {
		t.Fatalf("body has %d nodes, want %d", len(body), len(want))
	}

	for i, node := range body {
		if want[i] == "" {
			elem, ok := node.(*lang.Element)
			if !ok {
				t.Fatalf("body[%d] is %T, want *Element", i, node)
			}

			if elem.Name != "" {
				t.Errorf("loop element must be anonymous, got %q", elem.Name)
			}

			at, _ := elem.Get("at")
			if at == nil || at.Kind != lang.KindComposed {
				t.Fatalf("loop at = %v, want a symbolic expression", at)
			}

			if !strings.Contains(at.Text, "i") {
				t.Errorf("loop at = %q, want the loop counter", at.Text)
			}

			continue
		}

		text, ok := node.(lang.Text)
		if !ok || string(text) != want[i] {
			t.Errorf("body[%d] = %v, want %q", i, node, want[i])
		}
	}
}

// TestRulePriority verifies first-match selection across the ordered rule
// list and the implicit catch-all.
func TestRulePriority(t *testing.T) {
	source := "S: SEQUENCE, refer=entry;\n" +
		"Q1: QUADRUPOLE, L=2, at=0;\n" +
		"Q2: QUADRUPOLE, L=2, at=2;\n" +
		"D: DRIFT, L=1, at=4;\n" +
		"ENDSEQUENCE;\n"

	two, four := 2, 4
	doc := applyString(t, source,
		Selector{Name: "Q1", Slice: &four},
		Selector{Type: "quadrupole", Slice: &two},
	)

	var q1, q2, d int

	for _, elem := range bodyElements(t, doc) {
		switch {
		case strings.HasPrefix(elem.Name, "Q1"):
			q1++
		case strings.HasPrefix(elem.Name, "Q2"):
			q2++
		default:
			d++
		}
	}

	if q1 != 4 || q2 != 2 || d != 1 {
		t.Errorf("slice counts = %d, %d, %d; want 4, 2, 1", q1, q2, d)
	}
}

func TestUnknownRefer(t *testing.T) {
	source := "S: SEQUENCE, refer=sideways;\n" +
		"D: DRIFT, L=1, at=0;\n" +
		"ENDSEQUENCE;\n"

	st, err := New()
	if err != nil {
		t.Fatal(err)
	}

	doc, err := lang.ParseString(source)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := doc.Transform(st.Apply); !errors.Is(err, ErrUnknownRefer) {
		t.Errorf("error = %v, want ErrUnknownRefer", err)
	}
}

// TestBaseResolution verifies that named top-level elements become base
// definitions for sequence body elements referencing them by type.
func TestBaseResolution(t *testing.T) {
	source := "QP: QUADRUPOLE, L=2, K1=0.5;\n" +
		"S: SEQUENCE, refer=entry;\n" +
		"q1: QP, at=0;\n" +
		"q2: QP, at=2;\n" +
		"ENDSEQUENCE;\n"

	doc := applyString(t, source)

	elems := bodyElements(t, doc)
	if len(elems) != 2 {
		t.Fatalf("body has %d elements, want 2", len(elems))
	}

	// The base chain supplies L, so the total sequence length follows.
	head := doc.Sequences()[0].Head()
	if v, _ := head.Get("L"); !v.Equal(lang.NewInt(4)) {
		t.Errorf("head.L = %v, want 4", v)
	}

	if v, _ := elems[1].Get("K1"); !v.Equal(lang.NewFloat(0.5)) {
		t.Errorf("q2.K1 = %v, want base value 0.5", v)
	}
}

// TestTextPassthrough verifies that comments inside a sequence body survive
// transformation in place.
func TestTextPassthrough(t *testing.T) {
	source := "S: SEQUENCE, refer=entry;\n" +
		"! midpoint marker\n" +
		"D: DRIFT, L=1, at=0;\n" +
		"ENDSEQUENCE;\n"

	doc := applyString(t, source)

	body := doc.Sequences()[0].Body()

	text, ok := body[0].(lang.Text)
	if !ok || string(text) != "! midpoint marker" {
		t.Errorf("body[0] = %v, want preserved comment", body[0])
	}
}
