package lang

import (
	"context"
	"strings"
	"testing"
)

const sourceMarshal = `
s: sequence, refer=entry, L=4;
! interleaved comment
q1: quadrupole, L=2, K1=0.5, at=0;
d1: drift, L=2, at=2;
endsequence;
`

func TestFormatJSON(t *testing.T) {
	doc, err := ParseString(sourceMarshal)
	if err != nil {
		t.Fatal(err)
	}

	var b strings.Builder
	if err := doc.FormatJSON(context.Background(), &b, 2); err != nil {
		t.Fatal(err)
	}

	got := b.String()

	want := `{
  "s": {
    "refer": "entry",
    "L": 4,
    "elements": [
      {
        "name": "q1",
        "type": "quadrupole",
        "L": 2,
        "K1": 0.5,
        "at": 0
      },
      {
        "name": "d1",
        "type": "drift",
        "L": 2,
        "at": 2
      }
    ]
  }
}
`

	if got != want {
		t.Errorf("FormatJSON() =\n%s\nwant\n%s", got, want)
	}
}

func TestFormatJSONCompact(t *testing.T) {
	doc, err := ParseString("s: sequence, L=1;\nendsequence;\n")
	if err != nil {
		t.Fatal(err)
	}

	var b strings.Builder
	if err := doc.FormatJSON(context.Background(), &b, 0); err != nil {
		t.Fatal(err)
	}

	// Key order and case preserved, numbers unquoted, injected refer first
	// position follows source order.
	want := `{"s": {"L": 1, "refer": "entry", "elements": []}}` + "\n"

	if got := b.String(); got != want {
		t.Errorf("FormatJSON() = %q, want %q", got, want)
	}
}

func TestFormatYAML(t *testing.T) {
	doc, err := ParseString(sourceMarshal)
	if err != nil {
		t.Fatal(err)
	}

	var b strings.Builder
	if err := doc.FormatYAML(context.Background(), &b, 2); err != nil {
		t.Fatal(err)
	}

	got := b.String()

	// Spot-check ordering and numeric encoding without pinning the
	// encoder's whole layout.
	for _, want := range []string{"s:", "refer: entry", "K1: 0.5", "type: quadrupole"} {
		if !strings.Contains(got, want) {
			t.Errorf("FormatYAML() missing %q in:\n%s", want, got)
		}
	}

	if strings.Index(got, "refer:") > strings.Index(got, "elements:") {
		t.Errorf("FormatYAML() lost key order:\n%s", got)
	}
}
