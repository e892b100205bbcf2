package lang

import (
	"errors"
	"slices"
	"testing"
)

func TestParseElement(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  *Element
	}{
		{
			name:  "bare command",
			input: "endsequence;",
			want:  NewElement("", "endsequence", nil, nil),
		},
		{
			name:  "named element",
			input: "QP: QUADRUPOLE, L=2, K1=0.5;",
			want: NewElement("QP", "QUADRUPOLE", NewArgs(
				"L", NewInt(2),
				"K1", NewFloat(0.5),
			), nil),
		},
		{
			name:  "deferred and symbolic arguments",
			input: "b: sbend, angle:=phi/2, L=1;",
			want: NewElement("b", "sbend", NewArgs(
				"angle", &Value{
					Kind:     KindComposed,
					Text:     "phi/2",
					Deferred: true,
				},
				"L", NewInt(1),
			), nil),
		},
		{
			name:  "array argument",
			input: "m: multipole, KNL={0, 0.25};",
			want: NewElement("m", "multipole", NewArgs(
				"KNL", NewArray(NewInt(0), NewFloat(0.25)),
			), nil),
		},
		{
			name:  "string argument",
			input: `use, period="cell";`,
			want: NewElement("", "use", NewArgs(
				"period", NewString("cell"),
			), nil),
		},
		{
			name:  "loose whitespace",
			input: "  d1 :  drift ,  l = 0.5 ; ",
			want: NewElement("d1", "drift", NewArgs(
				"l", NewFloat(0.5),
			), nil),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseElement(tt.input)
			if err != nil {
				t.Fatalf("ParseElement(%q) error: %v", tt.input, err)
			}

			if !got.Equal(tt.want) {
				t.Errorf("ParseElement(%q) = %v, want %v", tt.input, got, tt.want)
			}

			for key, value := range tt.want.Args.All() {
				gv, ok := got.Args.Get(key)
				if !ok || gv.Deferred != value.Deferred {
					t.Errorf("argument %q = %#v, want %#v", key, gv, value)
				}
			}
		})
	}
}

func TestParseElementGrammarError(t *testing.T) {
	tests := []string{
		"not terminated",
		"1bad: drift;",
		"",
	}

	for _, input := range tests {
		if _, err := ParseElement(input); !errors.Is(err, ErrGrammar) {
			t.Errorf("ParseElement(%q) error = %v, want ErrGrammar", input, err)
		}
	}
}

func TestParseLineStatement(t *testing.T) {
	got, err := ParseLineStatement("cell: LINE=(qf, d1, qd, d1);")
	if err != nil {
		t.Fatal(err)
	}

	if got.Name != "cell" {
		t.Errorf("Name = %q, want cell", got.Name)
	}

	want := []string{"qf", "d1", "qd", "d1"}
	if !slices.Equal(got.Elems, want) {
		t.Errorf("Elems = %v, want %v", got.Elems, want)
	}
}

func TestParseStatements(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{
			name:  "comment only",
			input: "! a comment",
			want:  []string{"! a comment"},
		},
		{
			name:  "blank line",
			input: "",
			want:  []string{""},
		},
		{
			name:  "two commands one line",
			input: "d1: drift, l=1; d2: drift, l=2;",
			want:  []string{"d1: drift, l=1;", "d2: drift, l=2;"},
		},
		{
			name:  "command with trailing comment",
			input: "d1: drift, l=1; ! length in meters",
			want:  []string{"! length in meters", "d1: drift, l=1;"},
		},
		{
			name:  "unparsed statement preserved",
			input: "if (x > 0);",
			want:  []string{"if (x > 0);"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nodes, err := ParseStatements(tt.input)
			if err != nil {
				t.Fatalf("ParseStatements(%q) error: %v", tt.input, err)
			}

			got := make([]string, len(nodes))
			for i, n := range nodes {
				got[i] = formatNode(n)
			}

			if !slices.Equal(got, tt.want) {
				t.Errorf("ParseStatements(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseStatementsUnterminated(t *testing.T) {
	_, err := ParseStatements("q: quadrupole, l=1")
	if !errors.Is(err, ErrMultiLineCommand) {
		t.Errorf("error = %v, want ErrMultiLineCommand", err)
	}
}

// TestRoundTrip verifies that parse followed by format reproduces
// normalized MAD-X source.
func TestRoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "element normalization",
			input: "q1 :quadrupole ,L = 2,K1=0.5;",
			want:  "q1: quadrupole, L=2, K1=0.5;",
		},
		{
			name:  "deferred operator",
			input: "b: sbend, angle:=phi;",
			want:  "b: sbend, angle:=phi;",
		},
		{
			name:  "string and array",
			input: `m: marker, tag="ip", KNL={1,2};`,
			want:  `m: marker, tag="ip", KNL={1,2};`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			elem, err := ParseElement(tt.input)
			if err != nil {
				t.Fatal(err)
			}

			if got := elem.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}
