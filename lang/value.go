package lang

import (
	"log/slog"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Kind indicates the variant held by a [Value].
type Kind int

const (
	// KindNumber is an integer or floating point literal.
	KindNumber Kind = iota

	// KindString is a double-quoted string literal.
	KindString

	// KindArray is a brace-enclosed ordered list of values.
	KindArray

	// KindIdentifier is a plain word reference to a MAD-X variable.
	KindIdentifier

	// KindComposed is an arbitrary arithmetic expression carried as text.
	KindComposed
)

// String returns a string representation of the value kind.
func (k Kind) String() string {
	switch k {
	case KindNumber:
		return "Number"

	case KindString:
		return "String"

	case KindArray:
		return "Array"

	case KindIdentifier:
		return "Identifier"

	case KindComposed:
		return "Composed"

	default:
		return "Unknown"
	}
}

// Value is one MAD-X parameter value.
//
// Exactly one variant is populated based on Kind. Identifier, Composed, and
// Array values additionally record whether they were bound with the deferred
// assignment operator ":=" instead of "=".
type Value struct {
	Kind Kind

	// KindNumber; Int is valid when IsInt, Float otherwise.
	Int   int64
	Float float64
	IsInt bool

	// KindString, without the enclosing quotes.
	Str string

	// KindArray, in source order.
	Items []*Value

	// KindIdentifier (the bare name) or KindComposed (the expression text).
	Text string

	// Deferred marks the ":=" assignment operator.
	Deferred bool
}

// NewInt creates an integer number value.
func NewInt(i int64) *Value {
	return &Value{Kind: KindNumber, Int: i, IsInt: true}
}

// NewFloat creates a floating point number value.
func NewFloat(f float64) *Value {
	return &Value{Kind: KindNumber, Float: f}
}

// NewString creates a string value. The text must not include quotes.
func NewString(s string) *Value {
	return &Value{Kind: KindString, Str: s}
}

// NewArray creates an array value from the given items.
func NewArray(items ...*Value) *Value {
	return &Value{Kind: KindArray, Items: items}
}

// NewIdentifier creates an identifier value.
func NewIdentifier(name string) *Value {
	return &Value{Kind: KindIdentifier, Text: name}
}

// NewComposed creates a composed expression value from verbatim text.
func NewComposed(expr string) *Value {
	return &Value{Kind: KindComposed, Text: expr}
}

var (
	reIsString     = regexp.MustCompile(`^\s*"([^"]*)"\s*$`)
	reIsIdentifier = regexp.MustCompile(`^\s*([a-zA-Z][\w.]*)\s*$`)
)

// ParseValue parses MAD-X parameter text as any of the known Value variants.
//
// The variants are attempted in order: number, string, array, identifier,
// and finally composed expression (which accepts any non-empty text).
// The deferred flag records whether the value was bound with ":=".
func ParseValue(text string, deferred bool) (*Value, error) {
	if v, ok := parseNumber(text); ok {
		return v, nil
	}

	if m := reIsString.FindStringSubmatch(text); m != nil {
		return NewString(m[1]), nil
	}

	trimmed := strings.TrimSpace(text)
	if strings.HasPrefix(trimmed, "{") {
		return parseArray(trimmed, deferred)
	}

	if m := reIsIdentifier.FindStringSubmatch(text); m != nil {
		v := NewIdentifier(m[1])
		v.Deferred = deferred

		return v, nil
	}

	if trimmed == "" {
		return nil, ErrValueParse.With(slog.String("text", text))
	}

	v := NewComposed(trimmed)
	v.Deferred = deferred

	return v, nil
}

// parseNumber attempts to parse text as an integer or floating point literal.
func parseNumber(text string) (*Value, bool) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil, false
	}

	if i, err := strconv.ParseInt(trimmed, 10, 64); err == nil {
		return NewInt(i), true
	}

	if f, err := strconv.ParseFloat(trimmed, 64); err == nil {
		return NewFloat(f), true
	}

	return nil, false
}

// parseArray parses a brace-enclosed array. Nested braces are not supported,
// which matches the MAD-X ARRAY grammar.
func parseArray(text string, deferred bool) (*Value, error) {
	if !strings.HasSuffix(text, "}") {
		return nil, ErrValueParse.With(slog.String("array", text))
	}

	inner := text[1 : len(text)-1]

	var items []*Value

	if strings.TrimSpace(inner) != "" {
		for _, field := range strings.Split(inner, ",") {
			item, err := ParseValue(strings.TrimSpace(field), deferred)
			if err != nil {
				return nil, ErrValueParse.
					Wrap(err).
					With(slog.String("array", text))
			}

			items = append(items, item)
		}
	}

	v := NewArray(items...)
	v.Deferred = deferred

	return v, nil
}

// Expr renders the value as MAD-X expression text.
func (v *Value) Expr() string {
	switch v.Kind {
	case KindNumber:
		return v.formatNumber()

	case KindString:
		return `"` + v.Str + `"`

	case KindArray:
		parts := make([]string, len(v.Items))
		for i, item := range v.Items {
			parts[i] = item.Expr()
		}

		return "{" + strings.Join(parts, ",") + "}"

	case KindIdentifier, KindComposed:
		return v.Text

	default:
		return ""
	}
}

// SafeExpr renders the value as a token that can occur inside a larger
// arithmetic expression. Composed values are parenthesized; atomic values
// render as [Value.Expr].
func (v *Value) SafeExpr() string {
	if v.Kind == KindComposed {
		return "(" + v.Text + ")"
	}

	return v.Expr()
}

// Argument renders the value for MAD-X output including its assignment
// operator.
func (v *Value) Argument() string {
	if v.Deferred {
		return ":=" + v.Expr()
	}

	return "=" + v.Expr()
}

// String implements fmt.Stringer as [Value.Expr].
func (v *Value) String() string { return v.Expr() }

// formatNumber renders a number with the shortest text that round-trips.
func (v *Value) formatNumber() string {
	if v.IsInt {
		return strconv.FormatInt(v.Int, 10)
	}

	return strconv.FormatFloat(v.Float, 'g', -1, 64)
}

// AsFloat returns the numeric value as a float64.
// The second result reports whether the value is numeric.
func (v *Value) AsFloat() (float64, bool) {
	if v == nil || v.Kind != KindNumber {
		return 0, false
	}

	if v.IsInt {
		return float64(v.Int), true
	}

	return v.Float, true
}

// AsInt returns the integer value.
// The second result reports whether the value is an integer number.
func (v *Value) AsInt() (int64, bool) {
	if v == nil || v.Kind != KindNumber || !v.IsInt {
		return 0, false
	}

	return v.Int, true
}

// Equal reports whether two values are equivalent. Numbers compare
// numerically regardless of integer or floating point representation.
func (v *Value) Equal(other *Value) bool {
	if v == nil || other == nil {
		return v == other
	}

	if v.Kind == KindNumber && other.Kind == KindNumber {
		a, _ := v.AsFloat()
		b, _ := other.AsFloat()

		return a == b
	}

	if v.Kind != other.Kind || v.Deferred != other.Deferred {
		return false
	}

	switch v.Kind {
	case KindString:
		return v.Str == other.Str

	case KindArray:
		if len(v.Items) != len(other.Items) {
			return false
		}

		for i, item := range v.Items {
			if !item.Equal(other.Items[i]) {
				return false
			}
		}

		return true

	default:
		return v.Text == other.Text
	}
}

// Copy returns a deep copy of the value.
func (v *Value) Copy() *Value {
	if v == nil {
		return nil
	}

	c := *v

	if v.Kind == KindArray {
		c.Items = make([]*Value, len(v.Items))
		for i, item := range v.Items {
			c.Items[i] = item.Copy()
		}
	}

	return &c
}

// Add returns the sum of two values. Numeric operands fold numerically;
// any symbolic operand yields a [KindComposed] value built from the safe
// renderings of both operands.
func Add(a, b *Value) *Value { return binop(a, "+", b) }

// Sub returns the difference of two values. See [Add].
func Sub(a, b *Value) *Value { return binop(a, "-", b) }

// Mul returns the product of two values. See [Add].
func Mul(a, b *Value) *Value { return binop(a, "*", b) }

// Div returns the quotient of two values. Numeric division always yields a
// floating point number. See [Add].
func Div(a, b *Value) *Value { return binop(a, "/", b) }

// binop composes two values with a binary operator. The result is deferred
// iff either operand is deferred.
func binop(a *Value, op string, b *Value) *Value {
	if a.Kind == KindNumber && b.Kind == KindNumber {
		return numericOp(a, op, b)
	}

	return &Value{
		Kind:     KindComposed,
		Text:     a.SafeExpr() + " " + op + " " + b.SafeExpr(),
		Deferred: a.Deferred || b.Deferred,
	}
}

// numericOp folds an operation on two numbers. Integer operands keep integer
// results except for division.
func numericOp(a *Value, op string, b *Value) *Value {
	af, _ := a.AsFloat()
	bf, _ := b.AsFloat()

	if a.IsInt && b.IsInt && op != "/" {
		switch op {
		case "+":
			return NewInt(a.Int + b.Int)
		case "-":
			return NewInt(a.Int - b.Int)
		case "*":
			return NewInt(a.Int * b.Int)
		}
	}

	switch op {
	case "+":
		return NewFloat(af + bf)
	case "-":
		return NewFloat(af - bf)
	case "*":
		return NewFloat(af * bf)
	case "/":
		return NewFloat(af / bf)
	default:
		return NewFloat(math.NaN())
	}
}
