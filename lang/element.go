package lang

import (
	"iter"
	"log/slog"
	"strings"
)

// Args is an ordered map of element arguments. Keys are unique and compare
// case-insensitively, insertion order is preserved, and the original key
// spelling is retained for display.
type Args struct {
	entries []argEntry
}

type argEntry struct {
	key   string
	value *Value
}

// NewArgs creates an argument map from alternating key/value pairs in order.
func NewArgs(pairs ...any) *Args {
	args := &Args{}

	for i := 0; i+1 < len(pairs); i += 2 {
		key, _ := pairs[i].(string)
		value, _ := pairs[i+1].(*Value)
		args.Set(key, value)
	}

	return args
}

// Len returns the number of arguments.
func (a *Args) Len() int {
	if a == nil {
		return 0
	}

	return len(a.entries)
}

// index returns the position of key, or -1.
func (a *Args) index(key string) int {
	if a == nil {
		return -1
	}

	for i, e := range a.entries {
		if strings.EqualFold(e.key, key) {
			return i
		}
	}

	return -1
}

// Get returns the value stored under key.
func (a *Args) Get(key string) (*Value, bool) {
	i := a.index(key)
	if i < 0 {
		return nil, false
	}

	return a.entries[i].value, true
}

// Has reports whether key is present.
func (a *Args) Has(key string) bool { return a.index(key) >= 0 }

// Set stores value under key. An existing entry keeps its position and
// original key spelling; a new entry is appended.
func (a *Args) Set(key string, value *Value) {
	if i := a.index(key); i >= 0 {
		a.entries[i].value = value

		return
	}

	a.entries = append(a.entries, argEntry{key: key, value: value})
}

// SetDefault stores value under key only if the key is absent.
func (a *Args) SetDefault(key string, value *Value) {
	if !a.Has(key) {
		a.Set(key, value)
	}
}

// Delete removes key and reports whether it was present.
func (a *Args) Delete(key string) bool {
	i := a.index(key)
	if i < 0 {
		return false
	}

	a.entries = append(a.entries[:i], a.entries[i+1:]...)

	return true
}

// Keys returns the argument keys in insertion order with original spelling.
func (a *Args) Keys() []string {
	if a == nil {
		return nil
	}

	keys := make([]string, len(a.entries))
	for i, e := range a.entries {
		keys[i] = e.key
	}

	return keys
}

// All returns an iterator over key/value pairs in insertion order.
func (a *Args) All() iter.Seq2[string, *Value] {
	return func(yield func(string, *Value) bool) {
		if a == nil {
			return
		}

		for _, e := range a.entries {
			if !yield(e.key, e.value) {
				return
			}
		}
	}
}

// Copy returns a shallow copy of the argument map. Values are shared;
// callers replace values rather than mutating them.
func (a *Args) Copy() *Args {
	if a == nil {
		return &Args{}
	}

	c := &Args{entries: make([]argEntry, len(a.entries))}
	copy(c.entries, a.entries)

	return c
}

// Element is a single MAD-X element or command.
//
// Base is an optional non-owning reference to a previously defined element:
// argument lookups fall through to it, and [Element.BaseType] resolves
// through the chain to the root type name.
type Element struct {
	Name string
	Type string
	Args *Args
	Base *Element
}

// NewElement creates an element. A nil args map is replaced with an empty
// one.
func NewElement(name, typ string, args *Args, base *Element) *Element {
	if args == nil {
		args = &Args{}
	}

	return &Element{Name: name, Type: typ, Args: args, Base: base}
}

// node implements Node.
func (e *Element) node() {}

// TypeIs reports whether the element's type name matches, ignoring case.
func (e *Element) TypeIs(name string) bool {
	return strings.EqualFold(e.Type, name)
}

// NameIs reports whether the element's name matches, ignoring case.
func (e *Element) NameIs(name string) bool {
	return e.Name != "" && strings.EqualFold(e.Name, name)
}

// BaseType returns the root type name of the base chain.
func (e *Element) BaseType() string {
	if e.Base != nil {
		return e.Base.BaseType()
	}

	return e.Type
}

// Get returns the value for key from the element's own arguments, falling
// through the base chain.
func (e *Element) Get(key string) (*Value, bool) {
	if v, ok := e.Args.Get(key); ok {
		return v, true
	}

	if e.Base != nil {
		return e.Base.Get(key)
	}

	return nil, false
}

// GetDefault returns the value for key, or def if absent everywhere.
func (e *Element) GetDefault(key string, def *Value) *Value {
	if v, ok := e.Get(key); ok {
		return v
	}

	return def
}

// Has reports whether key exists in the element or its base chain.
func (e *Element) Has(key string) bool {
	_, ok := e.Get(key)

	return ok
}

// Set stores value in the element's own arguments.
func (e *Element) Set(key string, value *Value) { e.Args.Set(key, value) }

// Delete removes key from the element's own arguments.
func (e *Element) Delete(key string) bool { return e.Args.Delete(key) }

// Pop removes key from the element's own arguments and returns its value.
// If the key exists only in the base chain, the base value is returned
// without removal. A miss everywhere is [ErrKeyNotFound].
func (e *Element) Pop(key string) (*Value, error) {
	if v, ok := e.Args.Get(key); ok {
		e.Args.Delete(key)

		return v, nil
	}

	if e.Base != nil {
		if v, ok := e.Base.Get(key); ok {
			return v, nil
		}
	}

	return nil, ErrKeyNotFound.With(
		slog.String("key", key),
		slog.String("element", e.Name),
	)
}

// PopDefault is [Element.Pop] with a fallback value instead of an error.
func (e *Element) PopDefault(key string, def *Value) *Value {
	v, err := e.Pop(key)
	if err != nil {
		return def
	}

	return v
}

// AllArgs returns the merged argument map of the base chain and the element
// itself. Base arguments come first, overridden by more specific layers.
func (e *Element) AllArgs() *Args {
	var args *Args

	if e.Base != nil {
		args = e.Base.AllArgs()
	} else {
		args = &Args{}
	}

	for key, value := range e.Args.All() {
		args.Set(key, value)
	}

	return args
}

// Copy creates a copy of this element that can be safely modified.
// The argument map is copied; the base reference is shared.
func (e *Element) Copy() *Element {
	return &Element{
		Name: e.Name,
		Type: e.Type,
		Args: e.Args.Copy(),
		Base: e.Base,
	}
}

// Equal reports whether two elements have the same name, type, and own
// arguments. Names and keys compare case-insensitively; base references are
// not compared.
func (e *Element) Equal(other *Element) bool {
	if e == nil || other == nil {
		return e == other
	}

	if !strings.EqualFold(e.Name, other.Name) ||
		!strings.EqualFold(e.Type, other.Type) ||
		e.Args.Len() != other.Args.Len() {
		return false
	}

	for key, value := range e.Args.All() {
		ov, ok := other.Args.Get(key)
		if !ok {
			return false
		}

		if value == nil || ov == nil {
			if value != ov {
				return false
			}

			continue
		}

		if !value.Equal(ov) {
			return false
		}
	}

	return true
}
