// Package lang implements the MAD-X document model used by madseq.
//
// # Model
//
// A MAD-X input file is a sequence of statements, one logical statement per
// line. Each statement is parsed into one of four node kinds:
//
//   - [Element]: a named, typed command with keyword arguments, such as
//     "QF: QUADRUPOLE, L=2, K1=0.1;"
//   - [Line]: a beamline composition statement, "FODO: LINE=(QF, D, QD);"
//   - [Text]: comments, blank lines, and statements madseq does not
//     understand, preserved verbatim for round-trip fidelity
//   - [Sequence]: a SEQUENCE..ENDSEQUENCE group detected after statement
//     parsing (see [DetectSequences])
//
// Argument values are modeled by [Value], a tagged variant over numbers,
// strings, arrays, identifiers, and composed arithmetic expressions.
// Symbolic values are never evaluated; they are carried as opaque text and
// recombined syntactically by [Add], [Sub], [Mul], and [Div].
//
// # Case sensitivity
//
// MAD-X is case-insensitive. Element names, type names, and argument keys
// compare case-insensitively throughout, but the original spelling is
// retained for display and serialization.
//
// # Prototype elements
//
// An element may reference a previously defined element as its base: its own
// arguments override the base's, and lookups fall through the base chain.
// Base references always point backwards in document order, so the chain is
// acyclic by construction.
package lang
