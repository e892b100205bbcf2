// Package transform slices sequence elements according to an ordered list of
// selector rules.
//
// Each rule independently controls how matched elements are positioned,
// subdivided, rescaled, and emitted. Rules are tried in list order and the
// first match wins; an implicit catch-all rule keeps unmatched elements in
// place while recomputing their positions.
package transform
