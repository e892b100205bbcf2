package transform

import "github.com/ardnew/madseq/lang"

// Predefined errors (sentinel values).
var (
	ErrAmbiguousSelector = lang.NewError("mutually exclusive selector keys")
	ErrUnknownStyle      = lang.NewError("unknown slicing style")
	ErrUnknownRefer      = lang.NewError("unknown refer convention")
	ErrNumericValue      = lang.NewError("numeric value required")
)
