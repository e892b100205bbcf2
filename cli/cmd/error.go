package cmd

import "github.com/ardnew/madseq/lang"

// Predefined errors (sentinel values).
var (
	ErrReadInput    = lang.NewError("read input")
	ErrWriteOutput  = lang.NewError("write output")
	ErrInvalidExprs = lang.NewError("invalid expressions")
)
