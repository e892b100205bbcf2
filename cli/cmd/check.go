package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/expr-lang/expr"

	"github.com/ardnew/madseq/lang"
	"github.com/ardnew/madseq/log"
)

// Check parses a MAD-X input file and verifies that every symbolic argument
// value is a well-formed expression. Values are compiled but never evaluated,
// so identifiers may refer to names defined elsewhere.
type Check struct {
	Input string `arg:"" help:"MAD-X input file or '-' for stdin" default:"-" optional:""`
}

// Run executes the check command.
func (c *Check) Run(ctx context.Context) error {
	input, err := openInput(c.Input)
	if err != nil {
		return err
	}
	defer input.Close()

	doc, err := lang.ParseDocument(input, lang.WithLogger(log.Default()))
	if err != nil {
		return err
	}

	var checked, invalid int

	for _, node := range doc.Nodes {
		seq, ok := node.(*lang.Sequence)
		if !ok {
			checked, invalid = checkNode(ctx, node, checked, invalid)

			continue
		}

		for _, node := range seq.Nodes {
			checked, invalid = checkNode(ctx, node, checked, invalid)
		}
	}

	fmt.Fprintf(c.stdout(ctx), "%d expressions checked, %d invalid\n",
		checked, invalid)

	if invalid > 0 {
		return ErrInvalidExprs.With(slog.Int("count", invalid))
	}

	return nil
}

// checkNode compiles every symbolic argument of an element node.
func checkNode(
	ctx context.Context,
	node lang.Node,
	checked, invalid int,
) (int, int) {
	elem, ok := node.(*lang.Element)
	if !ok {
		return checked, invalid
	}

	for key, value := range elem.Args.All() {
		if value == nil ||
			(value.Kind != lang.KindIdentifier && value.Kind != lang.KindComposed) {
			continue
		}

		checked++

		_, err := expr.Compile(value.Expr(), expr.AllowUndefinedVariables())
		if err == nil {
			continue
		}

		invalid++

		log.ErrorContext(ctx, "invalid expression",
			slog.String("element", elem.Name),
			slog.String("type", elem.Type),
			slog.String("key", key),
			slog.String("value", value.Expr()),
			slog.Any("error", err),
		)
	}

	return checked, invalid
}

// stdout returns the output stream of the invoking command parser, or
// os.Stdout outside of one.
func (c *Check) stdout(ctx context.Context) io.Writer {
	if ktx := kongContextFrom(ctx); ktx != nil {
		return ktx.Stdout
	}

	return os.Stdout
}
