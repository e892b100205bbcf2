package cmd

import (
	"context"
	"log/slog"

	"github.com/ardnew/madseq/lang"
	"github.com/ardnew/madseq/log"
	"github.com/ardnew/madseq/transform"
)

// Convert parses a MAD-X input file, slices and repositions the elements of
// every SEQUENCE according to the slicing definition file, and writes the
// result. Without a slicing definition, it recomputes the at values of all
// sequence elements and leaves them otherwise untouched.
type Convert struct {
	Slice  string `help:"Slicing definition file (JSON or YAML)"       short:"s" type:"existingfile" optional:""`
	Format string `help:"Output format"                                short:"F" default:"madx"      enum:"madx,json,yaml"`
	Indent int    `help:"Indentation width for structured output"                default:"2"`
	Inline bool   `help:"Expand LINE statements as inline copies instead of by-name references"`

	Input  string `arg:"" help:"MAD-X input file or '-' for stdin"   default:"-" optional:""`
	Output string `arg:"" help:"Output file or '-' for stdout"       default:"-" optional:""`
}

// Run executes the convert command.
func (c *Convert) Run(ctx context.Context) error {
	var selectors []transform.Selector

	if c.Slice != "" {
		var err error

		selectors, err = transform.LoadSelectors(c.Slice)
		if err != nil {
			return err
		}

		log.DebugContext(ctx, "loaded slicing definitions",
			slog.String("path", c.Slice),
			slog.Int("rules", len(selectors)),
		)
	}

	st, err := transform.New(selectors...)
	if err != nil {
		return err
	}

	input, err := openInput(c.Input)
	if err != nil {
		return err
	}
	defer input.Close()

	doc, err := lang.ParseDocument(input,
		lang.WithLogger(log.Default()),
		lang.WithInlineLines(c.Inline),
	)
	if err != nil {
		return err
	}

	doc, err = doc.Transform(st.Apply)
	if err != nil {
		return err
	}

	output, err := openOutput(c.Output)
	if err != nil {
		return err
	}
	defer output.Close()

	switch c.Format {
	case "json":
		err = doc.FormatJSON(ctx, output, c.Indent)
	case "yaml":
		err = doc.FormatYAML(ctx, output, c.Indent)
	default:
		err = doc.Format(output)
	}

	if err != nil {
		return ErrWriteOutput.Wrap(err).With(slog.String("format", c.Format))
	}

	return nil
}
