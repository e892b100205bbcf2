package cmd

import (
	"context"
	"io"
	"os"

	"github.com/alecthomas/kong"
)

// contextKey is used to store a [kong.Context] value in [context.Context].
type contextKey struct{}

// WithContext returns a new context.Context containing the given kong.Context.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, ok := ctx.Value(contextKey{}).(*kong.Context)
	if !ok || ktx == nil {
		return nil
	}

	return ktx
}

// stdioName is the special path indicating stdin or stdout.
const stdioName = "-"

// openInput opens the named file for reading, or stdin for stdioName.
func openInput(path string) (io.ReadCloser, error) {
	if path == "" || path == stdioName {
		return io.NopCloser(os.Stdin), nil
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, ErrReadInput.Wrap(err)
	}

	return file, nil
}

// openOutput opens the named file for writing, or stdout for stdioName.
// Stdout is wrapped so that Close never closes the real descriptor.
func openOutput(path string) (io.WriteCloser, error) {
	if path == "" || path == stdioName {
		return nopWriteCloser{os.Stdout}, nil
	}

	file, err := os.Create(path)
	if err != nil {
		return nil, ErrWriteOutput.Wrap(err)
	}

	return file, nil
}

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }
