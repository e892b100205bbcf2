package log

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// Styles used by the pretty text handler.
//
//nolint:gochecknoglobals
var (
	styleKey   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	styleTime  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	styleMsg   = lipgloss.NewStyle().Bold(true)
	styleLevel = map[string]lipgloss.Style{
		"TRACE": lipgloss.NewStyle().Foreground(lipgloss.Color("13")),
		"DEBUG": lipgloss.NewStyle().Foreground(lipgloss.Color("14")),
		"INFO":  lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		"WARN":  lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
		"ERROR": lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
	}
)

// prettyHandler implements a colorized text handler for log messages.
type prettyHandler struct {
	opts  slog.HandlerOptions
	mu    *sync.Mutex
	w     io.Writer
	attrs []slog.Attr
}

func newPrettyHandler(w io.Writer, opts *slog.HandlerOptions) *prettyHandler {
	return &prettyHandler{
		opts: *opts,
		mu:   &sync.Mutex{},
		w:    w,
	}
}

func (h *prettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.opts.Level.Level()
}

func (h *prettyHandler) Handle(_ context.Context, r slog.Record) error {
	buf := new(bytes.Buffer)

	if !r.Time.IsZero() {
		h.writeResolved(buf, slog.Time(slog.TimeKey, r.Time))
	}

	h.writeResolved(buf, slog.Any(slog.LevelKey, r.Level))

	if h.opts.AddSource {
		if src := r.Source(); src != nil {
			h.writeResolved(buf, slog.String(
				slog.SourceKey,
				fmt.Sprintf("%s:%d", src.File, src.Line),
			))
		}
	}

	h.writeResolved(buf, slog.String(slog.MessageKey, r.Message))

	for _, a := range h.attrs {
		h.writeResolved(buf, a)
	}

	r.Attrs(func(a slog.Attr) bool {
		h.writeResolved(buf, a)

		return true
	})

	buf.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()

	_, err := h.w.Write(buf.Bytes())

	return err
}

func (h *prettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &prettyHandler{
		opts:  h.opts,
		mu:    h.mu,
		w:     h.w,
		attrs: append(h.attrs[:len(h.attrs):len(h.attrs)], attrs...),
	}
}

func (h *prettyHandler) WithGroup(string) slog.Handler {
	// Groups are flattened in pretty output.
	return h
}

// writeResolved applies ReplaceAttr and renders one attribute.
func (h *prettyHandler) writeResolved(buf *bytes.Buffer, a slog.Attr) {
	if h.opts.ReplaceAttr != nil {
		a = h.opts.ReplaceAttr(nil, a)
	}

	if a.Equal(slog.Attr{}) {
		return
	}

	if buf.Len() > 0 {
		buf.WriteByte(' ')
	}

	value := a.Value.Resolve().String()

	switch a.Key {
	case slog.TimeKey:
		buf.WriteString(styleTime.Render(value))

	case slog.LevelKey:
		style, ok := styleLevel[strings.ToUpper(value)]
		if !ok {
			style = styleMsg
		}

		buf.WriteString(style.Render(value))

	case slog.MessageKey:
		buf.WriteString(styleMsg.Render(value))

	default:
		buf.WriteString(styleKey.Render(a.Key + "="))
		buf.WriteString(value)
	}
}
