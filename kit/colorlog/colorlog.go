// Package colorlog provides a compact slog handler for command-line tools:
// one line per record, a fixed label, and ANSI colors when writing to a
// terminal.
package colorlog

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"golang.org/x/term"
)

const (
	reset  = "\033[0m"
	gray   = "\033[90m"
	yellow = "\033[33m"
	red    = "\033[31m"
	cyan   = "\033[36m"
	blue   = "\033[34m"
)

type Options struct {
	// Output defaults to os.Stderr.
	Output io.Writer
	// Level is the minimum level written. Use a *slog.LevelVar to change it
	// after the logger is built.
	Level slog.Leveler
	// Color forces colors on or off. Nil means on for terminals unless
	// NO_COLOR is set.
	Color *bool
	// Time adds a timestamp to each line.
	Time bool
}

type Handler struct {
	label  string
	opts   Options
	mu     *sync.Mutex
	attrs  []slog.Attr
	groups []string
	color  bool
}

// New returns a logger writing through a Handler labelled label.
func New(label string, opts ...Options) *slog.Logger {
	return slog.New(NewHandler(label, opts...))
}

func NewHandler(label string, opts ...Options) *Handler {
	var o Options
	if len(opts) > 0 {
		o = opts[0]
	}
	if o.Output == nil {
		o.Output = os.Stderr
	}
	if o.Level == nil {
		o.Level = slog.LevelInfo
	}
	return &Handler{
		label: label,
		opts:  o,
		mu:    &sync.Mutex{},
		color: useColor(o.Output, o.Color),
	}
}

func useColor(w io.Writer, override *bool) bool {
	if override != nil {
		return *override
	}
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func (h *Handler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.opts.Level.Level()
}

func (h *Handler) Handle(_ context.Context, r slog.Record) error {
	var b strings.Builder
	if h.opts.Time && !r.Time.IsZero() {
		b.WriteString(h.paint(gray, r.Time.Format("15:04:05")))
		b.WriteString(" ")
	}
	b.WriteString(h.paint(blue, h.label))
	b.WriteString(" ")
	b.WriteString(h.paint(levelColor(r.Level), levelPrefix(r.Level)+r.Message))

	write := func(a slog.Attr) {
		if a.Equal(slog.Attr{}) {
			return
		}
		b.WriteString(" ")
		b.WriteString(h.paint(gray, a.Key+"="))
		b.WriteString(formatValue(a.Value))
	}
	for _, a := range h.attrs {
		write(a)
	}
	r.Attrs(func(a slog.Attr) bool {
		write(h.qualify(a))
		return true
	})
	b.WriteString("\n")

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.opts.Output, b.String())
	return err
}

func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	next := h.clone()
	next.attrs = make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	next.attrs = append(next.attrs, h.attrs...)
	for _, a := range attrs {
		next.attrs = append(next.attrs, h.qualify(a))
	}
	return next
}

func (h *Handler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	next := h.clone()
	next.groups = append(append([]string(nil), h.groups...), name)
	return next
}

func (h *Handler) clone() *Handler {
	c := *h
	return &c
}

// qualify prefixes the key with the open groups, dot separated.
func (h *Handler) qualify(a slog.Attr) slog.Attr {
	if len(h.groups) == 0 {
		return a
	}
	return slog.Attr{Key: strings.Join(h.groups, ".") + "." + a.Key, Value: a.Value}
}

func (h *Handler) paint(color, s string) string {
	if !h.color {
		return s
	}
	return color + s + reset
}

func formatValue(v slog.Value) string {
	v = v.Resolve()
	if v.Kind() == slog.KindString {
		s := v.String()
		if s == "" || strings.ContainsAny(s, " \t\n\"=") {
			return fmt.Sprintf("%q", s)
		}
		return s
	}
	return fmt.Sprint(v.Any())
}

func levelColor(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return red
	case level >= slog.LevelWarn:
		return yellow
	case level >= slog.LevelInfo:
		return cyan
	default:
		return gray
	}
}

func levelPrefix(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return "error: "
	case level >= slog.LevelWarn:
		return "warning: "
	case level >= slog.LevelInfo:
		return ""
	default:
		return "debug: "
	}
}
