package log

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
)

// Handler returns a [slog.Handler] that emits through l, so code written
// against [log/slog] shares the hierarchy's levels and installed handler.
//
// Attributes are appended to the message as key=value pairs; groups prefix
// keys with "group.".
func (l *Logger) Handler() slog.Handler {
	return &slogHandler{logger: l}
}

type slogHandler struct {
	logger *Logger
	prefix string
	attrs  []slog.Attr
}

// FromSlogLevel maps a [slog.Level] onto the nearest [Level].
func FromSlogLevel(lvl slog.Level) Level {
	switch {
	case lvl > slog.LevelError:
		return LevelCritical
	case lvl >= slog.LevelError:
		return LevelError
	case lvl >= slog.LevelWarn:
		return LevelWarning
	case lvl >= slog.LevelInfo:
		return LevelInfo
	}

	return LevelDebug
}

func (h *slogHandler) Enabled(_ context.Context, lvl slog.Level) bool {
	return h.logger.Enabled(FromSlogLevel(lvl))
}

func (h *slogHandler) Handle(_ context.Context, r slog.Record) error {
	var sb strings.Builder

	sb.WriteString(r.Message)

	for _, a := range h.attrs {
		writeAttr(&sb, "", a)
	}

	r.Attrs(func(a slog.Attr) bool {
		writeAttr(&sb, h.prefix, a)
		return true
	})

	return h.logger.emit(Record{
		Time:    r.Time,
		Level:   FromSlogLevel(r.Level),
		Logger:  h.logger.name,
		Message: sb.String(),
	})
}

func (h *slogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	qualified := make([]slog.Attr, 0, len(attrs))
	for _, a := range attrs {
		a.Key = h.prefix + a.Key
		qualified = append(qualified, a)
	}

	return &slogHandler{
		logger: h.logger,
		prefix: h.prefix,
		attrs:  append(slices.Clone(h.attrs), qualified...),
	}
}

func (h *slogHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}

	return &slogHandler{
		logger: h.logger,
		prefix: h.prefix + name + ".",
		attrs:  h.attrs,
	}
}

func writeAttr(sb *strings.Builder, prefix string, a slog.Attr) {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return
	}

	if a.Value.Kind() == slog.KindGroup {
		group := prefix
		if a.Key != "" {
			group += a.Key + "."
		}

		for _, ga := range a.Value.Group() {
			writeAttr(sb, group, ga)
		}

		return
	}

	fmt.Fprintf(sb, " %s%s=%v", prefix, a.Key, a.Value.Any())
}
