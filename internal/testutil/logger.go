package testutil

import (
	"context"
	"io"
	"log/slog"
	"testing"
)

// NopLogger returns a logger that discards all output.
// Use this in tests to avoid log noise.
func NopLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

// TestLogger returns a logger that writes through t.Logf so output is
// attached to the failing test instead of interleaved on stderr.
func TestLogger(tb testing.TB) *slog.Logger {
	return slog.New(&testHandler{tb: tb})
}

type testHandler struct {
	tb    testing.TB
	attrs []slog.Attr
}

func (h *testHandler) Enabled(context.Context, slog.Level) bool { return true }

func (h *testHandler) Handle(_ context.Context, record slog.Record) error {
	line := record.Level.String() + " " + record.Message
	for _, attr := range h.attrs {
		line += " " + attr.String()
	}
	record.Attrs(func(attr slog.Attr) bool {
		line += " " + attr.String()
		return true
	})
	h.tb.Log(line)
	return nil
}

func (h *testHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &testHandler{tb: h.tb, attrs: append(h.attrs[:len(h.attrs):len(h.attrs)], attrs...)}
}

func (h *testHandler) WithGroup(string) slog.Handler { return h }
