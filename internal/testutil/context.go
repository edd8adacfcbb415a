package testutil

import (
	"context"
	"log/slog"
	"testing"

	"github.com/vk/devconsole/internal/ctxlog"
)

// Context returns a context carrying a debug logger that writes to buf. A
// nil buf discards the output.
func Context(t *testing.T, buf *SafeBuffer) context.Context {
	t.Helper()
	return ctxlog.WithLogger(context.Background(), Logger(buf))
}

// Logger returns a text logger at debug level writing to buf.
func Logger(buf *SafeBuffer) *slog.Logger {
	if buf == nil {
		buf = &SafeBuffer{}
	}
	return slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
}
