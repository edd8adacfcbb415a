package bridge

import (
	"context"
	"log/slog"
)

// Event is a track_event message.
type Event struct {
	Category string
	Action   string
	Value    string
	HasValue bool
}

// Analytics receives events reported by the native console.
type Analytics interface {
	TrackEvent(ctx context.Context, e Event)
}

// AnalyticsFunc adapts a function to Analytics.
type AnalyticsFunc func(ctx context.Context, e Event)

func (f AnalyticsFunc) TrackEvent(ctx context.Context, e Event) { f(ctx, e) }

// LogAnalytics writes events to a logger at Info level.
type LogAnalytics struct {
	Logger *slog.Logger
}

func (l LogAnalytics) TrackEvent(ctx context.Context, e Event) {
	attrs := []any{"category", e.Category, "action", e.Action}
	if e.HasValue {
		attrs = append(attrs, "value", e.Value)
	}
	l.Logger.InfoContext(ctx, "Console event.", attrs...)
}
