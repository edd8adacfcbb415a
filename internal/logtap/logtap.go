package logtap

import (
	"context"
	"log/slog"
	"sync"
)

// StackKey is the attribute key whose value becomes Entry.StackTrace.
const StackKey = "stack"

// Entry is a published log record.
type Entry struct {
	Message    string
	StackTrace string
	Severity   string
}

// Severity maps an slog level to the console severity name.
func Severity(l slog.Level) string {
	switch {
	case l < slog.LevelInfo:
		return "debug"
	case l < slog.LevelWarn:
		return "info"
	case l < slog.LevelError:
		return "warning"
	default:
		return "error"
	}
}

// SubscriberFunc receives published entries.
type SubscriberFunc func(ctx context.Context, e Entry)

type subscriber struct {
	fn SubscriberFunc
}

// hub is shared by a handler and all handlers derived from it.
type hub struct {
	threshold slog.Leveler

	mu   sync.RWMutex
	subs []*subscriber
}

// Handler is an slog.Handler that tees records to subscribers.
type Handler struct {
	inner slog.Handler
	hub   *hub
	attrs []slog.Attr
}

// New wraps inner. Records at or above threshold are published; a nil
// threshold means slog.LevelWarn.
func New(inner slog.Handler, threshold slog.Leveler) *Handler {
	if threshold == nil {
		threshold = slog.LevelWarn
	}
	return &Handler{inner: inner, hub: &hub{threshold: threshold}}
}

// Subscribe adds fn and returns a function that removes it. The cancel
// function is safe to call more than once.
func (h *Handler) Subscribe(fn SubscriberFunc) (cancel func()) {
	s := &subscriber{fn: fn}
	h.hub.mu.Lock()
	h.hub.subs = append(h.hub.subs, s)
	h.hub.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			h.hub.mu.Lock()
			defer h.hub.mu.Unlock()
			for i, cur := range h.hub.subs {
				if cur == s {
					h.hub.subs = append(h.hub.subs[:i:i], h.hub.subs[i+1:]...)
					break
				}
			}
			if len(h.hub.subs) == 0 {
				h.hub.subs = nil
			}
		})
	}
}

func (h *Handler) snapshot() []*subscriber {
	h.hub.mu.RLock()
	defer h.hub.mu.RUnlock()
	return h.hub.subs
}

func (h *Handler) publishes(l slog.Level) bool {
	return l >= h.hub.threshold.Level()
}

// Enabled implements slog.Handler.
func (h *Handler) Enabled(ctx context.Context, l slog.Level) bool {
	if h.publishes(l) && len(h.snapshot()) > 0 {
		return true
	}
	return h.inner.Enabled(ctx, l)
}

// Handle implements slog.Handler.
func (h *Handler) Handle(ctx context.Context, r slog.Record) error {
	if h.publishes(r.Level) {
		if subs := h.snapshot(); len(subs) > 0 {
			e := h.entry(r)
			for _, s := range subs {
				s.fn(ctx, e)
			}
		}
	}
	if !h.inner.Enabled(ctx, r.Level) {
		return nil
	}
	return h.inner.Handle(ctx, r)
}

func (h *Handler) entry(r slog.Record) Entry {
	e := Entry{Message: r.Message, Severity: Severity(r.Level)}
	for _, a := range h.attrs {
		if a.Key == StackKey {
			e.StackTrace = a.Value.String()
		}
	}
	r.Attrs(func(a slog.Attr) bool {
		if a.Key == StackKey {
			e.StackTrace = a.Value.String()
			return false
		}
		return true
	})
	return e
}

// WithAttrs implements slog.Handler.
func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	merged := make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	merged = append(merged, h.attrs...)
	merged = append(merged, attrs...)
	return &Handler{inner: h.inner.WithAttrs(attrs), hub: h.hub, attrs: merged}
}

// WithGroup implements slog.Handler.
func (h *Handler) WithGroup(name string) slog.Handler {
	return &Handler{inner: h.inner.WithGroup(name), hub: h.hub, attrs: h.attrs}
}
