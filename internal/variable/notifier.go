package variable

import (
	"fmt"
	"log/slog"
	"reflect"
	"sync"
	"sync/atomic"

	"github.com/vk/devconsole/internal/ctxlog"
)

// Observer is notified after a Variable's value changed.
type Observer interface {
	VariableChanged(v *Variable) error
}

// ObserverFunc adapts a function to Observer. Function values are not
// comparable, so every Subscribe of an ObserverFunc creates a new subscription.
type ObserverFunc func(v *Variable) error

// VariableChanged calls f(v).
func (f ObserverFunc) VariableChanged(v *Variable) error { return f(v) }

// Subscription is the handle returned by Subscribe and accepted by Unsubscribe.
type Subscription struct {
	observer Observer
	active   atomic.Bool
}

// Active reports whether the subscription has not been removed.
func (s *Subscription) Active() bool { return s != nil && s.active.Load() }

// Notifier is a guarded observer list with per-observer fault isolation.
//
// The lock covers list mutation and the snapshot taken at the start of
// Notify; observers run outside of it. An observer may therefore subscribe or
// unsubscribe during notification: additions are seen by the next Notify,
// removals take effect immediately.
//
// The zero value is ready to use.
type Notifier struct {
	mu     sync.Mutex
	subs   []*Subscription
	logger *slog.Logger
}

// SetLogger sets the logger used to report observer failures.
func (n *Notifier) SetLogger(logger *slog.Logger) {
	n.mu.Lock()
	n.logger = logger
	n.mu.Unlock()
}

// Subscribe adds o and returns its subscription. Subscribing an observer
// that is already present returns the existing subscription. Observers that
// are not comparable, such as ObserverFunc, cannot be matched; keep the
// returned handle and Unsubscribe it instead of subscribing again.
func (n *Notifier) Subscribe(o Observer) *Subscription {
	n.mu.Lock()
	defer n.mu.Unlock()

	if isComparable(o) {
		for _, s := range n.subs {
			if isComparable(s.observer) && s.observer == o {
				return s
			}
		}
	}
	s := &Subscription{observer: o}
	s.active.Store(true)
	n.subs = append(n.subs, s)
	return s
}

// Unsubscribe removes the subscription. It reports whether s was present.
func (n *Notifier) Unsubscribe(s *Subscription) bool {
	if s == nil {
		return false
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.removeLocked(func(x *Subscription) bool { return x == s }) > 0
}

// RemoveWhere removes every subscription whose observer matches pred and
// returns the number removed.
func (n *Notifier) RemoveWhere(pred func(Observer) bool) int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.removeLocked(func(x *Subscription) bool { return pred(x.observer) })
}

func (n *Notifier) removeLocked(match func(*Subscription) bool) int {
	var kept []*Subscription
	removed := 0
	for _, s := range n.subs {
		if match(s) {
			s.active.Store(false)
			removed++
			continue
		}
		kept = append(kept, s)
	}
	// kept is nil when nothing is left, so an idle list holds no backing array.
	n.subs = kept
	return removed
}

// Len returns the number of active subscriptions.
func (n *Notifier) Len() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.subs)
}

// Notify calls every observer in registration order. An observer that
// returns an error or panics is logged and skipped.
func (n *Notifier) Notify(v *Variable) {
	n.mu.Lock()
	if len(n.subs) == 0 {
		n.mu.Unlock()
		return
	}
	snapshot := make([]*Subscription, len(n.subs))
	copy(snapshot, n.subs)
	logger := ctxlog.OrDefault(n.logger)
	n.mu.Unlock()

	for _, s := range snapshot {
		if !s.active.Load() {
			continue
		}
		n.invoke(logger, s.observer, v)
	}
}

func (n *Notifier) invoke(logger *slog.Logger, o Observer, v *Variable) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Variable observer panicked.", "variable", v.Name(), "observer", fmt.Sprintf("%T", o), "panic", r)
		}
	}()
	if err := o.VariableChanged(v); err != nil {
		logger.Error("Variable observer failed.", "variable", v.Name(), "observer", fmt.Sprintf("%T", o), "error", err)
	}
}

func isComparable(o Observer) bool {
	return o != nil && reflect.TypeOf(o).Comparable()
}
