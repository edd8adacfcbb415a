package bridge

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/vk/devconsole/internal/errs"
	"github.com/vk/devconsole/internal/metric"
	"github.com/vk/devconsole/internal/variable"
)

// Inbound message names.
const (
	MessageConsoleOpen        = "console_open"
	MessageConsoleClose       = "console_close"
	MessageConsoleAction      = "console_action"
	MessageConsoleVariableSet = "console_variable_set"
	MessageTrackEvent         = "track_event"
)

type handlerFunc func(ctx context.Context, msg map[string]string) error

func (a *Adapter) handlerTable() map[string]handlerFunc {
	return map[string]handlerFunc{
		MessageConsoleOpen:        a.handleOpen,
		MessageConsoleClose:       a.handleClose,
		MessageConsoleAction:      a.handleAction,
		MessageConsoleVariableSet: a.handleVariableSet,
		MessageTrackEvent:         a.handleTrackEvent,
	}
}

// Dispatch handles one inbound native message on the owner goroutine.
// Unknown names, bad arguments and handler faults are logged and dropped.
func (a *Adapter) Dispatch(ctx context.Context, msg map[string]string) {
	name := msg["name"]
	logger := a.logger.With("message", name)

	h, ok := a.handlers[name]
	if !ok {
		a.metrics.InboundMessage(name, metric.OutcomeDropped)
		logger.WarnContext(ctx, "Dropping inbound message with unknown name.", "payload", logValue(msg))
		return
	}

	if err := a.runHandler(ctx, h, msg); err != nil {
		a.metrics.InboundMessage(name, metric.OutcomeError)
		logger.WarnContext(ctx, "Inbound message failed.", "kind", errs.KindOf(err).String(), "error", err)
		return
	}
	a.metrics.InboundMessage(name, metric.OutcomeOK)
}

func (a *Adapter) runHandler(ctx context.Context, h handlerFunc, msg map[string]string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errs.Errorf(errs.BridgeCall, "bridge.Dispatch", "handler panic: %v", r)
		}
	}()
	return h(ctx, msg)
}

func (a *Adapter) handleOpen(ctx context.Context, _ map[string]string) error {
	a.open = true
	a.announceAll()
	a.logger.InfoContext(ctx, "Native console opened.")
	if a.onOpen != nil {
		a.onOpen()
	}
	return nil
}

func (a *Adapter) handleClose(ctx context.Context, _ map[string]string) error {
	a.open = false
	a.logger.InfoContext(ctx, "Native console closed.")
	if a.onClose != nil {
		a.onClose()
	}
	return nil
}

func (a *Adapter) handleAction(ctx context.Context, msg map[string]string) error {
	id, err := requireID(msg)
	if err != nil {
		return err
	}
	act, ok := a.reg.FindAction(id)
	if !ok {
		return errs.Errorf(errs.Lookup, MessageConsoleAction, "no action with id %d", id)
	}
	a.logger.DebugContext(ctx, "Running console action.", "action", act.Name, "id", act.ID)
	if err := act.Run(ctx); err != nil {
		return fmt.Errorf("action %q: %w", act.Name, err)
	}
	return nil
}

func (a *Adapter) handleVariableSet(ctx context.Context, msg map[string]string) error {
	id, err := requireID(msg)
	if err != nil {
		return err
	}
	raw, ok := msg["value"]
	if !ok {
		return errs.Errorf(errs.Parse, MessageConsoleVariableSet, "missing %q", "value")
	}
	v, err := a.Resolve(id)
	if err != nil {
		return err
	}
	if err := ParseAndApply(v, raw); err != nil {
		return err
	}
	a.dirty = true
	a.logger.DebugContext(ctx, "Variable set from console.", "name", v.Name(), "value", v.Value())
	return nil
}

func (a *Adapter) handleTrackEvent(ctx context.Context, msg map[string]string) error {
	ev := Event{Category: msg["category"], Action: msg["action"]}
	if ev.Category == "" || ev.Action == "" {
		return errs.Errorf(errs.Parse, MessageTrackEvent, "category and action are required")
	}
	ev.Value, ev.HasValue = msg["value"]
	a.analytics.TrackEvent(ctx, ev)
	return nil
}

// Resolve returns the variable with the given id or a Lookup error.
func (a *Adapter) Resolve(id int) (*variable.Variable, error) {
	v, ok := a.reg.FindVariable(id)
	if !ok {
		return nil, errs.Errorf(errs.Lookup, "bridge.Resolve", "no variable with id %d", id)
	}
	return v, nil
}

func requireID(msg map[string]string) (int, error) {
	raw, ok := msg["id"]
	if !ok {
		return 0, errs.Errorf(errs.Parse, msg["name"], "missing %q", "id")
	}
	id, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errs.E(errs.Parse, msg["name"], err)
	}
	return id, nil
}

// logValue lets message maps print compactly in structured logs.
type logValue map[string]string

func (m logValue) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(m))
	for k, v := range m {
		attrs = append(attrs, slog.String(k, v))
	}
	return slog.GroupValue(attrs...)
}
