package bridge

import (
	"context"
	"log/slog"
	"strings"

	"github.com/vk/devconsole/internal/errs"
	"github.com/vk/devconsole/internal/logtap"
	"github.com/vk/devconsole/internal/metric"
	"github.com/vk/devconsole/internal/variable"
)

// call performs one outbound call. The Call is released on every path,
// including a panic inside the host, and faults are logged, never returned.
func (a *Adapter) call(method string, args ...Slot) {
	err := a.invoke(method, args)
	if err == nil {
		a.metrics.OutboundCall(method, metric.OutcomeOK)
		return
	}
	a.metrics.OutboundCall(method, metric.OutcomeError)

	level := slog.LevelWarn
	if method == MethodLogMessage {
		// Stay below the tap threshold so a broken host cannot feed itself.
		level = slog.LevelDebug
	}
	a.logger.Log(context.Background(), level, "Native call failed.", "method", method, "error", err)
}

func (a *Adapter) invoke(method string, args []Slot) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errs.Errorf(errs.BridgeCall, method, "panic: %v", r)
		}
	}()

	c, err := a.host.Begin(method)
	if err != nil {
		return errs.E(errs.BridgeCall, method, err)
	}
	defer c.Release()

	return errs.E(errs.BridgeCall, method, c.Invoke(args...))
}

func (a *Adapter) sendRegistered(v *variable.Variable) {
	lo, hi, hasRange := v.Range()
	values := Null()
	if vals := v.AvailableValues(); len(vals) > 0 {
		values = String(strings.Join(vals, ","))
	}
	a.call(MethodVariableRegistered,
		Int(v.ID()),
		String(v.Name()),
		String(v.Type().String()),
		String(v.Value()),
		String(v.DefaultValue()),
		Int(int(v.Flags())),
		Bool(hasRange),
		Float(lo),
		Float(hi),
		values,
	)
}

func (a *Adapter) sendUpdated(v *variable.Variable) {
	a.call(MethodVariableUpdated, Int(v.ID()), String(v.Value()))
}

// forwardLog is the queue's forward function. It runs on the owner
// goroutine. Records logged while a LogMessage call is in flight are pushed
// back to the queue for the next tick instead of recursing.
func (a *Adapter) forwardLog(e logtap.Entry) {
	if a.forwarding {
		a.logs.Enqueue(context.Background(), e)
		return
	}
	a.forwarding = true
	defer func() { a.forwarding = false }()
	a.call(MethodLogMessage, String(e.Message), String(e.StackTrace), String(e.Severity))
}
