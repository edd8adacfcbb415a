package bridge

import (
	"context"
	"log/slog"
	"sync"

	"github.com/vk/devconsole/internal/ctxlog"
	"github.com/vk/devconsole/internal/logtap"
	"github.com/vk/devconsole/internal/metric"
	"github.com/vk/devconsole/internal/persist"
	"github.com/vk/devconsole/internal/queue"
	"github.com/vk/devconsole/internal/registry"
	"github.com/vk/devconsole/internal/variable"
)

// Options configures an Adapter. Registry and Host are required.
type Options struct {
	Registry *registry.Registry
	Host     Host

	// Store is saved on Tick when dirty and loaded on Init. Optional.
	Store *persist.Store
	// Tap is the log source forwarded as LogMessage calls. Optional.
	Tap *logtap.Handler
	// Analytics receives track_event messages. Defaults to a logger sink.
	Analytics Analytics
	Metrics   *metric.Metrics
	Logger    *slog.Logger

	// OnOpen and OnClose run when the native console opens or closes.
	OnOpen  func()
	OnClose func()
}

// Adapter is the registry delegate that talks to a Host.
type Adapter struct {
	reg       *registry.Registry
	host      Host
	store     *persist.Store
	tap       *logtap.Handler
	analytics Analytics
	metrics   *metric.Metrics
	logger    *slog.Logger
	onOpen    func()
	onClose   func()

	handlers map[string]handlerFunc
	logs     *queue.Queue[logtap.Entry]

	open       bool
	dirty      bool
	loading    bool
	forwarding bool

	cancelTap   func()
	destroyOnce sync.Once
}

var _ registry.Delegate = (*Adapter)(nil)

// New creates an adapter. It does not touch the registry until Init.
func New(opts Options) *Adapter {
	logger := ctxlog.OrDefault(opts.Logger).With("component", "bridge")
	a := &Adapter{
		reg:       opts.Registry,
		host:      opts.Host,
		store:     opts.Store,
		tap:       opts.Tap,
		analytics: opts.Analytics,
		metrics:   opts.Metrics,
		logger:    logger,
		onOpen:    opts.OnOpen,
		onClose:   opts.OnClose,
	}
	if a.analytics == nil {
		a.analytics = LogAnalytics{Logger: logger}
	}
	a.logs = queue.New(a.forwardLog)
	a.handlers = a.handlerTable()
	return a
}

// Init attaches the adapter to the registry, announces everything already
// registered, loads the store and subscribes to the log tap. The returned
// context identifies the owner goroutine; use it for Dispatch, Tick and
// owner-side logging.
func (a *Adapter) Init(ctx context.Context) context.Context {
	ctx = a.logs.OwnerContext(ctx)

	a.reg.SetDelegate(a)
	a.announceAll()

	if a.store != nil {
		a.loading = true
		n := a.store.Load(a.reg, a.sendUpdated)
		a.loading = false
		a.logger.Debug("Store loaded.", "applied", n)
	}
	a.metrics.SetVariables(a.reg.Len())

	if a.tap != nil {
		a.cancelTap = a.tap.Subscribe(func(ctx context.Context, e logtap.Entry) {
			a.logs.Enqueue(ctx, e)
		})
	}
	a.logger.Info("Console bridge initialized.", "variables", a.reg.Len(), "actions", len(a.reg.Actions()))
	return ctx
}

// Tick forwards queued log entries and saves the store if it is dirty.
func (a *Adapter) Tick(ctx context.Context) {
	a.logs.DrainOnce()
	a.metrics.SetLogQueueDepth(a.logs.Len())
	a.flush()
}

func (a *Adapter) flush() {
	if !a.dirty || a.store == nil {
		return
	}
	a.dirty = false
	a.metrics.Save(a.store.Save(a.reg.Variables()))
}

// Destroy flushes a pending save, unsubscribes from the log tap, detaches
// from the registry and closes the host. Calls after the first do nothing.
func (a *Adapter) Destroy() {
	a.destroyOnce.Do(func() {
		if a.cancelTap != nil {
			a.cancelTap()
		}
		a.flush()
		a.reg.SetDelegate(nil)
		if err := a.host.Close(); err != nil {
			a.logger.Warn("Closing native host failed.", "error", err)
		}
		a.logger.Debug("Console bridge destroyed.")
	})
}

// MarkDirty schedules a save on the next Tick.
func (a *Adapter) MarkDirty() { a.dirty = true }

// Dirty reports whether a save is pending.
func (a *Adapter) Dirty() bool { return a.dirty }

// IsOpen reports whether the native console is open.
func (a *Adapter) IsOpen() bool { return a.open }

// PendingLogs returns the number of log entries waiting for the next Tick.
func (a *Adapter) PendingLogs() int { return a.logs.Len() }

// OnVariableRegistered implements registry.Delegate.
func (a *Adapter) OnVariableRegistered(v *variable.Variable) {
	a.sendRegistered(v)
	a.metrics.SetVariables(a.reg.Len())
}

// OnVariableUpdated implements registry.Delegate.
func (a *Adapter) OnVariableUpdated(v *variable.Variable) {
	if a.loading {
		// Load forwards through its own callback.
		return
	}
	a.dirty = true
	a.sendUpdated(v)
}

// OnActionRegistered implements registry.Delegate.
func (a *Adapter) OnActionRegistered(act *registry.Action) {
	a.call(MethodActionRegistered, Int(act.ID), String(act.Name))
}

// OnActionUnregistered implements registry.Delegate.
func (a *Adapter) OnActionUnregistered(act *registry.Action) {
	a.call(MethodActionUnregistered, Int(act.ID))
}

func (a *Adapter) announceAll() {
	for _, v := range a.reg.Variables() {
		a.sendRegistered(v)
	}
	for _, act := range a.reg.Actions() {
		a.OnActionRegistered(act)
	}
}
