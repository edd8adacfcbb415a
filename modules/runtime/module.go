// Package runtime contributes Go runtime controls to the console.
package runtime

import (
	"context"
	"log/slog"
	goruntime "runtime"
	"runtime/debug"

	"github.com/vk/devconsole/internal/ctxlog"
	"github.com/vk/devconsole/internal/registry"
	"github.com/vk/devconsole/internal/variable"
)

// Module registers the gc and free_os_memory actions and the gc_percent
// variable.
type Module struct {
	Logger *slog.Logger
}

// Register adds the actions and the variable.
func (m *Module) Register(r *registry.Registry) {
	logger := ctxlog.OrDefault(m.Logger).With("module", "runtime")

	r.RegisterActionWithDescription("gc", "Run a garbage collection.", func(context.Context) error {
		goruntime.GC()
		logMemStats(logger, "Garbage collection finished.")
		return nil
	})
	r.RegisterActionWithDescription("free_os_memory", "Return as much memory to the OS as possible.", func(context.Context) error {
		debug.FreeOSMemory()
		logMemStats(logger, "Memory returned to the OS.")
		return nil
	})

	// SetGCPercent returns the previous setting; restore it to read the current one.
	current := debug.SetGCPercent(100)
	debug.SetGCPercent(current)
	gc := r.AddInt("gc_percent", current, variable.WithFlags(variable.NoArchive), variable.WithRange(-1, float64(max(current, 1000))))
	gc.Notifier().Subscribe(variable.ObserverFunc(func(v *variable.Variable) error {
		prev := debug.SetGCPercent(v.Int())
		logger.Info("GC percent changed.", "from", prev, "to", v.Int())
		return nil
	}))
}

func logMemStats(logger *slog.Logger, msg string) {
	var ms goruntime.MemStats
	goruntime.ReadMemStats(&ms)
	logger.Info(msg, "heap_alloc", ms.HeapAlloc, "heap_sys", ms.HeapSys, "num_gc", ms.NumGC)
}
