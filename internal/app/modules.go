package app

import (
	"context"
	"log/slog"

	"github.com/vk/devconsole/internal/persist"
	"github.com/vk/devconsole/internal/registry"
	"github.com/vk/devconsole/modules/loglevel"
	"github.com/vk/devconsole/modules/print"
	"github.com/vk/devconsole/modules/runtime"
)

// coreModules is the list of modules compiled into the devconsole binary.
func (a *App) coreModules() []registry.Module {
	return []registry.Module{
		&consoleModule{store: a.store, logger: a.logger},
		&loglevel.Module{Var: a.level},
		&runtime.Module{Logger: a.logger},
		&print.Module{Out: a.outW},
	}
}

// consoleModule contributes actions that manage the console itself.
type consoleModule struct {
	store  *persist.Store
	logger *slog.Logger
}

func (m *consoleModule) Register(r *registry.Registry) {
	r.RegisterActionWithDescription("console_reset", "Reset every variable to its default.", func(context.Context) error {
		n := 0
		for _, v := range r.Variables() {
			if !v.IsDefault() {
				v.ResetToDefault()
				n++
			}
		}
		m.logger.Info("Console variables reset.", "count", n)
		return nil
	})
	r.RegisterActionWithDescription("console_forget", "Delete the saved variable file.", func(context.Context) error {
		if err := m.store.Remove(); err != nil {
			return err
		}
		m.logger.Info("Saved console variables deleted.", "path", m.store.Path())
		return nil
	})
}
