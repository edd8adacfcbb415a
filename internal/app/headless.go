package app

import (
	"context"
	"log/slog"

	"github.com/vk/devconsole/internal/bridge"
	"github.com/vk/devconsole/internal/config"
	"github.com/vk/devconsole/internal/ctxlog"
	"github.com/vk/devconsole/internal/queue"
	"github.com/vk/devconsole/internal/sockethost"
)

// dialFunc connects the native host. Inbound messages go to inbox.
type dialFunc func(ctx context.Context, cfg *config.Host, inbox *queue.Queue[map[string]string]) (bridge.Host, error)

// dialHost connects over socket.io when a host block is configured and
// falls back to a headless host otherwise.
func dialHost(ctx context.Context, cfg *config.Host, inbox *queue.Queue[map[string]string]) (bridge.Host, error) {
	logger := ctxlog.FromContext(ctx)
	if cfg == nil {
		logger.Info("No host configured, running headless.")
		return &headlessHost{logger: logger.With("component", "headless")}, nil
	}

	h, err := sockethost.Dial(ctx, sockethost.Config{
		URL:                cfg.URL,
		Namespace:          cfg.Namespace,
		InsecureSkipVerify: cfg.InsecureSkipVerify,
	}, inbox)
	if err != nil {
		return nil, err
	}
	logger.Info("Connected to native host.", "url", cfg.URL, "session", h.SessionID())
	return h, nil
}

// headlessHost accepts every call and logs it at debug level.
type headlessHost struct {
	logger *slog.Logger
}

func (h *headlessHost) Begin(method string) (bridge.Call, error) {
	return headlessCall{logger: h.logger, method: method}, nil
}

func (h *headlessHost) Close() error { return nil }

type headlessCall struct {
	logger *slog.Logger
	method string
}

func (c headlessCall) Invoke(args ...bridge.Slot) error {
	if c.logger.Enabled(context.Background(), slog.LevelDebug) {
		strs := make([]string, len(args))
		for i, a := range args {
			strs[i] = a.String()
		}
		c.logger.Debug("Native call.", "method", c.method, "args", strs)
	}
	return nil
}

func (headlessCall) Release() {}
