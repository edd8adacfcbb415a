package app

import (
	"context"
	"os"
	"testing"

	"github.com/vk/devconsole/internal/bridge"
	"github.com/vk/devconsole/internal/config"
	"github.com/vk/devconsole/internal/queue"
	"github.com/vk/devconsole/internal/registry"
	"github.com/vk/devconsole/internal/testutil"
)

// SetupAppTest creates a new app instance for system testing. The app logs at
// debug level to the returned buffer and talks to host instead of dialing.
func SetupAppTest(t *testing.T, cfg *Config, loader config.Loader, host bridge.Host, modules ...registry.Module) (*App, *testutil.SafeBuffer) {
	t.Helper()

	logBuffer := &testutil.SafeBuffer{}
	cfg.LogLevel = "debug"
	testApp := NewApp(logBuffer, cfg, loader, modules...)
	testApp.dial = func(context.Context, *config.Host, *queue.Queue[map[string]string]) (bridge.Host, error) {
		return host, nil
	}

	t.Cleanup(func() {
		if os.Getenv("DEVCONSOLE_TEST_LOGS") == "true" {
			t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), logBuffer.String())
		}
	})

	return testApp, logBuffer
}
