package sockethost

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/vk/devconsole/internal/bridge"
	"github.com/vk/devconsole/internal/ctxlog"
	"github.com/vk/devconsole/internal/queue"
	"github.com/zishang520/engine.io-client-go/transports"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io-client-go/socket"
)

// Event names on the wire.
const (
	EventBridgeCall     = "bridge_call"
	EventConsoleMessage = "console_message"
)

const defaultConnectTimeout = 15 * time.Second

// ErrClosed is returned by Begin after Close.
var ErrClosed = errors.New("socket host closed")

// ErrNotConnected is returned by Begin while the socket is disconnected.
var ErrNotConnected = errors.New("socket host not connected")

// Config holds the connection settings.
type Config struct {
	URL                string
	Namespace          string
	InsecureSkipVerify bool
	ConnectTimeout     time.Duration
}

// Host emits bridge calls over socket.io.
type Host struct {
	logger    *slog.Logger
	sessionID string
	inbox     *queue.Queue[map[string]string]

	emit       func(event string, args ...any)
	connected  func() bool
	disconnect func()

	mu     sync.Mutex
	closed bool
}

var _ bridge.Host = (*Host)(nil)

// Dial connects to the console server and waits for the connection to be
// established. Inbound console messages are enqueued on inbox.
func Dial(ctx context.Context, cfg Config, inbox *queue.Queue[map[string]string]) (*Host, error) {
	sessionID := uuid.NewString()
	logger := ctxlog.FromContext(ctx).With("component", "sockethost", "url", cfg.URL, "session", sessionID)

	parsedURL, err := url.Parse(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse URL: %w", err)
	}
	namespace := cfg.Namespace
	if namespace == "" {
		namespace = "/"
	}
	timeout := cfg.ConnectTimeout
	if timeout <= 0 {
		timeout = defaultConnectTimeout
	}

	opts := socket.DefaultOptions()
	opts.SetPath(parsedURL.Path)
	if cfg.InsecureSkipVerify {
		logger.Warn("Skipping TLS certificate verification")
		opts.SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true})
	}
	opts.SetTransports(types.NewSet(transports.WebSocket))
	opts.SetAuth(map[string]any{"session": sessionID})

	baseURL := fmt.Sprintf("%s://%s", parsedURL.Scheme, parsedURL.Host)
	manager := socket.NewManager(baseURL, opts)
	io := manager.Socket(namespace, opts)

	h := newHost(logger, sessionID, inbox,
		func(event string, args ...any) { io.Emit(event, args...) },
		io.Connected,
		func() { io.Disconnect() },
	)

	connectChan := make(chan error, 1)
	io.Once(types.EventName("connect"), func(...any) {
		logger.Info("Connected to console server.", "sid", io.Id())
		connectChan <- nil
	})
	io.Once(types.EventName("connect_error"), func(errs ...any) {
		err := errors.New("connect_error")
		if len(errs) > 0 {
			if e, ok := errs[0].(error); ok {
				err = e
			}
		}
		connectChan <- err
	})
	io.On(types.EventName(EventConsoleMessage), func(data ...any) {
		h.receive(data...)
	})
	io.On(types.EventName("disconnect"), func(reason ...any) {
		logger.Info("Disconnected from console server.", "reason", fmt.Sprint(reason...))
	})

	logger.Debug("Connecting to console server.")
	io.Connect()

	select {
	case err := <-connectChan:
		if err != nil {
			io.Disconnect()
			return nil, fmt.Errorf("socket.io connection failed: %w", err)
		}
		return h, nil
	case <-ctx.Done():
		io.Disconnect()
		return nil, fmt.Errorf("context cancelled while waiting for socket.io connection: %w", ctx.Err())
	case <-time.After(timeout):
		io.Disconnect()
		return nil, fmt.Errorf("timed out after %v waiting for socket.io connection", timeout)
	}
}

func newHost(logger *slog.Logger, sessionID string, inbox *queue.Queue[map[string]string],
	emit func(string, ...any), connected func() bool, disconnect func()) *Host {
	return &Host{
		logger:     logger,
		sessionID:  sessionID,
		inbox:      inbox,
		emit:       emit,
		connected:  connected,
		disconnect: disconnect,
	}
}

// SessionID returns the id sent in the socket.io auth payload.
func (h *Host) SessionID() string { return h.sessionID }

// Begin implements bridge.Host.
func (h *Host) Begin(method string) (bridge.Call, error) {
	h.mu.Lock()
	closed := h.closed
	h.mu.Unlock()
	if closed {
		return nil, ErrClosed
	}
	if !h.connected() {
		return nil, ErrNotConnected
	}
	return &call{host: h, method: method}, nil
}

// Close implements bridge.Host. It disconnects the socket once.
func (h *Host) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return nil
	}
	h.closed = true
	h.disconnect()
	h.logger.Debug("Socket host closed.")
	return nil
}

// receive runs on the socket.io goroutine.
func (h *Host) receive(data ...any) {
	msg, err := decodeMessage(data)
	if err != nil {
		h.logger.Warn("Dropping malformed console message.", "error", err)
		return
	}
	h.inbox.Enqueue(context.Background(), msg)
}

type call struct {
	host     *Host
	method   string
	released bool
}

func (c *call) Invoke(args ...bridge.Slot) error {
	if c.released {
		return fmt.Errorf("%s: call already released", c.method)
	}
	c.host.emit(EventBridgeCall, encodeCall(c.method, args))
	return nil
}

func (c *call) Release() {
	c.released = true
}
