package testutil

import (
	"sync"

	"github.com/vk/devconsole/internal/bridge"
)

// HostCall is one invocation recorded by FakeHost.
type HostCall struct {
	Method string
	Args   []bridge.Slot
}

// FakeHost is an in-memory bridge.Host that records every call. The Fail
// and Panic maps make individual methods misbehave.
type FakeHost struct {
	mu       sync.Mutex
	calls    []HostCall
	begun    int
	released int
	closed   int

	FailBegin  map[string]error
	FailInvoke map[string]error
	PanicOn    map[string]any
}

// NewFakeHost returns an empty FakeHost.
func NewFakeHost() *FakeHost {
	return &FakeHost{
		FailBegin:  map[string]error{},
		FailInvoke: map[string]error{},
		PanicOn:    map[string]any{},
	}
}

// Begin implements bridge.Host.
func (h *FakeHost) Begin(method string) (bridge.Call, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if err := h.FailBegin[method]; err != nil {
		return nil, err
	}
	h.begun++
	return &fakeCall{host: h, method: method}, nil
}

// Close implements bridge.Host.
func (h *FakeHost) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed++
	return nil
}

// Calls returns a copy of the recorded calls.
func (h *FakeHost) Calls() []HostCall {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]HostCall, len(h.calls))
	copy(out, h.calls)
	return out
}

// CallsTo returns the recorded calls to method.
func (h *FakeHost) CallsTo(method string) []HostCall {
	var out []HostCall
	for _, c := range h.Calls() {
		if c.Method == method {
			out = append(out, c)
		}
	}
	return out
}

// Methods returns the recorded method names in call order.
func (h *FakeHost) Methods() []string {
	var out []string
	for _, c := range h.Calls() {
		out = append(out, c.Method)
	}
	return out
}

// Outstanding returns how many begun calls were not released.
func (h *FakeHost) Outstanding() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.begun - h.released
}

// Closed returns how many times Close was called.
func (h *FakeHost) Closed() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.closed
}

// Reset forgets the recorded calls.
func (h *FakeHost) Reset() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.calls = nil
}

type fakeCall struct {
	host   *FakeHost
	method string
}

func (c *fakeCall) Invoke(args ...bridge.Slot) error {
	h := c.host
	h.mu.Lock()
	p, panics := h.PanicOn[c.method]
	err := h.FailInvoke[c.method]
	if !panics && err == nil {
		h.calls = append(h.calls, HostCall{Method: c.method, Args: append([]bridge.Slot(nil), args...)})
	}
	h.mu.Unlock()

	if panics {
		panic(p)
	}
	return err
}

func (c *fakeCall) Release() {
	c.host.mu.Lock()
	c.host.released++
	c.host.mu.Unlock()
}
