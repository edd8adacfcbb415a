package bridge_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/devconsole/internal/bridge"
	"github.com/vk/devconsole/internal/logtap"
	"github.com/vk/devconsole/internal/persist"
	"github.com/vk/devconsole/internal/registry"
	"github.com/vk/devconsole/internal/testutil"
	"github.com/vk/devconsole/internal/variable"
)

type fixture struct {
	reg     *registry.Registry
	host    *testutil.FakeHost
	tap     *logtap.Handler
	store   *persist.Store
	logs    *bytes.Buffer
	logger  *slog.Logger
	adapter *bridge.Adapter
}

func newFixture(t *testing.T, mutate ...func(*bridge.Options)) *fixture {
	t.Helper()
	f := &fixture{host: testutil.NewFakeHost(), logs: &bytes.Buffer{}}
	inner := slog.NewTextHandler(f.logs, &slog.HandlerOptions{Level: slog.LevelDebug})
	f.tap = logtap.New(inner, slog.LevelWarn)
	f.logger = slog.New(f.tap)
	f.reg = registry.New(f.logger)
	f.store = persist.New(filepath.Join(t.TempDir(), "console.bin"), f.logger)

	opts := bridge.Options{
		Registry: f.reg,
		Host:     f.host,
		Store:    f.store,
		Tap:      f.tap,
		Logger:   f.logger,
	}
	for _, m := range mutate {
		m(&opts)
	}
	f.adapter = bridge.New(opts)
	t.Cleanup(f.adapter.Destroy)
	return f
}

func (f *fixture) init() context.Context {
	return f.adapter.Init(context.Background())
}

func TestInit_AnnouncesExistingState(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	f := newFixture(t)
	f.reg.AddInt("score", 10, variable.WithRange(0, 100), variable.WithFlags(variable.NoArchive))
	f.reg.RegisterAction("reset", func(context.Context) error { return nil })

	// --- Act ---
	f.init()

	// --- Assert ---
	want := []testutil.HostCall{
		{Method: bridge.MethodVariableRegistered, Args: []bridge.Slot{
			bridge.Int(1), bridge.String("score"), bridge.String("Integer"),
			bridge.String("10"), bridge.String("10"), bridge.Int(int(variable.NoArchive)),
			bridge.Bool(true), bridge.Float(0), bridge.Float(100), bridge.Null(),
		}},
		{Method: bridge.MethodActionRegistered, Args: []bridge.Slot{bridge.Int(2), bridge.String("reset")}},
	}
	if diff := cmp.Diff(want, f.host.Calls()); diff != "" {
		t.Errorf("announced calls mismatch (-want +got):\n%s", diff)
	}
}

func TestRegisteredEnum_JoinsAvailableValues(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.init()

	_, err := f.reg.NewEnumVariable("difficulty", []string{"easy", "normal", "hard"}, "normal")
	require.NoError(t, err)

	calls := f.host.CallsTo(bridge.MethodVariableRegistered)
	require.Len(t, calls, 1)
	assert.Equal(t, bridge.String("Enum"), calls[0].Args[2])
	assert.Equal(t, bridge.String("easy,normal,hard"), calls[0].Args[9])
}

func TestVariableUpdate_ForwardsAndMarksDirty(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.init()
	v := f.reg.AddInt("score", 0)
	f.host.Reset()

	v.SetInt(5)
	v.SetInt(5)

	want := []testutil.HostCall{{Method: bridge.MethodVariableUpdated, Args: []bridge.Slot{bridge.Int(v.ID()), bridge.String("5")}}}
	assert.Equal(t, want, f.host.Calls())
	assert.True(t, f.adapter.Dirty())
}

func TestDispatch_VariableSet(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	f := newFixture(t)
	ctx := f.init()
	f.reg.AddBool("a", false)
	f.reg.AddBool("b", false)
	score := f.reg.AddInt("score", 0)
	require.Equal(t, 3, score.ID())

	// --- Act ---
	f.adapter.Dispatch(ctx, map[string]string{"name": "console_variable_set", "id": "3", "value": "42"})

	// --- Assert ---
	assert.Equal(t, 42, score.Int())
	assert.True(t, f.adapter.Dirty())
}

func TestDispatch_VariableSetUnknownID(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := f.init()
	score := f.reg.AddInt("score", 0)
	f.host.Reset()

	f.adapter.Dispatch(ctx, map[string]string{"name": "console_variable_set", "id": "99", "value": "42"})

	assert.True(t, score.IsDefault())
	assert.False(t, f.adapter.Dirty())
	assert.Contains(t, f.logs.String(), "kind=lookup")
}

func TestDispatch_VariableSetParseErrorLeavesValue(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := f.init()
	flag := f.reg.AddBool("god_mode", false)

	f.adapter.Dispatch(ctx, map[string]string{"name": "console_variable_set", "id": "1", "value": "true"})

	assert.False(t, flag.Bool())
	assert.False(t, f.adapter.Dirty())
	assert.Contains(t, f.logs.String(), "kind=parse")
}

func TestDispatch_MissingArguments(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := f.init()
	f.reg.AddInt("score", 0)

	f.adapter.Dispatch(ctx, map[string]string{"name": "console_variable_set", "id": "1"})
	f.adapter.Dispatch(ctx, map[string]string{"name": "console_variable_set", "value": "1"})
	f.adapter.Dispatch(ctx, map[string]string{"name": "console_action", "id": "x"})

	assert.False(t, f.adapter.Dirty())
	assert.Equal(t, 3, bytes.Count(f.logs.Bytes(), []byte("Inbound message failed.")))
}

func TestDispatch_UnknownNameDropped(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := f.init()

	assert.NotPanics(t, func() {
		f.adapter.Dispatch(ctx, map[string]string{"name": "console_explode"})
		f.adapter.Dispatch(ctx, map[string]string{})
	})
	assert.Equal(t, 2, bytes.Count(f.logs.Bytes(), []byte("Dropping inbound message")))
}

func TestDispatch_OpenReannouncesAndClose(t *testing.T) {
	t.Parallel()

	opened, closed := 0, 0
	f := newFixture(t, func(o *bridge.Options) {
		o.OnOpen = func() { opened++ }
		o.OnClose = func() { closed++ }
	})
	f.reg.AddInt("score", 0)
	ctx := f.init()
	f.host.Reset()

	f.adapter.Dispatch(ctx, map[string]string{"name": "console_open"})
	assert.True(t, f.adapter.IsOpen())
	assert.Equal(t, 1, opened)
	assert.Equal(t, []string{bridge.MethodVariableRegistered}, f.host.Methods())

	f.adapter.Dispatch(ctx, map[string]string{"name": "console_close"})
	assert.False(t, f.adapter.IsOpen())
	assert.Equal(t, 1, closed)
}

func TestDispatch_Action(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := f.init()
	ran := 0
	act := f.reg.RegisterAction("spawn", func(context.Context) error { ran++; return nil })
	boom := f.reg.RegisterAction("boom", func(context.Context) error { panic("kaboom") })

	f.adapter.Dispatch(ctx, map[string]string{"name": "console_action", "id": itoa(act.ID)})
	assert.Equal(t, 1, ran)

	assert.NotPanics(t, func() {
		f.adapter.Dispatch(ctx, map[string]string{"name": "console_action", "id": itoa(boom.ID)})
	})
	assert.Contains(t, f.logs.String(), "kaboom")

	f.adapter.Dispatch(ctx, map[string]string{"name": "console_action", "id": "1000"})
	assert.Contains(t, f.logs.String(), "no action with id 1000")
}

func TestDispatch_TrackEvent(t *testing.T) {
	t.Parallel()

	var got []bridge.Event
	f := newFixture(t, func(o *bridge.Options) {
		o.Analytics = bridge.AnalyticsFunc(func(_ context.Context, e bridge.Event) { got = append(got, e) })
	})
	ctx := f.init()

	f.adapter.Dispatch(ctx, map[string]string{"name": "track_event", "category": "ui", "action": "click"})
	f.adapter.Dispatch(ctx, map[string]string{"name": "track_event", "category": "ui", "action": "drag", "value": "3"})
	f.adapter.Dispatch(ctx, map[string]string{"name": "track_event", "action": "orphan"})

	want := []bridge.Event{
		{Category: "ui", Action: "click"},
		{Category: "ui", Action: "drag", Value: "3", HasValue: true},
	}
	assert.Equal(t, want, got)
}

func TestOutboundCall_ReleasedOnPanicAndError(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.init()
	f.host.PanicOn[bridge.MethodVariableRegistered] = "native crash"
	f.host.FailInvoke[bridge.MethodVariableUpdated] = errors.New("native refused")

	var v *variable.Variable
	assert.NotPanics(t, func() {
		v = f.reg.AddInt("score", 0)
		v.SetInt(1)
	})

	assert.Zero(t, f.host.Outstanding())
	assert.Contains(t, f.logs.String(), "native crash")
	assert.Contains(t, f.logs.String(), "native refused")
}

func TestOutboundCall_BeginFailure(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.init()
	f.host.FailBegin[bridge.MethodActionRegistered] = errors.New("no slot")

	assert.NotPanics(t, func() {
		f.reg.RegisterAction("noop", func(context.Context) error { return nil })
	})
	assert.Contains(t, f.logs.String(), "no slot")
	assert.Zero(t, f.host.Outstanding())
}

func TestTick_SavesAtMostOncePerTick(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	f := newFixture(t)
	ctx := f.init()
	v := f.reg.AddInt("score", 0)

	// --- Act ---
	for i := 1; i <= 50; i++ {
		v.SetInt(i)
	}
	f.adapter.Tick(ctx)

	// --- Assert ---
	assert.False(t, f.adapter.Dirty())
	_, err := os.Stat(f.store.Path())
	require.NoError(t, err)

	require.NoError(t, os.Remove(f.store.Path()))
	f.adapter.Tick(ctx)
	_, err = os.Stat(f.store.Path())
	assert.True(t, os.IsNotExist(err), "clean tick must not save")
}

func TestInit_LoadsStoreAndForwardsOnce(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	f := newFixture(t)
	src := registry.New(nil)
	src.AddInt("score", 0).SetInt(7)
	require.NoError(t, f.store.Save(src.Variables()))

	score := f.reg.AddInt("score", 0)

	// --- Act ---
	f.init()

	// --- Assert ---
	assert.Equal(t, 7, score.Int())
	updates := f.host.CallsTo(bridge.MethodVariableUpdated)
	require.Len(t, updates, 1)
	assert.Equal(t, bridge.String("7"), updates[0].Args[1])
	assert.False(t, f.adapter.Dirty(), "values read from the store are not dirty")
}

func TestLogForwarding(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := f.init()
	f.host.Reset()

	f.logger.WarnContext(context.Background(), "from elsewhere")
	assert.Empty(t, f.host.CallsTo(bridge.MethodLogMessage), "non-owner records wait for the tick")
	assert.Equal(t, 1, f.adapter.PendingLogs())

	f.logger.ErrorContext(ctx, "from owner", logtap.StackKey, "trace")
	calls := f.host.CallsTo(bridge.MethodLogMessage)
	require.Len(t, calls, 1)
	assert.Equal(t, []bridge.Slot{bridge.String("from owner"), bridge.String("trace"), bridge.String("error")}, calls[0].Args)

	f.adapter.Tick(ctx)
	calls = f.host.CallsTo(bridge.MethodLogMessage)
	require.Len(t, calls, 2)
	assert.Equal(t, bridge.String("from elsewhere"), calls[1].Args[0])
	assert.Equal(t, bridge.String("warning"), calls[1].Args[2])

	f.logger.InfoContext(ctx, "below threshold")
	assert.Len(t, f.host.CallsTo(bridge.MethodLogMessage), 2)
}

func TestDestroy_Idempotent(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := f.init()
	v := f.reg.AddInt("score", 0)
	v.SetInt(3)

	f.adapter.Destroy()
	f.adapter.Destroy()

	assert.Equal(t, 1, f.host.Closed())
	_, err := os.Stat(f.store.Path())
	assert.NoError(t, err, "pending save flushed on destroy")

	f.host.Reset()
	f.logger.ErrorContext(ctx, "after destroy")
	v.SetInt(4)
	assert.Empty(t, f.host.Calls())
}
