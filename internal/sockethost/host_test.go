package sockethost

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/devconsole/internal/bridge"
	"github.com/vk/devconsole/internal/ctxlog"
	"github.com/vk/devconsole/internal/queue"
)

type emitted struct {
	event string
	args  []any
}

type fakeSocket struct {
	events       []emitted
	online       bool
	disconnected int
}

func newTestHost(t *testing.T, inbox *queue.Queue[map[string]string]) (*Host, *fakeSocket, *bytes.Buffer) {
	t.Helper()
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	s := &fakeSocket{online: true}
	h := newHost(logger, uuid.NewString(), inbox,
		func(event string, args ...any) { s.events = append(s.events, emitted{event, args}) },
		func() bool { return s.online },
		func() { s.disconnected++ },
	)
	return h, s, &logs
}

func TestHost_EmitsBridgeCall(t *testing.T) {
	t.Parallel()

	h, s, _ := newTestHost(t, queue.New(func(map[string]string) {}))

	c, err := h.Begin(bridge.MethodVariableRegistered)
	require.NoError(t, err)
	require.NoError(t, c.Invoke(bridge.Int(1), bridge.String("score"), bridge.Bool(true), bridge.Float(0.5), bridge.Null()))
	c.Release()

	require.Len(t, s.events, 1)
	assert.Equal(t, EventBridgeCall, s.events[0].event)
	want := map[string]any{
		"method": "VariableRegistered",
		"args":   []any{1, "score", true, 0.5, nil},
	}
	assert.Equal(t, []any{want}, s.events[0].args)
}

func TestHost_InvokeAfterReleaseFails(t *testing.T) {
	t.Parallel()

	h, s, _ := newTestHost(t, queue.New(func(map[string]string) {}))
	c, err := h.Begin(bridge.MethodVariableUpdated)
	require.NoError(t, err)
	c.Release()

	assert.Error(t, c.Invoke(bridge.Int(1)))
	assert.Empty(t, s.events)
}

func TestHost_BeginWhileDisconnected(t *testing.T) {
	t.Parallel()

	h, s, _ := newTestHost(t, queue.New(func(map[string]string) {}))
	s.online = false

	_, err := h.Begin(bridge.MethodLogMessage)
	assert.ErrorIs(t, err, ErrNotConnected)
}

func TestHost_CloseOnce(t *testing.T) {
	t.Parallel()

	h, s, _ := newTestHost(t, queue.New(func(map[string]string) {}))

	require.NoError(t, h.Close())
	require.NoError(t, h.Close())
	assert.Equal(t, 1, s.disconnected)

	_, err := h.Begin(bridge.MethodLogMessage)
	assert.ErrorIs(t, err, ErrClosed)
}

func TestHost_ReceiveQueuesMessages(t *testing.T) {
	t.Parallel()

	var got []map[string]string
	inbox := queue.New(func(m map[string]string) { got = append(got, m) })
	h, _, logs := newTestHost(t, inbox)

	h.receive(map[string]any{"name": "console_variable_set", "id": float64(3), "value": "42"})
	h.receive("not an object")
	assert.Empty(t, got, "messages wait for the owner drain")

	inbox.DrainOnce()
	require.Len(t, got, 1)
	assert.Equal(t, map[string]string{"name": "console_variable_set", "id": "3", "value": "42"}, got[0])
	assert.Contains(t, logs.String(), "Dropping malformed console message.")
}

func TestHost_SessionIDIsUUID(t *testing.T) {
	t.Parallel()

	h, _, _ := newTestHost(t, queue.New(func(map[string]string) {}))
	_, err := uuid.Parse(h.SessionID())
	assert.NoError(t, err)
}

func TestDecodeMessage(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		data    []any
		want    map[string]string
		wantErr bool
	}{
		{name: "empty", data: nil, wantErr: true},
		{name: "no name", data: []any{map[string]any{"id": "1"}}, wantErr: true},
		{name: "nested rejected", data: []any{map[string]any{"name": "x", "v": []any{1}}}, wantErr: true},
		{
			name: "scalars flattened",
			data: []any{map[string]any{"name": "track_event", "value": 2.5, "flag": true, "skip": nil}},
			want: map[string]string{"name": "track_event", "value": "2.5", "flag": "1"},
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := decodeMessage(tc.data)
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestDial_InvalidURL(t *testing.T) {
	t.Parallel()

	ctx := ctxlog.WithLogger(context.Background(), slog.New(slog.NewTextHandler(io.Discard, nil)))
	_, err := Dial(ctx, Config{URL: "://bad"}, queue.New(func(map[string]string) {}))
	require.Error(t, err)
}
