package platform

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingBridge records calls and returns canned responses per method.
type recordingBridge struct {
	calls     []bridgeCall
	responses map[string]any
	errs      map[string]error
	started   []string
	stopped   []string
}

type bridgeCall struct {
	channel string
	method  string
	args    any
}

func (b *recordingBridge) InvokeMethod(channel, method string, args []byte) ([]byte, error) {
	decoded, err := DefaultCodec.Decode(args)
	if err != nil {
		return nil, err
	}
	b.calls = append(b.calls, bridgeCall{channel: channel, method: method, args: decoded})
	if err := b.errs[method]; err != nil {
		return nil, err
	}
	return DefaultCodec.Encode(b.responses[method])
}

func (b *recordingBridge) StartEventStream(channel string) error {
	b.started = append(b.started, channel)
	return nil
}

func (b *recordingBridge) StopEventStream(channel string) error {
	b.stopped = append(b.stopped, channel)
	return nil
}

func TestInvokeWithoutBridge(t *testing.T) {
	t.Cleanup(ResetForTest)

	ch := NewMethodChannel("drift/test/nobridge")
	_, err := ch.Invoke(context.Background(), "ping", nil)
	assert.ErrorIs(t, err, ErrPlatformUnavailable)
	assert.False(t, HasNativeBridge())
}

func TestInvokeEncodesArgs(t *testing.T) {
	bridge := &recordingBridge{responses: map[string]any{"ping": map[string]any{"ok": true}}}
	SetNativeBridge(bridge)
	t.Cleanup(ResetForTest)

	ch := NewMethodChannel("drift/test/invoke")
	result, err := ch.Invoke(context.Background(), "ping", map[string]any{"n": 1})
	require.NoError(t, err)

	require.Len(t, bridge.calls, 1)
	assert.Equal(t, "drift/test/invoke", bridge.calls[0].channel)
	assert.Equal(t, "ping", bridge.calls[0].method)
	assert.Equal(t, map[string]any{"n": float64(1)}, bridge.calls[0].args)
	assert.Equal(t, map[string]any{"ok": true}, result)
}

func TestInvokePropagatesBridgeError(t *testing.T) {
	bridge := &recordingBridge{errs: map[string]error{"ping": fmt.Errorf("no handler")}}
	SetNativeBridge(bridge)
	t.Cleanup(ResetForTest)

	_, err := NewMethodChannel("drift/test/err").Invoke(context.Background(), "ping", nil)
	assert.EqualError(t, err, "no handler")
}

func TestEventChannelLifecycle(t *testing.T) {
	bridge := &recordingBridge{}
	SetNativeBridge(bridge)
	t.Cleanup(ResetForTest)

	ch := NewEventChannel("drift/test/events")
	var got []any
	sub := ch.Listen(EventHandler{OnEvent: func(data any) { got = append(got, data) }})
	assert.Equal(t, []string{"drift/test/events"}, bridge.started)

	require.NoError(t, HandleEvent("drift/test/events", []byte(`{"index":2}`)))
	assert.Equal(t, []any{map[string]any{"index": float64(2)}}, got)

	sub.Cancel()
	assert.True(t, sub.IsCanceled())
	assert.Equal(t, []string{"drift/test/events"}, bridge.stopped)

	require.NoError(t, HandleEvent("drift/test/events", []byte(`{"index":3}`)))
	assert.Len(t, got, 1)
}

func TestListenBeforeBridgeStartsLater(t *testing.T) {
	t.Cleanup(ResetForTest)

	ch := NewEventChannel("drift/test/late")
	ch.Listen(EventHandler{})

	bridge := &recordingBridge{}
	SetNativeBridge(bridge)
	assert.Equal(t, []string{"drift/test/late"}, bridge.started)
}

func TestHandleEventUnknownChannel(t *testing.T) {
	t.Cleanup(ResetForTest)

	err := HandleEvent("drift/test/missing", []byte(`{}`))
	assert.ErrorIs(t, err, ErrChannelNotRegistered)
}

func TestHandleEventErrorAndDone(t *testing.T) {
	SetNativeBridge(&recordingBridge{})
	t.Cleanup(ResetForTest)

	ch := NewEventChannel("drift/test/errdone")
	var gotErr error
	done := false
	sub := ch.Listen(EventHandler{
		OnError: func(err error) { gotErr = err },
		OnDone:  func() { done = true },
	})

	require.NoError(t, HandleEventError("drift/test/errdone", "E_BAD", "bad things"))
	var chErr *ChannelError
	require.ErrorAs(t, gotErr, &chErr)
	assert.Equal(t, "E_BAD", chErr.Code)

	require.NoError(t, HandleEventDone("drift/test/errdone"))
	assert.True(t, done)
	assert.True(t, sub.IsCanceled())
}

func TestHandleMethodCall(t *testing.T) {
	t.Cleanup(ResetForTest)

	ch := NewMethodChannel("drift/test/incoming")
	_, err := HandleMethodCall("drift/test/incoming", "echo", []byte(`"hi"`))
	assert.ErrorIs(t, err, ErrMethodNotFound)

	ch.SetHandler(func(method string, args any) (any, error) {
		return map[string]any{"method": method, "args": args}, nil
	})
	out, err := HandleMethodCall("drift/test/incoming", "echo", []byte(`"hi"`))
	require.NoError(t, err)
	assert.JSONEq(t, `{"method":"echo","args":"hi"}`, string(out))

	_, err = HandleMethodCall("drift/test/unknown", "echo", nil)
	assert.ErrorIs(t, err, ErrChannelNotFound)
}

func TestStreamParsesEvents(t *testing.T) {
	SetNativeBridge(&recordingBridge{})
	t.Cleanup(ResetForTest)

	ch := NewEventChannel("drift/test/stream")
	stream := NewStream(ch, func(data any) (string, error) {
		s, ok := data.(string)
		if !ok {
			return "", fmt.Errorf("not a string")
		}
		return s, nil
	})

	var got []string
	unsubscribe := stream.Listen(func(s string) { got = append(got, s) })
	defer unsubscribe()

	require.NoError(t, HandleEvent("drift/test/stream", []byte(`"a"`)))
	require.NoError(t, HandleEvent("drift/test/stream", []byte(`42`)))
	require.NoError(t, HandleEvent("drift/test/stream", []byte(`"b"`)))
	assert.Equal(t, []string{"a", "b"}, got)
}

func TestDispatch(t *testing.T) {
	t.Cleanup(ResetForTest)

	assert.False(t, Dispatch(func() {}))

	ran := false
	RegisterDispatch(func(cb func()) { cb() })
	assert.True(t, Dispatch(func() { ran = true }))
	assert.True(t, ran)
	assert.False(t, Dispatch(nil))
}

func TestInvokeCanceledContext(t *testing.T) {
	bridge := &recordingBridge{}
	SetupTestBridge(t, bridge)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewMethodChannel("drift/test/canceled").Invoke(ctx, "ping", nil)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, bridge.calls, "native code is not reached")
}

type failingStartBridge struct{ recordingBridge }

func (failingStartBridge) StartEventStream(string) error {
	return NewChannelError("no_stream", "actions not supported")
}

func TestEventStartFailureReachesSubscribers(t *testing.T) {
	SetupTestBridge(t, &failingStartBridge{})

	var got error
	NewEventChannel("drift/test/nostart").Listen(EventHandler{OnError: func(err error) { got = err }})

	var chErr *ChannelError
	require.ErrorAs(t, got, &chErr)
	assert.Equal(t, "no_stream", chErr.Code)
}

func TestSetupTestBridgeNoop(t *testing.T) {
	SetupTestBridge(t, nil)

	assert.True(t, HasNativeBridge())
	result, err := NewMethodChannel("drift/test/noop").Invoke(context.Background(), "anything", nil)
	require.NoError(t, err)
	assert.Nil(t, result)

	ran := false
	assert.True(t, Dispatch(func() { ran = true }))
	assert.True(t, ran)
}

func TestToInt(t *testing.T) {
	tests := []struct {
		in   any
		want int
		ok   bool
	}{
		{3, 3, true},
		{int32(-2), -2, true},
		{uint8(7), 7, true},
		{float64(12), 12, true},
		{"12", 0, false},
		{nil, 0, false},
	}
	for _, tt := range tests {
		got, ok := ToInt(tt.in)
		assert.Equal(t, tt.ok, ok, "%v", tt.in)
		assert.Equal(t, tt.want, got, "%v", tt.in)
	}
}
