package platform

import (
	"context"
	"fmt"
	"sync"

	"github.com/go-drift/notify/pkg/errors"
)

// NativeBridge is implemented by the host embedding and forwards calls to
// native code.
type NativeBridge interface {
	// InvokeMethod calls method on the native side of channel.
	InvokeMethod(channel, method string, args []byte) ([]byte, error)

	// StartEventStream asks native code to start sending events for channel.
	StartEventStream(channel string) error

	// StopEventStream asks native code to stop sending events for channel.
	StopEventStream(channel string) error
}

// hub is the process-wide state shared by all channels: the installed
// bridge, the channels by name and the callback dispatcher.
type hub struct {
	mu       sync.RWMutex
	native   NativeBridge
	dispatch func(func())
	methods  map[string]*MethodChannel
	events   map[string]*EventChannel
}

var state = &hub{
	methods: make(map[string]*MethodChannel),
	events:  make(map[string]*EventChannel),
}

func (h *hub) bridge() NativeBridge {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.native
}

func (h *hub) method(name string) *MethodChannel {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.methods[name]
}

func (h *hub) event(name string) *EventChannel {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.events[name]
}

func (h *hub) eventChannels() []*EventChannel {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]*EventChannel, 0, len(h.events))
	for _, ch := range h.events {
		out = append(out, ch)
	}
	return out
}

// SetNativeBridge installs the native bridge. Event channels that gained
// subscribers before a bridge existed are started now; start failures are
// delivered to their subscribers.
func SetNativeBridge(bridge NativeBridge) {
	state.mu.Lock()
	state.native = bridge
	state.mu.Unlock()

	for _, ch := range state.eventChannels() {
		if ch.pending() {
			ch.start()
		}
	}
}

// HasNativeBridge reports whether a native bridge has been installed.
func HasNativeBridge() bool {
	return state.bridge() != nil
}

// RegisterDispatch sets the function used to run native callbacks, such as
// notification button actions, on the app's main goroutine.
func RegisterDispatch(fn func(callback func())) {
	state.mu.Lock()
	state.dispatch = fn
	state.mu.Unlock()
}

// Dispatch hands callback to the registered dispatcher. It returns false
// when no dispatcher is registered or callback is nil.
func Dispatch(callback func()) bool {
	state.mu.RLock()
	fn := state.dispatch
	state.mu.RUnlock()
	if fn == nil || callback == nil {
		return false
	}
	fn(callback)
	return true
}

func invoke(ctx context.Context, channel, method string, args any) (any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	native := state.bridge()
	if native == nil {
		return nil, ErrPlatformUnavailable
	}

	data, err := DefaultCodec.Encode(args)
	if err != nil {
		return nil, fmt.Errorf("encode %s.%s args: %w", channel, method, err)
	}
	reply, err := native.InvokeMethod(channel, method, data)
	if err != nil {
		return nil, err
	}
	return DefaultCodec.Decode(reply)
}

func reportStream(op, channel string, err error) {
	errors.Report(&errors.Error{
		Op:      op,
		Kind:    errors.KindPlatform,
		Channel: channel,
		Err:     err,
	})
}

// HandleMethodCall is called by the bridge when native code invokes a Go
// method channel.
func HandleMethodCall(channel, method string, args []byte) ([]byte, error) {
	ch := state.method(channel)
	if ch == nil {
		return nil, ErrChannelNotFound
	}
	decoded, err := DefaultCodec.Decode(args)
	if err != nil {
		return nil, err
	}
	result, err := ch.handleCall(method, decoded)
	if err != nil {
		return nil, err
	}
	return DefaultCodec.Encode(result)
}

func eventChannel(op, channel string) (*EventChannel, error) {
	ch := state.event(channel)
	if ch == nil {
		err := fmt.Errorf("%w: %s", ErrChannelNotRegistered, channel)
		reportStream(op, channel, err)
		return nil, err
	}
	return ch, nil
}

// HandleEvent is called by the bridge when native code sends an event.
func HandleEvent(channel string, data []byte) error {
	ch, err := eventChannel("platform.HandleEvent", channel)
	if err != nil {
		return err
	}
	decoded, err := DefaultCodec.Decode(data)
	if err != nil {
		ch.fail(err)
		return err
	}
	ch.emit(decoded)
	return nil
}

// HandleEventError is called by the bridge when an event stream fails.
func HandleEventError(channel, code, message string) error {
	ch, err := eventChannel("platform.HandleEventError", channel)
	if err != nil {
		return err
	}
	ch.fail(NewChannelError(code, message))
	return nil
}

// HandleEventDone is called by the bridge when an event stream ends.
func HandleEventDone(channel string) error {
	ch, err := eventChannel("platform.HandleEventDone", channel)
	if err != nil {
		return err
	}
	ch.done()
	return nil
}

// ResetForTest removes the bridge, the dispatcher and every event
// subscription. Channels stay registered.
func ResetForTest() {
	state.mu.Lock()
	state.native = nil
	state.dispatch = nil
	state.mu.Unlock()

	for _, ch := range state.eventChannels() {
		ch.reset()
	}
}
