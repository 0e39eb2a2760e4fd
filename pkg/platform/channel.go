package platform

import (
	"context"
	"slices"
	"sync"
	"sync/atomic"
)

// MethodHandler answers calls made by native code on a MethodChannel.
type MethodHandler func(method string, args any) (any, error)

// MethodChannel is a named request/response channel to native code.
// Creating a second channel with the same name replaces the first.
type MethodChannel struct {
	name string

	mu      sync.RWMutex
	handler MethodHandler
}

func NewMethodChannel(name string) *MethodChannel {
	ch := &MethodChannel{name: name}
	state.mu.Lock()
	state.methods[name] = ch
	state.mu.Unlock()
	return ch
}

func (c *MethodChannel) Name() string { return c.name }

// SetHandler installs the handler for calls coming from native code.
func (c *MethodChannel) SetHandler(handler MethodHandler) {
	c.mu.Lock()
	c.handler = handler
	c.mu.Unlock()
}

// Invoke calls method on the native side and waits for the decoded reply.
// A context that is already done fails without reaching native code.
func (c *MethodChannel) Invoke(ctx context.Context, method string, args any) (any, error) {
	return invoke(ctx, c.name, method, args)
}

func (c *MethodChannel) handleCall(method string, args any) (any, error) {
	c.mu.RLock()
	h := c.handler
	c.mu.RUnlock()
	if h == nil {
		return nil, ErrMethodNotFound
	}
	return h(method, args)
}

// EventHandler receives what an EventChannel delivers. Nil funcs are
// skipped.
type EventHandler struct {
	OnEvent func(data any)
	OnError func(err error)
	OnDone  func()
}

// Subscription is one listener on an EventChannel.
type Subscription struct {
	channel  *EventChannel
	handler  EventHandler
	canceled atomic.Bool
}

// Cancel detaches the listener. The native stream stops with the last one.
func (s *Subscription) Cancel() {
	if s.canceled.CompareAndSwap(false, true) {
		s.channel.remove(s)
	}
}

func (s *Subscription) IsCanceled() bool { return s.canceled.Load() }

// EventChannel is a named stream of events sent by native code. The native
// stream runs while the channel has at least one subscription and a bridge
// is installed.
type EventChannel struct {
	name string

	mu      sync.Mutex
	subs    []*Subscription
	started bool
}

func NewEventChannel(name string) *EventChannel {
	ch := &EventChannel{name: name}
	state.mu.Lock()
	state.events[name] = ch
	state.mu.Unlock()
	return ch
}

func (c *EventChannel) Name() string { return c.name }

// Listen adds a subscription. Without a bridge the native stream starts
// once SetNativeBridge is called; a failed start is delivered to OnError.
func (c *EventChannel) Listen(handler EventHandler) *Subscription {
	sub := &Subscription{channel: c, handler: handler}
	c.mu.Lock()
	c.subs = append(c.subs, sub)
	c.mu.Unlock()

	if HasNativeBridge() {
		c.start()
	}
	return sub
}

// pending reports whether the channel has listeners but no running stream.
func (c *EventChannel) pending() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.subs) > 0 && !c.started
}

func (c *EventChannel) start() {
	c.mu.Lock()
	if c.started {
		c.mu.Unlock()
		return
	}
	c.started = true
	c.mu.Unlock()

	native := state.bridge()
	err := ErrPlatformUnavailable
	if native != nil {
		err = native.StartEventStream(c.name)
	}
	if err != nil {
		c.mu.Lock()
		c.started = false
		c.mu.Unlock()
		reportStream("platform.startEventStream", c.name, err)
		c.fail(err)
	}
}

func (c *EventChannel) remove(sub *Subscription) {
	c.mu.Lock()
	c.subs = slices.DeleteFunc(c.subs, func(s *Subscription) bool { return s == sub })
	stop := len(c.subs) == 0 && c.started
	if stop {
		c.started = false
	}
	c.mu.Unlock()

	if !stop {
		return
	}
	if native := state.bridge(); native != nil {
		if err := native.StopEventStream(c.name); err != nil {
			reportStream("platform.stopEventStream", c.name, err)
		}
	}
}

func (c *EventChannel) snapshot() []*Subscription {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.subs)
}

func (c *EventChannel) emit(data any) {
	for _, sub := range c.snapshot() {
		if !sub.IsCanceled() && sub.handler.OnEvent != nil {
			sub.handler.OnEvent(data)
		}
	}
}

func (c *EventChannel) fail(err error) {
	for _, sub := range c.snapshot() {
		if !sub.IsCanceled() && sub.handler.OnError != nil {
			sub.handler.OnError(err)
		}
	}
}

// done ends the stream: every subscription is canceled and told so.
func (c *EventChannel) done() {
	c.mu.Lock()
	subs := c.subs
	c.subs = nil
	c.started = false
	c.mu.Unlock()

	for _, sub := range subs {
		sub.canceled.Store(true)
		if sub.handler.OnDone != nil {
			sub.handler.OnDone()
		}
	}
}

func (c *EventChannel) reset() {
	c.mu.Lock()
	c.subs = nil
	c.started = false
	c.mu.Unlock()
}
