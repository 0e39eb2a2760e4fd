// Package simulator provides an in-process notification backend and host
// for development off-device and for tests.
//
// The Backend records every call it receives, keeps the simulated tray
// contents, and can be told to fail specific methods. Button actions are
// never run on their own; call Backend.Tap to simulate the user.
package simulator

import (
	"context"
	stderrors "errors"
	"fmt"
	"slices"
	"sync"

	"github.com/go-drift/notify/pkg/notify"
	"github.com/rs/zerolog"
)

// Method names recorded by the Backend. They match the android channel
// method names.
const (
	MethodCreate                  = "create"
	MethodAddButton               = "addButton"
	MethodSend                    = "send"
	MethodUpdateTitle             = "updateTitle"
	MethodUpdateMessage           = "updateMessage"
	MethodUpdateProgressBar       = "updateProgressBar"
	MethodShowInfiniteProgressBar = "showInfiniteProgressBar"
	MethodRemoveProgressBar       = "removeProgressBar"
	MethodCancel                  = "cancel"
	MethodRefresh                 = "refresh"
	MethodCreateChannel           = "createChannel"
	MethodDeleteChannel           = "deleteChannel"
	MethodDeleteAllChannels       = "deleteAllChannels"
	MethodCancelAll               = "cancelAll"
	MethodGetLaunchingName        = "getLaunchingName"
)

// ErrUnknownHandle is returned by Tap for a handle the backend never created.
var ErrUnknownHandle = stderrors.New("simulator: unknown handle")

// Call is one recorded backend call. Handle is 0 for backend-wide calls.
type Call struct {
	Method string
	Handle int
	Spec   notify.Spec
	Args   map[string]any
}

// Posted is the simulated tray entry of a sent notification.
type Posted struct {
	Handle        int
	Spec          notify.Spec
	Buttons       []string
	Options       notify.SendOptions
	Indeterminate bool
	ProgressShown bool
}

// Option configures a Backend.
type Option func(*Backend)

// WithLogger logs every simulated call at info level.
func WithLogger(log zerolog.Logger) Option {
	return func(b *Backend) { b.log = log }
}

// Unavailable makes the backend report itself unavailable.
func Unavailable() Option {
	return func(b *Backend) { b.available = false }
}

// Backend is a recording notify.Backend. It is safe for concurrent use.
type Backend struct {
	log zerolog.Logger

	mu        sync.Mutex
	available bool
	calls     []Call
	failures  map[string]error
	nextID    int
	handles   map[int]*Handle
	tray      map[int]*Posted
	channels  map[string]notify.Channel
	launching string
}

var (
	_ notify.Backend       = (*Backend)(nil)
	_ notify.LaunchTracker = (*Backend)(nil)
	_ notify.Handle        = (*Handle)(nil)
)

// New returns an available Backend with an empty tray.
func New(opts ...Option) *Backend {
	b := &Backend{
		log:       zerolog.Nop(),
		available: true,
		failures:  make(map[string]error),
		handles:   make(map[int]*Handle),
		tray:      make(map[int]*Posted),
		channels:  make(map[string]notify.Channel),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// SetAvailable changes what IsAvailable reports.
func (b *Backend) SetAvailable(available bool) {
	b.mu.Lock()
	b.available = available
	b.mu.Unlock()
}

// FailOn makes every later call of method return err. A nil err clears it.
func (b *Backend) FailOn(method string, err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err == nil {
		delete(b.failures, method)
		return
	}
	b.failures[method] = err
}

// SetLaunching sets the notification name reported as having launched the app.
func (b *Backend) SetLaunching(name string) {
	b.mu.Lock()
	b.launching = name
	b.mu.Unlock()
}

// Calls returns a copy of every recorded call in order.
func (b *Backend) Calls() []Call {
	b.mu.Lock()
	defer b.mu.Unlock()
	return slices.Clone(b.calls)
}

// CallsTo returns the recorded calls of one method.
func (b *Backend) CallsTo(method string) []Call {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []Call
	for _, c := range b.calls {
		if c.Method == method {
			out = append(out, c)
		}
	}
	return out
}

// Count returns how many times method was called.
func (b *Backend) Count(method string) int {
	return len(b.CallsTo(method))
}

// Tray returns the notifications currently shown, ordered by handle.
func (b *Backend) Tray() []Posted {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]Posted, 0, len(b.tray))
	for _, p := range b.tray {
		cp := *p
		cp.Buttons = slices.Clone(p.Buttons)
		out = append(out, cp)
	}
	slices.SortFunc(out, func(x, y Posted) int { return x.Handle - y.Handle })
	return out
}

// Channels returns the registered channels keyed by id.
func (b *Backend) Channels() map[string]notify.Channel {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make(map[string]notify.Channel, len(b.channels))
	for k, v := range b.channels {
		out[k] = v
	}
	return out
}

// Tap simulates the user pressing button index of the notification with the
// given handle. The button's action runs on the calling goroutine.
func (b *Backend) Tap(handle, index int) error {
	b.mu.Lock()
	h, ok := b.handles[handle]
	b.mu.Unlock()
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownHandle, handle)
	}
	action, err := h.action(index)
	if err != nil {
		return err
	}
	b.log.Info().Int("handle", handle).Int("button", index).Msg("[DEV] button tapped")
	if action != nil {
		action()
	}
	return nil
}

// record logs a call and returns the configured failure for its method.
func (b *Backend) record(c Call) error {
	b.mu.Lock()
	b.calls = append(b.calls, c)
	err := b.failures[c.Method]
	b.mu.Unlock()

	ev := b.log.Info().Str("method", c.Method)
	if c.Handle != 0 {
		ev = ev.Int("handle", c.Handle)
	}
	if err != nil {
		ev = ev.AnErr("simulated_error", err)
	}
	ev.Msg("[DEV] notification call")
	return err
}

func (b *Backend) IsAvailable() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.available
}

func (b *Backend) CreateNotification(_ context.Context, spec notify.Spec) (notify.Handle, error) {
	b.mu.Lock()
	b.nextID++
	id := b.nextID
	b.mu.Unlock()

	if err := b.record(Call{Method: MethodCreate, Handle: id, Spec: spec}); err != nil {
		return nil, err
	}
	h := &Handle{backend: b, id: id, spec: spec}
	b.mu.Lock()
	b.handles[id] = h
	b.mu.Unlock()
	return h, nil
}

func (b *Backend) CreateChannel(_ context.Context, ch notify.Channel) error {
	err := b.record(Call{Method: MethodCreateChannel, Args: map[string]any{
		"id": ch.ID, "name": ch.Name, "description": ch.Description, "importance": ch.Importance.String(),
	}})
	if err != nil {
		return err
	}
	b.mu.Lock()
	b.channels[ch.ID] = ch
	b.mu.Unlock()
	return nil
}

func (b *Backend) DeleteChannel(_ context.Context, id string) error {
	if err := b.record(Call{Method: MethodDeleteChannel, Args: map[string]any{"id": id}}); err != nil {
		return err
	}
	b.mu.Lock()
	delete(b.channels, id)
	b.mu.Unlock()
	return nil
}

func (b *Backend) DeleteAllChannels(_ context.Context) error {
	if err := b.record(Call{Method: MethodDeleteAllChannels}); err != nil {
		return err
	}
	b.mu.Lock()
	clear(b.channels)
	b.mu.Unlock()
	return nil
}

func (b *Backend) CancelAll(_ context.Context) error {
	if err := b.record(Call{Method: MethodCancelAll}); err != nil {
		return err
	}
	b.mu.Lock()
	clear(b.tray)
	b.mu.Unlock()
	return nil
}

func (b *Backend) LaunchingNotificationID(_ context.Context) (string, error) {
	if err := b.record(Call{Method: MethodGetLaunchingName}); err != nil {
		return "", err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.launching, nil
}

// Handle is a simulated native notification.
type Handle struct {
	backend *Backend
	id      int

	// guarded by backend.mu
	spec    notify.Spec
	buttons []notify.Button
}

// ID returns the handle number used by Tap and recorded in calls.
func (h *Handle) ID() int { return h.id }

func (h *Handle) action(index int) (func(), error) {
	h.backend.mu.Lock()
	defer h.backend.mu.Unlock()
	if index < 0 || index >= len(h.buttons) {
		return nil, fmt.Errorf("simulator: handle %d has no button %d", h.id, index)
	}
	return h.buttons[index].Action, nil
}

// update records a handle call and, on success, applies fn to the tray entry
// under the backend lock.
func (h *Handle) update(method string, args map[string]any, fn func(p *Posted)) error {
	if err := h.backend.record(Call{Method: method, Handle: h.id, Args: args}); err != nil {
		return err
	}
	h.backend.mu.Lock()
	defer h.backend.mu.Unlock()
	if p, ok := h.backend.tray[h.id]; ok && fn != nil {
		fn(p)
	}
	return nil
}

func (h *Handle) AddButton(_ context.Context, label string, action func()) error {
	b := h.backend
	b.mu.Lock()
	index := len(h.buttons)
	b.mu.Unlock()
	if err := b.record(Call{Method: MethodAddButton, Handle: h.id, Args: map[string]any{"index": index, "label": label}}); err != nil {
		return err
	}
	b.mu.Lock()
	h.buttons = append(h.buttons, notify.Button{Label: label, Action: action})
	b.mu.Unlock()
	return nil
}

func (h *Handle) Send(_ context.Context, opts notify.SendOptions) error {
	b := h.backend
	err := b.record(Call{Method: MethodSend, Handle: h.id, Args: map[string]any{
		"silent": opts.Silent, "persistent": opts.Persistent, "closeOnClick": opts.CloseOnClick(),
	}})
	if err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	labels := make([]string, len(h.buttons))
	for i, btn := range h.buttons {
		labels[i] = btn.Label
	}
	b.tray[h.id] = &Posted{
		Handle:        h.id,
		Spec:          h.spec,
		Buttons:       labels,
		Options:       opts,
		ProgressShown: h.spec.Style == notify.StyleProgress,
	}
	return nil
}

func (h *Handle) UpdateTitle(_ context.Context, title string) error {
	return h.update(MethodUpdateTitle, map[string]any{"title": title}, func(p *Posted) {
		p.Spec.Title = title
	})
}

func (h *Handle) UpdateMessage(_ context.Context, message string) error {
	return h.update(MethodUpdateMessage, map[string]any{"message": message}, func(p *Posted) {
		p.Spec.Message = message
	})
}

func (h *Handle) UpdateProgressBar(_ context.Context, u notify.ProgressUpdate) error {
	args := map[string]any{"current": u.Current}
	if u.Title != "" {
		args["title"] = u.Title
	}
	if u.Message != "" {
		args["message"] = u.Message
	}
	return h.update(MethodUpdateProgressBar, args, func(p *Posted) {
		p.Spec.ProgressCurrent = u.Current
		if u.Title != "" {
			p.Spec.Title = u.Title
		}
		if u.Message != "" {
			p.Spec.Message = u.Message
		}
		p.Indeterminate = false
		p.ProgressShown = true
	})
}

func (h *Handle) ShowInfiniteProgressBar(_ context.Context) error {
	return h.update(MethodShowInfiniteProgressBar, nil, func(p *Posted) {
		p.Indeterminate = true
		p.ProgressShown = true
	})
}

func (h *Handle) RemoveProgressBar(_ context.Context, message string, showBriefly bool) error {
	args := map[string]any{"showBriefly": showBriefly}
	if message != "" {
		args["message"] = message
	}
	return h.update(MethodRemoveProgressBar, args, func(p *Posted) {
		if message != "" {
			p.Spec.Message = message
		}
		p.Indeterminate = false
		p.ProgressShown = false
	})
}

func (h *Handle) Cancel(_ context.Context) error {
	if err := h.update(MethodCancel, nil, nil); err != nil {
		return err
	}
	h.backend.mu.Lock()
	delete(h.backend.tray, h.id)
	h.backend.mu.Unlock()
	return nil
}

func (h *Handle) Refresh(_ context.Context) error {
	return h.update(MethodRefresh, nil, nil)
}
