// Package android implements the notify backend and host on Android devices.
//
// All calls go through the drift/notify platform channel; the native side
// owns the NotificationCompat builders and keeps them keyed by the handle
// id this package assigns. Button taps come back on the
// drift/notify/actions event channel and are dispatched to the UI thread.
package android

import (
	"context"
	stderrors "errors"
	"fmt"
	"io/fs"
	"sync"

	"github.com/go-drift/notify/pkg/errors"
	"github.com/go-drift/notify/pkg/notify"
	"github.com/go-drift/notify/pkg/platform"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Channel names shared with the native side.
const (
	MethodChannelName  = "drift/notify"
	ActionsChannelName = "drift/notify/actions"
)

var (
	channelsOnce   sync.Once
	methodChannel  *platform.MethodChannel
	actionsChannel *platform.EventChannel
)

func channels() (*platform.MethodChannel, *platform.EventChannel) {
	channelsOnce.Do(func() {
		methodChannel = platform.NewMethodChannel(MethodChannelName)
		actionsChannel = platform.NewEventChannel(ActionsChannelName)
	})
	return methodChannel, actionsChannel
}

// ButtonTap is the event sent by native code when an action button is
// pressed.
type ButtonTap struct {
	Handle string
	Index  int
}

func parseButtonTap(data any) (ButtonTap, error) {
	m, ok := data.(map[string]any)
	if !ok {
		return ButtonTap{}, &errors.ParseError{Channel: ActionsChannelName, DataType: "ButtonTap", Got: data}
	}
	handle, _ := m["handle"].(string)
	index, ok := platform.ToInt(m["index"])
	if handle == "" || !ok {
		return ButtonTap{}, &errors.ParseError{Channel: ActionsChannelName, DataType: "ButtonTap", Got: data}
	}
	return ButtonTap{Handle: handle, Index: index}, nil
}

// Option configures a Backend.
type Option func(*Backend)

// WithLogger sets the backend logger.
func WithLogger(log zerolog.Logger) Option {
	return func(b *Backend) { b.log = log }
}

// WithAssets resolves image paths against fsys when probing them.
func WithAssets(fsys fs.FS) Option {
	return func(b *Backend) { b.assets = fsys }
}

// Backend is the Android notify.Backend. It is safe for concurrent use.
type Backend struct {
	channel *platform.MethodChannel
	taps    *platform.Stream[ButtonTap]
	log     zerolog.Logger
	assets  fs.FS
	newID   func() string

	mu          sync.Mutex
	handles     map[string]*Handle
	unsubscribe func()
}

var (
	_ notify.Backend       = (*Backend)(nil)
	_ notify.LaunchTracker = (*Backend)(nil)
)

// New returns a Backend bound to the shared notify channels.
func New(opts ...Option) *Backend {
	method, actions := channels()
	b := &Backend{
		channel: method,
		taps:    platform.NewStream(actions, parseButtonTap),
		log:     zerolog.Nop(),
		newID:   uuid.NewString,
		handles: make(map[string]*Handle),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Close stops listening for button taps and forgets every handle.
func (b *Backend) Close() {
	b.mu.Lock()
	unsubscribe := b.unsubscribe
	b.unsubscribe = nil
	clear(b.handles)
	b.mu.Unlock()
	if unsubscribe != nil {
		unsubscribe()
	}
}

// invoke calls method on the native side. A missing bridge maps to
// errors.ErrBackendUnavailable.
func (b *Backend) invoke(ctx context.Context, method string, args map[string]any) (any, error) {
	result, err := b.channel.Invoke(ctx, method, args)
	if err != nil {
		if stderrors.Is(err, platform.ErrPlatformUnavailable) || stderrors.Is(err, platform.ErrChannelNotFound) {
			return nil, fmt.Errorf("%w: %w", errors.ErrBackendUnavailable, err)
		}
		return nil, err
	}
	return result, nil
}

// IsAvailable asks native code whether the notification plugin is loaded.
func (b *Backend) IsAvailable() bool {
	if !platform.HasNativeBridge() {
		return false
	}
	result, err := b.channel.Invoke(context.Background(), "isAvailable", nil)
	if err != nil {
		b.log.Debug().Err(err).Msg("availability probe failed")
		return false
	}
	available, _ := result.(bool)
	return available
}

// CreateNotification builds the native notification under a new handle id.
func (b *Backend) CreateNotification(ctx context.Context, spec notify.Spec) (notify.Handle, error) {
	id := b.newID()
	args := b.specArgs(spec)
	args["handle"] = id
	if _, err := b.invoke(ctx, "create", args); err != nil {
		return nil, err
	}

	h := &Handle{backend: b, id: id}
	b.mu.Lock()
	b.handles[id] = h
	b.mu.Unlock()
	b.log.Debug().Str("handle", id).Str("style", spec.Style.WireValue()).Msg("native notification created")
	return h, nil
}

func (b *Backend) specArgs(spec notify.Spec) map[string]any {
	args := map[string]any{
		"title":       spec.Title,
		"message":     spec.Message,
		"channelId":   spec.ChannelID,
		"channelName": spec.ChannelName,
		"importance":  spec.Importance.String(),
		"style":       spec.Style.WireValue(),
	}
	if spec.Name != "" {
		args["name"] = spec.Name
	}
	if spec.Icon != "" {
		args["icon"] = spec.Icon
	}
	switch spec.Style {
	case notify.StyleProgress:
		args["progressCurrent"] = spec.ProgressCurrent
		args["progressMax"] = spec.ProgressMax
	case notify.StyleInbox:
		args["lines"] = spec.Lines
	case notify.StyleBigText:
		args["bigText"] = spec.Body
	}
	b.imageArg(args, "largeIcon", spec.LargeIconPath)
	b.imageArg(args, "bigPicture", spec.BigPicturePath)
	return args
}

// imageArg sets key to path and, when the file can be read, key+"Info" to
// its format and size so native code can downsample before decoding.
func (b *Backend) imageArg(args map[string]any, key, path string) {
	if path == "" {
		return
	}
	args[key] = path
	info, err := ProbeImage(b.assets, path)
	if err != nil {
		b.log.Debug().Err(err).Str("path", path).Msg("image not probed")
		return
	}
	args[key+"Info"] = info.wire()
}

// listen subscribes to button taps once the first button is registered.
func (b *Backend) listen() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.unsubscribe != nil {
		return
	}
	b.unsubscribe = b.taps.Listen(b.onTap)
}

func (b *Backend) onTap(tap ButtonTap) {
	b.mu.Lock()
	h := b.handles[tap.Handle]
	b.mu.Unlock()
	if h == nil {
		b.log.Warn().Str("handle", tap.Handle).Msg("tap for unknown notification")
		return
	}
	action := h.action(tap.Index)
	if action == nil {
		b.log.Debug().Str("handle", tap.Handle).Int("button", tap.Index).Msg("tap without action")
		return
	}
	run := func() {
		defer errors.Recover("android.buttonTap")
		action()
	}
	if !platform.Dispatch(run) {
		run()
	}
}

func (b *Backend) forget(id string) {
	b.mu.Lock()
	delete(b.handles, id)
	b.mu.Unlock()
}

// CreateChannel registers ch with the OS.
func (b *Backend) CreateChannel(ctx context.Context, ch notify.Channel) error {
	_, err := b.invoke(ctx, "createChannel", map[string]any{
		"id":          ch.ID,
		"name":        ch.Name,
		"description": ch.Description,
		"importance":  ch.Importance.String(),
	})
	return err
}

// DeleteChannel removes the channel with the given id.
func (b *Backend) DeleteChannel(ctx context.Context, id string) error {
	_, err := b.invoke(ctx, "deleteChannel", map[string]any{"id": id})
	return err
}

// DeleteAllChannels removes every channel created by the app.
func (b *Backend) DeleteAllChannels(ctx context.Context) error {
	_, err := b.invoke(ctx, "deleteAllChannels", nil)
	return err
}

// CancelAll removes every posted notification and forgets all handles.
func (b *Backend) CancelAll(ctx context.Context) error {
	if _, err := b.invoke(ctx, "cancelAll", nil); err != nil {
		return err
	}
	b.mu.Lock()
	clear(b.handles)
	b.mu.Unlock()
	return nil
}

// LaunchingNotificationID returns the name of the notification whose tap
// started the current activity.
func (b *Backend) LaunchingNotificationID(ctx context.Context) (string, error) {
	result, err := b.invoke(ctx, "getLaunchingName", nil)
	if err != nil {
		return "", err
	}
	switch v := result.(type) {
	case nil:
		return "", nil
	case string:
		return v, nil
	case map[string]any:
		name, _ := v["name"].(string)
		return name, nil
	default:
		return "", fmt.Errorf("android: unexpected getLaunchingName result %T", result)
	}
}
