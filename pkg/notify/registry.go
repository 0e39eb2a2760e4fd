package notify

import (
	"context"
	"sync"

	"github.com/go-drift/notify/pkg/errors"
	"github.com/rs/zerolog"
)

// Defaults seed every Config created by a Manager.
type Defaults struct {
	ChannelID   string
	ChannelName string
	Importance  Importance
}

// Option configures a Registry.
type Option func(*Registry)

// WithLogger sets the logger used by the registry and its managers.
func WithLogger(log zerolog.Logger) Option {
	return func(r *Registry) { r.log = log }
}

// WithLaunchTracker sets the capability that reports which notification
// launched the app. Without it the backend is used if it implements
// LaunchTracker.
func WithLaunchTracker(t LaunchTracker) Option {
	return func(r *Registry) { r.launch = t }
}

// WithDefaults overrides the channel and importance defaults. Empty fields
// keep the built-in defaults.
func WithDefaults(d Defaults) Option {
	return func(r *Registry) {
		if d.ChannelID != "" {
			r.defaults.ChannelID = d.ChannelID
		}
		if d.ChannelName != "" {
			r.defaults.ChannelName = d.ChannelName
		}
		r.defaults.Importance = d.Importance
	}
}

// Registry owns the Managers of a process, one per host surface.
// It is safe for concurrent use.
type Registry struct {
	backend  Backend
	launch   LaunchTracker
	log      zerolog.Logger
	defaults Defaults

	mu       sync.Mutex
	managers map[string]*Manager
}

// NewRegistry returns a Registry whose managers all talk to backend.
// backend may be nil, in which case every backend operation fails with
// BackendUnavailable.
func NewRegistry(backend Backend, opts ...Option) *Registry {
	r := &Registry{
		backend: backend,
		log:     zerolog.Nop(),
		defaults: Defaults{
			ChannelID:   DefaultChannelID,
			ChannelName: DefaultChannelName,
			Importance:  ImportanceUrgent,
		},
		managers: make(map[string]*Manager),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.launch == nil {
		if t, ok := backend.(LaunchTracker); ok {
			r.launch = t
		}
	}
	return r
}

// Manager returns the Manager for host, creating it on first use. Hosts
// that are not Android are rejected with PlatformNotSupported and nothing
// is cached for them. An unavailable backend is logged but does not fail
// construction.
func (r *Registry) Manager(ctx context.Context, host Host) (*Manager, error) {
	const op = "notify.Registry.Manager"

	id := host.ID()

	r.mu.Lock()
	defer r.mu.Unlock()

	if m, ok := r.managers[id]; ok {
		return m, nil
	}

	platform := host.Platform(ctx)
	if platform != PlatformAndroid {
		r.log.Warn().Str("surface", id).Str("platform", string(platform)).Msg("notifications are only supported on android")
		return nil, errors.Newf(op, errors.KindPlatformNotSupported, "platform %q", platform)
	}

	available := r.backendAvailable()
	if !available {
		r.log.Warn().Str("surface", id).Msg("notification backend unavailable, sends will fail")
	}

	m := newManager(r, host, available)
	r.managers[id] = m
	r.log.Info().Str("surface", id).Bool("backend_available", available).Msg("notification manager created")
	return m, nil
}

// Release forgets the Manager of a destroyed surface. It reports whether one
// was registered.
func (r *Registry) Release(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.managers[id]; !ok {
		return false
	}
	delete(r.managers, id)
	r.log.Debug().Str("surface", id).Msg("notification manager released")
	return true
}

// Len returns the number of live managers.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.managers)
}

func (r *Registry) backendAvailable() bool {
	return r.backend != nil && r.backend.IsAvailable()
}

// CancelAll removes every notification posted by the app, regardless of
// which manager sent it.
func (r *Registry) CancelAll(ctx context.Context) error {
	const op = "notify.Registry.CancelAll"
	if !r.backendAvailable() {
		return errors.New(op, errors.KindBackendUnavailable, nil)
	}
	if err := r.backend.CancelAll(ctx); err != nil {
		r.log.Error().Err(err).Msg("cancel all failed")
		return errors.New(op, errors.KindUpdateFailed, err)
	}
	r.log.Info().Msg("all notifications cancelled")
	return nil
}

// OpenedNotification returns the identifier of the notification whose tap
// launched the app this session. ok is false when the app was launched
// some other way or no launch tracker is configured.
func (r *Registry) OpenedNotification(ctx context.Context) (id string, ok bool, err error) {
	if r.launch == nil {
		return "", false, nil
	}
	id, err = r.launch.LaunchingNotificationID(ctx)
	if err != nil {
		return "", false, errors.New("notify.Registry.OpenedNotification", errors.KindPlatform, err)
	}
	return id, id != "", nil
}

// CreateChannel registers ch with the OS.
func (r *Registry) CreateChannel(ctx context.Context, ch Channel) error {
	return r.channelOp("notify.Registry.CreateChannel", ch.ID, func(b Backend) error {
		return b.CreateChannel(ctx, ch)
	})
}

// DeleteChannel removes the channel with the given id.
func (r *Registry) DeleteChannel(ctx context.Context, id string) error {
	return r.channelOp("notify.Registry.DeleteChannel", id, func(b Backend) error {
		return b.DeleteChannel(ctx, id)
	})
}

// DeleteAllChannels removes every channel the app registered.
func (r *Registry) DeleteAllChannels(ctx context.Context) error {
	return r.channelOp("notify.Registry.DeleteAllChannels", "", func(b Backend) error {
		return b.DeleteAllChannels(ctx)
	})
}

func (r *Registry) channelOp(op, channel string, fn func(Backend) error) error {
	if !r.backendAvailable() {
		return &errors.Error{Op: op, Kind: errors.KindBackendUnavailable, Channel: channel}
	}
	if err := fn(r.backend); err != nil {
		r.log.Error().Err(err).Str("channel", channel).Str("op", op).Msg("channel operation failed")
		return &errors.Error{Op: op, Kind: errors.KindChannelOperationFailed, Channel: channel, Err: err}
	}
	r.log.Info().Str("channel", channel).Str("op", op).Msg("channel operation done")
	return nil
}
