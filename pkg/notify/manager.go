package notify

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
)

// Manager is the notification facade of one host surface. Obtain it from
// Registry.Manager; it hands out Builders and fronts the permission and
// channel operations of its surface.
type Manager struct {
	id       string
	host     Host
	registry *Registry
	log      zerolog.Logger

	// available is the backend probe taken when the manager was created.
	available bool

	mu         sync.Mutex
	permission PermissionState
}

func newManager(r *Registry, host Host, available bool) *Manager {
	return &Manager{
		id:        host.ID(),
		host:      host,
		registry:  r,
		log:       r.log.With().Str("surface", host.ID()).Logger(),
		available: available,
	}
}

// ID returns the surface identifier the manager is registered under.
func (m *Manager) ID() string { return m.id }

// BackendAvailable reports the availability probe taken at construction.
func (m *Manager) BackendAvailable() bool { return m.available }

// CreateOption adjusts the Config seeded by Create.
type CreateOption func(*Config)

// InChannel posts the notification in the given channel.
func InChannel(id, name string) CreateOption {
	return func(c *Config) {
		c.ChannelID = id
		if name != "" {
			c.ChannelName = name
		}
	}
}

// WithImportance sets the notification importance.
func WithImportance(i Importance) CreateOption {
	return func(c *Config) { c.Importance = i }
}

// WithID names the notification so it can be recognized later, for example
// by OpenedNotification.
func WithID(id string) CreateOption {
	return func(c *Config) { c.NotificationID = id }
}

// Create returns a Builder seeded with title, message and the registry
// defaults.
func (m *Manager) Create(title, message string, opts ...CreateOption) *Builder {
	d := m.registry.defaults
	cfg := &Config{
		Title:       title,
		Message:     message,
		ChannelID:   d.ChannelID,
		ChannelName: d.ChannelName,
		Importance:  d.Importance,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return newBuilder(m, cfg)
}

// Send creates and posts a simple notification in one call. An empty
// channelID uses the default channel.
func (m *Manager) Send(ctx context.Context, title, message, channelID string, opts SendOptions) (*Notification, error) {
	var create []CreateOption
	if channelID != "" {
		create = append(create, InChannel(channelID, ""))
	}
	return m.Create(title, message, create...).Send(ctx, opts)
}

// CancelAll removes every notification posted by the app.
func (m *Manager) CancelAll(ctx context.Context) error {
	return m.registry.CancelAll(ctx)
}

// OpenedNotification returns the identifier of the notification that
// launched the app, if any.
func (m *Manager) OpenedNotification(ctx context.Context) (string, bool, error) {
	return m.registry.OpenedNotification(ctx)
}
