package notify

import "context"

// CreateChannel registers a notification channel with the OS.
func (m *Manager) CreateChannel(ctx context.Context, ch Channel) error {
	return m.registry.CreateChannel(ctx, ch)
}

// DeleteChannel removes a notification channel.
func (m *Manager) DeleteChannel(ctx context.Context, id string) error {
	return m.registry.DeleteChannel(ctx, id)
}

// DeleteAllChannels removes every channel the app registered.
func (m *Manager) DeleteAllChannels(ctx context.Context) error {
	return m.registry.DeleteAllChannels(ctx)
}
