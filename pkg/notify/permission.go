package notify

import (
	"context"

	"github.com/go-drift/notify/pkg/errors"
)

// PermissionState is the last permission outcome a Manager observed.
type PermissionState int

const (
	PermissionUnknown PermissionState = iota
	PermissionGranted
	PermissionDenied
)

func (s PermissionState) String() string {
	switch s {
	case PermissionGranted:
		return "granted"
	case PermissionDenied:
		return "denied"
	default:
		return "unknown"
	}
}

// Permission returns the last permission outcome observed on this surface.
func (m *Manager) Permission() PermissionState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.permission
}

func (m *Manager) recordPermission(granted bool) {
	state := PermissionDenied
	if granted {
		state = PermissionGranted
	}
	m.mu.Lock()
	m.permission = state
	m.mu.Unlock()
}

// requiresPermission reports whether the host OS gates posting behind the
// runtime permission.
func (m *Manager) requiresPermission(ctx context.Context) (bool, error) {
	level, err := m.host.APILevel(ctx)
	if err != nil {
		return false, err
	}
	return level >= PermissionAPILevel, nil
}

// CheckPermission reports whether the app may post notifications. Hosts
// below PermissionAPILevel are always granted. Any probe failure reports
// false.
func (m *Manager) CheckPermission(ctx context.Context) bool {
	required, err := m.requiresPermission(ctx)
	if err != nil {
		m.log.Warn().Err(err).Msg("api level probe failed")
		m.recordPermission(false)
		return false
	}
	if !required {
		m.recordPermission(true)
		return true
	}

	provider := m.host.Permissions()
	if provider == nil {
		m.log.Warn().Msg("host has no permission provider")
		m.recordPermission(false)
		return false
	}
	granted, err := provider.Check(ctx)
	if err != nil {
		m.log.Warn().Err(err).Msg("permission check failed")
		m.recordPermission(false)
		return false
	}
	m.recordPermission(granted)
	m.log.Debug().Bool("granted", granted).Msg("permission checked")
	return granted
}

// RequestPermission shows the OS permission prompt and reports whether it
// was granted. Hosts below PermissionAPILevel report true without asking.
func (m *Manager) RequestPermission(ctx context.Context) (bool, error) {
	const op = "notify.Manager.RequestPermission"

	required, err := m.requiresPermission(ctx)
	if err != nil {
		return false, errors.New(op, errors.KindPermissionRequestFailed, err)
	}
	if !required {
		m.recordPermission(true)
		return true, nil
	}

	provider := m.host.Permissions()
	if provider == nil {
		return false, errors.Newf(op, errors.KindPermissionRequestFailed, "host has no permission provider")
	}
	granted, err := provider.Request(ctx)
	if err != nil {
		m.log.Error().Err(err).Msg("permission request failed")
		return false, errors.New(op, errors.KindPermissionRequestFailed, err)
	}
	m.recordPermission(granted)
	m.log.Info().Bool("granted", granted).Msg("permission requested")
	return granted, nil
}
