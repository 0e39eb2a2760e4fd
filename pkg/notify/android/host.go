package android

import (
	"context"
	"strings"
	"sync"

	"github.com/go-drift/notify/pkg/notify"
	"github.com/go-drift/notify/pkg/platform"
)

// Host is the app activity a notify.Manager serves. Device information is
// cached after the first successful query.
type Host struct {
	activity    string
	permissions *Permissions

	mu     sync.Mutex
	info   platform.DeviceInfo
	cached bool
}

var _ notify.Host = (*Host)(nil)

// NewHost returns the host for the activity with the given identifier,
// usually its class name.
func NewHost(activity string) *Host {
	return &Host{
		activity:    activity,
		permissions: &Permissions{perm: platform.NewNotificationPermission(activity)},
	}
}

func (h *Host) deviceInfo(ctx context.Context) (platform.DeviceInfo, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.cached {
		return h.info, nil
	}
	info, err := platform.Device.Info(ctx)
	if err != nil {
		return platform.DeviceInfo{}, err
	}
	h.info, h.cached = info, true
	return info, nil
}

func (h *Host) ID() string { return h.activity }

// Platform reports PlatformUnknown when native code cannot be reached.
func (h *Host) Platform(ctx context.Context) notify.Platform {
	info, err := h.deviceInfo(ctx)
	if err != nil {
		return notify.PlatformUnknown
	}
	return notify.Platform(strings.ToLower(info.Platform))
}

func (h *Host) APILevel(ctx context.Context) (int, error) {
	info, err := h.deviceInfo(ctx)
	if err != nil {
		return 0, err
	}
	return info.APILevel, nil
}

func (h *Host) Permissions() notify.PermissionProvider { return h.permissions }

// Permissions adapts the platform notification permission to
// notify.PermissionProvider.
type Permissions struct {
	perm *platform.NotificationPermission
}

func (p *Permissions) Check(ctx context.Context) (bool, error) {
	status, err := p.perm.Status(ctx)
	if err != nil {
		return false, err
	}
	return status == platform.PermissionGranted, nil
}

func (p *Permissions) Request(ctx context.Context) (bool, error) {
	status, err := p.perm.Request(ctx)
	if err != nil {
		return false, err
	}
	return status == platform.PermissionGranted, nil
}
