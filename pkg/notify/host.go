package notify

import "context"

// Platform is the OS family of a host surface.
type Platform string

const (
	PlatformAndroid Platform = "android"
	PlatformIOS     Platform = "ios"
	PlatformUnknown Platform = ""
)

// PermissionAPILevel is the first Android API level (13, Tiramisu) that
// requires the runtime post-notification permission.
const PermissionAPILevel = 33

// Host is the display surface a Manager serves, usually the app's main
// activity.
type Host interface {
	// ID is a stable identifier assigned by the host. Managers are keyed by it.
	ID() string
	// Platform reports the OS family, or PlatformUnknown if it cannot be determined.
	Platform(ctx context.Context) Platform
	// APILevel reports the OS API level.
	APILevel(ctx context.Context) (int, error)
	// Permissions returns the permission provider bound to this host.
	Permissions() PermissionProvider
}

// PermissionProvider queries and requests the post-notification permission.
type PermissionProvider interface {
	Check(ctx context.Context) (bool, error)
	// Request shows the permission prompt and reports whether it was granted.
	Request(ctx context.Context) (bool, error)
}
