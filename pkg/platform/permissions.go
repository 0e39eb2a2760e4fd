package platform

import (
	"context"
	"sync"
	"time"

	"github.com/go-drift/notify/pkg/errors"
)

// PermissionResult represents the status of a permission.
type PermissionResult string

// Permission status constants.
const (
	// PermissionGranted indicates full access has been granted.
	PermissionGranted PermissionResult = "granted"

	// PermissionDenied indicates the user denied the permission. The app may request again.
	PermissionDenied PermissionResult = "denied"

	// PermissionPermanentlyDenied indicates the user denied with "don't ask again".
	// The app cannot request again; direct user to Settings.
	PermissionPermanentlyDenied PermissionResult = "permanently_denied"

	// PermissionRestricted indicates a system policy prevents granting (parental controls,
	// MDM, enterprise policy). No dialog will be shown.
	PermissionRestricted PermissionResult = "restricted"

	// PermissionNotDetermined indicates the user has not yet been asked.
	PermissionNotDetermined PermissionResult = "not_determined"

	// PermissionResultUnknown indicates the status could not be determined.
	PermissionResultUnknown PermissionResult = "unknown"
)

// DefaultPermissionTimeout is the timeout applied to permission requests
// whose context carries no deadline.
const DefaultPermissionTimeout = 30 * time.Second

// isTerminalStatus returns true if the status is a terminal state that won't change
// from showing a permission dialog.
func isTerminalStatus(status PermissionResult) bool {
	switch status {
	case PermissionGranted, PermissionPermanentlyDenied, PermissionRestricted:
		return true
	default:
		return false
	}
}

var (
	permissionChannelsOnce   sync.Once
	permissionMethodChannel  *MethodChannel
	permissionChangesChannel *EventChannel
)

func getPermissionChannels() (*MethodChannel, *EventChannel) {
	permissionChannelsOnce.Do(func() {
		permissionMethodChannel = NewMethodChannel("drift/permissions")
		permissionChangesChannel = NewEventChannel("drift/permissions/changes")
	})
	return permissionMethodChannel, permissionChangesChannel
}

// NotificationPermission checks and requests the post-notification runtime
// permission on behalf of one host activity.
type NotificationPermission struct {
	activity string
	channel  *MethodChannel
	changes  *EventChannel

	// Only one dialog can be shown at a time.
	requestMu sync.Mutex
}

// NewNotificationPermission returns the notification permission for the
// host activity identified by activity.
func NewNotificationPermission(activity string) *NotificationPermission {
	channel, changes := getPermissionChannels()
	return &NotificationPermission{
		activity: activity,
		channel:  channel,
		changes:  changes,
	}
}

func (p *NotificationPermission) args() map[string]any {
	return map[string]any{
		"permission": "notifications",
		"activity":   p.activity,
	}
}

// Status returns the current status of the permission.
func (p *NotificationPermission) Status(ctx context.Context) (PermissionResult, error) {
	result, err := p.channel.Invoke(ctx, "check", p.args())
	if err != nil {
		return PermissionResultUnknown, err
	}
	return parsePermissionResult(result), nil
}

// Request shows the system permission dialog and blocks until the user
// responds, the context is canceled, or the deadline is exceeded. If the
// permission is already in a terminal state no dialog is shown.
func (p *NotificationPermission) Request(ctx context.Context) (PermissionResult, error) {
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, DefaultPermissionTimeout)
		defer cancel()
	}

	p.requestMu.Lock()
	defer p.requestMu.Unlock()

	currentStatus, err := p.Status(ctx)
	if err != nil {
		return PermissionResultUnknown, err
	}
	if isTerminalStatus(currentStatus) {
		return currentStatus, nil
	}

	// Subscribe before triggering the native request to avoid missing the answer.
	resultChan := make(chan PermissionResult, 1)
	sub := p.changes.Listen(EventHandler{
		OnEvent: func(data any) {
			change, ok := parsePermissionChange(data)
			if ok && change.Permission == "notifications" {
				select {
				case resultChan <- change.Result:
				default:
				}
			}
		},
		OnError: func(err error) {
			errors.Report(&errors.Error{
				Op:      "permissions.requestNotification",
				Kind:    errors.KindPlatform,
				Channel: p.changes.Name(),
				Err:     err,
			})
		},
	})
	defer sub.Cancel()

	if _, err := p.channel.Invoke(ctx, "request", p.args()); err != nil {
		return PermissionResultUnknown, err
	}

	select {
	case result := <-resultChan:
		return result, nil
	case <-ctx.Done():
		// The answer may have raced the deadline.
		if finalStatus, err := p.Status(context.WithoutCancel(ctx)); err == nil && isTerminalStatus(finalStatus) {
			return finalStatus, nil
		}
		if ctx.Err() == context.DeadlineExceeded {
			return PermissionResultUnknown, ErrTimeout
		}
		return PermissionResultUnknown, ErrCanceled
	}
}

type permissionChange struct {
	Permission string
	Result     PermissionResult
}

func parsePermissionResult(result any) PermissionResult {
	if m, ok := result.(map[string]any); ok {
		if status := parseString(m["status"]); status != "" {
			return PermissionResult(status)
		}
	}
	return PermissionResultUnknown
}

func parsePermissionChange(data any) (permissionChange, bool) {
	m, ok := data.(map[string]any)
	if !ok {
		return permissionChange{}, false
	}
	return permissionChange{
		Permission: parseString(m["permission"]),
		Result:     PermissionResult(parseString(m["status"])),
	}, true
}
