package notify

import "context"

// Backend is the native notification capability. Implementations talk to
// the OS; this package only calls through the interface.
type Backend interface {
	// IsAvailable reports whether the native capability can be used.
	IsAvailable() bool

	// CreateNotification builds the native notification object for spec.
	// Nothing is shown until Handle.Send.
	CreateNotification(ctx context.Context, spec Spec) (Handle, error)

	CreateChannel(ctx context.Context, ch Channel) error
	DeleteChannel(ctx context.Context, id string) error
	DeleteAllChannels(ctx context.Context) error

	// CancelAll removes every notification posted by the app.
	CancelAll(ctx context.Context) error
}

// Handle is a live native notification created by a Backend.
type Handle interface {
	// AddButton attaches an action button. Buttons are rendered in the
	// order they are added.
	AddButton(ctx context.Context, label string, action func()) error
	Send(ctx context.Context, opts SendOptions) error

	UpdateTitle(ctx context.Context, title string) error
	UpdateMessage(ctx context.Context, message string) error
	UpdateProgressBar(ctx context.Context, update ProgressUpdate) error
	ShowInfiniteProgressBar(ctx context.Context) error
	RemoveProgressBar(ctx context.Context, message string, showBriefly bool) error
	Cancel(ctx context.Context) error
	Refresh(ctx context.Context) error
}

// LaunchTracker reports which notification, if any, launched the app.
type LaunchTracker interface {
	// LaunchingNotificationID returns the name of the notification whose
	// tap launched the app this session, or "" if none did.
	LaunchingNotificationID(ctx context.Context) (string, error)
}

// SendOptions control how a notification is posted.
type SendOptions struct {
	// Silent posts without sound or vibration.
	Silent bool
	// Persistent prevents the user from swiping the notification away.
	Persistent bool
	// KeepOnClick leaves the notification in the tray after it is tapped.
	KeepOnClick bool
}

// CloseOnClick reports whether a tap dismisses the notification.
func (o SendOptions) CloseOnClick() bool {
	return !o.KeepOnClick
}

// ProgressUpdate is a progress bar change. Empty Title or Message leave the
// current text untouched.
type ProgressUpdate struct {
	Current int
	Title   string
	Message string
}

// Channel is a notification channel registered with the OS.
type Channel struct {
	ID          string
	Name        string
	Description string
	Importance  Importance
}
