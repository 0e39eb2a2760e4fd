package notify

import (
	"context"
	stderrors "errors"
	"fmt"

	"github.com/go-drift/notify/pkg/errors"
	"github.com/rs/zerolog"
)

// State is the lifecycle state of a Notification.
type State int

const (
	StateUnsent State = iota
	StateSent
	StateCancelled
)

func (s State) String() string {
	switch s {
	case StateUnsent:
		return "unsent"
	case StateSent:
		return "sent"
	case StateCancelled:
		return "cancelled"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

var errAlreadySent = stderrors.New("notification already sent")

// Notification is a notification built from a Config. It starts unsent,
// becomes sent after a successful Send, and is cancelled for good by Cancel.
// Updates are only valid while sent.
type Notification struct {
	mgr    *Manager
	cfg    *Config
	state  State
	handle Handle

	indeterminate bool
}

func newNotification(mgr *Manager, cfg *Config) *Notification {
	return &Notification{mgr: mgr, cfg: cfg}
}

// State returns the current lifecycle state.
func (n *Notification) State() State { return n.state }

// Config returns a copy of the notification's current config.
func (n *Notification) Config() *Config { return n.cfg.Clone() }

// Indeterminate reports whether the progress bar is showing as indeterminate.
func (n *Notification) Indeterminate() bool { return n.indeterminate }

// Send asks the backend to realize the config and posts it.
func (n *Notification) Send(ctx context.Context, opts SendOptions) error {
	const op = "notify.Notification.Send"

	switch n.state {
	case StateSent:
		return &errors.Error{Op: op, Kind: errors.KindInvalidState, State: n.state.String(), Err: errAlreadySent}
	case StateCancelled:
		return &errors.Error{Op: op, Kind: errors.KindInvalidState, State: n.state.String(), Err: errors.ErrAlreadyCancelled}
	}

	log := n.mgr.log.With().Str("title", n.cfg.Title).Stringer("style", n.cfg.Style()).Logger()
	log.Info().Msg("sending notification")

	backend := n.mgr.registry.backend
	if err := validateForSend(n.cfg, n.mgr.host.Platform(ctx), backend); err != nil {
		log.Error().Err(err).Msg("notification rejected")
		return err
	}

	handle, err := backend.CreateNotification(ctx, n.cfg.spec())
	if err != nil {
		err = sendError(op, err)
		log.Error().Err(err).Msg("backend could not create notification")
		return err
	}
	for _, btn := range n.cfg.Buttons {
		log.Debug().Str("label", btn.Label).Msg("attaching button")
		if err := handle.AddButton(ctx, btn.Label, btn.Action); err != nil {
			err = sendError(op, err)
			log.Error().Err(err).Msg("backend could not attach button")
			discard(ctx, handle, log)
			return err
		}
	}
	log.Debug().
		Bool("silent", opts.Silent).
		Bool("persistent", opts.Persistent).
		Bool("close_on_click", opts.CloseOnClick()).
		Msg("posting notification")
	if err := handle.Send(ctx, opts); err != nil {
		err = sendError(op, err)
		log.Error().Err(err).Msg("backend could not post notification")
		discard(ctx, handle, log)
		return err
	}

	n.handle = handle
	n.state = StateSent
	log.Info().Msg("notification sent")
	return nil
}

// discard cancels a handle whose send failed so the backend drops it and
// its button actions. Failures are only logged.
func discard(ctx context.Context, handle Handle, log zerolog.Logger) {
	if err := handle.Cancel(context.WithoutCancel(ctx)); err != nil {
		log.Warn().Err(err).Msg("could not discard unsent notification")
	}
}

// sendError classifies a backend failure during send. Availability and
// platform failures keep their kind; anything else is SendFailed.
func sendError(op string, err error) error {
	switch {
	case stderrors.Is(err, errors.ErrBackendUnavailable):
		return errors.New(op, errors.KindBackendUnavailable, err)
	case stderrors.Is(err, errors.ErrPlatformNotSupported):
		return errors.New(op, errors.KindPlatformNotSupported, err)
	default:
		return errors.New(op, errors.KindSendFailed, err)
	}
}

// guard returns an InvalidState error unless the notification is sent.
func (n *Notification) guard(op string) error {
	switch n.state {
	case StateSent:
		return nil
	case StateUnsent:
		return &errors.Error{Op: op, Kind: errors.KindInvalidState, State: n.state.String(), Err: errors.ErrNotSentYet}
	default:
		return &errors.Error{Op: op, Kind: errors.KindInvalidState, State: n.state.String(), Err: errors.ErrAlreadyCancelled}
	}
}

func updateError(op string, err error) error {
	if stderrors.Is(err, errors.ErrBackendUnavailable) {
		return errors.New(op, errors.KindBackendUnavailable, err)
	}
	return errors.New(op, errors.KindUpdateFailed, err)
}

// UpdateTitle changes the title of a sent notification.
func (n *Notification) UpdateTitle(ctx context.Context, title string) error {
	const op = "notify.Notification.UpdateTitle"
	if err := n.guard(op); err != nil {
		return err
	}
	if err := n.handle.UpdateTitle(ctx, title); err != nil {
		return updateError(op, err)
	}
	n.cfg.Title = title
	n.mgr.log.Debug().Str("title", title).Msg("title updated")
	return nil
}

// UpdateMessage changes the message of a sent notification.
func (n *Notification) UpdateMessage(ctx context.Context, message string) error {
	const op = "notify.Notification.UpdateMessage"
	if err := n.guard(op); err != nil {
		return err
	}
	if err := n.handle.UpdateMessage(ctx, message); err != nil {
		return updateError(op, err)
	}
	n.cfg.Message = message
	n.mgr.log.Debug().Str("message", message).Msg("message updated")
	return nil
}

// UpdateOption adjusts an update call.
type UpdateOption func(*updateOptions)

type updateOptions struct {
	title           string
	message         string
	hideImmediately bool
}

// WithTitle retitles the notification together with the update.
func WithTitle(title string) UpdateOption {
	return func(o *updateOptions) { o.title = title }
}

// WithMessage replaces the message together with the update.
func WithMessage(message string) UpdateOption {
	return func(o *updateOptions) { o.message = message }
}

// HideImmediately makes RemoveProgress skip briefly showing the final message.
func HideImmediately() UpdateOption {
	return func(o *updateOptions) { o.hideImmediately = true }
}

func collectUpdateOptions(opts []UpdateOption) updateOptions {
	var o updateOptions
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// UpdateProgress sets the progress bar to current, optionally changing the
// title and message in the same backend call. current is forwarded as given;
// keeping it within the declared max is the caller's job.
func (n *Notification) UpdateProgress(ctx context.Context, current int, opts ...UpdateOption) error {
	const op = "notify.Notification.UpdateProgress"
	if err := n.guard(op); err != nil {
		return err
	}
	progress, ok := n.cfg.Payload.(Progress)
	if !ok {
		return errors.Newf(op, errors.KindWrongStyle, "progress update on %s notification", n.cfg.Style())
	}

	o := collectUpdateOptions(opts)
	update := ProgressUpdate{Current: current, Title: o.title, Message: o.message}
	if err := n.handle.UpdateProgressBar(ctx, update); err != nil {
		return updateError(op, err)
	}

	progress.Current = current
	n.cfg.Payload = progress
	if o.title != "" {
		n.cfg.Title = o.title
	}
	if o.message != "" {
		n.cfg.Message = o.message
	}
	n.indeterminate = false
	n.mgr.log.Debug().Int("current", current).Int("max", progress.Max).Msg("progress updated")
	return nil
}

// ShowInfiniteProgress switches the progress bar to indeterminate. The
// stored current and max values are kept.
func (n *Notification) ShowInfiniteProgress(ctx context.Context) error {
	const op = "notify.Notification.ShowInfiniteProgress"
	if err := n.guard(op); err != nil {
		return err
	}
	if err := n.handle.ShowInfiniteProgressBar(ctx); err != nil {
		return updateError(op, err)
	}
	n.indeterminate = true
	n.mgr.log.Debug().Msg("infinite progress shown")
	return nil
}

// RemoveProgress removes the progress bar. WithMessage sets the final text,
// which is shown briefly unless HideImmediately is given.
func (n *Notification) RemoveProgress(ctx context.Context, opts ...UpdateOption) error {
	const op = "notify.Notification.RemoveProgress"
	if err := n.guard(op); err != nil {
		return err
	}
	o := collectUpdateOptions(opts)
	if err := n.handle.RemoveProgressBar(ctx, o.message, !o.hideImmediately); err != nil {
		return updateError(op, err)
	}
	if o.message != "" {
		n.cfg.Message = o.message
	}
	n.indeterminate = false
	n.mgr.log.Debug().Msg("progress removed")
	return nil
}

// Refresh asks the backend to redraw the notification without changes.
func (n *Notification) Refresh(ctx context.Context) error {
	const op = "notify.Notification.Refresh"
	if err := n.guard(op); err != nil {
		return err
	}
	if err := n.handle.Refresh(ctx); err != nil {
		return updateError(op, err)
	}
	n.mgr.log.Debug().Msg("notification refreshed")
	return nil
}

// Cancel removes the notification from the tray. Afterwards every
// operation, including another Cancel, fails with AlreadyCancelled. If the
// backend fails the notification stays sent.
func (n *Notification) Cancel(ctx context.Context) error {
	const op = "notify.Notification.Cancel"
	if err := n.guard(op); err != nil {
		return err
	}
	if err := n.handle.Cancel(ctx); err != nil {
		return updateError(op, err)
	}
	n.state = StateCancelled
	n.handle = nil
	n.mgr.log.Info().Str("title", n.cfg.Title).Msg("notification cancelled")
	return nil
}
