package android

import (
	"context"
	"sync"

	"github.com/go-drift/notify/pkg/notify"
)

// Handle is a native notification addressed by its handle id.
type Handle struct {
	backend *Backend
	id      string

	mu      sync.Mutex
	actions []func()
}

var _ notify.Handle = (*Handle)(nil)

// ID returns the handle id shared with native code.
func (h *Handle) ID() string { return h.id }

func (h *Handle) action(index int) func() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if index < 0 || index >= len(h.actions) {
		return nil
	}
	return h.actions[index]
}

func (h *Handle) call(ctx context.Context, method string, args map[string]any) error {
	if args == nil {
		args = make(map[string]any, 1)
	}
	args["handle"] = h.id
	_, err := h.backend.invoke(ctx, method, args)
	return err
}

// AddButton registers the button natively. The action stays on the Go side
// and runs when a tap event for this handle and index arrives.
func (h *Handle) AddButton(ctx context.Context, label string, action func()) error {
	h.mu.Lock()
	index := len(h.actions)
	h.mu.Unlock()

	if err := h.call(ctx, "addButton", map[string]any{"index": index, "label": label}); err != nil {
		return err
	}
	h.mu.Lock()
	h.actions = append(h.actions, action)
	h.mu.Unlock()
	h.backend.listen()
	return nil
}

// Send posts the notification with the given options.
func (h *Handle) Send(ctx context.Context, opts notify.SendOptions) error {
	return h.call(ctx, "send", map[string]any{
		"silent":       opts.Silent,
		"ongoing":      opts.Persistent,
		"closeOnClick": opts.CloseOnClick(),
	})
}

// UpdateTitle replaces the title of the posted notification.
func (h *Handle) UpdateTitle(ctx context.Context, title string) error {
	return h.call(ctx, "updateTitle", map[string]any{"title": title})
}

// UpdateMessage replaces the message of the posted notification.
func (h *Handle) UpdateMessage(ctx context.Context, message string) error {
	return h.call(ctx, "updateMessage", map[string]any{"message": message})
}

// UpdateProgressBar moves the progress bar and optionally its text.
func (h *Handle) UpdateProgressBar(ctx context.Context, u notify.ProgressUpdate) error {
	args := map[string]any{"current": u.Current}
	if u.Title != "" {
		args["title"] = u.Title
	}
	if u.Message != "" {
		args["message"] = u.Message
	}
	return h.call(ctx, "updateProgressBar", args)
}

// ShowInfiniteProgressBar switches to an indeterminate bar.
func (h *Handle) ShowInfiniteProgressBar(ctx context.Context) error {
	return h.call(ctx, "showInfiniteProgressBar", nil)
}

// RemoveProgressBar hides the bar, optionally after showing it briefly.
func (h *Handle) RemoveProgressBar(ctx context.Context, message string, showBriefly bool) error {
	args := map[string]any{"showBriefly": showBriefly}
	if message != "" {
		args["message"] = message
	}
	return h.call(ctx, "removeProgressBar", args)
}

// Cancel removes the notification and forgets its button actions.
func (h *Handle) Cancel(ctx context.Context) error {
	if err := h.call(ctx, "cancel", nil); err != nil {
		return err
	}
	h.backend.forget(h.id)
	return nil
}

// Refresh reposts the notification with its current content.
func (h *Handle) Refresh(ctx context.Context) error {
	return h.call(ctx, "refresh", nil)
}
