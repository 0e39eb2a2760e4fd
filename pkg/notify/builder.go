package notify

import (
	"context"
	"slices"

	"github.com/go-drift/notify/pkg/errors"
)

// Builder accumulates a Config. All setters return the builder so calls can
// be chained; apart from the style rule they can be made in any order.
//
// The first error a setter hits (only AddButton can fail) is kept and
// returned by Err, Build and Send.
type Builder struct {
	mgr   *Manager
	cfg   *Config
	draft draft
	err   error
}

func newBuilder(mgr *Manager, cfg *Config) *Builder {
	mgr.log.Debug().Str("title", cfg.Title).Msg("builder created")
	return &Builder{mgr: mgr, cfg: cfg}
}

// SetIcon sets a custom small icon.
func (b *Builder) SetIcon(path string) *Builder {
	b.cfg.Icon = path
	b.mgr.log.Debug().Str("path", path).Msg("icon set")
	return b
}

// AddButton appends an action button. A fourth button is rejected with a
// TooManyButtons error and the first three are kept.
func (b *Builder) AddButton(label string, action func()) *Builder {
	if len(b.cfg.Buttons) >= MaxButtons {
		err := errors.Newf("notify.Builder.AddButton", errors.KindTooManyButtons,
			"at most %d buttons per notification, rejected %q", MaxButtons, label)
		b.mgr.log.Debug().Err(err).Msg("button rejected")
		if b.err == nil {
			b.err = err
		}
		return b
	}
	b.cfg.Buttons = append(b.cfg.Buttons, Button{Label: label, Action: action})
	b.mgr.log.Debug().Str("label", label).Msg("button added")
	return b
}

// WithProgress switches to StyleProgress with the given bounds.
func (b *Builder) WithProgress(current, maxValue int) *Builder {
	b.draft.progress = Progress{Current: current, Max: maxValue}
	b.apply(fieldProgress)
	b.mgr.log.Debug().Int("current", current).Int("max", maxValue).Msg("progress configured")
	return b
}

// WithDefaultProgress is WithProgress(0, 100).
func (b *Builder) WithDefaultProgress() *Builder {
	return b.WithProgress(0, 100)
}

// SetLargeIcon sets the large icon. If a big picture was set before, the
// style becomes StyleBothImages, otherwise StyleLargeIcon.
func (b *Builder) SetLargeIcon(path string) *Builder {
	b.draft.largeIcon = path
	b.apply(fieldLargeIcon)
	b.mgr.log.Debug().Str("path", path).Msg("large icon set")
	return b
}

// SetBigPicture sets the expanded picture. If a large icon was set before,
// the style becomes StyleBothImages, otherwise StyleBigPicture.
func (b *Builder) SetBigPicture(path string) *Builder {
	b.draft.bigPicture = path
	b.apply(fieldBigPicture)
	b.mgr.log.Debug().Str("path", path).Msg("big picture set")
	return b
}

// SetBigText switches to StyleBigText with body as the expanded text.
func (b *Builder) SetBigText(body string) *Builder {
	b.draft.bigText = body
	b.apply(fieldBigText)
	b.mgr.log.Debug().Int("chars", len(body)).Msg("big text set")
	return b
}

// AddLine appends an inbox line and switches to StyleInbox.
func (b *Builder) AddLine(text string) *Builder {
	b.draft.lines = append(b.draft.lines, text)
	b.apply(fieldLines)
	b.mgr.log.Debug().Str("line", text).Msg("line added")
	return b
}

// SetLines replaces all inbox lines and switches to StyleInbox.
func (b *Builder) SetLines(lines []string) *Builder {
	b.draft.lines = slices.Clone(lines)
	b.apply(fieldLines)
	b.mgr.log.Debug().Int("lines", len(lines)).Msg("lines set")
	return b
}

func (b *Builder) apply(f field) {
	b.cfg.Payload = b.draft.payload(deriveStyle(&b.draft, f))
}

// Config returns a copy of the config accumulated so far.
func (b *Builder) Config() *Config {
	return b.cfg.Clone()
}

// Err returns the first error recorded by a setter.
func (b *Builder) Err() error {
	return b.err
}

// Build returns an unsent Notification holding a snapshot of the config.
func (b *Builder) Build() (*Notification, error) {
	if b.err != nil {
		return nil, b.err
	}
	return newNotification(b.mgr, b.cfg.Clone()), nil
}

// Send builds the notification and posts it.
func (b *Builder) Send(ctx context.Context, opts SendOptions) (*Notification, error) {
	n, err := b.Build()
	if err != nil {
		return nil, err
	}
	if err := n.Send(ctx, opts); err != nil {
		return nil, err
	}
	return n, nil
}
