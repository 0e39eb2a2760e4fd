package notify

import (
	"fmt"
	"slices"

	"github.com/go-drift/notify/pkg/errors"
)

// Style is the visual layout of a notification.
type Style int

const (
	StyleSimple Style = iota
	StyleProgress
	StyleInbox
	StyleBigText
	StyleLargeIcon
	StyleBigPicture
	// StyleBothImages is never requested directly. It results from setting
	// both a large icon and a big picture on the same builder.
	StyleBothImages
)

func (s Style) String() string {
	switch s {
	case StyleSimple:
		return "simple"
	case StyleProgress:
		return "progress"
	case StyleInbox:
		return "inbox"
	case StyleBigText:
		return "big_text"
	case StyleLargeIcon:
		return "large_icon"
	case StyleBigPicture:
		return "big_picture"
	case StyleBothImages:
		return "both_images"
	default:
		return fmt.Sprintf("Style(%d)", int(s))
	}
}

// WireValue returns the style tag understood by the native backend.
func (s Style) WireValue() string {
	if s == StyleBothImages {
		return "both_imgs"
	}
	return s.String()
}

// field identifies the style-affecting builder call that ran last.
type field int

const (
	fieldProgress field = iota + 1
	fieldLines
	fieldBigText
	fieldLargeIcon
	fieldBigPicture
)

// draft keeps every payload field ever set on a builder, including the ones
// the active style no longer renders, so later calls can still see them.
type draft struct {
	progress   Progress
	lines      []string
	bigText    string
	largeIcon  string
	bigPicture string
}

// deriveStyle returns the style implied by the call that just set f.
// The last call wins, except that the two image calls combine.
func deriveStyle(d *draft, f field) Style {
	switch f {
	case fieldProgress:
		return StyleProgress
	case fieldLines:
		return StyleInbox
	case fieldBigText:
		return StyleBigText
	case fieldLargeIcon:
		if d.bigPicture != "" {
			return StyleBothImages
		}
		return StyleLargeIcon
	case fieldBigPicture:
		if d.largeIcon != "" {
			return StyleBothImages
		}
		return StyleBigPicture
	default:
		return StyleSimple
	}
}

// payload builds the variant for style from the draft. It is the only place
// payload variants are constructed by the builder.
func (d *draft) payload(style Style) Payload {
	switch style {
	case StyleProgress:
		return d.progress
	case StyleInbox:
		return Inbox{Lines: slices.Clone(d.lines)}
	case StyleBigText:
		return BigText{Body: d.bigText}
	case StyleLargeIcon:
		return LargeIcon{Path: d.largeIcon}
	case StyleBigPicture:
		return BigPicture{Path: d.bigPicture}
	case StyleBothImages:
		return BothImages{LargeIcon: d.largeIcon, BigPicture: d.bigPicture}
	default:
		return nil
	}
}

// validateForSend checks that cfg can be realized on the host. Config
// problems are reported before environment problems so an incomplete config
// never reaches the backend.
func validateForSend(cfg *Config, platform Platform, backend Backend) error {
	const op = "notify.validateForSend"

	switch {
	case cfg.Title == "":
		return errors.Newf(op, errors.KindIncompleteConfig, "title is required")
	case cfg.Message == "":
		return errors.Newf(op, errors.KindIncompleteConfig, "message is required")
	}
	for i, b := range cfg.Buttons {
		if b.Label == "" {
			return errors.Newf(op, errors.KindIncompleteConfig, "button %d has no label", i)
		}
	}
	if cfg.Payload != nil {
		if err := cfg.Payload.validate(); err != nil {
			return errors.New(op, errors.KindIncompleteConfig, err)
		}
	}
	if platform != PlatformAndroid {
		return errors.Newf(op, errors.KindPlatformNotSupported, "host platform %q", platform)
	}
	if backend == nil || !backend.IsAvailable() {
		return errors.Newf(op, errors.KindBackendUnavailable, "notification backend is not available")
	}
	return nil
}
