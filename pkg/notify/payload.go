package notify

import (
	"fmt"
	"slices"
)

// Payload holds the style-specific content of a notification. Each
// implementation belongs to exactly one Style; a nil Payload is StyleSimple.
type Payload interface {
	// Style returns the style this payload renders as.
	Style() Style

	validate() error
	clone() Payload
}

// Progress is the payload of StyleProgress.
type Progress struct {
	Current int
	Max     int
}

func (Progress) Style() Style { return StyleProgress }

func (p Progress) validate() error {
	switch {
	case p.Max <= 0:
		return fmt.Errorf("progress max must be positive, got %d", p.Max)
	case p.Current < 0:
		return fmt.Errorf("progress current must not be negative, got %d", p.Current)
	case p.Current > p.Max:
		return fmt.Errorf("progress current %d exceeds max %d", p.Current, p.Max)
	}
	return nil
}

func (p Progress) clone() Payload { return p }

// Inbox is the payload of StyleInbox: one summary line per entry.
type Inbox struct {
	Lines []string
}

func (Inbox) Style() Style { return StyleInbox }

func (i Inbox) validate() error {
	if len(i.Lines) == 0 {
		return fmt.Errorf("inbox style requires at least one line")
	}
	return nil
}

func (i Inbox) clone() Payload { return Inbox{Lines: slices.Clone(i.Lines)} }

// BigText is the payload of StyleBigText: a long body shown when expanded.
type BigText struct {
	Body string
}

func (BigText) Style() Style { return StyleBigText }

func (b BigText) validate() error {
	if b.Body == "" {
		return fmt.Errorf("big text style requires a body")
	}
	return nil
}

func (b BigText) clone() Payload { return b }

// LargeIcon is the payload of StyleLargeIcon: an image shown beside the text.
type LargeIcon struct {
	Path string
}

func (LargeIcon) Style() Style { return StyleLargeIcon }

func (l LargeIcon) validate() error {
	if l.Path == "" {
		return fmt.Errorf("large icon style requires an icon path")
	}
	return nil
}

func (l LargeIcon) clone() Payload { return l }

// BigPicture is the payload of StyleBigPicture: an image shown when expanded.
type BigPicture struct {
	Path string
}

func (BigPicture) Style() Style { return StyleBigPicture }

func (b BigPicture) validate() error {
	if b.Path == "" {
		return fmt.Errorf("big picture style requires a picture path")
	}
	return nil
}

func (b BigPicture) clone() Payload { return b }

// BothImages is the payload of StyleBothImages: a large icon and a big picture.
type BothImages struct {
	LargeIcon  string
	BigPicture string
}

func (BothImages) Style() Style { return StyleBothImages }

func (b BothImages) validate() error {
	if b.LargeIcon == "" || b.BigPicture == "" {
		return fmt.Errorf("both images style requires a large icon and a big picture path")
	}
	return nil
}

func (b BothImages) clone() Payload { return b }
