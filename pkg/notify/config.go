package notify

import (
	"slices"
	"strings"
)

// Default channel used when a notification does not name one.
const (
	DefaultChannelID   = "default"
	DefaultChannelName = "Default"
)

// Config describes a notification.
type Config struct {
	Title   string
	Message string

	ChannelID   string
	ChannelName string
	Importance  Importance

	// NotificationID is the caller-chosen name used to address the
	// notification later, e.g. to tell which one launched the app.
	NotificationID string
	// Icon is a custom small icon path. Empty uses the app icon.
	Icon string

	// Buttons are rendered left to right in order.
	Buttons []Button

	// Payload is the style-specific content. Nil means StyleSimple.
	Payload Payload
}

// Style returns the active style of the config.
func (c *Config) Style() Style {
	if c.Payload == nil {
		return StyleSimple
	}
	return c.Payload.Style()
}

// Clone returns a copy of c that shares no mutable state with it.
func (c *Config) Clone() *Config {
	out := *c
	out.Buttons = slices.Clone(c.Buttons)
	if c.Payload != nil {
		out.Payload = c.Payload.clone()
	}
	return &out
}

// Spec is the flat description of a notification handed to a Backend.
// Only the fields of the active style are set.
type Spec struct {
	Title       string
	Message     string
	ChannelID   string
	ChannelName string
	Importance  Importance
	Style       Style
	// Name is the notification identifier, if any.
	Name string
	Icon string

	ProgressCurrent int
	ProgressMax     int
	LargeIconPath   string
	BigPicturePath  string
	// Body is the big text body.
	Body string
	// Lines holds the inbox lines joined by "\n".
	Lines string
}

func (c *Config) spec() Spec {
	s := Spec{
		Title:       c.Title,
		Message:     c.Message,
		ChannelID:   c.ChannelID,
		ChannelName: c.ChannelName,
		Importance:  c.Importance,
		Style:       c.Style(),
		Name:        c.NotificationID,
		Icon:        c.Icon,
	}
	switch p := c.Payload.(type) {
	case Progress:
		s.ProgressCurrent = p.Current
		s.ProgressMax = p.Max
	case Inbox:
		s.Lines = strings.Join(p.Lines, "\n")
	case BigText:
		s.Body = p.Body
	case LargeIcon:
		s.LargeIconPath = p.Path
	case BigPicture:
		s.BigPicturePath = p.Path
	case BothImages:
		s.LargeIconPath = p.LargeIcon
		s.BigPicturePath = p.BigPicture
	}
	return s
}
