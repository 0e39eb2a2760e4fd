// Package platform carries method calls and events between Go and the native
// host. The notify android backend, the device query and the notification
// permission all talk to native code through the channels defined here.
package platform

import (
	"encoding/json"
	"errors"
)

// MessageCodec converts values to and from the bytes exchanged with native
// code.
type MessageCodec interface {
	Encode(value any) ([]byte, error)
	Decode(data []byte) (any, error)
}

// JSONCodec is the MessageCodec used by all channels. Numbers decode as
// float64.
type JSONCodec struct{}

func (JSONCodec) Encode(value any) ([]byte, error) {
	return json.Marshal(value)
}

// Decode returns nil for an empty payload.
func (JSONCodec) Decode(data []byte) (any, error) {
	if len(data) == 0 {
		return nil, nil
	}
	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// DefaultCodec is the codec used by platform channels.
var DefaultCodec MessageCodec = JSONCodec{}

var (
	// ErrPlatformUnavailable is returned when no native bridge is installed.
	ErrPlatformUnavailable = errors.New("platform feature unavailable")

	// ErrChannelNotFound is returned when native code calls a Go channel
	// that was never created.
	ErrChannelNotFound = errors.New("platform channel not found")

	// ErrChannelNotRegistered is returned when native code sends an event
	// to an unknown event channel.
	ErrChannelNotRegistered = errors.New("event channel not registered")

	// ErrMethodNotFound is returned for incoming calls on a channel
	// without a handler.
	ErrMethodNotFound = errors.New("method not implemented")

	// ErrTimeout is returned when a permission dialog is not answered
	// before the deadline.
	ErrTimeout = errors.New("operation timed out")

	// ErrCanceled is returned when a permission request's context is
	// canceled.
	ErrCanceled = errors.New("operation was canceled")
)

// ChannelError is an error reported by native code.
type ChannelError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *ChannelError) Error() string {
	if e.Message == "" {
		return e.Code
	}
	return e.Code + ": " + e.Message
}

func NewChannelError(code, message string) *ChannelError {
	return &ChannelError{Code: code, Message: message}
}
