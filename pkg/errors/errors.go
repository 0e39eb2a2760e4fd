// Package errors provides structured error handling for drift notifications.
package errors

import (
	stderrors "errors"
	"fmt"
	"time"
)

// Kind identifies the category of a notification error.
type Kind int

const (
	// KindUnknown indicates an error of unknown type.
	KindUnknown Kind = iota
	// KindPlatformNotSupported indicates the host surface is not Android.
	KindPlatformNotSupported
	// KindBackendUnavailable indicates the native notification capability is missing.
	KindBackendUnavailable
	// KindIncompleteConfig indicates a required field is missing at send time.
	KindIncompleteConfig
	// KindTooManyButtons indicates a fourth action button was rejected.
	KindTooManyButtons
	// KindInvalidState indicates an operation outside its lifecycle state.
	KindInvalidState
	// KindWrongStyle indicates a style-specific update on another style.
	KindWrongStyle
	// KindSendFailed indicates the backend failed to realize a notification.
	KindSendFailed
	// KindUpdateFailed indicates the backend failed to apply a post-send update.
	KindUpdateFailed
	// KindChannelOperationFailed indicates a channel registry operation failed.
	KindChannelOperationFailed
	// KindPermissionRequestFailed indicates the permission prompt could not be shown.
	KindPermissionRequestFailed
	// KindPlatform indicates a platform channel or native bridge error.
	KindPlatform
	// KindParsing indicates an event parsing failure.
	KindParsing
	// KindPanic indicates a recovered panic.
	KindPanic
)

func (k Kind) String() string {
	switch k {
	case KindPlatformNotSupported:
		return "platform_not_supported"
	case KindBackendUnavailable:
		return "backend_unavailable"
	case KindIncompleteConfig:
		return "incomplete_config"
	case KindTooManyButtons:
		return "too_many_buttons"
	case KindInvalidState:
		return "invalid_state"
	case KindWrongStyle:
		return "wrong_style"
	case KindSendFailed:
		return "send_failed"
	case KindUpdateFailed:
		return "update_failed"
	case KindChannelOperationFailed:
		return "channel_operation_failed"
	case KindPermissionRequestFailed:
		return "permission_request_failed"
	case KindPlatform:
		return "platform"
	case KindParsing:
		return "parsing"
	case KindPanic:
		return "panic"
	default:
		return "unknown"
	}
}

// Sentinel errors, one per Kind. An *Error matches the sentinel of its Kind
// with errors.Is.
var (
	ErrPlatformNotSupported    = stderrors.New("notify: platform not supported")
	ErrBackendUnavailable      = stderrors.New("notify: backend unavailable")
	ErrIncompleteConfig        = stderrors.New("notify: incomplete config")
	ErrTooManyButtons          = stderrors.New("notify: too many buttons")
	ErrInvalidState            = stderrors.New("notify: invalid state")
	ErrWrongStyle              = stderrors.New("notify: wrong style")
	ErrSendFailed              = stderrors.New("notify: send failed")
	ErrUpdateFailed            = stderrors.New("notify: update failed")
	ErrChannelOperationFailed  = stderrors.New("notify: channel operation failed")
	ErrPermissionRequestFailed = stderrors.New("notify: permission request failed")

	// ErrNotSentYet is the InvalidState detail for a notification that was never sent.
	ErrNotSentYet = stderrors.New("notification not sent yet")
	// ErrAlreadyCancelled is the InvalidState detail for a cancelled notification.
	ErrAlreadyCancelled = stderrors.New("notification already cancelled")
)

var kindSentinels = map[Kind]error{
	KindPlatformNotSupported:    ErrPlatformNotSupported,
	KindBackendUnavailable:      ErrBackendUnavailable,
	KindIncompleteConfig:        ErrIncompleteConfig,
	KindTooManyButtons:          ErrTooManyButtons,
	KindInvalidState:            ErrInvalidState,
	KindWrongStyle:              ErrWrongStyle,
	KindSendFailed:              ErrSendFailed,
	KindUpdateFailed:            ErrUpdateFailed,
	KindChannelOperationFailed:  ErrChannelOperationFailed,
	KindPermissionRequestFailed: ErrPermissionRequestFailed,
}

// Error represents a structured notification error.
type Error struct {
	// Op is the operation that failed (e.g., "notify.Builder.Send").
	Op string
	// Kind categorizes the error.
	Kind Kind
	// Err is the underlying cause.
	Err error
	// State is the lifecycle state observed by an InvalidState error.
	State string
	// Channel is the platform channel name, if applicable.
	Channel string
	// StackTrace contains the call stack at the time of the error.
	StackTrace string
	// Timestamp is when the error occurred.
	Timestamp time.Time
}

// New returns an *Error for op with the given kind and cause.
func New(op string, kind Kind, err error) *Error {
	return &Error{Op: op, Kind: kind, Err: err}
}

// Newf is like New with a formatted cause.
func Newf(op string, kind Kind, format string, args ...any) *Error {
	return &Error{Op: op, Kind: kind, Err: fmt.Errorf(format, args...)}
}

func (e *Error) Error() string {
	var detail string
	if e.State != "" {
		detail += " state=" + e.State
	}
	if e.Channel != "" {
		detail += " channel=" + e.Channel
	}
	if e.Err == nil {
		return fmt.Sprintf("%s [%s]%s", e.Op, e.Kind, detail)
	}
	return fmt.Sprintf("%s [%s]%s: %v", e.Op, e.Kind, detail, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is the sentinel for e's Kind.
func (e *Error) Is(target error) bool {
	sentinel, ok := kindSentinels[e.Kind]
	return ok && sentinel == target
}

// KindOf returns the Kind of the first *Error in err's chain, or the Kind
// whose sentinel err matches. It returns KindUnknown otherwise.
func KindOf(err error) Kind {
	if err == nil {
		return KindUnknown
	}
	var e *Error
	if stderrors.As(err, &e) {
		return e.Kind
	}
	for kind, sentinel := range kindSentinels {
		if stderrors.Is(err, sentinel) {
			return kind
		}
	}
	return KindUnknown
}

// PanicError represents a recovered panic.
type PanicError struct {
	// Op is the operation that panicked (e.g., "android.buttonTap").
	Op string
	// Value is the value passed to panic().
	Value any
	// StackTrace contains the call stack at the time of the panic.
	StackTrace string
	// Timestamp is when the panic occurred.
	Timestamp time.Time
}

func (e *PanicError) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("panic in %s: %v", e.Op, e.Value)
	}
	return fmt.Sprintf("panic: %v", e.Value)
}

// ParseError represents a failure to parse event data.
type ParseError struct {
	// Channel is the platform channel that received the event.
	Channel string
	// DataType is the expected type name.
	DataType string
	// Got is the actual data received.
	Got any
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse %s from channel %s: got %T", e.DataType, e.Channel, e.Got)
}

// ErrorHandler receives errors that cannot be returned to a caller, such as
// failures on event channels or panics in button callbacks.
type ErrorHandler interface {
	// HandleError is called when an error occurs.
	HandleError(err *Error)
	// HandlePanic is called when a panic is recovered.
	HandlePanic(err *PanicError)
}
