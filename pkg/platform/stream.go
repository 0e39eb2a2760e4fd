package platform

import "github.com/go-drift/notify/pkg/errors"

// Stream is an EventChannel whose events are parsed into T before they
// reach listeners. Each listener sees every event.
type Stream[T any] struct {
	channel *EventChannel
	parse   func(data any) (T, error)
}

// NewStream wraps channel. Events that parse fails on are reported through
// errors.Report with KindParsing and dropped.
func NewStream[T any](channel *EventChannel, parse func(data any) (T, error)) *Stream[T] {
	return &Stream[T]{channel: channel, parse: parse}
}

// Listen subscribes handler and returns the function that unsubscribes it.
func (s *Stream[T]) Listen(handler func(T)) (unsubscribe func()) {
	name := s.channel.Name()
	sub := s.channel.Listen(EventHandler{
		OnEvent: func(data any) {
			v, err := s.parse(data)
			if err != nil {
				errors.Report(&errors.Error{
					Op:      "platform.Stream.parse",
					Kind:    errors.KindParsing,
					Channel: name,
					Err:     err,
				})
				return
			}
			handler(v)
		},
		OnError: func(err error) {
			reportStream("platform.Stream", name, err)
		},
	})
	return sub.Cancel
}
