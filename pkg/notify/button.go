package notify

// MaxButtons is the number of action buttons a notification can carry.
const MaxButtons = 3

// Button is an action shown under a notification. Action runs when the user
// taps the button; it is invoked by the backend, never by this package.
type Button struct {
	Label  string
	Action func()
}
