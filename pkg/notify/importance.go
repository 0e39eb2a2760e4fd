package notify

import "fmt"

// Importance is the priority of a notification channel, from most to least
// intrusive. The zero value is ImportanceUrgent.
type Importance int

const (
	ImportanceUrgent Importance = iota
	ImportanceHigh
	ImportanceMedium
	ImportanceLow
	ImportanceNone
)

var importanceNames = [...]string{
	ImportanceUrgent: "urgent",
	ImportanceHigh:   "high",
	ImportanceMedium: "medium",
	ImportanceLow:    "low",
	ImportanceNone:   "none",
}

// String returns the backend wire value of the importance.
func (i Importance) String() string {
	if i < 0 || int(i) >= len(importanceNames) {
		return fmt.Sprintf("Importance(%d)", int(i))
	}
	return importanceNames[i]
}

// ParseImportance parses a wire value such as "high".
func ParseImportance(s string) (Importance, error) {
	for i, name := range importanceNames {
		if name == s {
			return Importance(i), nil
		}
	}
	return ImportanceUrgent, fmt.Errorf("notify: unknown importance %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (i Importance) MarshalText() ([]byte, error) {
	if i < 0 || int(i) >= len(importanceNames) {
		return nil, fmt.Errorf("notify: invalid importance %d", int(i))
	}
	return []byte(i.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (i *Importance) UnmarshalText(text []byte) error {
	parsed, err := ParseImportance(string(text))
	if err != nil {
		return err
	}
	*i = parsed
	return nil
}
