package obs

import "fmt"

// NewError creates a new error carrying msg. The SMS core never
// returns an error — every operational anomaly is counted, not
// propagated, and construction panics on invalid sizing — so nothing
// in the core calls these helpers.
func NewError(msg string) error {
	return fmt.Errorf("%s", msg)
}

// WrapError wraps err with additional context, or creates a bare error
// from msg if err is nil.
func WrapError(err error, msg string) error {
	if err == nil {
		return fmt.Errorf("%s", msg)
	}
	return fmt.Errorf("%s: %w", msg, err)
}
