// File: internal/browser/errors.go
package browser

import (
	"errors"
	"fmt"
)

var (
	// ErrNotLoggedIn is returned when an operation requires a verified
	// session and none exists.
	ErrNotLoggedIn = errors.New("not logged in to WhatsApp Web")

	// ErrLoginTimeout is returned when the login confirmation never appears
	// within the long QR wait.
	ErrLoginTimeout = errors.New("login timeout: QR code was not scanned in time")

	// ErrSessionLost is returned when a mode switch cannot re-verify login.
	// Headless Chrome may resolve to a different profile state; that is
	// outside our control and is surfaced, never masked.
	ErrSessionLost = errors.New("session lost: login could not be re-verified after mode switch")
)

// DriverInitError reports that the browser process could not be started.
type DriverInitError struct {
	Cause error
}

func (e *DriverInitError) Error() string {
	return fmt.Sprintf("failed to initialize browser driver: %v", e.Cause)
}

func (e *DriverInitError) Unwrap() error { return e.Cause }
