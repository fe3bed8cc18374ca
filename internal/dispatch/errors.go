// File: internal/dispatch/errors.go
package dispatch

import (
	"fmt"

	"github.com/xkilldash9x/wasend-cli/internal/model"
)

// ComposerNotFoundError reports that neither the primary nor any fallback
// composer locator appeared within the timeout.
type ComposerNotFoundError struct {
	Cause error
}

func (e *ComposerNotFoundError) Error() string {
	return fmt.Sprintf("message composer not found (chat may not have loaded): %v", e.Cause)
}

func (e *ComposerNotFoundError) Unwrap() error { return e.Cause }

// AttachmentError reports a failed attachment upload sequence. It aborts
// the whole send; the text path is never attempted afterwards.
type AttachmentError struct {
	Path  string
	Cause error
}

func (e *AttachmentError) Error() string {
	return fmt.Sprintf("failed to attach %s: %v", e.Path, e.Cause)
}

func (e *AttachmentError) Unwrap() error { return e.Cause }

// SendFailedError wraps any fault during a single contact's send, carrying
// the contact identity so the operator can locate the record. Per-contact
// failures never propagate raw.
type SendFailedError struct {
	Contact model.Contact
	Cause   error
}

func (e *SendFailedError) Error() string {
	return fmt.Sprintf("failed to send message to %s: %v", e.Contact, e.Cause)
}

func (e *SendFailedError) Unwrap() error { return e.Cause }
