// File: internal/events/events.go
// Description: The event stream the core emits toward the presentation
// layer. The core never touches UI state; a presentation layer subscribes
// by providing a Sink (or a channel wrapped by ChannelSink).
package events

import "fmt"

// Kind discriminates event payloads.
type Kind int

const (
	// KindStatus is a human-readable progress note.
	KindStatus Kind = iota
	// KindLoginRequired signals that the operator must scan the QR code.
	KindLoginRequired
	// KindLoggedIn signals a verified WhatsApp Web session.
	KindLoggedIn
	// KindProgress carries the integer campaign completion percentage.
	KindProgress
	// KindContactResult reports one attempted dispatch.
	KindContactResult
	// KindCompleted is the single terminal event of a campaign run.
	KindCompleted
	// KindError reports a failure distinct from normal status.
	KindError
)

func (k Kind) String() string {
	switch k {
	case KindStatus:
		return "status"
	case KindLoginRequired:
		return "login_required"
	case KindLoggedIn:
		return "logged_in"
	case KindProgress:
		return "progress"
	case KindContactResult:
		return "contact_result"
	case KindCompleted:
		return "completed"
	case KindError:
		return "error"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Event is one notification flowing from the core to the operator.
type Event struct {
	Kind       Kind
	CampaignID string
	Message    string
	// Percent is set on KindProgress events.
	Percent int
	// Phone and OK are set on KindContactResult events. Phone carries the
	// offending contact's number so operators can locate the record.
	Phone string
	OK    bool
	Err   error
	// Successes and Failures are set on KindCompleted events.
	Successes int
	Failures  int
}

// Sink consumes events. Implementations must not block for long; the core
// emits synchronously from its worker.
type Sink func(Event)

// Discard is a Sink that drops every event.
func Discard(Event) {}

// ChannelSink adapts a buffered channel into a Sink. Events are dropped
// when the channel is full rather than blocking the sender.
func ChannelSink(ch chan<- Event) Sink {
	return func(e Event) {
		select {
		case ch <- e:
		default:
		}
	}
}

// Status builds a status event.
func Status(msg string) Event { return Event{Kind: KindStatus, Message: msg} }

// LoginRequired builds a login-required event.
func LoginRequired() Event {
	return Event{Kind: KindLoginRequired, Message: "Please scan the QR code to login"}
}

// LoggedIn builds a logged-in event.
func LoggedIn() Event { return Event{Kind: KindLoggedIn, Message: "Logged in to WhatsApp Web"} }

// Progress builds a progress event.
func Progress(campaignID string, percent int) Event {
	return Event{Kind: KindProgress, CampaignID: campaignID, Percent: percent}
}

// ContactResult builds a per-contact result event.
func ContactResult(campaignID, phone string, err error) Event {
	return Event{Kind: KindContactResult, CampaignID: campaignID, Phone: phone, OK: err == nil, Err: err}
}

// Completed builds the terminal campaign event.
func Completed(campaignID string, successes, failures int) Event {
	return Event{
		Kind:       KindCompleted,
		CampaignID: campaignID,
		Successes:  successes,
		Failures:   failures,
		Message:    fmt.Sprintf("Bulk sending completed: %d successful, %d failed", successes, failures),
	}
}

// Error builds an error event.
func Error(err error) Event { return Event{Kind: KindError, Err: err, Message: err.Error()} }
