// File: internal/model/message.go
package model

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Personalization tokens, matched as literal, case-sensitive substrings.
const (
	PlaceholderName  = "%NAME%"
	PlaceholderPhone = "%PHONE%"
	PlaceholderDate  = "%DATE%"
)

// Platform limits enforced by Validate. Exceeding either is a validation
// error, never a silent truncation.
const (
	MaxMessageLength  = 4096
	MaxAttachmentSize = 16 * 1024 * 1024
)

// ValidationError reports a message that violates a platform limit.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "invalid message: " + e.Reason
}

// Message is one outgoing message body with optional attachments.
type Message struct {
	Text          string       `json:"text"`
	Attachments   []Attachment `json:"attachments,omitempty"`
	ScheduledTime *time.Time   `json:"scheduled_time,omitempty"`
	TemplateName  string       `json:"template_name,omitempty"`
}

// Personalize substitutes the three placeholder tokens. An empty name maps
// to the literal fallback. The result is stable: substituting a second time
// is a no-op unless the inputs themselves contain placeholder tokens.
func (m Message) Personalize(name, phone string, now time.Time) string {
	text := m.Text
	if strings.Contains(text, PlaceholderName) {
		if name == "" {
			name = DisplayNameFallback
		}
		text = strings.ReplaceAll(text, PlaceholderName, name)
	}
	if strings.Contains(text, PlaceholderPhone) {
		text = strings.ReplaceAll(text, PlaceholderPhone, phone)
	}
	if strings.Contains(text, PlaceholderDate) {
		text = strings.ReplaceAll(text, PlaceholderDate, now.Format("2006-01-02"))
	}
	return text
}

// Validate rejects messages exceeding the platform limits. Attachment sizes
// are checked against the filesystem; a missing file is itself a violation.
func (m Message) Validate() error {
	if strings.TrimSpace(m.Text) == "" && len(m.Attachments) == 0 {
		return &ValidationError{Reason: "message has neither text nor attachments"}
	}
	if n := len([]rune(m.Text)); n > MaxMessageLength {
		return &ValidationError{Reason: fmt.Sprintf("text is %d characters, limit is %d", n, MaxMessageLength)}
	}
	for _, a := range m.Attachments {
		info, err := os.Stat(a.FilePath)
		if err != nil {
			return &ValidationError{Reason: fmt.Sprintf("attachment %s is not readable: %v", a.FilePath, err)}
		}
		if info.Size() > MaxAttachmentSize {
			return &ValidationError{Reason: fmt.Sprintf("attachment %s is %d bytes, limit is %d", a.FilePath, info.Size(), MaxAttachmentSize)}
		}
	}
	return nil
}

// HasAttachments reports whether any attachment is queued.
func (m Message) HasAttachments() bool {
	return len(m.Attachments) > 0
}

// AddAttachment appends a file unless it is already queued.
func (m *Message) AddAttachment(path string) {
	for _, a := range m.Attachments {
		if a.FilePath == path {
			return
		}
	}
	m.Attachments = append(m.Attachments, NewAttachment(path))
}

// IsScheduled reports whether the message carries a future-send timestamp.
func (m Message) IsScheduled() bool {
	return m.ScheduledTime != nil
}

// ShouldSendNow is true for unscheduled messages and for scheduled ones
// whose time has arrived.
func (m Message) ShouldSendNow(now time.Time) bool {
	if m.ScheduledTime == nil {
		return true
	}
	return !now.Before(*m.ScheduledTime)
}
