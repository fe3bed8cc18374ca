// File: internal/model/contact.go
package model

import (
	"errors"
	"fmt"
	"strings"
)

// ErrEmptyPhone is returned when a contact is constructed without any
// usable phone digits. Such a contact must never enter a campaign.
var ErrEmptyPhone = errors.New("contact has no phone number")

// DisplayNameFallback is substituted for %NAME% when a contact has no name.
const DisplayNameFallback = "Friend"

// Contact describes one message recipient. The phone number is normalized
// at construction time to digits plus an optional leading '+'.
type Contact struct {
	Phone        string            `json:"phone"`
	Name         string            `json:"name"`
	Email        string            `json:"email"`
	Group        string            `json:"group"`
	CustomFields map[string]string `json:"custom_fields,omitempty"`
}

// NewContact normalizes the phone number and rejects contacts without one.
func NewContact(phone, name, email, group string) (Contact, error) {
	cleaned := normalizePhone(phone)
	if cleaned == "" || cleaned == "+" {
		return Contact{}, fmt.Errorf("%w (raw input %q)", ErrEmptyPhone, phone)
	}
	return Contact{
		Phone:        cleaned,
		Name:         name,
		Email:        email,
		Group:        group,
		CustomFields: map[string]string{},
	}, nil
}

// normalizePhone keeps digits and a leading '+' only.
func normalizePhone(phone string) string {
	var b strings.Builder
	for i, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		} else if r == '+' && i == 0 {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// DisplayName returns the contact's name, or the phone number when unnamed.
func (c Contact) DisplayName() string {
	if c.Name != "" {
		return c.Name
	}
	return c.Phone
}

func (c Contact) String() string {
	return fmt.Sprintf("%s (%s)", c.DisplayName(), c.Phone)
}
