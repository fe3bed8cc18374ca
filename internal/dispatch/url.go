// File: internal/dispatch/url.go
package dispatch

import (
	"fmt"
	"strings"

	"github.com/xkilldash9x/wasend-cli/internal/contacts"
)

// ChatURL builds the deep link that pre-selects a conversation. The phone
// parameter is digits-only; the country code is prepended only when the
// cleaned number does not already start with it.
func ChatURL(baseURL, phone, countryCode string) string {
	digits := contacts.FormatPhone(phone, countryCode)
	return fmt.Sprintf("%s/send?phone=%s&type=phone_number&app_absent=0",
		strings.TrimRight(baseURL, "/"), digits)
}

// splitLines normalizes line endings and splits message text into the
// segments typed between soft-newline keystrokes.
func splitLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	return strings.Split(text, "\n")
}
