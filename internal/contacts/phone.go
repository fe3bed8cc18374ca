// File: internal/contacts/phone.go
package contacts

import "strings"

// CleanPhone strips everything but digits. The deep-link phone parameter is
// digits-only: a leading '+' kept by contact normalization is dropped here.
func CleanPhone(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ValidatePhone accepts numbers with 7 to 15 digits inclusive, after
// stripping any formatting characters.
func ValidatePhone(phone string) bool {
	n := len(CleanPhone(phone))
	return n >= 7 && n <= 15
}

// FormatPhone cleans the number and prepends the country code only when the
// cleaned number does not already start with it. The country code is cleaned
// too, so "+49" and "49" behave identically and the result stays digits-only.
func FormatPhone(phone, countryCode string) string {
	cleaned := CleanPhone(phone)
	code := CleanPhone(countryCode)
	if code != "" && !strings.HasPrefix(cleaned, code) {
		cleaned = code + cleaned
	}
	return cleaned
}
