// File: internal/contacts/template.go
package contacts

import (
	"fmt"
	"os"
)

// ReadTemplate loads a message template body from a plain text file.
func ReadTemplate(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read template %s: %w", path, err)
	}
	return string(data), nil
}

// SaveTemplate writes a message template body to a plain text file.
func SaveTemplate(path, content string) error {
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("failed to save template %s: %w", path, err)
	}
	return nil
}
