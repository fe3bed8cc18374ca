// File: internal/contacts/csv.go
package contacts

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/xkilldash9x/wasend-cli/internal/model"
)

// exportColumns is the fixed column order for exported contact files.
var exportColumns = []string{"name", "phone", "email", "group"}

// Importer reads contact lists from CSV files. Rows without a phone value
// are dropped silently; rows with a malformed phone are dropped with a
// warning so the operator can fix the source file.
type Importer struct {
	logger *zap.Logger
}

// NewImporter creates a CSV contact importer.
func NewImporter(logger *zap.Logger) *Importer {
	return &Importer{logger: logger.Named("contacts")}
}

// ReadFile loads contacts from a CSV file with a header row. The header must
// contain a "phone" or "number" column; "name", "email" and "group" are
// optional. Any other columns are captured as custom fields.
func (i *Importer) ReadFile(path string) ([]model.Contact, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open contact file: %w", err)
	}
	defer f.Close()

	list, err := i.Read(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	i.logger.Info("Loaded contacts", zap.String("path", path), zap.Int("count", len(list)))
	return list, nil
}

// Read parses CSV content from r.
func (i *Importer) Read(r io.Reader) ([]model.Contact, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header row: %w", err)
	}

	cols := make(map[string]int, len(header))
	for idx, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = idx
	}

	phoneCol, ok := cols["phone"]
	if !ok {
		phoneCol, ok = cols["number"]
	}
	if !ok {
		return nil, fmt.Errorf("contact file has no 'phone' or 'number' column")
	}

	field := func(record []string, name string) string {
		idx, ok := cols[name]
		if !ok || idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}

	var contacts []model.Contact
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("malformed record on line %d: %w", line, err)
		}

		rawPhone := ""
		if phoneCol < len(record) {
			rawPhone = strings.TrimSpace(record[phoneCol])
		}
		if rawPhone == "" {
			continue
		}
		if !ValidatePhone(rawPhone) {
			i.logger.Warn("Dropping contact with invalid phone",
				zap.Int("line", line), zap.String("phone", rawPhone))
			continue
		}

		contact, err := model.NewContact(rawPhone, field(record, "name"), field(record, "email"), field(record, "group"))
		if err != nil {
			i.logger.Warn("Dropping contact", zap.Int("line", line), zap.Error(err))
			continue
		}

		for name, idx := range cols {
			switch name {
			case "phone", "number", "name", "email", "group":
				continue
			}
			if idx < len(record) && strings.TrimSpace(record[idx]) != "" {
				contact.CustomFields[name] = strings.TrimSpace(record[idx])
			}
		}
		contacts = append(contacts, contact)
	}
	return contacts, nil
}

// WriteFile exports contacts to a CSV file in the fixed column order
// name, phone, email, group.
func WriteFile(path string, list []model.Contact) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create export file: %w", err)
	}
	defer f.Close()
	return Write(f, list)
}

// Write exports contacts as CSV to w.
func Write(w io.Writer, list []model.Contact) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(exportColumns); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, c := range list {
		if err := writer.Write([]string{c.Name, c.Phone, c.Email, c.Group}); err != nil {
			return fmt.Errorf("failed to write contact %s: %w", c.Phone, err)
		}
	}
	writer.Flush()
	return writer.Error()
}
