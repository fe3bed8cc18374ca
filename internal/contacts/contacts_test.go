// File: internal/contacts/contacts_test.go
package contacts

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xkilldash9x/wasend-cli/internal/model"
)

func TestCleanPhone(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"+1 (415) 555-1234", "14155551234"},
		{"0049-170/1234567", "00491701234567"},
		{"+", ""},
		{"abc", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CleanPhone(tt.input), "input %q", tt.input)
	}
}

func TestValidatePhone(t *testing.T) {
	assert.False(t, ValidatePhone("123"), "3 digits is too short")
	assert.True(t, ValidatePhone("1234567"), "7 digits is the lower bound")
	assert.True(t, ValidatePhone("14155551234"), "11 digits")
	assert.True(t, ValidatePhone("123456789012345"), "15 digits is the upper bound")
	assert.False(t, ValidatePhone("1234567890123456"), "16 digits is too long")
	assert.True(t, ValidatePhone("+1 (415) 555-1234"), "formatting is stripped before counting")
}

func TestFormatPhone(t *testing.T) {
	assert.Equal(t, "491701234567", FormatPhone("170 1234567", "49"))
	assert.Equal(t, "491701234567", FormatPhone("+49 170 1234567", "49"), "country code not doubled")
	assert.Equal(t, "1701234567", FormatPhone("170 1234567", ""))
	assert.Equal(t, "491701234567", FormatPhone("170 1234567", "+49"), "country code formatting is stripped")
	assert.Equal(t, "491701234567", FormatPhone("+49 170 1234567", "+49"), "cleaned code still prefix-matches")
}

func TestImporterRead(t *testing.T) {
	logger := zap.NewNop()
	imp := NewImporter(logger)

	t.Run("basic import with custom fields", func(t *testing.T) {
		in := strings.NewReader(
			"name,phone,email,group,company\n" +
				"Alice,+1 415 5551234,alice@example.com,vip,Acme\n" +
				"Bob,,bob@example.com,,\n" + // no phone: dropped silently
				"Carol,123,,,\n" + // too short: dropped with warning
				",4915771234567,,,\n")
		list, err := imp.Read(in)
		require.NoError(t, err)
		require.Len(t, list, 2)

		assert.Equal(t, "+14155551234", list[0].Phone)
		assert.Equal(t, "Alice", list[0].Name)
		assert.Equal(t, "vip", list[0].Group)
		assert.Equal(t, "Acme", list[0].CustomFields["company"])

		assert.Equal(t, "4915771234567", list[1].Phone)
		assert.Empty(t, list[1].Name)
	})

	t.Run("number column accepted as phone", func(t *testing.T) {
		list, err := imp.Read(strings.NewReader("number,name\n5551234567,Dave\n"))
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, "5551234567", list[0].Phone)
	})

	t.Run("missing phone column rejected", func(t *testing.T) {
		_, err := imp.Read(strings.NewReader("name,email\nAlice,a@b.c\n"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no 'phone' or 'number' column")
	})
}

func TestWriteFixedColumnOrder(t *testing.T) {
	alice, err := model.NewContact("+14155551234", "Alice", "alice@example.com", "vip")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, []model.Contact{alice}))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "name,phone,email,group", lines[0])
	assert.Equal(t, "Alice,+14155551234,alice@example.com,vip", lines[1])
}

func TestTemplateRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "greeting.txt")
	body := "Hi %NAME%,\nyour offer expires on %DATE%."

	require.NoError(t, SaveTemplate(path, body))
	got, err := ReadTemplate(path)
	require.NoError(t, err)
	assert.Equal(t, body, got)
}

func TestReadTemplateMissingFile(t *testing.T) {
	_, err := ReadTemplate(filepath.Join(t.TempDir(), "absent.txt"))
	assert.Error(t, err)
}

func TestImportExportRoundTrip(t *testing.T) {
	imp := NewImporter(zap.NewNop())
	orig, err := imp.Read(strings.NewReader("phone,name\n5551234567,Eve\n"))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, orig))

	again, err := imp.Read(&buf)
	require.NoError(t, err)
	require.Len(t, again, 1)
	assert.Equal(t, orig[0].Phone, again[0].Phone)
	assert.Equal(t, orig[0].Name, again[0].Name)
}
