// File: internal/observability/export.go
package observability

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
)

// logEntry mirrors the subset of the JSON file-core output needed for the
// plain-text export.
type logEntry struct {
	Timestamp string `json:"ts"`
	Level     string `json:"level"`
	Message   string `json:"msg"`
}

// ExportPlainText renders the structured (JSON) log stream as operator
// friendly plain text, one "[timestamp] [LEVEL] message" line per entry.
// Lines that fail to parse are copied through untouched so a partially
// corrupted log still exports.
func ExportPlainText(src io.Reader, dst io.Writer) error {
	scanner := bufio.NewScanner(src)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	w := bufio.NewWriter(dst)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var entry logEntry
		if err := json.Unmarshal(line, &entry); err != nil || entry.Timestamp == "" {
			if _, err := fmt.Fprintf(w, "%s\n", line); err != nil {
				return err
			}
			continue
		}
		if _, err := fmt.Fprintf(w, "[%s] [%s] %s\n", entry.Timestamp, strings.ToUpper(entry.Level), entry.Message); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to scan log stream: %w", err)
	}
	return w.Flush()
}

// ExportLogFile converts the structured log file at srcPath into a plain
// text file at dstPath.
func ExportLogFile(srcPath, dstPath string) error {
	src, err := os.Open(srcPath)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer src.Close()

	dst, err := os.Create(dstPath)
	if err != nil {
		return fmt.Errorf("failed to create export file: %w", err)
	}
	defer dst.Close()

	return ExportPlainText(src, dst)
}
