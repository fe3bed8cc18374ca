// File: cmd/events.go
package cmd

import (
	"fmt"
	"io"

	"github.com/xkilldash9x/wasend-cli/internal/events"
)

// printerSink renders core events as human-readable console lines.
func printerSink(w io.Writer) events.Sink {
	return func(e events.Event) {
		switch e.Kind {
		case events.KindProgress:
			fmt.Fprintf(w, "progress: %d%%\n", e.Percent)
		case events.KindContactResult:
			if e.OK {
				fmt.Fprintf(w, "sent: %s\n", e.Phone)
			} else {
				fmt.Fprintf(w, "FAILED: %s (%v)\n", e.Phone, e.Err)
			}
		case events.KindError:
			fmt.Fprintf(w, "error: %s\n", e.Message)
		default:
			fmt.Fprintln(w, e.Message)
		}
	}
}
