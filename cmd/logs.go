// File: cmd/logs.go
package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/xkilldash9x/wasend-cli/internal/observability"
)

// newLogsCmd creates the `logs` command group.
func newLogsCmd() *cobra.Command {
	logsCmd := &cobra.Command{
		Use:   "logs",
		Short: "Works with the structured log file",
	}
	logsCmd.AddCommand(newLogsExportCmd())
	return logsCmd
}

// newLogsExportCmd renders the structured JSON log file as plain text lines.
func newLogsExportCmd() *cobra.Command {
	exportCmd := &cobra.Command{
		Use:   "export <out.log>",
		Short: "Exports the JSON log file as plain '[timestamp] [LEVEL] message' lines",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, _ := cmd.Flags().GetString("input")
			if src == "" {
				src = cfg.Logger.LogFile
			}
			if src == "" {
				return errors.New("no log file configured; set logger.log_file or pass --input")
			}
			if err := observability.ExportLogFile(src, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Log exported to %s\n", args[0])
			return nil
		},
	}
	exportCmd.Flags().String("input", "", "Structured log file to export (default is logger.log_file from config).")
	return exportCmd
}
