// File: cmd/contacts.go
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/xkilldash9x/wasend-cli/internal/contacts"
	"github.com/xkilldash9x/wasend-cli/internal/observability"
)

// newContactsCmd creates the `contacts` command group for working with
// contact CSV files without sending anything.
func newContactsCmd() *cobra.Command {
	contactsCmd := &cobra.Command{
		Use:   "contacts",
		Short: "Validates and converts contact CSV files",
	}
	contactsCmd.AddCommand(newContactsCheckCmd())
	contactsCmd.AddCommand(newContactsExportCmd())
	return contactsCmd
}

// newContactsCheckCmd reports how many rows of a CSV survive import.
func newContactsCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check <file.csv>",
		Short: "Imports a CSV and reports which contacts are usable",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			list, err := contacts.NewImporter(observability.GetLogger()).ReadFile(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d usable contacts in %s\n", len(list), args[0])
			for _, c := range list {
				fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", c)
			}
			return nil
		},
	}
}

// newContactsExportCmd re-exports an imported CSV in the canonical column
// order with normalized phone numbers.
func newContactsExportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export <in.csv> <out.csv>",
		Short: "Rewrites a contact CSV with normalized phones and canonical columns",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			list, err := contacts.NewImporter(observability.GetLogger()).ReadFile(args[0])
			if err != nil {
				return err
			}
			if err := contacts.WriteFile(args[1], list); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d contacts to %s\n", len(list), args[1])
			return nil
		},
	}
}
