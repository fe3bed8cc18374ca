// File: cmd/settings.go
package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/xkilldash9x/wasend-cli/internal/observability"
	"github.com/xkilldash9x/wasend-cli/internal/settings"
)

// newSettingsCmd creates the `settings` command group operating on the
// persistent operator settings document.
func newSettingsCmd() *cobra.Command {
	settingsCmd := &cobra.Command{
		Use:   "settings",
		Short: "Reads, writes, backs up and restores persistent settings",
	}
	settingsCmd.PersistentFlags().String("settings-file", "", "Settings file path (default is ~/.wasend/settings.json).")
	settingsCmd.AddCommand(newSettingsListCmd())
	settingsCmd.AddCommand(newSettingsGetCmd())
	settingsCmd.AddCommand(newSettingsSetCmd())
	settingsCmd.AddCommand(newSettingsBackupCmd())
	settingsCmd.AddCommand(newSettingsRestoreCmd())
	return settingsCmd
}

func openSettings(cmd *cobra.Command) (*settings.Store, error) {
	path, _ := cmd.Flags().GetString("settings-file")
	if path == "" {
		path = viper.GetString("settings-file")
	}
	if path == "" {
		path = settings.DefaultPath()
	}
	return settings.Open(path, observability.GetLogger())
}

func newSettingsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Prints every setting",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openSettings(cmd)
			if err != nil {
				return err
			}
			all := store.All()
			keys := make([]string, 0, len(all))
			for k := range all {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				fmt.Fprintf(cmd.OutOrStdout(), "%s = %v\n", k, all[k])
			}
			return nil
		},
	}
}

func newSettingsGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Prints one setting",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openSettings(cmd)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%v\n", store.Get(args[0]))
			return nil
		},
	}
}

func newSettingsSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Stores one setting and saves the document",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openSettings(cmd)
			if err != nil {
				return err
			}
			store.Set(args[0], args[1])
			return store.Save()
		},
	}
}

func newSettingsBackupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "backup <file>",
		Short: "Dumps the settings document to a backup file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openSettings(cmd)
			if err != nil {
				return err
			}
			return store.Backup(args[0])
		},
	}
}

func newSettingsRestoreCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "restore <file>",
		Short: "Replaces the settings document with a backup and saves it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openSettings(cmd)
			if err != nil {
				return err
			}
			return store.Restore(args[0])
		},
	}
}
