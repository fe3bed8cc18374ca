// File: cmd/login.go
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/xkilldash9x/wasend-cli/internal/browser"
	"github.com/xkilldash9x/wasend-cli/internal/observability"
)

// newLoginCmd creates the `login` command. It opens a visible browser so the
// operator can scan the QR code, then persists the session profile.
func newLoginCmd() *cobra.Command {
	loginCmd := &cobra.Command{
		Use:   "login",
		Short: "Opens WhatsApp Web and waits for a QR-code login",
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return viper.BindPFlags(cmd.Flags())
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := observability.GetLogger()

			manager := browser.NewManager(cfg, logger, printerSink(cmd.OutOrStdout()))
			defer manager.Close()

			// Login always starts visible; the QR code must be scannable.
			if err := manager.EnsureSession(ctx, browser.ModeGUI); err != nil {
				return fmt.Errorf("login failed: %w", err)
			}

			if viper.GetBool("verify-headless") {
				logger.Info("Verifying the saved session in headless mode")
				if err := manager.SwitchToHeadless(ctx); err != nil {
					return fmt.Errorf("session does not survive headless mode: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Session verified in headless mode.")
			}

			logger.Info("Login complete", zap.String("profile_dir", cfg.Browser.ProfileDir))
			fmt.Fprintln(cmd.OutOrStdout(), "Logged in. The session is saved for future sends.")
			return nil
		},
	}

	loginCmd.Flags().Bool("verify-headless", false, "After login, restart headless and confirm the session was persisted.")
	return loginCmd
}
