// File: cmd/bulk.go
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/xkilldash9x/wasend-cli/internal/browser"
	"github.com/xkilldash9x/wasend-cli/internal/campaign"
	"github.com/xkilldash9x/wasend-cli/internal/contacts"
	"github.com/xkilldash9x/wasend-cli/internal/dispatch"
	"github.com/xkilldash9x/wasend-cli/internal/events"
	"github.com/xkilldash9x/wasend-cli/internal/model"
	"github.com/xkilldash9x/wasend-cli/internal/observability"
)

// newBulkCmd creates the `bulk` command: one message to every contact in a
// CSV file. The first interrupt requests a cooperative stop after the
// in-flight send; a second interrupt aborts immediately.
func newBulkCmd() *cobra.Command {
	bulkCmd := &cobra.Command{
		Use:   "bulk",
		Short: "Sends one message to every contact in a CSV file",
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return viper.BindPFlags(cmd.Flags())
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := observability.GetLogger()

			// Flags override the resolved config only when passed explicitly.
			applyCampaignFlagOverrides(cmd.Flags())

			contactList, err := contacts.NewImporter(logger).ReadFile(viper.GetString("file"))
			if err != nil {
				return fmt.Errorf("failed to import contacts: %w", err)
			}

			message, err := buildMessage()
			if err != nil {
				return err
			}

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			evCh := make(chan events.Event, 256)
			manager := browser.NewManager(cfg, logger, events.ChannelSink(evCh))
			defer manager.Close()

			dispatcher := dispatch.New(manager, cfg, logger, events.ChannelSink(evCh))
			runner := campaign.NewRunner(dispatcher, cfg, logger, events.ChannelSink(evCh))

			sigCh := make(chan os.Signal, 2)
			signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
			defer signal.Stop(sigCh)
			go func() {
				for first := true; ; first = false {
					select {
					case <-ctx.Done():
						return
					case <-sigCh:
						if first {
							logger.Info("Interrupt received; finishing the current send")
							runner.Cancel()
						} else {
							logger.Warn("Second interrupt; aborting")
							cancel()
						}
					}
				}
			}()

			printer := printerSink(cmd.OutOrStdout())
			var failed []string
			var result campaign.Result

			g := new(errgroup.Group)
			g.Go(func() error {
				defer close(evCh)
				var runErr error
				result, runErr = runner.Run(ctx, contactList, message, cfg.Campaign.DefaultDelay)
				return runErr
			})
			g.Go(func() error {
				for e := range evCh {
					printer(e)
					if e.Kind == events.KindContactResult && !e.OK {
						failed = append(failed, e.Phone)
					}
				}
				return nil
			})
			runErr := g.Wait()

			fmt.Fprintf(cmd.OutOrStdout(), "\n%d sent, %d failed, %d of %d attempted\n",
				result.Successes, result.Failures, result.Attempted, result.Total)
			if result.Cancelled {
				fmt.Fprintln(cmd.OutOrStdout(), "Run was cancelled before completion.")
			}

			if out := viper.GetString("failed-out"); out != "" && len(failed) > 0 {
				if err := writeFailedContacts(out, contactList, failed); err != nil {
					logger.Error("Could not write failed-contacts file", zap.Error(err))
				} else {
					fmt.Fprintf(cmd.OutOrStdout(), "Failed contacts written to %s\n", out)
				}
			}

			return runErr
		},
	}

	bulkCmd.Flags().StringP("file", "f", "", "CSV file of contacts. Requires a 'phone' or 'number' column.")
	bulkCmd.Flags().StringP("message", "m", "", "Message text. Supports %NAME%, %PHONE% and %DATE% tokens.")
	bulkCmd.Flags().StringP("template-file", "t", "", "Read the message text from a template file instead of --message.")
	bulkCmd.Flags().StringArrayP("attach", "a", nil, "Attachment file path. May be repeated.")
	bulkCmd.Flags().DurationP("delay", "d", 0, "Delay between consecutive sends. (Overrides config/env)")
	bulkCmd.Flags().Int("rate", 0, "Maximum messages per minute, 0 for unlimited. (Overrides config/env)")
	bulkCmd.Flags().String("country-code", "", "Country code prepended to numbers that lack one. (Overrides config/env)")
	bulkCmd.Flags().Bool("headless", false, "Run the browser without a window. Requires a previously saved login.")
	bulkCmd.Flags().String("failed-out", "", "Write contacts that failed to a CSV file for a retry run.")
	_ = bulkCmd.MarkFlagRequired("file")

	return bulkCmd
}

// writeFailedContacts exports the subset of the contact list whose phones
// appear in the failure list, preserving input order.
func writeFailedContacts(path string, contactList []model.Contact, failedPhones []string) error {
	failed := make(map[string]bool, len(failedPhones))
	for _, p := range failedPhones {
		failed[p] = true
	}
	var subset []model.Contact
	for _, c := range contactList {
		if failed[c.Phone] {
			subset = append(subset, c)
		}
	}
	return contacts.WriteFile(path, subset)
}
