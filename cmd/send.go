// File: cmd/send.go
package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/xkilldash9x/wasend-cli/internal/browser"
	"github.com/xkilldash9x/wasend-cli/internal/contacts"
	"github.com/xkilldash9x/wasend-cli/internal/dispatch"
	"github.com/xkilldash9x/wasend-cli/internal/model"
	"github.com/xkilldash9x/wasend-cli/internal/observability"
)

// newSendCmd creates the `send` command for a single message to one contact.
func newSendCmd() *cobra.Command {
	sendCmd := &cobra.Command{
		Use:   "send <phone>",
		Short: "Sends one message to one phone number",
		Args:  cobra.ExactArgs(1),
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return viper.BindPFlags(cmd.Flags())
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := observability.GetLogger()

			// Flags override the resolved config only when passed explicitly.
			applySessionFlagOverrides(cmd.Flags())

			contact, err := model.NewContact(args[0], viper.GetString("name"), "", "")
			if err != nil {
				return err
			}

			message, err := buildMessage()
			if err != nil {
				return err
			}

			sink := printerSink(cmd.OutOrStdout())
			manager := browser.NewManager(cfg, logger, sink)
			defer manager.Close()

			dispatcher := dispatch.New(manager, cfg, logger, sink)
			if err := dispatcher.Send(ctx, contact, message, cfg.WhatsApp.CountryCode); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Message sent to %s\n", contact.Phone)
			return nil
		},
	}

	sendCmd.Flags().StringP("message", "m", "", "Message text. Supports %NAME%, %PHONE% and %DATE% tokens.")
	sendCmd.Flags().StringP("template-file", "t", "", "Read the message text from a template file instead of --message.")
	sendCmd.Flags().StringArrayP("attach", "a", nil, "Attachment file path. May be repeated.")
	sendCmd.Flags().String("name", "", "Contact name used for %NAME% personalization.")
	sendCmd.Flags().String("country-code", "", "Country code prepended to numbers that lack one. (Overrides config/env)")
	sendCmd.Flags().Bool("headless", false, "Run the browser without a window. Requires a previously saved login.")

	return sendCmd
}

// buildMessage assembles the outgoing message from the resolved flag values.
func buildMessage() (model.Message, error) {
	text := viper.GetString("message")
	templateFile := viper.GetString("template-file")

	if text != "" && templateFile != "" {
		return model.Message{}, errors.New("--message and --template-file are mutually exclusive")
	}
	if templateFile != "" {
		body, err := contacts.ReadTemplate(templateFile)
		if err != nil {
			return model.Message{}, fmt.Errorf("failed to read template: %w", err)
		}
		text = body
	}

	message := model.Message{Text: text, TemplateName: templateFile}
	for _, path := range viper.GetStringSlice("attach") {
		message.AddAttachment(path)
	}
	if err := message.Validate(); err != nil {
		return model.Message{}, err
	}
	return message, nil
}
