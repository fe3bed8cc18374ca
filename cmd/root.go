// File: cmd/root.go
package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/xkilldash9x/wasend-cli/internal/config"
	"github.com/xkilldash9x/wasend-cli/internal/observability"
	"github.com/xkilldash9x/wasend-cli/internal/settings"
)

var (
	cfgFile string
	// cfg is the resolved configuration shared by all subcommands. It is
	// populated in PersistentPreRunE before any RunE fires.
	cfg *config.Config
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "wasend",
	Short: "wasend automates sending WhatsApp messages through WhatsApp Web.",
	// Version is dynamically set at build time. See cmd/version.go.
	Version: Version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Runs before any command, setting up config and logging.
		_ = godotenv.Load()

		if err := initializeConfig(); err != nil {
			return err
		}

		loaded, err := config.Load(viper.GetViper())
		if err != nil {
			// Initialize a fallback logger so the failure is still reported
			// through the normal channel.
			observability.InitializeLogger(config.LoggerConfig{Level: "info", Format: "console", ServiceName: "wasend"})
			return err
		}
		cfg = loaded

		observability.InitializeLogger(cfg.Logger)
		applyStoredSettings(cfg)

		observability.GetLogger().Debug("Starting wasend", zap.String("version", Version))
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	defer observability.Sync()
	if err := rootCmd.Execute(); err != nil {
		if logger := observability.GetLogger(); logger != nil {
			logger.Error("Command execution failed", zap.Error(err))
		} else {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default is ./config.yaml)")
	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)

	rootCmd.AddCommand(newLoginCmd())
	rootCmd.AddCommand(newSendCmd())
	rootCmd.AddCommand(newBulkCmd())
	rootCmd.AddCommand(newContactsCmd())
	rootCmd.AddCommand(newSettingsCmd())
	rootCmd.AddCommand(newLogsCmd())
	rootCmd.AddCommand(newVersionCmd())
}

// initializeConfig reads in config file and ENV variables if set.
func initializeConfig() error {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("WASEND")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found; proceed with defaults and env vars.
	}
	return nil
}

// applyStoredSettings overlays the operator settings document onto the
// config, for keys the config file and environment did not set explicitly.
// Flags still win because they are bound to viper keys per command.
func applyStoredSettings(cfg *config.Config) {
	logger := observability.GetLogger()
	store, err := settings.Open(settings.DefaultPath(), logger)
	if err != nil {
		logger.Warn("Ignoring unreadable settings file", zap.Error(err))
		return
	}

	if !viper.IsSet("whatsapp.country_code") && store.IsSet(settings.KeyCountryCode) {
		cfg.WhatsApp.CountryCode = store.GetString(settings.KeyCountryCode)
	}
	if !viper.IsSet("campaign.default_delay") && store.IsSet(settings.KeyDefaultDelay) {
		if d := store.GetDuration(settings.KeyDefaultDelay); d > 0 {
			cfg.Campaign.DefaultDelay = d
		}
	}
	if !viper.IsSet("whatsapp.composer_timeout") && store.IsSet(settings.KeyTimeout) {
		if d := store.GetDuration(settings.KeyTimeout); d > 0 {
			cfg.WhatsApp.ComposerTimeout = d
		}
	}
	if !viper.IsSet("browser.headless") && store.IsSet(settings.KeyHeadlessMode) {
		cfg.Browser.Headless = store.GetBool(settings.KeyHeadlessMode)
	}
	if !viper.IsSet("browser.persist_session") && store.IsSet(settings.KeyPersistSession) {
		cfg.Browser.PersistSession = store.GetBool(settings.KeyPersistSession)
	}
}
