// File: cmd/flags.go
package cmd

import "github.com/spf13/pflag"

// applySessionFlagOverrides copies session-related flags onto the resolved
// config, but only when the operator actually passed them. An untouched flag
// must never clobber a value from the config file, environment, or the
// stored settings document with its own default.
func applySessionFlagOverrides(flags *pflag.FlagSet) {
	if flags.Changed("country-code") {
		cfg.WhatsApp.CountryCode, _ = flags.GetString("country-code")
	}
	if flags.Changed("headless") {
		cfg.Browser.Headless, _ = flags.GetBool("headless")
	}
}

// applyCampaignFlagOverrides additionally covers the pacing flags used by
// bulk sends.
func applyCampaignFlagOverrides(flags *pflag.FlagSet) {
	applySessionFlagOverrides(flags)
	if flags.Changed("delay") {
		cfg.Campaign.DefaultDelay, _ = flags.GetDuration("delay")
	}
	if flags.Changed("rate") {
		cfg.Campaign.RatePerMinute, _ = flags.GetInt("rate")
	}
}
