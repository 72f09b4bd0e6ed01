package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/stripe2qbo/stripe2qbo/internal/settings"
)

func newSettingsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Manage the settings.json mapping of Stripe concepts to QuickBooks ids",
	}
	cmd.AddCommand(newSettingsInitCommand())
	cmd.AddCommand(newSettingsShowCommand())
	return cmd
}

func newSettingsInitCommand() *cobra.Command {
	var s settings.Settings
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a settings.json file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := os.Stat(settingsPath); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", settingsPath)
			}
			if err := settings.Save(settingsPath, &s); err != nil {
				return err
			}
			fmt.Printf("Wrote %s\n", settingsPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&s.StripeClearingAccountID, "clearing-account", "", "QuickBooks id of the Stripe clearing account")
	cmd.Flags().StringVar(&s.StripePayoutAccountID, "payout-account", "", "QuickBooks id of the payout bank account")
	cmd.Flags().StringVar(&s.StripeFeeAccountID, "fee-account", "", "QuickBooks id of the Stripe fee expense account")
	cmd.Flags().StringVar(&s.StripeVendorID, "vendor", "", "QuickBooks id of the Stripe vendor")
	cmd.Flags().StringVar(&s.DefaultIncomeAccountID, "income-account", "", "QuickBooks id of the default income account")
	cmd.Flags().StringVar(&s.DefaultTaxCodeID, "tax-code", "", "QuickBooks id of the default tax code")
	cmd.Flags().StringVar(&s.ExemptTaxCodeID, "exempt-tax-code", "", "QuickBooks id of the exempt tax code")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing settings file")

	return cmd
}

func newSettingsShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the current settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := settings.Load(settingsPath)
			if err != nil {
				return err
			}
			if s == nil {
				return fmt.Errorf("no settings file at %s (run 'stripe2qbo settings init')", settingsPath)
			}

			out, err := json.MarshalIndent(s, "", "    ")
			if err != nil {
				return err
			}
			fmt.Println(string(out))
			return nil
		},
	}
}
