package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newTestConnectionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "test-connection",
		Short: "Verify QuickBooks credentials by fetching company info",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newQBOClient(newLogger())
			if err != nil {
				return err
			}

			info, err := client.GetCompanyInfo(cmd.Context())
			if err != nil {
				return fmt.Errorf("connection failed: %w", err)
			}

			fmt.Printf("Connected to %s (%s)\n", info.CompanyName, info.Country)
			return nil
		},
	}
}
