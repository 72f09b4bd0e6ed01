package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/stripe2qbo/stripe2qbo/internal/settings"
)

func newCustomerCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "customer",
		Short: "Customer operations",
	}
	cmd.AddCommand(newCustomerEnsureCommand())
	return cmd
}

func newCustomerEnsureCommand() *cobra.Command {
	var name string
	var currency string

	cmd := &cobra.Command{
		Use:   "ensure",
		Short: "Get or create a customer by display name, printing its id",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newQBOClient(newLogger())
			if err != nil {
				return err
			}

			customer, err := client.GetOrCreateCustomer(cmd.Context(), name, currency)
			if err != nil {
				return err
			}
			fmt.Printf("%s\t%s\n", customer.ID, customer.DisplayName)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "customer display name (required)")
	_ = cmd.MarkFlagRequired("name")
	cmd.Flags().StringVar(&currency, "currency", "USD", "customer currency code")

	return cmd
}

func newItemCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "item",
		Short: "Product/service item operations",
	}
	cmd.AddCommand(newItemEnsureCommand())
	return cmd
}

func newItemEnsureCommand() *cobra.Command {
	var name string
	var incomeAccountID string

	cmd := &cobra.Command{
		Use:   "ensure",
		Short: "Get or create a service item by name, printing its id",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newQBOClient(newLogger())
			if err != nil {
				return err
			}

			accountID := incomeAccountID
			if accountID == "" {
				s, err := settings.Load(settingsPath)
				if err != nil {
					return err
				}
				if s == nil || s.DefaultIncomeAccountID == "" {
					return fmt.Errorf("no --income-account given and no defaultIncomeAccountId in settings")
				}
				accountID = s.DefaultIncomeAccountID
			}

			item, err := client.GetOrCreateItem(cmd.Context(), name, accountID)
			if err != nil {
				return err
			}
			fmt.Printf("%s\t%s\n", item.Value, item.Name)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "item name (required)")
	_ = cmd.MarkFlagRequired("name")
	cmd.Flags().StringVar(&incomeAccountID, "income-account", "", "income account id (defaults to settings defaultIncomeAccountId)")

	return cmd
}

func newAccountCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "account",
		Short: "Chart-of-accounts operations",
	}
	cmd.AddCommand(newAccountEnsureCommand())
	return cmd
}

func newAccountEnsureCommand() *cobra.Command {
	var name string
	var accountType string

	cmd := &cobra.Command{
		Use:   "ensure",
		Short: "Get or create an account by name, printing its id",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newQBOClient(newLogger())
			if err != nil {
				return err
			}

			accountID, err := client.GetOrCreateAccount(cmd.Context(), name, accountType)
			if err != nil {
				return err
			}
			fmt.Println(accountID)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "account name (required)")
	_ = cmd.MarkFlagRequired("name")
	cmd.Flags().StringVar(&accountType, "type", "Expense", "account type used if the account must be created")

	return cmd
}
