package commands

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/stripe2qbo/stripe2qbo/internal/qbo"
	"github.com/stripe2qbo/stripe2qbo/internal/settings"
	"github.com/stripe2qbo/stripe2qbo/internal/synclog"
)

func newRecordCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "record",
		Short: "Record transactions in QuickBooks",
	}
	cmd.AddCommand(newRecordExpenseCommand())
	cmd.AddCommand(newRecordTransferCommand())
	return cmd
}

func parseAmountAndDate(amountStr, dateStr string) (decimal.Decimal, time.Time, error) {
	amount, err := decimal.NewFromString(amountStr)
	if err != nil {
		return decimal.Zero, time.Time{}, fmt.Errorf("parsing amount %q: %w", amountStr, err)
	}
	date, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		return decimal.Zero, time.Time{}, fmt.Errorf("parsing date %q (want YYYY-MM-DD): %w", dateStr, err)
	}
	return amount, date, nil
}

func newRecordExpenseCommand() *cobra.Command {
	var (
		amountStr        string
		dateStr          string
		bankAccountID    string
		vendorID         string
		expenseAccountID string
		description      string
		note             string
		logRoot          string
	)

	cmd := &cobra.Command{
		Use:   "expense",
		Short: "Record a check-type expense (e.g. a Stripe fee)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, date, err := parseAmountAndDate(amountStr, dateStr)
			if err != nil {
				return err
			}

			// Settings fill in whichever ids the flags left blank.
			if bankAccountID == "" || vendorID == "" || expenseAccountID == "" {
				s, err := settings.Load(settingsPath)
				if err != nil {
					return err
				}
				if s != nil {
					if bankAccountID == "" {
						bankAccountID = s.StripeClearingAccountID
					}
					if vendorID == "" {
						vendorID = s.StripeVendorID
					}
					if expenseAccountID == "" {
						expenseAccountID = s.StripeFeeAccountID
					}
				}
			}
			if bankAccountID == "" || vendorID == "" || expenseAccountID == "" {
				return fmt.Errorf("bank account, vendor and expense account ids are required (flags or settings)")
			}

			client, err := newQBOClient(newLogger())
			if err != nil {
				return err
			}

			purchaseID, err := client.CreateExpense(cmd.Context(), qbo.CreateExpenseParams{
				Amount:           amount,
				Date:             date,
				BankAccountID:    bankAccountID,
				VendorID:         vendorID,
				ExpenseAccountID: expenseAccountID,
				PrivateNote:      note,
				Description:      description,
			})
			if err != nil {
				return err
			}

			if err := synclog.Append(logRoot, []synclog.Entry{{
				Timestamp: time.Now().UTC(),
				Kind:      "expense",
				QBOID:     purchaseID,
				Amount:    amount,
				Note:      note,
			}}); err != nil {
				return fmt.Errorf("expense %s recorded, but sync log not updated: %w", purchaseID, err)
			}

			fmt.Println(purchaseID)
			return nil
		},
	}

	cmd.Flags().StringVar(&amountStr, "amount", "", "expense amount (required)")
	_ = cmd.MarkFlagRequired("amount")
	cmd.Flags().StringVar(&dateStr, "date", "", "transaction date YYYY-MM-DD (required)")
	_ = cmd.MarkFlagRequired("date")
	cmd.Flags().StringVar(&bankAccountID, "bank-account", "", "account paid from (defaults to settings stripeClearingAccountId)")
	cmd.Flags().StringVar(&vendorID, "vendor", "", "vendor paid (defaults to settings stripeVendorId)")
	cmd.Flags().StringVar(&expenseAccountID, "expense-account", "", "expense account (defaults to settings stripeFeeAccountId)")
	cmd.Flags().StringVar(&description, "description", "", "expense line description")
	cmd.Flags().StringVar(&note, "note", "", "private note")
	cmd.Flags().StringVar(&logRoot, "log-dir", ".", "directory holding logs/sync-log.csv")

	return cmd
}

func newRecordTransferCommand() *cobra.Command {
	var (
		amountStr string
		dateStr   string
		fromID    string
		toID      string
		note      string
		logRoot   string
	)

	cmd := &cobra.Command{
		Use:   "transfer",
		Short: "Record a transfer between two accounts (e.g. a Stripe payout)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, date, err := parseAmountAndDate(amountStr, dateStr)
			if err != nil {
				return err
			}

			if fromID == "" || toID == "" {
				s, err := settings.Load(settingsPath)
				if err != nil {
					return err
				}
				if s != nil {
					if fromID == "" {
						fromID = s.StripeClearingAccountID
					}
					if toID == "" {
						toID = s.StripePayoutAccountID
					}
				}
			}
			if fromID == "" || toID == "" {
				return fmt.Errorf("from and to account ids are required (flags or settings)")
			}

			client, err := newQBOClient(newLogger())
			if err != nil {
				return err
			}

			transferID, err := client.CreateTransfer(cmd.Context(), qbo.CreateTransferParams{
				Amount:        amount,
				Date:          date,
				FromAccountID: fromID,
				ToAccountID:   toID,
				PrivateNote:   note,
			})
			if err != nil {
				return err
			}

			if err := synclog.Append(logRoot, []synclog.Entry{{
				Timestamp: time.Now().UTC(),
				Kind:      "transfer",
				QBOID:     transferID,
				Amount:    amount,
				Note:      note,
			}}); err != nil {
				return fmt.Errorf("transfer %s recorded, but sync log not updated: %w", transferID, err)
			}

			fmt.Println(transferID)
			return nil
		},
	}

	cmd.Flags().StringVar(&amountStr, "amount", "", "transfer amount (required)")
	_ = cmd.MarkFlagRequired("amount")
	cmd.Flags().StringVar(&dateStr, "date", "", "transaction date YYYY-MM-DD (required)")
	_ = cmd.MarkFlagRequired("date")
	cmd.Flags().StringVar(&fromID, "from", "", "source account id (defaults to settings stripeClearingAccountId)")
	cmd.Flags().StringVar(&toID, "to", "", "destination account id (defaults to settings stripePayoutAccountId)")
	cmd.Flags().StringVar(&note, "note", "", "private note")
	cmd.Flags().StringVar(&logRoot, "log-dir", ".", "directory holding logs/sync-log.csv")

	return cmd
}
