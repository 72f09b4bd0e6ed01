package commands

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/stripe2qbo/stripe2qbo/internal/buildinfo"
	"github.com/stripe2qbo/stripe2qbo/internal/qbo"
	"github.com/stripe2qbo/stripe2qbo/internal/settings"
)

var (
	debug        bool
	settingsPath string
)

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "stripe2qbo",
		Short:   "Record Stripe activity in QuickBooks Online",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", buildinfo.Version, buildinfo.Commit, buildinfo.Date),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&settingsPath, "settings", settings.DefaultPath, "path to settings.json")

	rootCmd.AddCommand(newTestConnectionCommand())
	rootCmd.AddCommand(newSettingsCommand())
	rootCmd.AddCommand(newCustomerCommand())
	rootCmd.AddCommand(newItemCommand())
	rootCmd.AddCommand(newAccountCommand())
	rootCmd.AddCommand(newRecordCommand())

	return rootCmd
}

func newLogger() zerolog.Logger {
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()
}

// newQBOClient builds a client from QBO_* environment variables. A .env
// file in the working directory is loaded first when present.
func newQBOClient(log zerolog.Logger) (*qbo.Client, error) {
	_ = godotenv.Load()

	realmID := os.Getenv("QBO_REALM_ID")
	accessToken := os.Getenv("QBO_ACCESS_TOKEN")
	if realmID == "" || accessToken == "" {
		return nil, fmt.Errorf("missing environment variables. Required: QBO_REALM_ID, QBO_ACCESS_TOKEN")
	}

	baseURL := os.Getenv("QBO_BASE_URL")
	if baseURL == "" {
		baseURL = qbo.ProductionBaseURL
	}

	client := qbo.NewClient(baseURL, log)
	client.SetToken(realmID, accessToken)
	return client, nil
}
