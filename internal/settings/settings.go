// Package settings persists the mapping from Stripe-side concepts to
// QuickBooks entity ids in a flat settings.json file.
package settings

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// DefaultPath is where the CLI looks for settings unless told otherwise.
const DefaultPath = "settings.json"

// Settings maps the accounts, vendor and tax codes a sync needs to ids
// in the connected QuickBooks company.
type Settings struct {
	StripeClearingAccountID string `json:"stripeClearingAccountId"`
	StripePayoutAccountID   string `json:"stripePayoutAccountId"`
	StripeFeeAccountID      string `json:"stripeFeeAccountId"`
	StripeVendorID          string `json:"stripeVendorId"`
	DefaultIncomeAccountID  string `json:"defaultIncomeAccountId,omitempty"`
	DefaultTaxCodeID        string `json:"defaultTaxCodeId"`
	ExemptTaxCodeID         string `json:"exemptTaxCodeId"`
}

// Load reads settings from path. A missing file is not an error: it
// returns (nil, nil) so callers can treat settings as unconfigured.
func Load(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading settings: %w", err)
	}

	var s Settings
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parsing settings: %w", err)
	}
	return &s, nil
}

// Save writes settings to path as indented JSON.
func Save(path string, s *Settings) error {
	data, err := json.MarshalIndent(s, "", "    ")
	if err != nil {
		return fmt.Errorf("marshaling settings: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing settings: %w", err)
	}
	return nil
}
