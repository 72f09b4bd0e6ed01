package settings

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSettings() *Settings {
	return &Settings{
		StripeClearingAccountID: "12",
		StripePayoutAccountID:   "18",
		StripeFeeAccountID:      "33",
		StripeVendorID:          "7",
		DefaultIncomeAccountID:  "40",
		DefaultTaxCodeID:        "5",
		ExemptTaxCodeID:         "6",
	}
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	original := testSettings()
	require.NoError(t, Save(path, original))

	loaded, err := Load(path)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, original, loaded)
}

func TestLoad_MissingFileIsNotAnError(t *testing.T) {
	s, err := Load(filepath.Join(t.TempDir(), "settings.json"))
	require.NoError(t, err)
	assert.Nil(t, s)
}

func TestLoad_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestSave_CamelCaseKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	require.NoError(t, Save(path, testSettings()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	for _, key := range []string{
		"stripeClearingAccountId",
		"stripePayoutAccountId",
		"stripeFeeAccountId",
		"stripeVendorId",
		"defaultIncomeAccountId",
		"defaultTaxCodeId",
		"exemptTaxCodeId",
	} {
		assert.Contains(t, string(data), `"`+key+`"`)
	}
}

func TestSave_OmitsEmptyIncomeAccount(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	s := testSettings()
	s.DefaultIncomeAccountID = ""
	require.NoError(t, Save(path, s))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "defaultIncomeAccountId")
}
