package synclog

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testTime = time.Date(2023, 9, 2, 10, 30, 0, 0, time.UTC)

func testEntry() Entry {
	return Entry{
		Timestamp: testTime,
		Kind:      "expense",
		QBOID:     "310",
		Amount:    decimal.RequireFromString("50.00"),
		Currency:  "USD",
		Note:      "Stripe fee for payout po_123",
	}
}

func TestAppend_NewFile(t *testing.T) {
	dir := t.TempDir()
	err := Append(dir, []Entry{testEntry()})
	require.NoError(t, err)

	entries, err := Read(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
	assert.Equal(t, "expense", entries[0].Kind)
}

func TestAppend_ExistingFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Append(dir, []Entry{testEntry()}))

	e2 := testEntry()
	e2.Kind = "transfer"
	e2.QBOID = "412"
	require.NoError(t, Append(dir, []Entry{e2}))

	entries, err := Read(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
	assert.Equal(t, "expense", entries[0].Kind)
	assert.Equal(t, "transfer", entries[1].Kind)
}

func TestRead_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	original := testEntry()
	require.NoError(t, Append(dir, []Entry{original}))

	entries, err := Read(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	got := entries[0]
	assert.True(t, original.Timestamp.Equal(got.Timestamp))
	assert.Equal(t, original.Kind, got.Kind)
	assert.Equal(t, original.QBOID, got.QBOID)
	assert.True(t, original.Amount.Equal(got.Amount))
	assert.Equal(t, original.Currency, got.Currency)
	assert.Equal(t, original.Note, got.Note)
}

func TestRead_NotFound(t *testing.T) {
	dir := t.TempDir()
	entries, err := Read(dir)
	require.NoError(t, err)
	assert.Nil(t, entries)
}

func TestRead_EmptyFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "logs"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "logs", "sync-log.csv"), nil, 0o644))

	entries, err := Read(dir)
	require.NoError(t, err)
	assert.Nil(t, entries)
}

func TestUnmarshalEntry_BadRow(t *testing.T) {
	_, err := UnmarshalEntry([]string{"only", "three", "fields"})
	assert.Error(t, err)

	_, err = UnmarshalEntry([]string{"not-a-time", "expense", "310", "50", "USD", ""})
	assert.Error(t, err)

	_, err = UnmarshalEntry([]string{testTime.Format(time.RFC3339), "expense", "310", "fifty", "USD", ""})
	assert.Error(t, err)
}
