package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mandir.yaml")

	cfg := Default("Sri Venkateswara Temple")
	cfg.Temple.TrustRegistration = "TR/2011/0042"
	cfg.Git.AutoCommit = false
	require.NoError(t, Save(path, cfg))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestLoad_BadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mandir.yaml")
	require.NoError(t, os.WriteFile(path, []byte("temple: [unclosed"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
}

func TestDefault_DirectoryMatchesChart(t *testing.T) {
	dir := Default("Temple").Accounts.Directory()
	assert.Equal(t, 1010, dir.Cash)
	assert.Equal(t, 1020, dir.Bank)
	assert.Equal(t, 2010, dir.AccountsPayable)
	assert.Equal(t, 4010, dir.DonationIncome)
	assert.Equal(t, 5070, dir.GeneralExpense)
}
