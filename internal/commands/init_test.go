package commands

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mandir-dev/mandir/internal/accounts"
	"github.com/mandir-dev/mandir/internal/config"
)

func runMandir(t *testing.T, args ...string) error {
	t.Helper()
	cmd := NewRootCommand()
	cmd.SetArgs(args)
	return cmd.Execute()
}

func TestInit_CreatesStructure(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, runMandir(t, "init", dir, "--name", "Test Temple", "--no-git"))

	for _, d := range []string{"accounts", "logs"} {
		info, err := os.Stat(filepath.Join(dir, d))
		require.NoError(t, err, "directory %s should exist", d)
		assert.True(t, info.IsDir(), "%s should be a directory", d)
	}
}

func TestInit_Config(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, runMandir(t, "init", dir, "--name", "Sri Ganesh Temple", "--no-git"))

	cfg, err := config.Load(filepath.Join(dir, "mandir.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "Sri Ganesh Temple", cfg.Temple.Name)
	assert.Equal(t, 1010, cfg.Accounts.Cash)
	assert.Equal(t, 4010, cfg.Accounts.DonationIncome)
}

func TestInit_Accounts(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, runMandir(t, "init", dir, "--name", "Test Temple", "--no-git"))

	f, err := os.Open(filepath.Join(dir, "accounts", "chart-of-accounts.csv"))
	require.NoError(t, err)
	defer f.Close()

	accts, err := accounts.ReadAccounts(f)
	require.NoError(t, err)
	assert.Len(t, accts, len(accounts.DefaultChart()))
}

func TestInit_GitRepo(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, runMandir(t, "init", dir, "--name", "Test Temple"))

	_, err := os.Stat(filepath.Join(dir, ".git"))
	require.NoError(t, err, ".git should exist")

	log := exec.Command("git", "log", "--format=%s", "-1")
	log.Dir = dir
	out, err := log.Output()
	require.NoError(t, err)
	assert.Contains(t, string(out), "init:")

	authorLog := exec.Command("git", "log", "--format=%an <%ae>", "-1")
	authorLog.Dir = dir
	out, err = authorLog.Output()
	require.NoError(t, err)
	assert.Contains(t, string(out), "Mandir Ledger <ledger@mandir.dev>")
}

func TestInit_Gitignore(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, runMandir(t, "init", dir, "--name", "Test Temple", "--no-git"))

	data, err := os.ReadFile(filepath.Join(dir, ".gitignore"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "exports/")
}

func TestInit_RequiresName(t *testing.T) {
	dir := t.TempDir()
	require.Error(t, runMandir(t, "init", dir, "--no-git"), "init without --name should fail")
}
