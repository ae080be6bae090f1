package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/mandir-dev/mandir/internal/accounts"
	"github.com/mandir-dev/mandir/internal/audit"
	"github.com/mandir-dev/mandir/internal/buildinfo"
	"github.com/mandir-dev/mandir/internal/config"
	"github.com/mandir-dev/mandir/internal/gitops"
	"github.com/mandir-dev/mandir/internal/ledger"
)

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	var booksDir string

	rootCmd := &cobra.Command{
		Use:     "mandir",
		Short:   "Temple trust double-entry ledger",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", buildinfo.Version, buildinfo.Commit, buildinfo.Date),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVarP(&booksDir, "books", "C", ".", "books directory")

	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newAccountsCommand(&booksDir))
	rootCmd.AddCommand(newPostCommand(&booksDir))
	rootCmd.AddCommand(newVoidCommand(&booksDir))
	rootCmd.AddCommand(newReverseCommand(&booksDir))
	rootCmd.AddCommand(newEventCommand(&booksDir))
	rootCmd.AddCommand(newReportCommand(&booksDir))
	rootCmd.AddCommand(newServeCommand(&booksDir))

	return rootCmd
}

// newLogger builds the CLI logger, level taken from MANDIR_LOG_LEVEL.
func newLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	level, err := logrus.ParseLevel(os.Getenv("MANDIR_LOG_LEVEL"))
	if err != nil {
		level = logrus.WarnLevel
	}
	logger.SetLevel(level)
	return logger
}

// openBooks loads the config, chart, and journal from a books directory.
func openBooks(dir string, logger *logrus.Logger) (*config.Config, *accounts.Registry, *ledger.Engine, error) {
	cfg, err := config.Load(configPath(dir))
	if err != nil {
		return nil, nil, nil, err
	}
	registry, err := accounts.Load(dir)
	if err != nil {
		return nil, nil, nil, err
	}
	engine, err := ledger.NewEngine(registry, ledger.WithJournalDir(dir), ledger.WithLogger(logger))
	if err != nil {
		return nil, nil, nil, err
	}
	return cfg, registry, engine, nil
}

func configPath(dir string) string {
	return filepath.Join(dir, "mandir.yaml")
}

// commitBooks auto-commits the books directory when enabled.
func commitBooks(cfg *config.Config, dir, message string, logger *logrus.Logger) {
	if !cfg.Git.AutoCommit || !gitops.IsRepo(dir) {
		return
	}
	hash, err := gitops.CommitAll(dir, message, cfg.Git.AuthorName, cfg.Git.AuthorEmail)
	if err != nil {
		logger.WithError(err).Warn("auto-commit failed")
		return
	}
	logger.WithField("commit", hash).Debug("books committed")
}

// recordAudit appends an audit row; the posting has already committed, so a
// failed audit write warns instead of failing the command.
func recordAudit(dir string, entry audit.Entry, logger *logrus.Logger) {
	if err := audit.Append(dir, []audit.Entry{entry}); err != nil {
		logger.WithError(err).Warn("audit log write failed")
	}
}
