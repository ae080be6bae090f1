package commands

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/mandir-dev/mandir/internal/events"
	"github.com/mandir-dev/mandir/internal/ledger"
	"github.com/mandir-dev/mandir/internal/reports"
	"github.com/mandir-dev/mandir/internal/server"
)

func newServeCommand(booksDir *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the ledger query and event API over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(*booksDir)
		},
	}
	return cmd
}

func runServe(booksDir string) error {
	srvCfg, err := server.LoadConfig()
	if err != nil {
		return fmt.Errorf("loading server config: %w", err)
	}

	logger := logrus.New()
	if srvCfg.LogFormat == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	level, err := logrus.ParseLevel(srvCfg.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	cfg, registry, engine, err := openBooks(booksDir, logger)
	if err != nil {
		return err
	}

	adapter := events.NewAdapter(engine, cfg.Accounts.Directory(), events.WithAdapterLogger(logger))
	adapter.Restore(engine.List(ledger.Filter{}))
	reportSvc := reports.NewService(engine, registry)

	srv := server.New(logger, registry, engine, adapter, reportSvc)
	httpSrv := &http.Server{
		Addr:         srvCfg.Addr,
		Handler:      srv.Handler(),
		ReadTimeout:  srvCfg.ReadTimeout,
		WriteTimeout: srvCfg.WriteTimeout,
	}

	// Hourly drift check: the trial balance must stay balanced; a mismatch
	// means a commit bug, not bad data, so shout.
	scheduler := cron.New()
	_, err = scheduler.AddFunc("@hourly", func() {
		tb := reportSvc.TrialBalance(time.Now())
		if !tb.TotalDebit.Equal(tb.TotalCredit) {
			logger.WithFields(logrus.Fields{
				"total_debit":  tb.TotalDebit.StringFixed(2),
				"total_credit": tb.TotalCredit.StringFixed(2),
			}).Error("ledger integrity check failed: trial balance out of balance")
			return
		}
		logger.WithField("total", tb.TotalDebit.StringFixed(2)).Debug("ledger integrity check passed")
	})
	if err != nil {
		return fmt.Errorf("scheduling integrity check: %w", err)
	}
	scheduler.Start()
	defer scheduler.Stop()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.WithFields(logrus.Fields{"addr": srvCfg.Addr, "temple": cfg.Temple.Name}).Info("ledger API listening")
		errCh <- httpSrv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	case <-ctx.Done():
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
	}
	return nil
}
