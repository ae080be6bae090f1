package commands

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/mandir-dev/mandir/internal/audit"
	"github.com/mandir-dev/mandir/internal/events"
	"github.com/mandir-dev/mandir/internal/ledger"
)

func newEventCommand(booksDir *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "event",
		Short: "Feed domain events into the ledger",
	}
	cmd.AddCommand(newEventSubmitCommand(booksDir))
	cmd.AddCommand(newEventReplayCommand(booksDir))
	return cmd
}

func newEventSubmitCommand(booksDir *string) *cobra.Command {
	var kind, refType, refID, dateStr, description, amountStr string
	var version, debitHint, creditHint int

	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Submit a single domain event",
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := decimal.NewFromString(amountStr)
			if err != nil {
				return fmt.Errorf("invalid amount %q: %w", amountStr, err)
			}
			date, err := time.Parse(dateFlagFormat, dateStr)
			if err != nil {
				return fmt.Errorf("invalid date %q: %w", dateStr, err)
			}

			hints := make(map[string]int)
			if debitHint != 0 {
				hints["debit"] = debitHint
			}
			if creditHint != 0 {
				hints["credit"] = creditHint
			}

			ev := events.Event{
				Kind:          kind,
				ReferenceType: refType,
				ReferenceID:   refID,
				EventVersion:  version,
				Payload: events.Payload{
					Amount:       amount,
					Date:         date,
					Description:  description,
					AccountHints: hints,
				},
			}

			logger := newLogger()
			cfg, _, engine, err := openBooks(*booksDir, logger)
			if err != nil {
				return err
			}
			adapter := events.NewAdapter(engine, cfg.Accounts.Directory(), events.WithAdapterLogger(logger))
			adapter.Restore(engine.List(ledger.Filter{}))

			tx, err := adapter.Handle(ev)
			if err != nil {
				return err
			}
			if tx == nil {
				fmt.Printf("Duplicate delivery of %s %s:%s v%d, nothing posted\n", kind, refType, refID, version)
				return nil
			}

			recordAudit(*booksDir, audit.Entry{
				Timestamp: time.Now(),
				Actor:     "event:" + kind,
				Action:    "event",
				Details:   tx.SourceKey,
				TxnID:     tx.ID,
			}, logger)
			commitBooks(cfg, *booksDir, fmt.Sprintf("journal: Post txn %d from %s", tx.ID, tx.SourceKey), logger)

			fmt.Printf("Posted txn %d from %s\n", tx.ID, tx.SourceKey)
			return nil
		},
	}

	cmd.Flags().StringVar(&kind, "kind", "", "event kind, e.g. DonationReceived (required)")
	_ = cmd.MarkFlagRequired("kind")
	cmd.Flags().StringVar(&refType, "ref-type", "", "originating record kind, e.g. Donation (required)")
	_ = cmd.MarkFlagRequired("ref-type")
	cmd.Flags().StringVar(&refID, "ref-id", "", "originating record id, e.g. D001 (required)")
	_ = cmd.MarkFlagRequired("ref-id")
	cmd.Flags().IntVar(&version, "version", 1, "event version")
	cmd.Flags().StringVar(&amountStr, "amount", "", "amount (required)")
	_ = cmd.MarkFlagRequired("amount")
	cmd.Flags().StringVar(&dateStr, "date", time.Now().Format(dateFlagFormat), "event date (yyyy-mm-dd)")
	cmd.Flags().StringVar(&description, "desc", "", "description")
	cmd.Flags().IntVar(&debitHint, "debit-account", 0, "override the debit account")
	cmd.Flags().IntVar(&creditHint, "credit-account", 0, "override the credit account")

	return cmd
}

func newEventReplayCommand(booksDir *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "replay <events.jsonl>",
		Short: "Replay a stream of domain events, one JSON object per line",
		Long: `Replay feeds a JSONL file of domain events through the adapter. Deliveries
already posted are skipped by the idempotency index, so replaying the same
file twice is safe.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("opening events file: %w", err)
			}
			defer f.Close()

			logger := newLogger()
			cfg, _, engine, err := openBooks(*booksDir, logger)
			if err != nil {
				return err
			}
			adapter := events.NewAdapter(engine, cfg.Accounts.Directory(), events.WithAdapterLogger(logger))
			adapter.Restore(engine.List(ledger.Filter{}))

			posted, skipped := 0, 0
			scanner := bufio.NewScanner(f)
			line := 0
			for scanner.Scan() {
				line++
				if len(scanner.Bytes()) == 0 {
					continue
				}
				var ev events.Event
				if err := json.Unmarshal(scanner.Bytes(), &ev); err != nil {
					return fmt.Errorf("line %d: parsing event: %w", line, err)
				}
				tx, err := adapter.Handle(ev)
				if err != nil {
					return fmt.Errorf("line %d: %w", line, err)
				}
				if tx == nil {
					skipped++
					continue
				}
				posted++
				recordAudit(*booksDir, audit.Entry{
					Timestamp: time.Now(),
					Actor:     "event:" + ev.Kind,
					Action:    "event",
					Details:   tx.SourceKey,
					TxnID:     tx.ID,
				}, logger)
			}
			if err := scanner.Err(); err != nil {
				return fmt.Errorf("reading events file: %w", err)
			}

			if posted > 0 {
				commitBooks(cfg, *booksDir, fmt.Sprintf("journal: Replay %d events from %s", posted, args[0]), logger)
			}
			fmt.Printf("Replayed %d events: %d posted, %d duplicates skipped\n", posted+skipped, posted, skipped)
			return nil
		},
	}
	return cmd
}
