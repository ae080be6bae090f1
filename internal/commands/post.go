package commands

import (
	"fmt"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/mandir-dev/mandir/internal/audit"
	"github.com/mandir-dev/mandir/internal/ledger"
	"github.com/mandir-dev/mandir/internal/model"
)

const dateFlagFormat = "2006-01-02"

func newPostCommand(booksDir *string) *cobra.Command {
	var dateStr, description, amountStr, createdBy string
	var debitAccount, creditAccount int

	cmd := &cobra.Command{
		Use:   "post",
		Short: "Post a balanced two-line journal transaction",
		RunE: func(cmd *cobra.Command, args []string) error {
			date, err := time.Parse(dateFlagFormat, dateStr)
			if err != nil {
				return fmt.Errorf("invalid date %q: %w", dateStr, err)
			}
			amount, err := decimal.NewFromString(amountStr)
			if err != nil {
				return fmt.Errorf("invalid amount %q: %w", amountStr, err)
			}

			logger := newLogger()
			cfg, _, engine, err := openBooks(*booksDir, logger)
			if err != nil {
				return err
			}

			tx, err := engine.Post(ledger.Draft{
				Date:        date,
				Description: description,
				CreatedBy:   createdBy,
				Entries: []model.Entry{
					{AccountID: debitAccount, Debit: amount},
					{AccountID: creditAccount, Credit: amount},
				},
			})
			if err != nil {
				return err
			}

			recordAudit(*booksDir, audit.Entry{
				Timestamp: time.Now(),
				Actor:     createdBy,
				Action:    "post",
				Details:   description,
				TxnID:     tx.ID,
			}, logger)
			commitBooks(cfg, *booksDir, fmt.Sprintf("journal: Post txn %d (%s)", tx.ID, description), logger)

			fmt.Printf("Posted txn %d: debit %d / credit %d %s\n", tx.ID, debitAccount, creditAccount, amount.StringFixed(2))
			return nil
		},
	}

	cmd.Flags().StringVar(&dateStr, "date", time.Now().Format(dateFlagFormat), "transaction date (yyyy-mm-dd)")
	cmd.Flags().StringVar(&description, "desc", "", "description (required)")
	_ = cmd.MarkFlagRequired("desc")
	cmd.Flags().IntVar(&debitAccount, "debit", 0, "debit account id (required)")
	_ = cmd.MarkFlagRequired("debit")
	cmd.Flags().IntVar(&creditAccount, "credit", 0, "credit account id (required)")
	_ = cmd.MarkFlagRequired("credit")
	cmd.Flags().StringVar(&amountStr, "amount", "", "amount (required)")
	_ = cmd.MarkFlagRequired("amount")
	cmd.Flags().StringVar(&createdBy, "by", "manual", "who is posting")

	return cmd
}

func newVoidCommand(booksDir *string) *cobra.Command {
	var reason string

	cmd := &cobra.Command{
		Use:   "void <txn-id>",
		Short: "Mark a posted transaction void (audit annotation only)",
		Long: `Void marks a posted transaction as void without touching its entries or
balances. To cancel its financial effect, post a reversing transaction with
"mandir reverse".`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			txID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid transaction id %q: %w", args[0], err)
			}

			logger := newLogger()
			cfg, _, engine, err := openBooks(*booksDir, logger)
			if err != nil {
				return err
			}

			tx, err := engine.Void(txID, reason)
			if err != nil {
				return err
			}

			recordAudit(*booksDir, audit.Entry{
				Timestamp: time.Now(),
				Actor:     "manual",
				Action:    "void",
				Details:   reason,
				TxnID:     tx.ID,
			}, logger)
			commitBooks(cfg, *booksDir, fmt.Sprintf("journal: Void txn %d", tx.ID), logger)

			fmt.Printf("Voided txn %d (%s)\n", tx.ID, reason)
			return nil
		},
	}

	cmd.Flags().StringVar(&reason, "reason", "", "void reason (required)")
	_ = cmd.MarkFlagRequired("reason")
	return cmd
}

func newReverseCommand(booksDir *string) *cobra.Command {
	var dateStr, note, createdBy string

	cmd := &cobra.Command{
		Use:   "reverse <txn-id>",
		Short: "Post the offsetting transaction for an existing one",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			txID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid transaction id %q: %w", args[0], err)
			}
			date, err := time.Parse(dateFlagFormat, dateStr)
			if err != nil {
				return fmt.Errorf("invalid date %q: %w", dateStr, err)
			}

			logger := newLogger()
			cfg, _, engine, err := openBooks(*booksDir, logger)
			if err != nil {
				return err
			}

			tx, err := engine.Reverse(txID, date, createdBy, note)
			if err != nil {
				return err
			}

			recordAudit(*booksDir, audit.Entry{
				Timestamp: time.Now(),
				Actor:     createdBy,
				Action:    "reverse",
				Details:   fmt.Sprintf("reverses txn %d", txID),
				TxnID:     tx.ID,
			}, logger)
			commitBooks(cfg, *booksDir, fmt.Sprintf("journal: Reverse txn %d as txn %d", txID, tx.ID), logger)

			fmt.Printf("Posted reversing txn %d for txn %d\n", tx.ID, txID)
			return nil
		},
	}

	cmd.Flags().StringVar(&dateStr, "date", time.Now().Format(dateFlagFormat), "reversal date (yyyy-mm-dd)")
	cmd.Flags().StringVar(&note, "note", "", "reversal description")
	cmd.Flags().StringVar(&createdBy, "by", "manual", "who is posting")
	return cmd
}
