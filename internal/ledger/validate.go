package ledger

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/mandir-dev/mandir/internal/accounts"
	"github.com/mandir-dev/mandir/internal/model"
)

// AccountResolver looks up accounts in the chart of accounts.
type AccountResolver interface {
	Get(id int) (model.Account, bool)
}

// ValidateDraft enforces the posting invariants on a proposed transaction:
// at least two entries, every entry strictly one-sided with at most two
// decimal places, every account known and active, and total debits equal to
// total credits with both sides positive.
func ValidateDraft(d Draft, resolver AccountResolver) error {
	if len(d.Entries) < 2 {
		return fmt.Errorf("%w: %d entries, need at least 2", ErrIncompleteTransaction, len(d.Entries))
	}

	totalDebit := decimal.Zero
	totalCredit := decimal.Zero
	for i, entry := range d.Entries {
		if err := validateEntry(entry); err != nil {
			return fmt.Errorf("entry %d: %w", i, err)
		}
		acct, ok := resolver.Get(entry.AccountID)
		if !ok {
			return fmt.Errorf("entry %d: %w: %d", i, accounts.ErrUnknownAccount, entry.AccountID)
		}
		if !acct.Active {
			return fmt.Errorf("entry %d: %w: %d (%s)", i, ErrInactiveAccount, acct.ID, acct.Name)
		}
		totalDebit = totalDebit.Add(entry.Debit)
		totalCredit = totalCredit.Add(entry.Credit)
	}

	if !totalDebit.Equal(totalCredit) {
		return fmt.Errorf("%w: debits (%s) != credits (%s)", ErrUnbalancedTransaction, totalDebit.StringFixed(2), totalCredit.StringFixed(2))
	}
	if !totalDebit.IsPositive() {
		return fmt.Errorf("%w: transaction total must be positive", ErrUnbalancedTransaction)
	}
	return nil
}

func validateEntry(entry model.Entry) error {
	if entry.Debit.IsNegative() || entry.Credit.IsNegative() {
		return fmt.Errorf("%w: amounts must not be negative", ErrMalformedEntry)
	}

	hasDebit := !entry.Debit.IsZero()
	hasCredit := !entry.Credit.IsZero()
	if hasDebit == hasCredit {
		return fmt.Errorf("%w: entry must have exactly one of debit or credit", ErrMalformedEntry)
	}

	// Exact decimals: no more than 2 decimal places.
	hundred := decimal.NewFromInt(100)
	amount := entry.Amount()
	if !amount.Mul(hundred).Equal(amount.Mul(hundred).Floor()) {
		return fmt.Errorf("%w: amount %s has more than 2 decimal places", ErrMalformedEntry, amount)
	}
	return nil
}
