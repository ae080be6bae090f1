package ledger

import "errors"

var (
	// ErrIncompleteTransaction means a draft has fewer than two entries.
	ErrIncompleteTransaction = errors.New("incomplete transaction")
	// ErrUnbalancedTransaction means total debits do not equal total credits,
	// or both sides are zero.
	ErrUnbalancedTransaction = errors.New("unbalanced transaction")
	// ErrMalformedEntry means an entry is not strictly one-sided, is
	// negative, or carries more precision than whole paise.
	ErrMalformedEntry = errors.New("malformed entry")
	// ErrInactiveAccount means an entry targets a deactivated account.
	ErrInactiveAccount = errors.New("inactive account")
	// ErrUnknownTransaction means a transaction id does not resolve.
	ErrUnknownTransaction = errors.New("unknown transaction")
	// ErrNotPosted means the operation requires a posted transaction.
	ErrNotPosted = errors.New("transaction is not posted")
)
