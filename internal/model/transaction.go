package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionStatus represents the lifecycle state of a journal transaction.
type TransactionStatus string

const (
	StatusDraft  TransactionStatus = "draft"
	StatusPosted TransactionStatus = "posted"
	StatusVoid   TransactionStatus = "void"
)

// Entry is one line of a double-entry transaction. Exactly one of Debit or
// Credit is non-zero.
type Entry struct {
	AccountID int
	Debit     decimal.Decimal // zero if credit side
	Credit    decimal.Decimal // zero if debit side
}

// Amount returns the magnitude of the entry, whichever side it is on.
func (e Entry) Amount() decimal.Decimal {
	if !e.Debit.IsZero() {
		return e.Debit
	}
	return e.Credit
}

// Transaction is a journal entry header plus its lines. Once posted it is
// immutable; corrections are made by posting a reversing transaction, never
// by editing. Void is an audit annotation and leaves entries and balances
// untouched.
type Transaction struct {
	ID            int64
	Date          time.Time
	Description   string
	ReferenceType string // originating module record kind, e.g. "Donation"
	ReferenceID   string // originating record id, e.g. "D001"
	SourceKey     string // idempotency key; empty for manual entries
	Status        TransactionStatus
	Entries       []Entry
	CreatedBy     string
	PostedAt      time.Time
	VoidedAt      time.Time
	VoidReason    string
}

// Reference returns the back-link to the originating record, like
// "Donation:D001", or "" when the transaction was entered manually.
func (t Transaction) Reference() string {
	if t.ReferenceType == "" && t.ReferenceID == "" {
		return ""
	}
	return t.ReferenceType + ":" + t.ReferenceID
}

// TotalDebit sums the debit side of all entries.
func (t Transaction) TotalDebit() decimal.Decimal {
	total := decimal.Zero
	for _, e := range t.Entries {
		total = total.Add(e.Debit)
	}
	return total
}

// TotalCredit sums the credit side of all entries.
func (t Transaction) TotalCredit() decimal.Decimal {
	total := decimal.Zero
	for _, e := range t.Entries {
		total = total.Add(e.Credit)
	}
	return total
}
