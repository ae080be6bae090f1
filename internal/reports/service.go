package reports

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/mandir-dev/mandir/internal/ledger"
	"github.com/mandir-dev/mandir/internal/model"
)

// Journal is the slice of the posting engine the aggregator reads from.
type Journal interface {
	List(f ledger.Filter) []model.Transaction
}

// Chart is the slice of the account registry the aggregator reads from.
type Chart interface {
	Get(id int) (model.Account, bool)
	All() []model.Account
}

// Service computes reports from committed transactions. It is a pure read
// path: it never mutates ledger state, and every report is recomputed from
// the transaction snapshot it takes.
type Service struct {
	journal Journal
	chart   Chart
}

// NewService creates a report Service.
func NewService(journal Journal, chart Chart) *Service {
	return &Service{journal: journal, chart: chart}
}

// TrialBalance sums all posted entries dated up to asOf per account. A zero
// asOf means now.
func (s *Service) TrialBalance(asOf time.Time) TrialBalance {
	if asOf.IsZero() {
		asOf = time.Now()
	}
	return BuildTrialBalance(s.accumulate(ledger.Filter{To: asOf}))
}

// IncomeStatement sums income and expense activity dated within the period.
func (s *Service) IncomeStatement(p Period) (IncomeStatement, error) {
	if _, err := NewPeriod(p.From, p.To); err != nil {
		return IncomeStatement{}, err
	}
	return BuildIncomeStatement(s.accumulate(ledger.Filter{From: p.From, To: p.To})), nil
}

// BalanceSheet reports financial position as of a date, current-period
// surplus folded into equity. A zero asOf means now.
func (s *Service) BalanceSheet(asOf time.Time) BalanceSheet {
	if asOf.IsZero() {
		asOf = time.Now()
	}
	return BuildBalanceSheet(s.accumulate(ledger.Filter{To: asOf}))
}

// accumulate folds a transaction snapshot into per-account rows. Void
// transactions still count: a void is an audit annotation, and its financial
// effect is cancelled by an explicit reversing transaction.
func (s *Service) accumulate(f ledger.Filter) []AccountRow {
	byID := make(map[int]*AccountRow)

	rowFor := func(accountID int) *AccountRow {
		if row, ok := byID[accountID]; ok {
			return row
		}
		row := &AccountRow{ID: accountID, Debit: decimal.Zero, Credit: decimal.Zero}
		if acct, ok := s.chart.Get(accountID); ok {
			row.Name = acct.Name
			row.Type = acct.Type
		}
		byID[accountID] = row
		return row
	}

	// Seed every chart account so reports show zero-activity accounts too.
	for _, acct := range s.chart.All() {
		row := rowFor(acct.ID)
		row.Name = acct.Name
		row.Type = acct.Type
	}

	for _, tx := range s.journal.List(f) {
		for _, entry := range tx.Entries {
			row := rowFor(entry.AccountID)
			row.Debit = row.Debit.Add(entry.Debit)
			row.Credit = row.Credit.Add(entry.Credit)
		}
	}

	rows := make([]AccountRow, 0, len(byID))
	for _, row := range byID {
		rows = append(rows, *row)
	}
	return rows
}
