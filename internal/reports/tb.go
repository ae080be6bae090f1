package reports

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/mandir-dev/mandir/internal/model"
)

// AccountRow is one account's summed posted entries, the input to every
// report builder.
type AccountRow struct {
	ID     int
	Name   string
	Type   model.AccountType
	Debit  decimal.Decimal
	Credit decimal.Decimal
}

// Balance returns the account's balance in its natural sign.
func (r AccountRow) Balance() decimal.Decimal {
	net := r.Debit.Sub(r.Credit)
	if r.Type.DebitSign() < 0 {
		return net.Neg()
	}
	return net
}

// TrialBalanceRow places an account's net balance in its debit or credit
// column.
type TrialBalanceRow struct {
	ID      int
	Name    string
	Type    model.AccountType
	Debit   decimal.Decimal
	Credit  decimal.Decimal
	Balance decimal.Decimal // natural sign
}

// TrialBalance lists every account's balance; total debits always equal
// total credits for a valid ledger.
type TrialBalance struct {
	Rows        []TrialBalanceRow
	TotalDebit  decimal.Decimal
	TotalCredit decimal.Decimal
}

// BuildTrialBalance converts account rows into a trial balance, net balances
// placed on their natural side, rows sorted by account id.
func BuildTrialBalance(rows []AccountRow) TrialBalance {
	tb := TrialBalance{TotalDebit: decimal.Zero, TotalCredit: decimal.Zero}
	for _, r := range rows {
		net := r.Debit.Sub(r.Credit)
		row := TrialBalanceRow{
			ID:      r.ID,
			Name:    r.Name,
			Type:    r.Type,
			Debit:   decimal.Zero,
			Credit:  decimal.Zero,
			Balance: r.Balance(),
		}
		switch {
		case net.IsPositive():
			row.Debit = net
			tb.TotalDebit = tb.TotalDebit.Add(net)
		case net.IsNegative():
			row.Credit = net.Neg()
			tb.TotalCredit = tb.TotalCredit.Add(net.Neg())
		}
		tb.Rows = append(tb.Rows, row)
	}
	sort.Slice(tb.Rows, func(i, j int) bool { return tb.Rows[i].ID < tb.Rows[j].ID })
	return tb
}
