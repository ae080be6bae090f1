package reports

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/mandir-dev/mandir/internal/model"
)

// IncomeStatementLine is one income or expense account's period total.
type IncomeStatementLine struct {
	ID     int
	Name   string
	Amount decimal.Decimal
}

// IncomeStatement is the Income & Expenditure statement for a period.
type IncomeStatement struct {
	Income       []IncomeStatementLine
	Expense      []IncomeStatementLine
	TotalIncome  decimal.Decimal
	TotalExpense decimal.Decimal
	NetSurplus   decimal.Decimal
}

// BuildIncomeStatement sums income and expense rows; assets, liabilities,
// and equity are ignored.
func BuildIncomeStatement(rows []AccountRow) IncomeStatement {
	stmt := IncomeStatement{
		TotalIncome:  decimal.Zero,
		TotalExpense: decimal.Zero,
	}
	for _, r := range rows {
		switch r.Type {
		case model.AccountTypeIncome:
			amount := r.Credit.Sub(r.Debit)
			stmt.Income = append(stmt.Income, IncomeStatementLine{ID: r.ID, Name: r.Name, Amount: amount})
			stmt.TotalIncome = stmt.TotalIncome.Add(amount)
		case model.AccountTypeExpense:
			amount := r.Debit.Sub(r.Credit)
			stmt.Expense = append(stmt.Expense, IncomeStatementLine{ID: r.ID, Name: r.Name, Amount: amount})
			stmt.TotalExpense = stmt.TotalExpense.Add(amount)
		}
	}
	sort.Slice(stmt.Income, func(i, j int) bool { return stmt.Income[i].ID < stmt.Income[j].ID })
	sort.Slice(stmt.Expense, func(i, j int) bool { return stmt.Expense[i].ID < stmt.Expense[j].ID })
	stmt.NetSurplus = stmt.TotalIncome.Sub(stmt.TotalExpense)
	return stmt
}
