package reports

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/mandir-dev/mandir/internal/model"
)

// BalanceSheetLine is one account's closing balance.
type BalanceSheetLine struct {
	ID      int
	Name    string
	Balance decimal.Decimal
}

// BalanceSheetSection groups accounts of one classification.
type BalanceSheetSection struct {
	Label    string
	Accounts []BalanceSheetLine
	Total    decimal.Decimal
}

// BalanceSheet is the statement of financial position as of a date. Equity
// includes the retained surplus of all income and expense activity, so
// TotalAssets always equals TotalLiabilities plus TotalEquity.
type BalanceSheet struct {
	Assets          BalanceSheetSection
	Liabilities     BalanceSheetSection
	Equity          BalanceSheetSection
	RetainedSurplus decimal.Decimal
	TotalAssets     decimal.Decimal
	TotalLiabilities decimal.Decimal
	TotalEquity     decimal.Decimal
}

// BuildBalanceSheet aggregates rows into assets, liabilities, and equity,
// folding income and expense activity into equity as retained surplus.
func BuildBalanceSheet(rows []AccountRow) BalanceSheet {
	assets := BalanceSheetSection{Label: "Assets", Total: decimal.Zero}
	liabilities := BalanceSheetSection{Label: "Liabilities", Total: decimal.Zero}
	equity := BalanceSheetSection{Label: "Equity", Total: decimal.Zero}
	surplus := decimal.Zero

	for _, r := range rows {
		balance := r.Balance()
		line := BalanceSheetLine{ID: r.ID, Name: r.Name, Balance: balance}
		switch r.Type {
		case model.AccountTypeAsset:
			assets.Accounts = append(assets.Accounts, line)
			assets.Total = assets.Total.Add(balance)
		case model.AccountTypeLiability:
			liabilities.Accounts = append(liabilities.Accounts, line)
			liabilities.Total = liabilities.Total.Add(balance)
		case model.AccountTypeEquity:
			equity.Accounts = append(equity.Accounts, line)
			equity.Total = equity.Total.Add(balance)
		case model.AccountTypeIncome:
			surplus = surplus.Add(balance)
		case model.AccountTypeExpense:
			surplus = surplus.Sub(balance)
		}
	}

	for _, section := range []*BalanceSheetSection{&assets, &liabilities, &equity} {
		accts := section.Accounts
		sort.Slice(accts, func(i, j int) bool { return accts[i].ID < accts[j].ID })
	}

	return BalanceSheet{
		Assets:           assets,
		Liabilities:      liabilities,
		Equity:           equity,
		RetainedSurplus:  surplus,
		TotalAssets:      assets.Total,
		TotalLiabilities: liabilities.Total,
		TotalEquity:      equity.Total.Add(surplus),
	}
}
