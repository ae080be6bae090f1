package accounts

import "github.com/mandir-dev/mandir/internal/model"

// DefaultChart returns the default chart of accounts for a temple trust.
// System accounts are the targets of the built-in event mappings and cannot
// be renamed or reparented.
func DefaultChart() []model.Account {
	return []model.Account{
		{ID: 1010, Name: "Cash in Hand", Type: model.AccountTypeAsset, System: true, Active: true, Description: "Counter and office cash"},
		{ID: 1020, Name: "Bank - Current Account", Type: model.AccountTypeAsset, System: true, Active: true, Description: "Primary trust bank account"},
		{ID: 1030, Name: "Hundi Collection", Type: model.AccountTypeAsset, ParentID: 1010, Active: true, Description: "Offering box cash pending deposit"},
		{ID: 2010, Name: "Accounts Payable", Type: model.AccountTypeLiability, System: true, Active: true, Description: "Approved but unpaid vendor bills"},
		{ID: 2020, Name: "Advance Bookings", Type: model.AccountTypeLiability, Active: true, Description: "Advances held for future sevas and events"},
		{ID: 3010, Name: "General Fund", Type: model.AccountTypeEquity, System: true, Active: true, Description: "Unrestricted trust fund"},
		{ID: 3020, Name: "Corpus Fund", Type: model.AccountTypeEquity, Active: true, Description: "Endowment corpus, principal preserved"},
		{ID: 4010, Name: "Donation Income", Type: model.AccountTypeIncome, System: true, Active: true, Description: "General donations"},
		{ID: 4020, Name: "Seva & Event Income", Type: model.AccountTypeIncome, System: true, Active: true, Description: "Seva bookings and event receipts"},
		{ID: 4030, Name: "Campaign Income", Type: model.AccountTypeIncome, System: true, Active: true, Description: "Fundraising campaign contributions"},
		{ID: 4040, Name: "Prasadam Sales", Type: model.AccountTypeIncome, System: true, Active: true, Description: "Prasadam counter sales"},
		{ID: 5010, Name: "Prasadam Supplies", Type: model.AccountTypeExpense, Active: true, Description: "Ingredients and packing for prasadam"},
		{ID: 5020, Name: "Event Expenses", Type: model.AccountTypeExpense, System: true, Active: true, Description: "Festival and event costs"},
		{ID: 5030, Name: "Utilities", Type: model.AccountTypeExpense, Active: true, Description: "Electricity, water, fuel"},
		{ID: 5040, Name: "Salaries & Honorarium", Type: model.AccountTypeExpense, Active: true, Description: "Staff and priest payments"},
		{ID: 5050, Name: "Maintenance & Repairs", Type: model.AccountTypeExpense, Active: true, Description: "Premises upkeep"},
		{ID: 5060, Name: "Project Expenses", Type: model.AccountTypeExpense, System: true, Active: true, Description: "Construction and renovation projects"},
		{ID: 5070, Name: "General Expenses", Type: model.AccountTypeExpense, System: true, Active: true, Description: "Expenses not covered elsewhere"},
	}
}
