package model

// AccountType classifies accounts in the chart of accounts.
type AccountType string

const (
	AccountTypeAsset     AccountType = "asset"
	AccountTypeLiability AccountType = "liability"
	AccountTypeEquity    AccountType = "equity"
	AccountTypeIncome    AccountType = "income"
	AccountTypeExpense   AccountType = "expense"
)

// Valid reports whether t is one of the five account types.
func (t AccountType) Valid() bool {
	switch t {
	case AccountTypeAsset, AccountTypeLiability, AccountTypeEquity, AccountTypeIncome, AccountTypeExpense:
		return true
	}
	return false
}

// DebitSign returns +1 if a debit increases balances of this type and -1 if
// it decreases them. Assets and expenses grow on the debit side; liabilities,
// equity, and income grow on the credit side.
func (t AccountType) DebitSign() int64 {
	switch t {
	case AccountTypeAsset, AccountTypeExpense:
		return 1
	default:
		return -1
	}
}

// Account represents a row in chart-of-accounts.csv. Balances are not stored
// here: they are derived from the journal by the posting engine.
type Account struct {
	ID          int
	Name        string
	Type        AccountType
	ParentID    int  // 0 = top-level
	System      bool // protected from rename/reparent
	Active      bool
	Description string
}
