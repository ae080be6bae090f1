package model

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestAccountTypeDebitSign(t *testing.T) {
	assert.Equal(t, int64(1), AccountTypeAsset.DebitSign())
	assert.Equal(t, int64(1), AccountTypeExpense.DebitSign())
	assert.Equal(t, int64(-1), AccountTypeLiability.DebitSign())
	assert.Equal(t, int64(-1), AccountTypeEquity.DebitSign())
	assert.Equal(t, int64(-1), AccountTypeIncome.DebitSign())
}

func TestAccountTypeValid(t *testing.T) {
	assert.True(t, AccountTypeAsset.Valid())
	assert.False(t, AccountType("revenue").Valid())
	assert.False(t, AccountType("").Valid())
}

func TestTransactionReference(t *testing.T) {
	tx := Transaction{ReferenceType: "Donation", ReferenceID: "D001"}
	assert.Equal(t, "Donation:D001", tx.Reference())

	assert.Empty(t, Transaction{}.Reference())
}

func TestTransactionTotals(t *testing.T) {
	tx := Transaction{Entries: []Entry{
		{AccountID: 1010, Debit: decimal.NewFromInt(700)},
		{AccountID: 1020, Debit: decimal.NewFromInt(300)},
		{AccountID: 4010, Credit: decimal.NewFromInt(1000)},
	}}
	assert.True(t, tx.TotalDebit().Equal(decimal.NewFromInt(1000)))
	assert.True(t, tx.TotalCredit().Equal(decimal.NewFromInt(1000)))
}
