package reports

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mandir-dev/mandir/internal/accounts"
	"github.com/mandir-dev/mandir/internal/ledger"
	"github.com/mandir-dev/mandir/internal/model"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func post(t *testing.T, e *ledger.Engine, day time.Time, desc string, debitAcct, creditAcct int, amount string) model.Transaction {
	t.Helper()
	tx, err := e.Post(ledger.Draft{
		Date:        day,
		Description: desc,
		CreatedBy:   "test",
		Entries: []model.Entry{
			{AccountID: debitAcct, Debit: dec(amount)},
			{AccountID: creditAcct, Credit: dec(amount)},
		},
	})
	require.NoError(t, err)
	return tx
}

func testService(t *testing.T) (*Service, *ledger.Engine) {
	t.Helper()
	registry, err := accounts.NewRegistry(accounts.DefaultChart())
	require.NoError(t, err)
	engine, err := ledger.NewEngine(registry)
	require.NoError(t, err)
	return NewService(engine, registry), engine
}

func TestIncomeStatement_January(t *testing.T) {
	svc, engine := testService(t)

	post(t, engine, date(2025, 1, 5), "Cash donation", 1010, 4010, "1000")
	post(t, engine, date(2025, 1, 12), "Seva booking", 1020, 4020, "2000")
	post(t, engine, date(2025, 1, 20), "Prasadam counter", 1010, 4040, "500")
	post(t, engine, date(2025, 1, 25), "Pooja supplies", 5070, 2010, "800")
	// Outside the period, must not count.
	post(t, engine, date(2025, 2, 2), "February donation", 1010, 4010, "300")

	stmt, err := svc.IncomeStatement(Month(2025, time.January))
	require.NoError(t, err)

	assert.True(t, stmt.TotalIncome.Equal(dec("3500")), "income = %s", stmt.TotalIncome)
	assert.True(t, stmt.TotalExpense.Equal(dec("800")), "expense = %s", stmt.TotalExpense)
	assert.True(t, stmt.NetSurplus.Equal(dec("2700")), "surplus = %s", stmt.NetSurplus)

	// Only income and expense accounts appear, sorted by id.
	for i := 1; i < len(stmt.Income); i++ {
		assert.Less(t, stmt.Income[i-1].ID, stmt.Income[i].ID)
	}
	for _, line := range stmt.Income {
		assert.GreaterOrEqual(t, line.ID, 4000)
	}
}

func TestIncomeStatement_InvalidPeriod(t *testing.T) {
	svc, _ := testService(t)

	_, err := svc.IncomeStatement(Period{From: date(2025, 2, 1), To: date(2025, 1, 1)})
	require.ErrorIs(t, err, ErrInvalidPeriod)

	_, err = svc.IncomeStatement(Period{})
	require.ErrorIs(t, err, ErrInvalidPeriod)
}

func TestTrialBalance_TotalsAgree(t *testing.T) {
	svc, engine := testService(t)

	post(t, engine, date(2025, 1, 5), "Cash donation", 1010, 4010, "1000")
	post(t, engine, date(2025, 1, 25), "Pooja supplies", 5070, 2010, "800")
	post(t, engine, date(2025, 1, 28), "Payable settled", 2010, 1010, "300")

	tb := svc.TrialBalance(date(2025, 1, 31))
	assert.True(t, tb.TotalDebit.Equal(tb.TotalCredit),
		"debits %s != credits %s", tb.TotalDebit, tb.TotalCredit)

	byID := make(map[int]TrialBalanceRow)
	for _, row := range tb.Rows {
		byID[row.ID] = row
	}
	assert.True(t, byID[1010].Debit.Equal(dec("700")))
	assert.True(t, byID[2010].Credit.Equal(dec("500")))
	assert.True(t, byID[4010].Credit.Equal(dec("1000")))

	// Zero-activity chart accounts still show up.
	_, ok := byID[3020]
	assert.True(t, ok)
}

func TestTrialBalance_AsOfCutsLaterActivity(t *testing.T) {
	svc, engine := testService(t)

	post(t, engine, date(2025, 1, 5), "January donation", 1010, 4010, "1000")
	post(t, engine, date(2025, 3, 5), "March donation", 1010, 4010, "400")

	tb := svc.TrialBalance(date(2025, 1, 31))
	for _, row := range tb.Rows {
		if row.ID == 1010 {
			assert.True(t, row.Debit.Equal(dec("1000")))
		}
	}
}

func TestBalanceSheet_IdentityHolds(t *testing.T) {
	svc, engine := testService(t)

	post(t, engine, date(2025, 1, 2), "Opening fund", 1020, 3010, "50000")
	post(t, engine, date(2025, 1, 5), "Cash donation", 1010, 4010, "1000")
	post(t, engine, date(2025, 1, 25), "Pooja supplies", 5070, 2010, "800")
	post(t, engine, date(2025, 1, 27), "Advance for wedding hall", 1020, 2020, "1500")

	bs := svc.BalanceSheet(date(2025, 1, 31))

	assert.True(t, bs.TotalAssets.Equal(bs.TotalLiabilities.Add(bs.TotalEquity)),
		"A=%s L=%s E=%s", bs.TotalAssets, bs.TotalLiabilities, bs.TotalEquity)
	assert.True(t, bs.RetainedSurplus.Equal(dec("200")), "surplus = %s", bs.RetainedSurplus)
	assert.True(t, bs.TotalAssets.Equal(dec("52500")))
	assert.True(t, bs.TotalLiabilities.Equal(dec("2300")))
	assert.True(t, bs.TotalEquity.Equal(dec("50200")))
}

func TestBalanceSheet_VoidStaysReversalCancels(t *testing.T) {
	svc, engine := testService(t)

	tx := post(t, engine, date(2025, 1, 5), "Mistaken donation", 1010, 4010, "999")
	_, err := engine.Void(tx.ID, "keyed against wrong donor")
	require.NoError(t, err)

	// A void alone does not move balances.
	bs := svc.BalanceSheet(date(2025, 1, 31))
	assert.True(t, bs.TotalAssets.Equal(dec("999")))

	_, err = engine.Reverse(tx.ID, date(2025, 1, 6), "admin", "")
	require.NoError(t, err)

	bs = svc.BalanceSheet(date(2025, 1, 31))
	assert.True(t, bs.TotalAssets.IsZero())
	assert.True(t, bs.TotalAssets.Equal(bs.TotalLiabilities.Add(bs.TotalEquity)))
}

func TestNewPeriod(t *testing.T) {
	p, err := NewPeriod(date(2025, 1, 1), date(2025, 1, 31))
	require.NoError(t, err)
	assert.Equal(t, date(2025, 1, 1), p.From)

	_, err = NewPeriod(date(2025, 1, 31), date(2025, 1, 1))
	require.ErrorIs(t, err, ErrInvalidPeriod)
}

func TestAccountRowBalance_NaturalSign(t *testing.T) {
	asset := AccountRow{Type: model.AccountTypeAsset, Debit: dec("100"), Credit: dec("30")}
	assert.True(t, asset.Balance().Equal(dec("70")))

	income := AccountRow{Type: model.AccountTypeIncome, Debit: dec("30"), Credit: dec("100")}
	assert.True(t, income.Balance().Equal(dec("70")))
}
