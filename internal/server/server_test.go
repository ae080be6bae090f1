package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mandir-dev/mandir/internal/accounts"
	"github.com/mandir-dev/mandir/internal/config"
	"github.com/mandir-dev/mandir/internal/events"
	"github.com/mandir-dev/mandir/internal/ledger"
	"github.com/mandir-dev/mandir/internal/model"
	"github.com/mandir-dev/mandir/internal/reports"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func mustPost(t *testing.T, engine *ledger.Engine, amount string) model.Transaction {
	t.Helper()
	tx, err := engine.Post(ledger.Draft{
		Date:        time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC),
		Description: "Cash donation",
		CreatedBy:   "clerk",
		Entries: []model.Entry{
			{AccountID: 1010, Debit: dec(amount)},
			{AccountID: 4010, Credit: dec(amount)},
		},
	})
	require.NoError(t, err)
	return tx
}

func testHandler(t *testing.T) (http.Handler, *ledger.Engine) {
	t.Helper()

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	registry, err := accounts.NewRegistry(accounts.DefaultChart())
	require.NoError(t, err)
	engine, err := ledger.NewEngine(registry)
	require.NoError(t, err)
	adapter := events.NewAdapter(engine, config.Default("Test Temple").Accounts.Directory())
	reportSvc := reports.NewService(engine, registry)

	return New(logger, registry, engine, adapter, reportSvc).Handler(), engine
}

func doJSON(t *testing.T, handler http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v))
}

func TestListAccounts(t *testing.T) {
	handler, _ := testHandler(t)

	rec := doJSON(t, handler, http.MethodGet, "/v1/accounts", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var accts []accountResponse
	decodeBody(t, rec, &accts)
	assert.NotEmpty(t, accts)

	rec = doJSON(t, handler, http.MethodGet, "/v1/accounts?type=income", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	decodeBody(t, rec, &accts)
	for _, a := range accts {
		assert.Equal(t, "income", a.Type)
	}
}

func TestGetAccount(t *testing.T) {
	handler, _ := testHandler(t)

	rec := doJSON(t, handler, http.MethodGet, "/v1/accounts/1010", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var acct accountResponse
	decodeBody(t, rec, &acct)
	assert.Equal(t, "Cash in Hand", acct.Name)

	rec = doJSON(t, handler, http.MethodGet, "/v1/accounts/9999", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(t, handler, http.MethodGet, "/v1/accounts/abc", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPostTransaction(t *testing.T) {
	handler, engine := testHandler(t)

	rec := doJSON(t, handler, http.MethodPost, "/v1/transactions", postRequest{
		Date:        "2025-01-15",
		Description: "Cash donation",
		CreatedBy:   "clerk",
		Entries: []entryPayload{
			{AccountID: 1010, Debit: dec("1000")},
			{AccountID: 4010, Credit: dec("1000")},
		},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var tx transactionResponse
	decodeBody(t, rec, &tx)
	assert.Equal(t, int64(1), tx.ID)
	assert.Equal(t, "posted", tx.Status)
	assert.Len(t, tx.Entries, 2)

	assert.True(t, engine.AccountBalance(1010).Equal(dec("1000")))
}

func TestPostTransaction_Unbalanced(t *testing.T) {
	handler, _ := testHandler(t)

	rec := doJSON(t, handler, http.MethodPost, "/v1/transactions", postRequest{
		Date: "2025-01-15",
		Entries: []entryPayload{
			{AccountID: 1010, Debit: dec("1000")},
			{AccountID: 4010, Credit: dec("900")},
		},
	})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestPostTransaction_UnknownAccount(t *testing.T) {
	handler, _ := testHandler(t)

	rec := doJSON(t, handler, http.MethodPost, "/v1/transactions", postRequest{
		Date: "2025-01-15",
		Entries: []entryPayload{
			{AccountID: 9999, Debit: dec("100")},
			{AccountID: 4010, Credit: dec("100")},
		},
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestVoidTransaction(t *testing.T) {
	handler, engine := testHandler(t)
	mustPost(t, engine, "1000")

	rec := doJSON(t, handler, http.MethodPost, "/v1/transactions/1/void", voidRequest{Reason: "duplicate"})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp transactionResponse
	decodeBody(t, rec, &resp)
	assert.Equal(t, "void", resp.Status)
	assert.Equal(t, "duplicate", resp.VoidReason)
	assert.NotNil(t, resp.VoidedAt)

	// Double void is a validation failure, missing txn a 404.
	rec = doJSON(t, handler, http.MethodPost, "/v1/transactions/1/void", voidRequest{Reason: "again"})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	rec = doJSON(t, handler, http.MethodPost, "/v1/transactions/99/void", voidRequest{Reason: "x"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleEvent(t *testing.T) {
	handler, engine := testHandler(t)

	ev := map[string]any{
		"kind":          events.KindDonationReceived,
		"referenceType": "Donation",
		"referenceId":   "D001",
		"eventVersion":  1,
		"payload": map[string]any{
			"amount":      "1000",
			"date":        "2025-01-15T00:00:00Z",
			"description": "General donation",
		},
	}

	rec := doJSON(t, handler, http.MethodPost, "/v1/events", ev)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var tx transactionResponse
	decodeBody(t, rec, &tx)
	assert.Equal(t, "Donation:D001:v1", tx.SourceKey)

	// Duplicate delivery is acknowledged without posting again.
	rec = doJSON(t, handler, http.MethodPost, "/v1/events", ev)
	require.Equal(t, http.StatusOK, rec.Code)
	var dup map[string]any
	decodeBody(t, rec, &dup)
	assert.Equal(t, true, dup["duplicate"])
	assert.Len(t, engine.List(ledger.Filter{}), 1)
}

func TestHandleEvent_Errors(t *testing.T) {
	handler, _ := testHandler(t)

	// Missing reference fields.
	rec := doJSON(t, handler, http.MethodPost, "/v1/events", map[string]any{
		"kind":         events.KindDonationReceived,
		"eventVersion": 1,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Kind without a mapping rule.
	rec = doJSON(t, handler, http.MethodPost, "/v1/events", map[string]any{
		"kind":          "TempleRenovated",
		"referenceType": "Project",
		"referenceId":   "P001",
		"eventVersion":  1,
		"payload":       map[string]any{"amount": "100"},
	})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestGetTransactionAndList(t *testing.T) {
	handler, engine := testHandler(t)
	mustPost(t, engine, "1000")

	rec := doJSON(t, handler, http.MethodGet, "/v1/transactions/1", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, handler, http.MethodGet, "/v1/transactions/42", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(t, handler, http.MethodGet, "/v1/transactions?from=2025-01-01&to=2025-01-31", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var txns []transactionResponse
	decodeBody(t, rec, &txns)
	assert.Len(t, txns, 1)

	rec = doJSON(t, handler, http.MethodGet, "/v1/transactions?from=notadate", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestReportsEndpoints(t *testing.T) {
	handler, engine := testHandler(t)
	mustPost(t, engine, "1000")

	rec := doJSON(t, handler, http.MethodGet, "/v1/reports/trial-balance?asOf=2025-12-31", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var tb reports.TrialBalance
	decodeBody(t, rec, &tb)
	assert.True(t, tb.TotalDebit.Equal(tb.TotalCredit))

	rec = doJSON(t, handler, http.MethodGet, "/v1/reports/income-statement?from=2025-01-01&to=2025-01-31", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var stmt reports.IncomeStatement
	decodeBody(t, rec, &stmt)
	assert.True(t, stmt.TotalIncome.Equal(dec("1000")))

	// Inverted period.
	rec = doJSON(t, handler, http.MethodGet, "/v1/reports/income-statement?from=2025-02-01&to=2025-01-01", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, handler, http.MethodGet, "/v1/reports/balance-sheet?asOf=2025-12-31", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var bs reports.BalanceSheet
	decodeBody(t, rec, &bs)
	assert.True(t, bs.TotalAssets.Equal(bs.TotalLiabilities.Add(bs.TotalEquity)))
}
