package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/mandir-dev/mandir/internal/accounts"
	"github.com/mandir-dev/mandir/internal/events"
	"github.com/mandir-dev/mandir/internal/ledger"
	"github.com/mandir-dev/mandir/internal/model"
	"github.com/mandir-dev/mandir/internal/reports"
)

const dateParam = "2006-01-02"

type accountResponse struct {
	ID          int             `json:"id"`
	Name        string          `json:"name"`
	Type        string          `json:"type"`
	ParentID    int             `json:"parentId,omitempty"`
	System      bool            `json:"system"`
	Active      bool            `json:"active"`
	Description string          `json:"description,omitempty"`
	Balance     decimal.Decimal `json:"balance"`
}

type entryPayload struct {
	AccountID int             `json:"accountId"`
	Debit     decimal.Decimal `json:"debit"`
	Credit    decimal.Decimal `json:"credit"`
}

type transactionResponse struct {
	ID            int64          `json:"id"`
	Date          string         `json:"date"`
	Description   string         `json:"description"`
	ReferenceType string         `json:"referenceType,omitempty"`
	ReferenceID   string         `json:"referenceId,omitempty"`
	SourceKey     string         `json:"sourceKey,omitempty"`
	Status        string         `json:"status"`
	Entries       []entryPayload `json:"entries"`
	CreatedBy     string         `json:"createdBy,omitempty"`
	PostedAt      time.Time      `json:"postedAt"`
	VoidedAt      *time.Time     `json:"voidedAt,omitempty"`
	VoidReason    string         `json:"voidReason,omitempty"`
}

type postRequest struct {
	Date        string         `json:"date"`
	Description string         `json:"description"`
	CreatedBy   string         `json:"createdBy"`
	Entries     []entryPayload `json:"entries"`
}

type voidRequest struct {
	Reason string `json:"reason"`
}

func (s *Server) listAccounts(w http.ResponseWriter, r *http.Request) {
	filter := accounts.Filter{
		Type:       model.AccountType(r.URL.Query().Get("type")),
		ActiveOnly: r.URL.Query().Get("active") == "true",
	}
	accts := s.registry.List(filter)
	out := make([]accountResponse, 0, len(accts))
	for _, a := range accts {
		out = append(out, s.toAccountResponse(a))
	}
	s.respondJSON(w, http.StatusOK, out)
}

func (s *Server) getAccount(w http.ResponseWriter, r *http.Request) {
	acctID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		s.badRequest(w, "invalid account id")
		return
	}
	acct, ok := s.registry.Get(acctID)
	if !ok {
		s.respondError(w, r, accounts.ErrUnknownAccount)
		return
	}
	s.respondJSON(w, http.StatusOK, s.toAccountResponse(acct))
}

func (s *Server) listTransactions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := ledger.Filter{
		ReferenceType: q.Get("referenceType"),
		ReferenceID:   q.Get("referenceId"),
		Search:        q.Get("search"),
	}
	var err error
	if filter.From, err = parseDateParam(q.Get("from")); err != nil {
		s.badRequest(w, "invalid from date")
		return
	}
	if filter.To, err = parseDateParam(q.Get("to")); err != nil {
		s.badRequest(w, "invalid to date")
		return
	}

	txns := s.engine.List(filter)
	out := make([]transactionResponse, 0, len(txns))
	for _, tx := range txns {
		out = append(out, toTransactionResponse(tx))
	}
	s.respondJSON(w, http.StatusOK, out)
}

func (s *Server) getTransaction(w http.ResponseWriter, r *http.Request) {
	txID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		s.badRequest(w, "invalid transaction id")
		return
	}
	tx, err := s.engine.Get(txID)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, toTransactionResponse(tx))
}

func (s *Server) postTransaction(w http.ResponseWriter, r *http.Request) {
	var req postRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.badRequest(w, "invalid request body")
		return
	}
	date, err := parseDateParam(req.Date)
	if err != nil {
		s.badRequest(w, "invalid date")
		return
	}

	draft := ledger.Draft{
		Date:        date,
		Description: req.Description,
		CreatedBy:   req.CreatedBy,
	}
	for _, e := range req.Entries {
		draft.Entries = append(draft.Entries, model.Entry{AccountID: e.AccountID, Debit: e.Debit, Credit: e.Credit})
	}

	tx, err := s.engine.Post(draft)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusCreated, toTransactionResponse(tx))
}

func (s *Server) voidTransaction(w http.ResponseWriter, r *http.Request) {
	txID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		s.badRequest(w, "invalid transaction id")
		return
	}
	var req voidRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.badRequest(w, "invalid request body")
		return
	}

	tx, err := s.engine.Void(txID, req.Reason)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, toTransactionResponse(tx))
}

func (s *Server) handleEvent(w http.ResponseWriter, r *http.Request) {
	var ev events.Event
	if err := json.NewDecoder(r.Body).Decode(&ev); err != nil {
		s.badRequest(w, "invalid event body")
		return
	}

	tx, err := s.adapter.Handle(ev)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	if tx == nil {
		s.respondJSON(w, http.StatusOK, map[string]any{"duplicate": true})
		return
	}
	s.respondJSON(w, http.StatusCreated, toTransactionResponse(*tx))
}

func (s *Server) trialBalance(w http.ResponseWriter, r *http.Request) {
	asOf, err := parseDateParam(r.URL.Query().Get("asOf"))
	if err != nil {
		s.badRequest(w, "invalid asOf date")
		return
	}
	s.respondJSON(w, http.StatusOK, s.reports.TrialBalance(asOf))
}

func (s *Server) incomeStatement(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	from, err := parseDateParam(q.Get("from"))
	if err != nil {
		s.badRequest(w, "invalid from date")
		return
	}
	to, err := parseDateParam(q.Get("to"))
	if err != nil {
		s.badRequest(w, "invalid to date")
		return
	}
	period, err := reports.NewPeriod(from, to)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	stmt, err := s.reports.IncomeStatement(period)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, stmt)
}

func (s *Server) balanceSheet(w http.ResponseWriter, r *http.Request) {
	asOf, err := parseDateParam(r.URL.Query().Get("asOf"))
	if err != nil {
		s.badRequest(w, "invalid asOf date")
		return
	}
	s.respondJSON(w, http.StatusOK, s.reports.BalanceSheet(asOf))
}

func (s *Server) toAccountResponse(a model.Account) accountResponse {
	return accountResponse{
		ID:          a.ID,
		Name:        a.Name,
		Type:        string(a.Type),
		ParentID:    a.ParentID,
		System:      a.System,
		Active:      a.Active,
		Description: a.Description,
		Balance:     s.engine.AccountBalance(a.ID),
	}
}

func toTransactionResponse(tx model.Transaction) transactionResponse {
	resp := transactionResponse{
		ID:            tx.ID,
		Date:          tx.Date.Format(dateParam),
		Description:   tx.Description,
		ReferenceType: tx.ReferenceType,
		ReferenceID:   tx.ReferenceID,
		SourceKey:     tx.SourceKey,
		Status:        string(tx.Status),
		CreatedBy:     tx.CreatedBy,
		PostedAt:      tx.PostedAt,
		VoidReason:    tx.VoidReason,
	}
	if !tx.VoidedAt.IsZero() {
		voidedAt := tx.VoidedAt
		resp.VoidedAt = &voidedAt
	}
	for _, e := range tx.Entries {
		resp.Entries = append(resp.Entries, entryPayload{AccountID: e.AccountID, Debit: e.Debit, Credit: e.Credit})
	}
	return resp
}

// parseDateParam parses a yyyy-mm-dd query value; empty means unset.
func parseDateParam(v string) (time.Time, error) {
	if v == "" {
		return time.Time{}, nil
	}
	return time.Parse(dateParam, v)
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.WithError(err).Error("encoding response")
	}
}

func (s *Server) badRequest(w http.ResponseWriter, msg string) {
	s.respondJSON(w, http.StatusBadRequest, map[string]string{"error": msg})
}

// respondError maps the ledger error taxonomy to distinguishable status
// codes: unknown ids are 404, validation failures 422, protected accounts
// 403, malformed input 400, everything else 500.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, accounts.ErrUnknownAccount), errors.Is(err, ledger.ErrUnknownTransaction):
		status = http.StatusNotFound
	case errors.Is(err, ledger.ErrIncompleteTransaction),
		errors.Is(err, ledger.ErrUnbalancedTransaction),
		errors.Is(err, ledger.ErrMalformedEntry),
		errors.Is(err, ledger.ErrInactiveAccount),
		errors.Is(err, ledger.ErrNotPosted),
		errors.Is(err, accounts.ErrInvalidHierarchy),
		errors.Is(err, events.ErrUnmappedEventKind):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, accounts.ErrProtectedAccount):
		status = http.StatusForbidden
	case errors.Is(err, events.ErrInvalidEvent), errors.Is(err, reports.ErrInvalidPeriod):
		status = http.StatusBadRequest
	}

	if status == http.StatusInternalServerError {
		s.logger.WithError(err).WithField("path", r.URL.Path).Error("request failed")
	} else {
		s.logger.WithError(err).WithFields(logrus.Fields{"path": r.URL.Path, "status": status}).Warn("request rejected")
	}
	s.respondJSON(w, status, map[string]string{"error": err.Error()})
}
