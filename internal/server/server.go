// Package server exposes the ledger core over HTTP: one route per ledger
// operation, with the posting error taxonomy mapped to distinguishable
// status codes. It is a thin shell; all invariants live in the engine.
package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"

	"github.com/mandir-dev/mandir/internal/accounts"
	"github.com/mandir-dev/mandir/internal/events"
	"github.com/mandir-dev/mandir/internal/ledger"
	"github.com/mandir-dev/mandir/internal/reports"
)

// Server wires the ledger components behind a chi router.
type Server struct {
	logger   logrus.FieldLogger
	registry *accounts.Registry
	engine   *ledger.Engine
	adapter  *events.Adapter
	reports  *reports.Service
}

// New creates a Server.
func New(logger logrus.FieldLogger, registry *accounts.Registry, engine *ledger.Engine, adapter *events.Adapter, reportSvc *reports.Service) *Server {
	return &Server{
		logger:   logger,
		registry: registry,
		engine:   engine,
		adapter:  adapter,
		reports:  reportSvc,
	}
}

// Handler returns the HTTP handler for the query and event API.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Route("/v1", func(r chi.Router) {
		r.Get("/accounts", s.listAccounts)
		r.Get("/accounts/{id}", s.getAccount)

		r.Get("/transactions", s.listTransactions)
		r.Get("/transactions/{id}", s.getTransaction)
		r.Post("/transactions", s.postTransaction)
		r.Post("/transactions/{id}/void", s.voidTransaction)

		r.Post("/events", s.handleEvent)

		r.Get("/reports/trial-balance", s.trialBalance)
		r.Get("/reports/income-statement", s.incomeStatement)
		r.Get("/reports/balance-sheet", s.balanceSheet)
	})

	return r
}
