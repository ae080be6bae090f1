package ledger

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/mandir-dev/mandir/internal/model"
)

// Engine is the single authority for turning proposed transactions into
// committed ledger state. All mutation funnels through Post; commits are
// serialized under one lock and either apply fully or not at all. Readers
// receive copies of committed state and never observe an in-flight commit.
type Engine struct {
	mu       sync.RWMutex
	accounts AccountResolver
	log      []model.Transaction
	byID     map[int64]int
	balances map[int]decimal.Decimal
	nextID   int64

	journalDir string // "" = in-memory only
	logger     logrus.FieldLogger
	now        func() time.Time
}

// Draft is a proposed transaction, not yet validated or committed.
type Draft struct {
	Date          time.Time
	Description   string
	ReferenceType string
	ReferenceID   string
	SourceKey     string
	CreatedBy     string
	Entries       []model.Entry
}

// Filter narrows List results. Zero-valued fields match everything.
type Filter struct {
	From          time.Time // inclusive
	To            time.Time // inclusive
	ReferenceType string
	ReferenceID   string
	Search        string // case-insensitive substring of description
}

// Option configures an Engine.
type Option func(*Engine)

// WithJournalDir makes the engine durable: commits append to
// <dir>/journal.csv and NewEngine replays an existing journal.
func WithJournalDir(dir string) Option {
	return func(e *Engine) { e.journalDir = dir }
}

// WithLogger sets the engine's logger.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(e *Engine) { e.logger = logger }
}

// WithNow overrides the commit clock, for tests.
func WithNow(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// NewEngine creates an Engine over the given chart of accounts. When a
// journal directory is configured, any existing journal.csv is replayed so
// balances and the id counter are rebuilt from the log.
func NewEngine(resolver AccountResolver, opts ...Option) (*Engine, error) {
	quiet := logrus.New()
	quiet.SetOutput(io.Discard)

	e := &Engine{
		accounts: resolver,
		byID:     make(map[int64]int),
		balances: make(map[int]decimal.Decimal),
		nextID:   1,
		logger:   quiet,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}

	if e.journalDir != "" {
		if err := e.replay(); err != nil {
			return nil, err
		}
	}
	return e, nil
}

// Post validates a draft and atomically commits it. On success the returned
// transaction is stamped Posted with a monotonically assigned id; on failure
// no balance change is observable.
func (e *Engine) Post(d Draft) (model.Transaction, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := ValidateDraft(d, e.accounts); err != nil {
		return model.Transaction{}, err
	}

	date := d.Date
	if date.IsZero() {
		date = e.now()
	}

	tx := model.Transaction{
		ID:            e.nextID,
		Date:          date,
		Description:   d.Description,
		ReferenceType: d.ReferenceType,
		ReferenceID:   d.ReferenceID,
		SourceKey:     d.SourceKey,
		Status:        model.StatusPosted,
		Entries:       cloneEntries(d.Entries),
		CreatedBy:     d.CreatedBy,
		PostedAt:      e.now(),
	}

	// Durable log first: if the append fails, nothing was mutated.
	if e.journalDir != "" {
		if err := e.appendJournal(MarshalTransaction(tx)); err != nil {
			return model.Transaction{}, err
		}
	}

	e.log = append(e.log, tx)
	e.byID[tx.ID] = len(e.log) - 1
	for _, entry := range tx.Entries {
		e.applyDelta(entry)
	}
	e.nextID++

	e.logger.WithFields(logrus.Fields{
		"txn_id":    tx.ID,
		"reference": tx.Reference(),
		"amount":    tx.TotalDebit().StringFixed(2),
	}).Info("transaction posted")

	return cloneTransaction(tx), nil
}

// Void marks a posted transaction as void. This is an audit annotation only:
// entries and balances are untouched, and reversing the financial effect
// requires a separate transaction (see Reverse).
func (e *Engine) Void(txID int64, reason string) (model.Transaction, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	idx, ok := e.byID[txID]
	if !ok {
		return model.Transaction{}, fmt.Errorf("%w: %d", ErrUnknownTransaction, txID)
	}
	tx := e.log[idx]
	if tx.Status != model.StatusPosted {
		return model.Transaction{}, fmt.Errorf("%w: transaction %d is %s", ErrNotPosted, txID, tx.Status)
	}

	tx.Status = model.StatusVoid
	tx.VoidedAt = e.now()
	tx.VoidReason = reason

	if e.journalDir != "" {
		if err := e.appendJournal([][]string{MarshalVoidMarker(tx)}); err != nil {
			return model.Transaction{}, err
		}
	}

	e.log[idx] = tx
	e.logger.WithFields(logrus.Fields{"txn_id": txID, "reason": reason}).Info("transaction voided")
	return cloneTransaction(tx), nil
}

// Reverse posts the explicit offsetting transaction for an existing one:
// every debit becomes a credit and vice versa. This is the only way to cancel
// the financial effect of committed history.
func (e *Engine) Reverse(txID int64, date time.Time, createdBy, note string) (model.Transaction, error) {
	orig, err := e.Get(txID)
	if err != nil {
		return model.Transaction{}, err
	}

	if note == "" {
		note = fmt.Sprintf("Reversal of txn %d: %s", orig.ID, orig.Description)
	}
	entries := make([]model.Entry, len(orig.Entries))
	for i, entry := range orig.Entries {
		entries[i] = model.Entry{AccountID: entry.AccountID, Debit: entry.Credit, Credit: entry.Debit}
	}

	return e.Post(Draft{
		Date:          date,
		Description:   note,
		ReferenceType: orig.ReferenceType,
		ReferenceID:   orig.ReferenceID,
		CreatedBy:     createdBy,
		Entries:       entries,
	})
}

// Get returns a committed transaction by id.
func (e *Engine) Get(txID int64) (model.Transaction, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	idx, ok := e.byID[txID]
	if !ok {
		return model.Transaction{}, fmt.Errorf("%w: %d", ErrUnknownTransaction, txID)
	}
	return cloneTransaction(e.log[idx]), nil
}

// List returns committed transactions matching the filter, ordered by id
// ascending. The result is a snapshot: re-querying with the same filter and
// committed state yields the same set.
func (e *Engine) List(f Filter) []model.Transaction {
	e.mu.RLock()
	defer e.mu.RUnlock()

	var result []model.Transaction
	for _, tx := range e.log {
		if !f.From.IsZero() && tx.Date.Before(f.From) {
			continue
		}
		if !f.To.IsZero() && tx.Date.After(f.To) {
			continue
		}
		if f.ReferenceType != "" && tx.ReferenceType != f.ReferenceType {
			continue
		}
		if f.ReferenceID != "" && tx.ReferenceID != f.ReferenceID {
			continue
		}
		if f.Search != "" && !strings.Contains(strings.ToLower(tx.Description), strings.ToLower(f.Search)) {
			continue
		}
		result = append(result, cloneTransaction(tx))
	}
	return result
}

// AccountBalance returns the derived balance of one account in its natural
// sign (debits increase assets and expenses, credits increase the rest).
func (e *Engine) AccountBalance(accountID int) decimal.Decimal {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.balances[accountID]
}

// Balances returns a snapshot of every non-zero account balance.
func (e *Engine) Balances() map[int]decimal.Decimal {
	e.mu.RLock()
	defer e.mu.RUnlock()

	out := make(map[int]decimal.Decimal, len(e.balances))
	for id, bal := range e.balances {
		out[id] = bal
	}
	return out
}

// applyDelta is the only place balances change, called under the commit lock
// with entries that have already been validated.
func (e *Engine) applyDelta(entry model.Entry) {
	acct, _ := e.accounts.Get(entry.AccountID)
	sign := decimal.NewFromInt(acct.Type.DebitSign())
	delta := entry.Debit.Sub(entry.Credit).Mul(sign)
	e.balances[entry.AccountID] = e.balances[entry.AccountID].Add(delta)
}

func (e *Engine) journalPath() string {
	return filepath.Join(e.journalDir, "journal.csv")
}

// replay rebuilds the log, balances, and id counter from journal.csv.
func (e *Engine) replay() error {
	f, err := os.Open(e.journalPath())
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("opening journal: %w", err)
	}
	defer f.Close()

	txns, err := ReadJournal(f)
	if err != nil {
		return fmt.Errorf("reading journal: %w", err)
	}

	for _, tx := range txns {
		for _, entry := range tx.Entries {
			if _, ok := e.accounts.Get(entry.AccountID); !ok {
				return fmt.Errorf("journal txn %d references unknown account %d", tx.ID, entry.AccountID)
			}
		}
		e.log = append(e.log, tx)
		e.byID[tx.ID] = len(e.log) - 1
		for _, entry := range tx.Entries {
			e.applyDelta(entry)
		}
		if tx.ID >= e.nextID {
			e.nextID = tx.ID + 1
		}
	}

	e.logger.WithField("transactions", len(txns)).Info("journal replayed")
	return nil
}

// appendJournal appends rows to journal.csv, creating the file and header if
// needed.
func (e *Engine) appendJournal(rows [][]string) error {
	if err := os.MkdirAll(e.journalDir, 0o755); err != nil {
		return fmt.Errorf("creating journal dir: %w", err)
	}

	path := e.journalPath()
	isNew := false
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		isNew = true
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("opening journal: %w", err)
	}
	defer f.Close()

	if isNew {
		if _, err := fmt.Fprintln(f, Header); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}
	if err := AppendRows(f, rows); err != nil {
		return fmt.Errorf("appending journal: %w", err)
	}
	return nil
}

func cloneEntries(entries []model.Entry) []model.Entry {
	out := make([]model.Entry, len(entries))
	copy(out, entries)
	return out
}

func cloneTransaction(tx model.Transaction) model.Transaction {
	tx.Entries = cloneEntries(tx.Entries)
	return tx
}
