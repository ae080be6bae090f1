package events

import (
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/mandir-dev/mandir/internal/id"
	"github.com/mandir-dev/mandir/internal/ledger"
	"github.com/mandir-dev/mandir/internal/model"
)

var (
	// ErrUnmappedEventKind means no mapping rule exists for the event's kind.
	// The event is not lost; delivery can be retried once a rule is added.
	ErrUnmappedEventKind = errors.New("unmapped event kind")
	// ErrInvalidEvent means the envelope is missing the fields the
	// idempotency key is derived from.
	ErrInvalidEvent = errors.New("invalid event")
)

// Poster is the slice of the posting engine the adapter needs.
type Poster interface {
	Post(d ledger.Draft) (model.Transaction, error)
}

// Adapter translates domain events into balanced journal transactions,
// posting each source event at most once. The idempotency check, the post,
// and the key recording happen under one lock so duplicate concurrent
// deliveries cannot both commit.
type Adapter struct {
	mu     sync.Mutex
	engine Poster
	dir    Directory
	rules  map[string]Rule
	seen   map[string]int64 // source key -> committed txn id
	logger logrus.FieldLogger
}

// AdapterOption configures an Adapter.
type AdapterOption func(*Adapter)

// WithAdapterLogger sets the adapter's logger.
func WithAdapterLogger(logger logrus.FieldLogger) AdapterOption {
	return func(a *Adapter) { a.logger = logger }
}

// NewAdapter creates an Adapter with the built-in mapping rules.
func NewAdapter(engine Poster, dir Directory, opts ...AdapterOption) *Adapter {
	quiet := logrus.New()
	quiet.SetOutput(io.Discard)

	a := &Adapter{
		engine: engine,
		dir:    dir,
		rules:  DefaultRules(),
		seen:   make(map[string]int64),
		logger: quiet,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Register adds or replaces the mapping rule for a kind.
func (a *Adapter) Register(kind string, rule Rule) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.rules[kind] = rule
}

// Restore rebuilds the posted-keys index from committed transactions, called
// after the engine replays its journal. The index is derived state: the
// source key on each transaction header is the durable record.
func (a *Adapter) Restore(txns []model.Transaction) {
	a.mu.Lock()
	defer a.mu.Unlock()
	for _, tx := range txns {
		if tx.SourceKey != "" {
			a.seen[tx.SourceKey] = tx.ID
		}
	}
}

// Handle posts the transaction for a domain event. A duplicate delivery
// (same referenceType, referenceId, eventVersion) is a safe no-op and
// returns (nil, nil). An invalid draft built by a mapping rule surfaces the
// posting engine's error unchanged: a broken rule must fail loudly.
func (a *Adapter) Handle(ev Event) (*model.Transaction, error) {
	if ev.Kind == "" || ev.ReferenceType == "" || ev.ReferenceID == "" || ev.EventVersion < 1 {
		return nil, fmt.Errorf("%w: kind, referenceType, referenceId, and eventVersion >= 1 are required", ErrInvalidEvent)
	}

	key := id.SourceKey(ev.ReferenceType, ev.ReferenceID, ev.EventVersion)

	a.mu.Lock()
	defer a.mu.Unlock()

	if txID, done := a.seen[key]; done {
		a.logger.WithFields(logrus.Fields{
			"event_id":   ev.ID,
			"source_key": key,
			"txn_id":     txID,
		}).Info("duplicate event delivery ignored")
		return nil, nil
	}

	rule, ok := a.rules[ev.Kind]
	if !ok {
		a.logger.WithFields(logrus.Fields{"event_id": ev.ID, "kind": ev.Kind}).Error("no mapping rule for event kind")
		return nil, fmt.Errorf("%w: %q", ErrUnmappedEventKind, ev.Kind)
	}

	draft, err := rule(ev, a.dir)
	if err != nil {
		return nil, fmt.Errorf("mapping %s: %w", ev.Kind, err)
	}
	draft.SourceKey = key

	tx, err := a.engine.Post(draft)
	if err != nil {
		return nil, fmt.Errorf("posting %s: %w", key, err)
	}
	a.seen[key] = tx.ID

	a.logger.WithFields(logrus.Fields{
		"event_id":   ev.ID,
		"source_key": key,
		"txn_id":     tx.ID,
		"amount":     ev.Payload.Amount.StringFixed(2),
	}).Info("event posted")
	return &tx, nil
}
