package accounts

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/mandir-dev/mandir/internal/model"
)

var (
	// ErrUnknownAccount means an account id does not resolve in the chart.
	ErrUnknownAccount = errors.New("unknown account")
	// ErrInvalidHierarchy means a child account disagrees with its parent's
	// type, or the parent does not exist.
	ErrInvalidHierarchy = errors.New("invalid account hierarchy")
	// ErrProtectedAccount means the account is system-owned and cannot be
	// renamed or reparented.
	ErrProtectedAccount = errors.New("protected account")
	// ErrDuplicateAccount means the account id is already taken.
	ErrDuplicateAccount = errors.New("duplicate account")
)

// Registry owns the chart of accounts: an indexed map plus a child-adjacency
// index for hierarchy traversal. Balances live in the posting engine, not
// here.
type Registry struct {
	mu       sync.RWMutex
	byID     map[int]model.Account
	children map[int][]int
}

// Filter narrows List results.
type Filter struct {
	Type       model.AccountType // zero value = all types
	ActiveOnly bool
}

// NewRegistry builds a Registry from a chart, validating the hierarchy.
func NewRegistry(chart []model.Account) (*Registry, error) {
	r := &Registry{
		byID:     make(map[int]model.Account, len(chart)),
		children: make(map[int][]int),
	}
	for _, a := range chart {
		if _, taken := r.byID[a.ID]; taken {
			return nil, fmt.Errorf("%w: id %d", ErrDuplicateAccount, a.ID)
		}
		if !a.Type.Valid() {
			return nil, fmt.Errorf("account %d: invalid type %q", a.ID, a.Type)
		}
		r.byID[a.ID] = a
	}
	for _, a := range r.byID {
		if a.ParentID == 0 {
			continue
		}
		parent, ok := r.byID[a.ParentID]
		if !ok {
			return nil, fmt.Errorf("%w: account %d references missing parent %d", ErrInvalidHierarchy, a.ID, a.ParentID)
		}
		if parent.Type != a.Type {
			return nil, fmt.Errorf("%w: account %d is %s but parent %d is %s", ErrInvalidHierarchy, a.ID, a.Type, parent.ID, parent.Type)
		}
		r.children[a.ParentID] = append(r.children[a.ParentID], a.ID)
	}
	return r, nil
}

// Load reads chart-of-accounts.csv from a books root and returns a Registry.
func Load(booksRoot string) (*Registry, error) {
	path := filepath.Join(booksRoot, "accounts", "chart-of-accounts.csv")
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening chart of accounts: %w", err)
	}
	defer f.Close()

	chart, err := ReadAccounts(f)
	if err != nil {
		return nil, fmt.Errorf("reading chart of accounts: %w", err)
	}
	return NewRegistry(chart)
}

// Create adds an account to the chart. The parent, when given, must exist and
// share the account's type. A zero id picks the next free code in the type's
// range (1xxx assets, 2xxx liabilities, 3xxx equity, 4xxx income, 5xxx
// expenses).
func (r *Registry) Create(id int, name string, typ model.AccountType, parentID int) (model.Account, error) {
	if !typ.Valid() {
		return model.Account{}, fmt.Errorf("invalid account type %q", typ)
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if parentID != 0 {
		parent, ok := r.byID[parentID]
		if !ok {
			return model.Account{}, fmt.Errorf("%w: parent %d does not exist", ErrInvalidHierarchy, parentID)
		}
		if parent.Type != typ {
			return model.Account{}, fmt.Errorf("%w: %s account cannot be a child of %s account %d", ErrInvalidHierarchy, typ, parent.Type, parentID)
		}
	}

	if id == 0 {
		id = r.nextCodeLocked(typ)
	} else if _, taken := r.byID[id]; taken {
		return model.Account{}, fmt.Errorf("%w: id %d", ErrDuplicateAccount, id)
	}

	acct := model.Account{ID: id, Name: name, Type: typ, ParentID: parentID, Active: true}
	r.byID[id] = acct
	if parentID != 0 {
		r.children[parentID] = append(r.children[parentID], id)
	}
	return acct, nil
}

// Get returns an account by id.
func (r *Registry) Get(id int) (model.Account, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.byID[id]
	return a, ok
}

// Exists reports whether an account id exists.
func (r *Registry) Exists(id int) bool {
	_, ok := r.Get(id)
	return ok
}

// List returns accounts matching the filter, sorted by id.
func (r *Registry) List(f Filter) []model.Account {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []model.Account
	for _, a := range r.byID {
		if f.Type != "" && a.Type != f.Type {
			continue
		}
		if f.ActiveOnly && !a.Active {
			continue
		}
		result = append(result, a)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result
}

// All returns every account sorted by id.
func (r *Registry) All() []model.Account {
	return r.List(Filter{})
}

// Children returns the direct sub-accounts of id, sorted by id.
func (r *Registry) Children(id int) []model.Account {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := append([]int(nil), r.children[id]...)
	sort.Ints(ids)
	result := make([]model.Account, 0, len(ids))
	for _, cid := range ids {
		result = append(result, r.byID[cid])
	}
	return result
}

// Rename changes an account's display name. System accounts are protected.
func (r *Registry) Rename(id int, name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.byID[id]
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownAccount, id)
	}
	if a.System {
		return fmt.Errorf("%w: account %d cannot be renamed", ErrProtectedAccount, id)
	}
	a.Name = name
	r.byID[id] = a
	return nil
}

// Reparent moves an account under a new parent of the same type. System
// accounts are protected, and a move may not introduce a cycle.
func (r *Registry) Reparent(id, newParentID int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.byID[id]
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownAccount, id)
	}
	if a.System {
		return fmt.Errorf("%w: account %d cannot be reparented", ErrProtectedAccount, id)
	}
	if newParentID != 0 {
		parent, ok := r.byID[newParentID]
		if !ok {
			return fmt.Errorf("%w: parent %d does not exist", ErrInvalidHierarchy, newParentID)
		}
		if parent.Type != a.Type {
			return fmt.Errorf("%w: %s account cannot be a child of %s account %d", ErrInvalidHierarchy, a.Type, parent.Type, newParentID)
		}
		for cur := newParentID; cur != 0; cur = r.byID[cur].ParentID {
			if cur == id {
				return fmt.Errorf("%w: moving %d under %d creates a cycle", ErrInvalidHierarchy, id, newParentID)
			}
		}
	}

	if a.ParentID != 0 {
		siblings := r.children[a.ParentID]
		for i, cid := range siblings {
			if cid == id {
				r.children[a.ParentID] = append(siblings[:i], siblings[i+1:]...)
				break
			}
		}
	}
	a.ParentID = newParentID
	r.byID[id] = a
	if newParentID != 0 {
		r.children[newParentID] = append(r.children[newParentID], id)
	}
	return nil
}

// Deactivate marks an account as closed for new postings. Accounts with
// posted history are never deleted.
func (r *Registry) Deactivate(id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.byID[id]
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownAccount, id)
	}
	a.Active = false
	r.byID[id] = a
	return nil
}

// Save writes the chart of accounts to accounts/chart-of-accounts.csv.
func (r *Registry) Save(booksRoot string) error {
	dir := filepath.Join(booksRoot, "accounts")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating accounts dir: %w", err)
	}

	path := filepath.Join(dir, "chart-of-accounts.csv")
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating chart of accounts file: %w", err)
	}
	defer f.Close()

	if err := WriteAccounts(f, r.All()); err != nil {
		return fmt.Errorf("writing chart of accounts: %w", err)
	}
	return nil
}

// nextCodeLocked picks the next free code in the type's thousand-block,
// stepping by 10 (1010, 1020, ...).
func (r *Registry) nextCodeLocked(typ model.AccountType) int {
	base := map[model.AccountType]int{
		model.AccountTypeAsset:     1000,
		model.AccountTypeLiability: 2000,
		model.AccountTypeEquity:    3000,
		model.AccountTypeIncome:    4000,
		model.AccountTypeExpense:   5000,
	}[typ]

	max := base
	for id := range r.byID {
		if id >= base && id < base+1000 && id > max {
			max = id
		}
	}
	next := max + 10
	for {
		if _, taken := r.byID[next]; !taken {
			return next
		}
		next++
	}
}
