package workflow

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"hr-portal/internal/domain"
	"hr-portal/internal/portal/gateway"
)

var (
	ErrNotPending = errors.New("item is not pending")
	// ErrResolvedElsewhere means another reviewer got there first. The item
	// stays out of the list.
	ErrResolvedElsewhere = errors.New("already resolved elsewhere")
)

type Kind string

const (
	KindTicket   Kind = "ticket"
	KindApproval Kind = "approval"
	KindLeave    Kind = "leave"
)

// Item is one row of a pending list.
type Item struct {
	ID        string
	Kind      Kind
	Requester string
	Summary   string
	Status    domain.Status
	Version   int
}

type ResolveFunc func(ctx context.Context, id string, r gateway.Resolution) error

// PendingList is the pending view of one kind of item. Ids resolved through
// it are remembered so a stale refetch cannot bring them back.
type PendingList struct {
	mu       sync.Mutex
	kind     Kind
	items    []Item
	resolved map[string]struct{}
	resolve  ResolveFunc
}

func NewPendingList(kind Kind, resolve ResolveFunc) *PendingList {
	return &PendingList{
		kind:     kind,
		resolved: map[string]struct{}{},
		resolve:  resolve,
	}
}

func (l *PendingList) Kind() Kind {
	return l.kind
}

// Replace swaps in a fresh fetch, keeping only pending items that were not
// resolved in this session.
func (l *PendingList) Replace(items []Item) {
	l.mu.Lock()
	defer l.mu.Unlock()

	next := make([]Item, 0, len(items))
	for _, it := range items {
		if it.Status != domain.StatusPending {
			continue
		}
		if _, done := l.resolved[it.ID]; done {
			continue
		}
		next = append(next, it)
	}
	l.items = next
}

func (l *PendingList) Items() []Item {
	l.mu.Lock()
	defer l.mu.Unlock()
	return slices.Clone(l.items)
}

func (l *PendingList) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.items)
}

// Resolve removes the item right away, then asks the backend. Any failure
// other than a conflict puts the item back where it was.
func (l *PendingList) Resolve(ctx context.Context, id string, status domain.Status) error {
	if !status.Terminal() {
		return fmt.Errorf("cannot resolve to %q", status)
	}

	l.mu.Lock()
	idx := slices.IndexFunc(l.items, func(it Item) bool { return it.ID == id })
	if idx < 0 {
		l.mu.Unlock()
		return fmt.Errorf("%w: %s %s", ErrNotPending, l.kind, id)
	}
	item := l.items[idx]
	l.items = slices.Delete(l.items, idx, idx+1)
	l.resolved[id] = struct{}{}
	l.mu.Unlock()

	var version *int
	if item.Version > 0 {
		v := item.Version
		version = &v
	}

	err := l.resolve(ctx, id, gateway.Resolution{Status: status, Version: version})
	if err == nil {
		return nil
	}
	if errors.Is(err, gateway.ErrConflict) {
		return fmt.Errorf("%w: %s %s", ErrResolvedElsewhere, l.kind, id)
	}

	l.mu.Lock()
	delete(l.resolved, id)
	if idx > len(l.items) {
		idx = len(l.items)
	}
	l.items = slices.Insert(l.items, idx, item)
	l.mu.Unlock()
	return err
}
