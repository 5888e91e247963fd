package cart

import (
	"context"
	"fmt"
	"sync"

	"github.com/localmart/localmart-client/internal/api"
	pkgerrors "github.com/localmart/localmart-client/pkg/errors"
	"github.com/localmart/localmart-client/pkg/logger"
	"github.com/shopspring/decimal"
	"go.uber.org/multierr"
)

// Op identifies one cart operation kind. Each kind has its own pending flag
// and error slot so concurrent operations of different kinds cannot clobber
// each other's loading indicators.
type Op string

const (
	OpGet    Op = "getCart"
	OpAdd    Op = "addToCart"
	OpUpdate Op = "updateCartItem"
	OpRemove Op = "removeFromCart"
	OpClear  Op = "clearCart"
)

type requestState struct {
	pending bool
	err     string
}

// Store mirrors the server-owned cart in memory. Every mutation goes through
// the API first and is applied only on the server's confirmation; the UI
// shows per-line pending markers in the meantime. Snapshots handed to
// callers are copies and safe to hold across mutations.
type Store struct {
	mu  sync.Mutex
	api api.CartAPI
	log *logger.Logger

	items        []api.CartItem
	requests     map[Op]requestState
	pendingLines map[string]int
	totalItems   int
	totalAmount  decimal.Decimal
}

// NewStore builds an empty cart store around the given API boundary. The
// store is meant to be owned by the composition root and injected into
// consumers, not shared as a package global.
func NewStore(cartAPI api.CartAPI, log *logger.Logger) (*Store, error) {
	if cartAPI == nil {
		return nil, fmt.Errorf("cart api is required")
	}
	return &Store{
		api:          cartAPI,
		log:          log,
		requests:     map[Op]requestState{},
		pendingLines: map[string]int{},
	}, nil
}

// Snapshot is an immutable view of the cart state.
type Snapshot struct {
	Items        []api.CartItem
	TotalItems   int
	TotalAmount  decimal.Decimal
	Loading      bool
	Pending      map[Op]bool
	Errors       map[Op]string
	PendingLines map[string]bool
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Store) snapshotLocked() Snapshot {
	snap := Snapshot{
		Items:        copyItems(s.items),
		TotalItems:   s.totalItems,
		TotalAmount:  s.totalAmount,
		Pending:      map[Op]bool{},
		Errors:       map[Op]string{},
		PendingLines: map[string]bool{},
	}
	for op, state := range s.requests {
		if state.pending {
			snap.Pending[op] = true
			snap.Loading = true
		}
		if state.err != "" {
			snap.Errors[op] = state.err
		}
	}
	for productID, count := range s.pendingLines {
		if count > 0 {
			snap.PendingLines[productID] = true
		}
	}
	return snap
}

// Error returns the last error message recorded for the operation kind, or
// "" when the kind has none.
func (s *Store) Error(op Op) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.requests[op].err
}

// ClearError discards the recorded error for the operation kind. Callers
// invoke it after surfacing the message.
func (s *Store) ClearError(op Op) {
	s.mu.Lock()
	defer s.mu.Unlock()
	state := s.requests[op]
	state.err = ""
	s.requests[op] = state
}

// Reset empties the store without contacting the server. Used on logout.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = nil
	s.requests = map[Op]requestState{}
	s.pendingLines = map[string]int{}
	s.totalItems = 0
	s.totalAmount = decimal.Zero
}

// begin marks the operation kind pending and clears its previous error.
// productID is optional and adds a per-line pending marker.
func (s *Store) begin(op Op, productID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests[op] = requestState{pending: true}
	if productID != "" {
		s.pendingLines[productID]++
	}
}

// finish settles the operation kind and applies the mutation under the lock.
// apply runs only when err is nil; prior items stay untouched on failure.
func (s *Store) finish(op Op, productID string, err error, apply func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if productID != "" {
		if s.pendingLines[productID] > 1 {
			s.pendingLines[productID]--
		} else {
			delete(s.pendingLines, productID)
		}
	}
	if err != nil {
		s.requests[op] = requestState{err: pkgerrors.UserMessage(err)}
		return
	}
	s.requests[op] = requestState{}
	if apply != nil {
		apply()
		s.recomputeTotalsLocked()
	}
}

// recomputeTotalsLocked rebuilds both derived totals from the item sequence.
// Missing quantities count as zero; lines without a price are skipped rather
// than priced at zero. Decimal sums cannot go NaN, and a negative sum (a
// server-issued credit line) is surfaced as-is.
func (s *Store) recomputeTotalsLocked() {
	totalItems := 0
	totalAmount := decimal.Zero
	for _, item := range s.items {
		if item.Quantity > 0 {
			totalItems += item.Quantity
		}
		if item.Product == nil || item.Product.Price == nil || item.Quantity <= 0 {
			continue
		}
		line := item.Product.Price.Mul(decimal.NewFromInt(int64(item.Quantity)))
		totalAmount = totalAmount.Add(line)
	}
	s.totalItems = totalItems
	s.totalAmount = totalAmount
}

// sanitizeItems drops structurally invalid lines (no product, or a product
// without an identifier) instead of letting them corrupt the sequence. The
// aggregated warning is logged, never fatal.
func (s *Store) sanitizeItems(ctx context.Context, items []api.CartItem) []api.CartItem {
	valid := make([]api.CartItem, 0, len(items))
	var warnings error
	for idx, item := range items {
		if !item.Valid() {
			warnings = multierr.Append(warnings, fmt.Errorf("cart line %d has no product id", idx))
			continue
		}
		valid = append(valid, item)
	}
	if warnings != nil && s.log != nil {
		s.log.Warn(s.log.WithField(ctx, "dropped", len(items)-len(valid)), "dropped invalid cart lines: "+warnings.Error())
	}
	return valid
}

// indexOfProduct finds the line holding the given product id, or -1.
func (s *Store) indexOfProduct(productID string) int {
	for idx, item := range s.items {
		if item.ProductID() == productID {
			return idx
		}
	}
	return -1
}

func copyItems(items []api.CartItem) []api.CartItem {
	if items == nil {
		return nil
	}
	copied := make([]api.CartItem, len(items))
	for idx, item := range items {
		copied[idx] = copyItem(item)
	}
	return copied
}

func copyItem(item api.CartItem) api.CartItem {
	if item.Product != nil {
		product := *item.Product
		if item.Product.Price != nil {
			price := *item.Product.Price
			product.Price = &price
		}
		if item.Product.Stock != nil {
			stock := *item.Product.Stock
			product.Stock = &stock
		}
		item.Product = &product
	}
	return item
}
