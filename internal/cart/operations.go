package cart

import (
	"context"

	"github.com/localmart/localmart-client/internal/api"
)

// Fetch replaces the item sequence with the server's cart. Structurally
// invalid lines are filtered out; a failed fetch leaves prior items
// untouched.
func (s *Store) Fetch(ctx context.Context) (Snapshot, error) {
	s.begin(OpGet, "")

	items, err := s.api.GetCart(ctx)

	s.finish(OpGet, "", err, func() {
		s.items = s.sanitizeItems(ctx, items)
	})
	if err != nil {
		return s.Snapshot(), err
	}
	return s.Snapshot(), nil
}

// Add puts quantity units of the product in the cart. A zero or negative
// quantity defaults to one. The server is authoritative on merge semantics:
// when a line for the product already exists, its returned line replaces
// ours instead of a duplicate being appended.
func (s *Store) Add(ctx context.Context, productID string, quantity int) (Snapshot, error) {
	if quantity <= 0 {
		quantity = 1
	}
	s.begin(OpAdd, productID)

	line, err := s.api.AddToCart(ctx, productID, quantity)

	s.finish(OpAdd, productID, err, func() {
		s.mergeLine(*line)
	})
	if err != nil {
		return s.Snapshot(), err
	}
	return s.Snapshot(), nil
}

// UpdateQuantity sets the line's quantity. A requested quantity of zero or
// less is a removal signal and is redirected to Remove, never sent as an
// update.
func (s *Store) UpdateQuantity(ctx context.Context, productID string, quantity int) (Snapshot, error) {
	if quantity <= 0 {
		return s.Remove(ctx, productID)
	}
	s.begin(OpUpdate, productID)

	line, err := s.api.UpdateCartItem(ctx, s.lineID(productID), quantity)

	s.finish(OpUpdate, productID, err, func() {
		s.mergeLine(*line)
	})
	if err != nil {
		return s.Snapshot(), err
	}
	return s.Snapshot(), nil
}

// Remove deletes the line holding the product. Lines with a missing product
// id are conservatively retained.
func (s *Store) Remove(ctx context.Context, productID string) (Snapshot, error) {
	s.begin(OpRemove, productID)

	err := s.api.RemoveFromCart(ctx, s.lineID(productID))

	s.finish(OpRemove, productID, err, func() {
		kept := s.items[:0:0]
		for _, item := range s.items {
			if item.ProductID() == productID {
				continue
			}
			kept = append(kept, item)
		}
		s.items = kept
	})
	if err != nil {
		return s.Snapshot(), err
	}
	return s.Snapshot(), nil
}

// Clear empties the cart and zeroes both totals. Clearing an already empty
// cart succeeds again with the same result.
func (s *Store) Clear(ctx context.Context) (Snapshot, error) {
	s.begin(OpClear, "")

	err := s.api.ClearCart(ctx)

	s.finish(OpClear, "", err, func() {
		s.items = nil
	})
	if err != nil {
		return s.Snapshot(), err
	}
	return s.Snapshot(), nil
}

// mergeLine replaces the line matching the server line's product id, or
// appends defensively when no line matches.
func (s *Store) mergeLine(line api.CartItem) {
	if idx := s.indexOfProduct(line.ProductID()); idx >= 0 {
		s.items[idx] = line
		return
	}
	s.items = append(s.items, line)
}

// lineID resolves the server-assigned line id for the product, falling back
// to the product id itself for lines that never round-tripped.
func (s *Store) lineID(productID string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if idx := s.indexOfProduct(productID); idx >= 0 && s.items[idx].ID != "" {
		return s.items[idx].ID
	}
	return productID
}
