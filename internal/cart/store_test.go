package cart

import (
	"context"
	"testing"

	"github.com/localmart/localmart-client/internal/api"
	pkgerrors "github.com/localmart/localmart-client/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubCartAPI struct {
	items      []api.CartItem
	addResult  *api.CartItem
	updateItem *api.CartItem
	err        error

	addCalls    int
	updateCalls int
	removeCalls int
	clearCalls  int
	lastItemID  string
	lastQty     int
}

func (s *stubCartAPI) GetCart(ctx context.Context) ([]api.CartItem, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.items, nil
}

func (s *stubCartAPI) AddToCart(ctx context.Context, productID string, quantity int) (*api.CartItem, error) {
	s.addCalls++
	s.lastQty = quantity
	if s.err != nil {
		return nil, s.err
	}
	return s.addResult, nil
}

func (s *stubCartAPI) UpdateCartItem(ctx context.Context, itemID string, quantity int) (*api.CartItem, error) {
	s.updateCalls++
	s.lastItemID = itemID
	s.lastQty = quantity
	if s.err != nil {
		return nil, s.err
	}
	return s.updateItem, nil
}

func (s *stubCartAPI) RemoveFromCart(ctx context.Context, itemID string) error {
	s.removeCalls++
	s.lastItemID = itemID
	return s.err
}

func (s *stubCartAPI) ClearCart(ctx context.Context) error {
	s.clearCalls++
	return s.err
}

func price(value string) *decimal.Decimal {
	parsed := decimal.RequireFromString(value)
	return &parsed
}

func line(lineID, productID string, priceValue string, qty int) api.CartItem {
	item := api.CartItem{
		ID:       lineID,
		Product:  &api.CartProduct{ID: productID, Name: "product " + productID},
		Quantity: qty,
	}
	if priceValue != "" {
		item.Product.Price = price(priceValue)
	}
	return item
}

func newTestStore(t *testing.T, stub *stubCartAPI) *Store {
	t.Helper()
	store, err := NewStore(stub, nil)
	require.NoError(t, err)
	return store
}

func TestFetchRecomputesTotals(t *testing.T) {
	t.Parallel()

	stub := &stubCartAPI{items: []api.CartItem{
		line("l1", "A", "2.50", 2),
		line("l2", "B", "1.25", 3),
	}}
	store := newTestStore(t, stub)

	snap, err := store.Fetch(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 5, snap.TotalItems)
	assert.True(t, snap.TotalAmount.Equal(decimal.RequireFromString("8.75")),
		"expected total 8.75, got %s", snap.TotalAmount)
	assert.False(t, snap.Loading)
}

func TestTotalsSurfaceNegativePricedLines(t *testing.T) {
	t.Parallel()

	stub := &stubCartAPI{items: []api.CartItem{
		line("l1", "A", "5.00", 1),
		line("l2", "CREDIT", "-8.00", 1),
	}}
	store := newTestStore(t, stub)

	snap, err := store.Fetch(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, snap.TotalItems)
	assert.True(t, snap.TotalAmount.Equal(decimal.RequireFromString("-3.00")),
		"expected total -3.00, got %s", snap.TotalAmount)
}

func TestFetchFiltersInvalidItems(t *testing.T) {
	t.Parallel()

	missingProduct := api.CartItem{ID: "l2", Quantity: 4}
	missingID := api.CartItem{ID: "l3", Product: &api.CartProduct{Name: "nameless"}, Quantity: 9}
	stub := &stubCartAPI{items: []api.CartItem{
		line("l1", "A", "2.00", 1),
		missingProduct,
		missingID,
	}}
	store := newTestStore(t, stub)

	snap, err := store.Fetch(context.Background())
	require.NoError(t, err)

	require.Len(t, snap.Items, 1)
	assert.Equal(t, "A", snap.Items[0].Product.ID)
	assert.Equal(t, 1, snap.TotalItems)
	assert.True(t, snap.TotalAmount.Equal(decimal.RequireFromString("2.00")))
}

func TestFetchSkipsUnpricedItemsInAmount(t *testing.T) {
	t.Parallel()

	stub := &stubCartAPI{items: []api.CartItem{
		line("l1", "A", "3.00", 2),
		line("l2", "B", "", 5),
	}}
	store := newTestStore(t, stub)

	snap, err := store.Fetch(context.Background())
	require.NoError(t, err)

	// Unpriced lines still count toward the item total but never the amount.
	assert.Equal(t, 7, snap.TotalItems)
	assert.True(t, snap.TotalAmount.Equal(decimal.RequireFromString("6.00")))
}

func TestFetchFailureKeepsPriorItems(t *testing.T) {
	t.Parallel()

	stub := &stubCartAPI{items: []api.CartItem{line("l1", "A", "2.00", 1)}}
	store := newTestStore(t, stub)
	_, err := store.Fetch(context.Background())
	require.NoError(t, err)

	stub.err = pkgerrors.New(pkgerrors.CodeServer, "cart backend down")
	snap, err := store.Fetch(context.Background())
	require.Error(t, err)

	require.Len(t, snap.Items, 1)
	assert.Equal(t, "cart backend down", snap.Errors[OpGet])
	assert.Equal(t, 1, snap.TotalItems)
}

func TestAddReplacesExistingLine(t *testing.T) {
	t.Parallel()

	stub := &stubCartAPI{items: []api.CartItem{line("l1", "A", "2.00", 1)}}
	store := newTestStore(t, stub)
	_, err := store.Fetch(context.Background())
	require.NoError(t, err)

	// Server merges the add into the existing line and returns qty 3.
	merged := line("l1", "A", "2.00", 3)
	stub.addResult = &merged

	snap, err := store.Add(context.Background(), "A", 2)
	require.NoError(t, err)

	require.Len(t, snap.Items, 1)
	assert.Equal(t, 3, snap.Items[0].Quantity)
	assert.Equal(t, 3, snap.TotalItems)
}

func TestAddAppendsNewLine(t *testing.T) {
	t.Parallel()

	stub := &stubCartAPI{items: []api.CartItem{line("l1", "A", "2.00", 1)}}
	store := newTestStore(t, stub)
	_, err := store.Fetch(context.Background())
	require.NoError(t, err)

	added := line("l2", "B", "4.00", 1)
	stub.addResult = &added

	snap, err := store.Add(context.Background(), "B", 0)
	require.NoError(t, err)

	require.Len(t, snap.Items, 2)
	assert.Equal(t, 1, stub.lastQty, "zero quantity must default to one")
	assert.True(t, snap.TotalAmount.Equal(decimal.RequireFromString("6.00")))
}

func TestAddFailureLeavesStateUntouched(t *testing.T) {
	t.Parallel()

	stub := &stubCartAPI{items: []api.CartItem{line("l1", "A", "2.00", 1)}}
	store := newTestStore(t, stub)
	_, err := store.Fetch(context.Background())
	require.NoError(t, err)

	stub.err = pkgerrors.New(pkgerrors.CodeConflict, "out of stock")
	snap, err := store.Add(context.Background(), "B", 1)
	require.Error(t, err)

	require.Len(t, snap.Items, 1)
	assert.Equal(t, "out of stock", snap.Errors[OpAdd])
	assert.Empty(t, snap.Errors[OpGet], "other kinds keep their own error slots")
}

func TestUpdateQuantityZeroRedirectsToRemove(t *testing.T) {
	t.Parallel()

	stub := &stubCartAPI{items: []api.CartItem{line("l1", "A", "2.00", 2)}}
	store := newTestStore(t, stub)
	_, err := store.Fetch(context.Background())
	require.NoError(t, err)

	snap, err := store.UpdateQuantity(context.Background(), "A", 0)
	require.NoError(t, err)

	assert.Zero(t, stub.updateCalls, "quantity zero must never be sent as an update")
	assert.Equal(t, 1, stub.removeCalls)
	assert.Empty(t, snap.Items)
}

func TestUpdateQuantityReplacesMatchingLine(t *testing.T) {
	t.Parallel()

	stub := &stubCartAPI{items: []api.CartItem{line("l1", "A", "2.00", 2)}}
	store := newTestStore(t, stub)
	_, err := store.Fetch(context.Background())
	require.NoError(t, err)

	updated := line("l1", "A", "2.00", 5)
	stub.updateItem = &updated

	snap, err := store.UpdateQuantity(context.Background(), "A", 5)
	require.NoError(t, err)

	assert.Equal(t, "l1", stub.lastItemID, "update must address the server line id")
	require.Len(t, snap.Items, 1)
	assert.Equal(t, 5, snap.Items[0].Quantity)
	assert.True(t, snap.TotalAmount.Equal(decimal.RequireFromString("10.00")))
}

func TestUpdateQuantityAppendsWhenNoLineMatches(t *testing.T) {
	t.Parallel()

	stub := &stubCartAPI{}
	store := newTestStore(t, stub)

	updated := line("l9", "Z", "1.00", 2)
	stub.updateItem = &updated

	snap, err := store.UpdateQuantity(context.Background(), "Z", 2)
	require.NoError(t, err)

	require.Len(t, snap.Items, 1)
	assert.Equal(t, "Z", snap.Items[0].Product.ID)
}

func TestRemoveFiltersByProductID(t *testing.T) {
	t.Parallel()

	stub := &stubCartAPI{items: []api.CartItem{
		line("l1", "X", "2.00", 1),
		line("l2", "Y", "3.00", 1),
	}}
	store := newTestStore(t, stub)
	_, err := store.Fetch(context.Background())
	require.NoError(t, err)

	snap, err := store.Remove(context.Background(), "X")
	require.NoError(t, err)

	require.Len(t, snap.Items, 1)
	assert.Equal(t, "Y", snap.Items[0].Product.ID)
	assert.True(t, snap.TotalAmount.Equal(decimal.RequireFromString("3.00")))
}

func TestClearIsIdempotent(t *testing.T) {
	t.Parallel()

	stub := &stubCartAPI{items: []api.CartItem{line("l1", "A", "2.00", 4)}}
	store := newTestStore(t, stub)
	_, err := store.Fetch(context.Background())
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		snap, err := store.Clear(context.Background())
		require.NoError(t, err)
		assert.Empty(t, snap.Items)
		assert.Zero(t, snap.TotalItems)
		assert.True(t, snap.TotalAmount.IsZero())
		assert.Empty(t, snap.Errors[OpClear])
	}
	assert.Equal(t, 2, stub.clearCalls)
}

func TestClearErrorAction(t *testing.T) {
	t.Parallel()

	stub := &stubCartAPI{err: pkgerrors.New(pkgerrors.CodeServer, "boom")}
	store := newTestStore(t, stub)

	_, err := store.Fetch(context.Background())
	require.Error(t, err)
	require.Equal(t, "boom", store.Error(OpGet))

	store.ClearError(OpGet)
	assert.Empty(t, store.Error(OpGet))
}

func TestResetEmptiesEverything(t *testing.T) {
	t.Parallel()

	stub := &stubCartAPI{items: []api.CartItem{line("l1", "A", "2.00", 4)}}
	store := newTestStore(t, stub)
	_, err := store.Fetch(context.Background())
	require.NoError(t, err)

	store.Reset()
	snap := store.Snapshot()

	assert.Empty(t, snap.Items)
	assert.Zero(t, snap.TotalItems)
	assert.True(t, snap.TotalAmount.IsZero())
}

func TestSnapshotIsACopy(t *testing.T) {
	t.Parallel()

	stub := &stubCartAPI{items: []api.CartItem{line("l1", "A", "2.00", 1)}}
	store := newTestStore(t, stub)
	_, err := store.Fetch(context.Background())
	require.NoError(t, err)

	snap := store.Snapshot()
	snap.Items[0].Quantity = 99
	snap.Items[0].Product.ID = "mutated"

	fresh := store.Snapshot()
	assert.Equal(t, 1, fresh.Items[0].Quantity)
	assert.Equal(t, "A", fresh.Items[0].Product.ID)
}

func TestFallbackErrorMessage(t *testing.T) {
	t.Parallel()

	stub := &stubCartAPI{err: pkgerrors.New(pkgerrors.CodeServer, "")}
	store := newTestStore(t, stub)

	snap, err := store.Fetch(context.Background())
	require.Error(t, err)
	assert.Equal(t, "server error", snap.Errors[OpGet])
}
