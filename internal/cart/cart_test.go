package cart

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/besicmining/marketplace-api/pkg/apperr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type stubPricer struct {
	prices map[uint]float64
}

func (s stubPricer) ProductPrice(id uint) (float64, bool, error) {
	price, ok := s.prices[id]
	return price, ok, nil
}

func newTestService(t *testing.T) *Service {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "cart_test.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&Cart{}, &CartItem{}))

	return NewService(db, stubPricer{prices: map[uint]float64{5: 2500, 6: 100}})
}

func TestGetCart(t *testing.T) {
	svc := newTestService(t)

	summary, err := svc.GetCart(1)
	require.NoError(t, err)
	assert.Empty(t, summary.Cart.Items)
	assert.Zero(t, summary.Total)

	// a second read reuses the same cart row
	again, err := svc.GetCart(1)
	require.NoError(t, err)
	assert.Equal(t, summary.Cart.ID, again.Cart.ID)
}

func TestAddItem(t *testing.T) {
	t.Run("snapshots_unit_price_and_totals", func(t *testing.T) {
		svc := newTestService(t)

		summary, err := svc.AddItem(1, AddItemRequest{ProductID: 5, Quantity: 2})
		require.NoError(t, err)
		require.Len(t, summary.Cart.Items, 1)
		assert.InDelta(t, 2500.0, summary.Cart.Items[0].UnitPrice, 1e-9)
		assert.InDelta(t, 5000.0, summary.Total, 1e-9)
	})

	t.Run("merges_repeat_adds", func(t *testing.T) {
		svc := newTestService(t)

		_, err := svc.AddItem(1, AddItemRequest{ProductID: 5, Quantity: 1})
		require.NoError(t, err)
		summary, err := svc.AddItem(1, AddItemRequest{ProductID: 5, Quantity: 2})
		require.NoError(t, err)

		require.Len(t, summary.Cart.Items, 1)
		assert.Equal(t, 3, summary.Cart.Items[0].Quantity)
	})

	t.Run("mixed_products_total", func(t *testing.T) {
		svc := newTestService(t)

		_, err := svc.AddItem(1, AddItemRequest{ProductID: 5, Quantity: 1})
		require.NoError(t, err)
		summary, err := svc.AddItem(1, AddItemRequest{ProductID: 6, Quantity: 3})
		require.NoError(t, err)

		assert.Len(t, summary.Cart.Items, 2)
		assert.InDelta(t, 2800.0, summary.Total, 1e-9)
	})

	t.Run("unknown_product", func(t *testing.T) {
		svc := newTestService(t)

		_, err := svc.AddItem(1, AddItemRequest{ProductID: 99, Quantity: 1})
		var appErr *apperr.Error
		require.True(t, errors.As(err, &appErr))
		assert.Equal(t, apperr.CodeProductNotFound, appErr.Code)
	})

	t.Run("carts_are_per_user", func(t *testing.T) {
		svc := newTestService(t)

		_, err := svc.AddItem(1, AddItemRequest{ProductID: 5, Quantity: 1})
		require.NoError(t, err)

		other, err := svc.GetCart(2)
		require.NoError(t, err)
		assert.Empty(t, other.Cart.Items)
	})
}

func TestUpdateItem(t *testing.T) {
	t.Run("replaces_quantity", func(t *testing.T) {
		svc := newTestService(t)

		summary, err := svc.AddItem(1, AddItemRequest{ProductID: 5, Quantity: 1})
		require.NoError(t, err)
		itemID := summary.Cart.Items[0].ID

		updated, err := svc.UpdateItem(1, itemID, UpdateItemRequest{Quantity: 4})
		require.NoError(t, err)
		assert.Equal(t, 4, updated.Cart.Items[0].Quantity)
		assert.InDelta(t, 10000.0, updated.Total, 1e-9)
	})

	t.Run("cannot_touch_another_users_item", func(t *testing.T) {
		svc := newTestService(t)

		summary, err := svc.AddItem(1, AddItemRequest{ProductID: 5, Quantity: 1})
		require.NoError(t, err)
		itemID := summary.Cart.Items[0].ID

		_, err = svc.UpdateItem(2, itemID, UpdateItemRequest{Quantity: 4})
		var appErr *apperr.Error
		require.True(t, errors.As(err, &appErr))
		assert.Equal(t, apperr.CodeCartNotFound, appErr.Code)
	})
}

func TestRemoveAndClear(t *testing.T) {
	svc := newTestService(t)

	summary, err := svc.AddItem(1, AddItemRequest{ProductID: 5, Quantity: 1})
	require.NoError(t, err)
	_, err = svc.AddItem(1, AddItemRequest{ProductID: 6, Quantity: 2})
	require.NoError(t, err)

	afterRemove, err := svc.RemoveItem(1, summary.Cart.Items[0].ID)
	require.NoError(t, err)
	require.Len(t, afterRemove.Cart.Items, 1)
	assert.InDelta(t, 200.0, afterRemove.Total, 1e-9)

	cleared, err := svc.Clear(1)
	require.NoError(t, err)
	assert.Empty(t, cleared.Cart.Items)
	assert.Zero(t, cleared.Total)
}
