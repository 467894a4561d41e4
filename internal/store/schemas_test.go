package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vbonduro/camstock/internal/domain"
	"github.com/vbonduro/camstock/internal/query"
)

func TestCameraStoreRoundTrip(t *testing.T) {
	cameras := NewCameraStore(openTestDB(t), query.SQLite)
	ctx := context.Background()

	c := domain.NewCamera(1, "Fujifilm", "X-T5", "mirrorless", 40.2, 1.5, 557)
	require.NoError(t, cameras.Insert(ctx, []domain.Camera{c}))

	got, err := cameras.Find(ctx, "ge(megapixels,40)")
	require.NoError(t, err)
	assert.Equal(t, []domain.Camera{c}, got)
}

func TestFlashStoreRoundTrip(t *testing.T) {
	flashes := NewFlashStore(openTestDB(t), query.SQLite)
	ctx := context.Background()

	f := domain.NewFlash(5, "Profoto", "A10", "speedlight", 76, 1.0, 560)
	require.NoError(t, flashes.Insert(ctx, []domain.Flash{f}))

	got := findByID(t, flashes, 5)
	require.NotNil(t, got)
	assert.Equal(t, f, *got)
}

func TestStockStoreRoundTrip(t *testing.T) {
	stock := NewStockStore(openTestDB(t), query.SQLite)
	ctx := context.Background()

	rows := []domain.Stock{
		domain.NewStock(1, "lens", 1, "Porto", 4, 129.9),
		domain.NewStock(2, "camera", 1, "Lisboa", 2, 1999),
	}
	require.NoError(t, stock.Insert(ctx, rows))

	got, err := stock.Find(ctx, "eq(product_kind,lens),gt(quantity,0)")
	require.NoError(t, err)
	assert.Equal(t, rows[:1], got)

	rows[1].Quantity = 0
	require.NoError(t, stock.Update(ctx, rows[1:]))
	empty, err := stock.Find(ctx, "eq(quantity,0)")
	require.NoError(t, err)
	require.Len(t, empty, 1)
	assert.Equal(t, "Lisboa", empty[0].Location)
}
