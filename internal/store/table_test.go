package store

import (
	"context"
	"database/sql"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vbonduro/camstock/internal/db"
	"github.com/vbonduro/camstock/internal/domain"
	"github.com/vbonduro/camstock/internal/inventory"
	"github.com/vbonduro/camstock/internal/query"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	d, err := db.OpenForTesting()
	require.NoError(t, err)
	t.Cleanup(func() { _ = d.Close() })
	return d
}

// findByID returns the record with the given id, or nil if there is none.
func findByID[T domain.Entity](t *testing.T, table *Table[T], id int64) *T {
	t.Helper()
	got, err := table.Find(context.Background(), fmt.Sprintf("eq(id,%d)", id))
	require.NoError(t, err)
	require.LessOrEqual(t, len(got), 1)
	if len(got) == 0 {
		return nil
	}
	return &got[0]
}

func ids[T domain.Entity](items []T) []int64 {
	out := make([]int64, len(items))
	for i, it := range items {
		out[i] = it.Key()
	}
	return out
}

func seedLenses(t *testing.T, lenses *Table[domain.Lens]) {
	t.Helper()
	err := lenses.Insert(context.Background(), []domain.Lens{
		domain.NewLens(1, "Canon", "EF50", "prime", 0, 0, 1.8, 1.8, 190),
		domain.NewLens(2, "Canon", "EF 70-200", "zoom", 200, 70, 2.8, 32, 1480),
		domain.NewLens(3, "Sigma", "Art 35", "prime", 0, 0, 1.4, 16, 665),
	})
	require.NoError(t, err)
}

func TestLensStoreInsertAndGet(t *testing.T) {
	lenses := NewLensStore(openTestDB(t), query.SQLite)
	seedLenses(t, lenses)

	got := findByID(t, lenses, 1)
	require.NotNil(t, got)
	assert.Equal(t, domain.NewLens(1, "Canon", "EF50", "prime", 0, 0, 1.8, 1.8, 190), *got)
}

func TestLensStoreGetMissing(t *testing.T) {
	lenses := NewLensStore(openTestDB(t), query.SQLite)

	assert.Nil(t, findByID(t, lenses, 42))
}

func TestLensStoreInsertIsAtomic(t *testing.T) {
	lenses := NewLensStore(openTestDB(t), query.SQLite)
	ctx := context.Background()
	seedLenses(t, lenses)

	err := lenses.Insert(ctx, []domain.Lens{
		domain.NewLens(10, "Nikon", "Z 50", "prime", 0, 0, 1.8, 16, 415),
		domain.NewLens(1, "Duplicate", "id", "prime", 0, 0, 0, 0, 0),
	})
	require.Error(t, err)

	assert.Nil(t, findByID(t, lenses, 10), "the batch must roll back as a whole")
}

func TestLensStoreFindAll(t *testing.T) {
	lenses := NewLensStore(openTestDB(t), query.SQLite)
	seedLenses(t, lenses)

	all, err := lenses.Find(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, int64(1), all[0].ID)
	assert.Equal(t, int64(3), all[2].ID)
}

func TestLensStoreFindWithConditions(t *testing.T) {
	lenses := NewLensStore(openTestDB(t), query.SQLite)
	seedLenses(t, lenses)
	ctx := context.Background()

	canon, err := lenses.Find(ctx, "eq(brand,Canon)")
	require.NoError(t, err)
	assert.Len(t, canon, 2)

	light, err := lenses.Find(ctx, "eq(category,prime),lt(weight,500)")
	require.NoError(t, err)
	require.Len(t, light, 1)
	assert.Equal(t, "EF50", light[0].Model)

	heavyFirst, err := lenses.Find(ctx, "sort(-weight)")
	require.NoError(t, err)
	require.Len(t, heavyFirst, 3)
	assert.Equal(t, int64(2), heavyFirst[0].ID)

	fuzzy, err := lenses.Find(ctx, "like(model,*art*)")
	require.NoError(t, err)
	require.Len(t, fuzzy, 1)
	assert.Equal(t, "Sigma", fuzzy[0].Brand)
}

func TestLensStoreFindLimit(t *testing.T) {
	lenses := NewLensStore(openTestDB(t), query.SQLite)
	seedLenses(t, lenses)
	require.NoError(t, lenses.Insert(context.Background(), []domain.Lens{
		domain.NewLens(4, "Nikon", "Z 50", "prime", 0, 0, 1.8, 16, 415),
	}))
	ctx := context.Background()

	first, err := lenses.Find(ctx, "limit(2)")
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2}, ids(first))

	page, err := lenses.Find(ctx, "limit(1,1)")
	require.NoError(t, err)
	assert.Equal(t, []int64{2}, ids(page))

	tail, err := lenses.Find(ctx, "sort(-id),limit(2,1)")
	require.NoError(t, err)
	assert.Equal(t, []int64{3, 2}, ids(tail))
}

func TestLensStoreFindLikeIsLiteral(t *testing.T) {
	lenses := NewLensStore(openTestDB(t), query.SQLite)
	ctx := context.Background()
	require.NoError(t, lenses.Insert(ctx, []domain.Lens{
		domain.NewLens(1, "Canon", "EF150", "prime", 0, 0, 1.8, 16, 400),
		domain.NewLens(2, "Canon", "EF_50", "prime", 0, 0, 1.8, 16, 190),
		domain.NewLens(3, "Canon", "EF-50", "prime", 0, 0, 1.8, 16, 190),
	}))

	underscore, err := lenses.Find(ctx, "like(model,EF_50)")
	require.NoError(t, err)
	assert.Equal(t, []int64{2}, ids(underscore))

	wildcard, err := lenses.Find(ctx, "like(model,EF*50)")
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2, 3}, ids(wildcard))
}

func TestLensStoreFindMalformed(t *testing.T) {
	lenses := NewLensStore(openTestDB(t), query.SQLite)

	for _, cond := range []string{"eq(colour,red)", "eq(", "eq(brand,Canon", "limit()", "sort()", "and()"} {
		_, err := lenses.Find(context.Background(), cond)
		assert.ErrorIs(t, err, query.ErrInvalidCondition, cond)
	}
}

func TestLensStoreUpdate(t *testing.T) {
	lenses := NewLensStore(openTestDB(t), query.SQLite)
	seedLenses(t, lenses)
	ctx := context.Background()

	updated := domain.NewLens(3, "Sigma", "Art 35 DG", "prime", 0, 0, 1.2, 16, 640)
	require.NoError(t, lenses.Update(ctx, []domain.Lens{updated}))

	got := findByID(t, lenses, 3)
	require.NotNil(t, got)
	assert.Equal(t, updated, *got)
}

func TestLensStoreUpdateNotFound(t *testing.T) {
	lenses := NewLensStore(openTestDB(t), query.SQLite)
	seedLenses(t, lenses)
	ctx := context.Background()

	err := lenses.Update(ctx, []domain.Lens{
		domain.NewLens(1, "Canon", "EF50 II", "prime", 0, 0, 1.8, 22, 130),
		{ID: 99999},
	})
	assert.ErrorIs(t, err, inventory.ErrNotFound)

	got := findByID(t, lenses, 1)
	require.NotNil(t, got)
	assert.Equal(t, "EF50", got.Model, "first update must be rolled back")
}

func TestLensStoreDelete(t *testing.T) {
	lenses := NewLensStore(openTestDB(t), query.SQLite)
	seedLenses(t, lenses)
	ctx := context.Background()

	require.NoError(t, lenses.Delete(ctx, []domain.Lens{{ID: 1}, {ID: 2}}))

	rest, err := lenses.Find(ctx, "")
	require.NoError(t, err)
	require.Len(t, rest, 1)
	assert.Equal(t, int64(3), rest[0].ID)
}

func TestLensStoreDeleteNotFound(t *testing.T) {
	lenses := NewLensStore(openTestDB(t), query.SQLite)

	err := lenses.Delete(context.Background(), []domain.Lens{{ID: 99999}})
	assert.ErrorIs(t, err, inventory.ErrNotFound)
}
