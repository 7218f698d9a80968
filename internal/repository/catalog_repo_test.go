package repository

import (
	"context"
	"testing"

	"foodgram/internal/database"
	"foodgram/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIngredientRepository_ListByPrefix(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := NewIngredientRepository(db)
	seedIngredient(t, db, "Sugar", "g")
	seedIngredient(t, db, "salt", "g")
	seedIngredient(t, db, "butter", "g")
	seedIngredient(t, db, "100% juice", "ml")

	all, err := repo.List(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 4)

	s, err := repo.List(ctx, "S")
	require.NoError(t, err)
	require.Len(t, s, 2)
	assert.Equal(t, "Sugar", s[0].Name)
	assert.Equal(t, "salt", s[1].Name)

	// LIKE wildcards in the query are literal
	pct, err := repo.List(ctx, "%")
	require.NoError(t, err)
	assert.Empty(t, pct)

	none, err := repo.List(ctx, "xyz")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestIngredientRepository_ListByCyrillicPrefix(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := NewIngredientRepository(db)
	seedIngredient(t, db, "Молоко", "мл")
	seedIngredient(t, db, "Milk", "ml")
	seedIngredient(t, db, "мука", "г")

	for _, prefix := range []string{"мол", "Мол", "МОЛ", "молоко"} {
		got, err := repo.List(ctx, prefix)
		require.NoError(t, err)
		require.Len(t, got, 1, prefix)
		assert.Equal(t, "Молоко", got[0].Name)
	}

	mu, err := repo.List(ctx, "М")
	require.NoError(t, err)
	assert.Len(t, mu, 2)

	latin, err := repo.List(ctx, "mil")
	require.NoError(t, err)
	require.Len(t, latin, 1)
	assert.Equal(t, "Milk", latin[0].Name)
}

func TestMigrate_BackfillsIngredientNameLower(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	in := seedIngredient(t, db, "Сахар", "г")
	assert.Equal(t, "сахар", in.NameLower)

	// rows written before the column existed
	require.NoError(t, db.Model(&domain.Ingredient{ID: in.ID}).UpdateColumn("name_lower", "").Error)
	got, err := NewIngredientRepository(db).List(ctx, "сах")
	require.NoError(t, err)
	assert.Empty(t, got)

	require.NoError(t, database.Migrate(db))
	got, err = NewIngredientRepository(db).List(ctx, "сах")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Сахар", got[0].Name)
}

func TestIngredientRepository_CreateMissing(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := NewIngredientRepository(db)
	seedIngredient(t, db, "flour", "g")

	created, err := repo.CreateMissing(ctx, []domain.Ingredient{
		{Name: "flour", MeasurementUnit: "g"},
		{Name: "flour", MeasurementUnit: "cup"},
		{Name: "eggs", MeasurementUnit: "pcs"},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, created)

	again, err := repo.CreateMissing(ctx, []domain.Ingredient{{Name: "eggs", MeasurementUnit: "pcs"}})
	require.NoError(t, err)
	assert.Zero(t, again)

	found, err := repo.FindByIDs(ctx, []int64{1, 2, 99})
	require.NoError(t, err)
	assert.Len(t, found, 2)

	_, err = repo.GetByID(ctx, 99)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTagRepository(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := NewTagRepository(db)

	tags := []domain.Tag{
		{Name: "Lunch", Slug: "lunch", Color: "#49B64E"},
		{Name: "Breakfast", Slug: "breakfast", Color: "#E26C2D"},
	}
	require.NoError(t, repo.Upsert(ctx, tags))
	require.NoError(t, repo.Upsert(ctx, []domain.Tag{{Name: "Lunch", Slug: "lunch", Color: "#000000"}}))

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Breakfast", list[0].Name)
	assert.Equal(t, "#49B64E", list[1].Color)

	got, err := repo.GetByID(ctx, tags[1].ID)
	require.NoError(t, err)
	assert.Equal(t, "breakfast", got.Slug)

	found, err := repo.FindByIDs(ctx, []int64{tags[0].ID, 999})
	require.NoError(t, err)
	assert.Len(t, found, 1)

	_, err = repo.GetByID(ctx, 999)
	assert.ErrorIs(t, err, ErrNotFound)
}
