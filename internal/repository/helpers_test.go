package repository

import (
	"context"
	"fmt"
	"testing"

	"foodgram/internal/database"
	"foodgram/internal/domain"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Connect(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name()))
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func seedUser(t *testing.T, db *gorm.DB, username string) *domain.User {
	t.Helper()
	u := &domain.User{
		Email:        username + "@example.com",
		Username:     username,
		FirstName:    "First",
		LastName:     "Last",
		PasswordHash: "hash",
	}
	require.NoError(t, NewUserRepository(db).Create(context.Background(), u))
	return u
}

func seedIngredient(t *testing.T, db *gorm.DB, name, unit string) domain.Ingredient {
	t.Helper()
	in := domain.Ingredient{Name: name, MeasurementUnit: unit}
	require.NoError(t, db.Create(&in).Error)
	return in
}

func seedTag(t *testing.T, db *gorm.DB, name, slug string) domain.Tag {
	t.Helper()
	tag := domain.Tag{Name: name, Slug: slug, Color: "#E26C2D"}
	require.NoError(t, db.Create(&tag).Error)
	return tag
}

func seedRecipe(t *testing.T, db *gorm.DB, author *domain.User, name string, tags []domain.Tag, lines ...domain.RecipeIngredient) *domain.Recipe {
	t.Helper()
	r := &domain.Recipe{
		AuthorID:    author.ID,
		Name:        name,
		Text:        "Mix and cook.",
		Image:       "/media/recipes/x.png",
		CookingTime: 10,
		ShortCode:   name,
		Ingredients: lines,
		Tags:        tags,
	}
	require.NoError(t, NewRecipeRepository(db).Create(context.Background(), r))
	return r
}

func line(in domain.Ingredient, amount int) domain.RecipeIngredient {
	return domain.RecipeIngredient{IngredientID: in.ID, Amount: amount}
}
