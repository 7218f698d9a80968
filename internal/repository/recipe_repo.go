package repository

import (
	"context"
	"time"

	"foodgram/internal/domain"

	"gorm.io/gorm"
)

// RecipeFilter narrows a recipe listing. Zero values disable a filter.
type RecipeFilter struct {
	AuthorID    int64
	TagSlugs    []string
	FavoritedBy int64
	InCartOf    int64
	Limit       int
	Offset      int
}

// recipeTag is the many2many join row behind Recipe.Tags.
type recipeTag struct {
	RecipeID int64 `gorm:"primaryKey"`
	TagID    int64 `gorm:"primaryKey"`
}

func (recipeTag) TableName() string { return "recipe_tags" }

type RecipeRepository struct {
	db *gorm.DB
}

func NewRecipeRepository(db *gorm.DB) *RecipeRepository {
	return &RecipeRepository{db: db}
}

// Create stores the recipe with its ingredient lines and tag links in one transaction.
func (r *RecipeRepository) Create(ctx context.Context, recipe *domain.Recipe) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row := *recipe
		row.Author = nil
		row.Ingredients = nil
		row.Tags = nil
		if err := tx.Create(&row).Error; err != nil {
			return translate(err)
		}
		recipe.ID = row.ID
		recipe.CreatedAt = row.CreatedAt
		recipe.UpdatedAt = row.UpdatedAt

		return writeComposition(tx, recipe)
	})
}

// Update overwrites the scalar fields and replaces the ingredient lines and tags wholesale.
func (r *RecipeRepository) Update(ctx context.Context, recipe *domain.Recipe) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		recipe.UpdatedAt = time.Now().UTC()
		res := tx.Model(&domain.Recipe{}).Where("id = ?", recipe.ID).Updates(map[string]any{
			"name":         recipe.Name,
			"text":         recipe.Text,
			"image":        recipe.Image,
			"cooking_time": recipe.CookingTime,
			"updated_at":   recipe.UpdatedAt,
		})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}

		if err := tx.Where("recipe_id = ?", recipe.ID).Delete(&domain.RecipeIngredient{}).Error; err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", recipe.ID).Delete(&recipeTag{}).Error; err != nil {
			return err
		}
		return writeComposition(tx, recipe)
	})
}

func writeComposition(tx *gorm.DB, recipe *domain.Recipe) error {
	if len(recipe.Ingredients) > 0 {
		lines := make([]domain.RecipeIngredient, len(recipe.Ingredients))
		for i, in := range recipe.Ingredients {
			lines[i] = domain.RecipeIngredient{
				RecipeID:     recipe.ID,
				IngredientID: in.IngredientID,
				Amount:       in.Amount,
			}
		}
		if err := tx.Create(&lines).Error; err != nil {
			return translate(err)
		}
		for i := range lines {
			recipe.Ingredients[i].ID = lines[i].ID
			recipe.Ingredients[i].RecipeID = recipe.ID
		}
	}

	if len(recipe.Tags) > 0 {
		links := make([]recipeTag, len(recipe.Tags))
		for i, tag := range recipe.Tags {
			links[i] = recipeTag{RecipeID: recipe.ID, TagID: tag.ID}
		}
		if err := tx.Create(&links).Error; err != nil {
			return translate(err)
		}
	}
	return nil
}

// Delete removes the recipe and every row that references it.
func (r *RecipeRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		children := []any{
			&domain.RecipeIngredient{},
			&recipeTag{},
			&domain.Favorite{},
			&domain.ShoppingCartItem{},
		}
		for _, model := range children {
			if err := tx.Where("recipe_id = ?", id).Delete(model).Error; err != nil {
				return err
			}
		}

		res := tx.Delete(&domain.Recipe{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

func (r *RecipeRepository) GetByID(ctx context.Context, id int64) (*domain.Recipe, error) {
	var recipe domain.Recipe
	if err := r.withDetails(r.db.WithContext(ctx)).First(&recipe, id).Error; err != nil {
		return nil, translate(err)
	}
	return &recipe, nil
}

func (r *RecipeRepository) GetByShortCode(ctx context.Context, code string) (*domain.Recipe, error) {
	var recipe domain.Recipe
	if err := r.db.WithContext(ctx).Where("short_code = ?", code).First(&recipe).Error; err != nil {
		return nil, translate(err)
	}
	return &recipe, nil
}

func (r *RecipeRepository) ShortCodeExists(ctx context.Context, code string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Recipe{}).Where("short_code = ?", code).Count(&count).Error
	return count > 0, err
}

func (r *RecipeRepository) SetShortCode(ctx context.Context, id int64, code string) error {
	err := r.db.WithContext(ctx).Model(&domain.Recipe{}).Where("id = ?", id).Update("short_code", code).Error
	return translate(err)
}

// List returns one page of recipes, newest first, plus the total matching count.
func (r *RecipeRepository) List(ctx context.Context, f RecipeFilter) ([]domain.Recipe, int64, error) {
	var total int64
	if err := r.filtered(ctx, f).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var recipes []domain.Recipe
	q := r.withDetails(r.filtered(ctx, f)).Order("recipes.created_at DESC, recipes.id DESC")
	if f.Limit > 0 {
		q = q.Limit(f.Limit).Offset(f.Offset)
	}
	if err := q.Find(&recipes).Error; err != nil {
		return nil, 0, err
	}
	return recipes, total, nil
}

func (r *RecipeRepository) filtered(ctx context.Context, f RecipeFilter) *gorm.DB {
	db := r.db.WithContext(ctx)
	q := db.Model(&domain.Recipe{})

	if f.AuthorID > 0 {
		q = q.Where("recipes.author_id = ?", f.AuthorID)
	}
	if len(f.TagSlugs) > 0 {
		tagged := db.Table("recipe_tags").
			Select("recipe_tags.recipe_id").
			Joins("JOIN tags ON tags.id = recipe_tags.tag_id").
			Where("tags.slug IN ?", f.TagSlugs)
		q = q.Where("recipes.id IN (?)", tagged)
	}
	if f.FavoritedBy > 0 {
		q = q.Where("recipes.id IN (?)",
			db.Model(&domain.Favorite{}).Select("recipe_id").Where("user_id = ?", f.FavoritedBy))
	}
	if f.InCartOf > 0 {
		q = q.Where("recipes.id IN (?)",
			db.Model(&domain.ShoppingCartItem{}).Select("recipe_id").Where("user_id = ?", f.InCartOf))
	}
	return q
}

func (r *RecipeRepository) withDetails(q *gorm.DB) *gorm.DB {
	return q.
		Preload("Author").
		Preload("Ingredients", func(db *gorm.DB) *gorm.DB {
			return db.Order("recipe_ingredients.id ASC")
		}).
		Preload("Ingredients.Ingredient").
		Preload("Tags", func(db *gorm.DB) *gorm.DB {
			return db.Order("tags.id ASC")
		})
}

// ListByAuthor returns the author's newest recipes without nested details. limit <= 0 means all.
func (r *RecipeRepository) ListByAuthor(ctx context.Context, authorID int64, limit int) ([]domain.Recipe, error) {
	var recipes []domain.Recipe
	q := r.db.WithContext(ctx).
		Where("author_id = ?", authorID).
		Order("created_at DESC, id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&recipes).Error; err != nil {
		return nil, err
	}
	return recipes, nil
}

// CountByAuthors returns recipe counts keyed by author id. Authors without recipes are absent.
func (r *RecipeRepository) CountByAuthors(ctx context.Context, authorIDs []int64) (map[int64]int64, error) {
	out := make(map[int64]int64, len(authorIDs))
	if len(authorIDs) == 0 {
		return out, nil
	}

	var rows []struct {
		AuthorID int64
		Total    int64
	}
	err := r.db.WithContext(ctx).Model(&domain.Recipe{}).
		Select("author_id, COUNT(*) AS total").
		Where("author_id IN ?", authorIDs).
		Group("author_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.AuthorID] = row.Total
	}
	return out, nil
}

// CartLines returns every ingredient line of every recipe in the user's cart. A recipe
// that appears once in the cart contributes each of its lines once.
func (r *RecipeRepository) CartLines(ctx context.Context, userID int64) ([]domain.IngredientLine, error) {
	var lines []domain.IngredientLine
	err := r.db.WithContext(ctx).
		Table("recipe_ingredients").
		Select("ingredients.name AS name, ingredients.measurement_unit AS measurement_unit, recipe_ingredients.amount AS amount").
		Joins("JOIN ingredients ON ingredients.id = recipe_ingredients.ingredient_id").
		Joins("JOIN shopping_cart_items ON shopping_cart_items.recipe_id = recipe_ingredients.recipe_id").
		Where("shopping_cart_items.user_id = ?", userID).
		Order("recipe_ingredients.id ASC").
		Scan(&lines).Error
	if err != nil {
		return nil, err
	}
	return lines, nil
}
