package repository

import (
	"context"
	"strings"

	"foodgram/internal/domain"

	"gorm.io/gorm"
)

type IngredientRepository struct {
	db *gorm.DB
}

func NewIngredientRepository(db *gorm.DB) *IngredientRepository {
	return &IngredientRepository{db: db}
}

// List returns ingredients whose name starts with prefix (case-insensitive), ordered by name.
func (r *IngredientRepository) List(ctx context.Context, prefix string) ([]domain.Ingredient, error) {
	var items []domain.Ingredient
	q := r.db.WithContext(ctx).Order("name ASC, id ASC")
	if prefix = strings.TrimSpace(prefix); prefix != "" {
		q = q.Where("name_lower LIKE ? ESCAPE '\\'", escapeLike(strings.ToLower(prefix))+"%")
	}
	if err := q.Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *IngredientRepository) GetByID(ctx context.Context, id int64) (*domain.Ingredient, error) {
	var item domain.Ingredient
	if err := r.db.WithContext(ctx).First(&item, id).Error; err != nil {
		return nil, translate(err)
	}
	return &item, nil
}

func (r *IngredientRepository) FindByIDs(ctx context.Context, ids []int64) ([]domain.Ingredient, error) {
	var items []domain.Ingredient
	if len(ids) == 0 {
		return items, nil
	}
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&items).Error
	return items, err
}

// CreateMissing inserts the ingredients whose (name, unit) pair is not stored yet and
// reports how many rows were added.
func (r *IngredientRepository) CreateMissing(ctx context.Context, items []domain.Ingredient) (int, error) {
	created := 0
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range items {
			var count int64
			if err := tx.Model(&domain.Ingredient{}).
				Where("name = ? AND measurement_unit = ?", items[i].Name, items[i].MeasurementUnit).
				Count(&count).Error; err != nil {
				return err
			}
			if count > 0 {
				continue
			}
			if err := tx.Create(&items[i]).Error; err != nil {
				return translate(err)
			}
			created++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return created, nil
}

type TagRepository struct {
	db *gorm.DB
}

func NewTagRepository(db *gorm.DB) *TagRepository {
	return &TagRepository{db: db}
}

func (r *TagRepository) List(ctx context.Context) ([]domain.Tag, error) {
	var tags []domain.Tag
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&tags).Error; err != nil {
		return nil, err
	}
	return tags, nil
}

func (r *TagRepository) GetByID(ctx context.Context, id int64) (*domain.Tag, error) {
	var tag domain.Tag
	if err := r.db.WithContext(ctx).First(&tag, id).Error; err != nil {
		return nil, translate(err)
	}
	return &tag, nil
}

func (r *TagRepository) FindByIDs(ctx context.Context, ids []int64) ([]domain.Tag, error) {
	var tags []domain.Tag
	if len(ids) == 0 {
		return tags, nil
	}
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&tags).Error
	return tags, err
}

// Upsert inserts tags by slug and leaves existing ones untouched. Used by the seed command.
func (r *TagRepository) Upsert(ctx context.Context, tags []domain.Tag) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range tags {
			err := tx.Where(domain.Tag{Slug: tags[i].Slug}).
				Attrs(domain.Tag{Name: tags[i].Name, Color: tags[i].Color}).
				FirstOrCreate(&tags[i]).Error
			if err != nil {
				return translate(err)
			}
		}
		return nil
	})
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
