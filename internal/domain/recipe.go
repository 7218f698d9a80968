package domain

import "time"

const (
	MinAmount      = 1
	MaxAmount      = 32767
	MinCookingTime = 1
	MaxCookingTime = 32767
)

type Recipe struct {
	ID          int64              `json:"id" gorm:"primaryKey"`
	AuthorID    int64              `json:"author_id" gorm:"not null;index"`
	Name        string             `json:"name" gorm:"size:256;not null"`
	Text        string             `json:"text" gorm:"type:text;not null"`
	Image       string             `json:"image"`
	CookingTime int                `json:"cooking_time" gorm:"not null"`
	ShortCode   string             `json:"-" gorm:"size:16;uniqueIndex"`
	CreatedAt   time.Time          `json:"created_at" gorm:"index"`
	UpdatedAt   time.Time          `json:"updated_at"`
	Author      *User              `json:"author,omitempty" gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE"`
	Ingredients []RecipeIngredient `json:"ingredients,omitempty" gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE"`
	Tags        []Tag              `json:"tags,omitempty" gorm:"many2many:recipe_tags;constraint:OnDelete:CASCADE"`
}

func (Recipe) TableName() string { return "recipes" }

// RecipeIngredient is a line item of a recipe. Amount is always positive.
type RecipeIngredient struct {
	ID           int64       `json:"-" gorm:"primaryKey"`
	RecipeID     int64       `json:"-" gorm:"not null;uniqueIndex:idx_recipe_ingredient"`
	IngredientID int64       `json:"id" gorm:"not null;index;uniqueIndex:idx_recipe_ingredient"`
	Amount       int         `json:"amount" gorm:"not null"`
	Ingredient   *Ingredient `json:"ingredient,omitempty" gorm:"foreignKey:IngredientID"`
}

func (RecipeIngredient) TableName() string { return "recipe_ingredients" }

// IngredientLine is one ingredient of one recipe in a user's cart, already joined with
// its reference data.
type IngredientLine struct {
	Name            string
	MeasurementUnit string
	Amount          int
}
