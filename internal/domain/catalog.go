package domain

import (
	"strings"

	"gorm.io/gorm"
)

// Column limits, counted in characters.
const (
	MaxIngredientNameLength  = 128
	MaxMeasurementUnitLength = 64
)

// Ingredient is reference data loaded by the import command.
type Ingredient struct {
	ID              int64  `json:"id" gorm:"primaryKey"`
	Name            string `json:"name" gorm:"size:128;not null;index;uniqueIndex:idx_ingredient_name_unit"`
	MeasurementUnit string `json:"measurement_unit" gorm:"size:64;not null;uniqueIndex:idx_ingredient_name_unit"`
	// NameLower backs prefix search; SQLite LOWER() only folds ASCII.
	NameLower string `json:"-" gorm:"size:128;not null;default:'';index"`
}

func (Ingredient) TableName() string { return "ingredients" }

func (i *Ingredient) BeforeSave(_ *gorm.DB) error {
	i.NameLower = strings.ToLower(i.Name)
	return nil
}

type Tag struct {
	ID    int64  `json:"id" gorm:"primaryKey"`
	Name  string `json:"name" gorm:"size:32;not null;uniqueIndex"`
	Slug  string `json:"slug" gorm:"size:32;not null;uniqueIndex"`
	Color string `json:"color" gorm:"size:7;not null;default:'#49B64E'"`
}

func (Tag) TableName() string { return "tags" }
