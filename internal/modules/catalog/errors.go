package catalog

import "errors"

var (
	ErrTagNotFound        = errors.New("tag not found")
	ErrIngredientNotFound = errors.New("ingredient not found")
	ErrInvalidImport      = errors.New("invalid ingredient import data")
)
