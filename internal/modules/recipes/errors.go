package recipes

import (
	"errors"
	"sort"
	"strings"
)

var (
	ErrRecipeNotFound    = errors.New("recipe not found")
	ErrForbidden         = errors.New("only the author or an administrator may change this recipe")
	ErrAlreadyFavorited  = errors.New("recipe is already in favorites")
	ErrNotFavorited      = errors.New("recipe is not in favorites")
	ErrAlreadyInCart     = errors.New("recipe is already in the shopping cart")
	ErrNotInCart         = errors.New("recipe is not in the shopping cart")
	ErrShortCodeNotFound = errors.New("short link not found")
	ErrShortCodeExhaust  = errors.New("could not allocate a unique short code")
)

// ValidationError carries per-field failures that struct tags cannot express,
// such as references to missing ingredients.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + ": " + e.Fields[k]
	}
	return "invalid recipe: " + strings.Join(parts, ", ")
}
