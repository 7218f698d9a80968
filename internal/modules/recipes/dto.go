package recipes

import (
	"foodgram/internal/domain"
	"foodgram/internal/modules/users"
)

type IngredientAmount struct {
	ID     int64 `json:"id" validate:"gt=0"`
	Amount int   `json:"amount" validate:"min=1,max=32767"`
}

type CreateRecipeRequest struct {
	Ingredients []IngredientAmount `json:"ingredients" validate:"required,min=1,dive"`
	Tags        []int64            `json:"tags" validate:"required,min=1,dive,gt=0"`
	Image       string             `json:"image" validate:"required"`
	Name        string             `json:"name" validate:"required,max=256"`
	Text        string             `json:"text" validate:"required"`
	CookingTime int                `json:"cooking_time" validate:"min=1,max=32767"`
}

// UpdateRecipeRequest replaces the recipe wholesale except for the image, which is
// kept when omitted.
type UpdateRecipeRequest struct {
	Ingredients []IngredientAmount `json:"ingredients" validate:"required,min=1,dive"`
	Tags        []int64            `json:"tags" validate:"required,min=1,dive,gt=0"`
	Image       string             `json:"image"`
	Name        string             `json:"name" validate:"required,max=256"`
	Text        string             `json:"text" validate:"required"`
	CookingTime int                `json:"cooking_time" validate:"min=1,max=32767"`
}

func (r UpdateRecipeRequest) toCreate() CreateRecipeRequest {
	return CreateRecipeRequest(r)
}

type IngredientInRecipe struct {
	ID              int64  `json:"id"`
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
	Amount          int    `json:"amount"`
}

type RecipeResponse struct {
	ID               int64                `json:"id"`
	Tags             []domain.Tag         `json:"tags"`
	Author           users.UserResponse   `json:"author"`
	Ingredients      []IngredientInRecipe `json:"ingredients"`
	IsFavorited      bool                 `json:"is_favorited"`
	IsInShoppingCart bool                 `json:"is_in_shopping_cart"`
	Name             string               `json:"name"`
	Image            string               `json:"image"`
	Text             string               `json:"text"`
	CookingTime      int                  `json:"cooking_time"`
}

type ShortLinkResponse struct {
	ShortLink string `json:"short-link"`
}

// viewerFlags holds per-viewer state for a batch of recipes.
type viewerFlags struct {
	favorited  map[int64]bool
	inCart     map[int64]bool
	subscribed map[int64]bool
}

func toRecipeResponse(r *domain.Recipe, flags viewerFlags) RecipeResponse {
	out := RecipeResponse{
		ID:               r.ID,
		Tags:             r.Tags,
		IsFavorited:      flags.favorited[r.ID],
		IsInShoppingCart: flags.inCart[r.ID],
		Name:             r.Name,
		Image:            r.Image,
		Text:             r.Text,
		CookingTime:      r.CookingTime,
		Ingredients:      make([]IngredientInRecipe, 0, len(r.Ingredients)),
	}
	if out.Tags == nil {
		out.Tags = []domain.Tag{}
	}
	if r.Author != nil {
		out.Author = users.ToUserResponse(r.Author, flags.subscribed[r.AuthorID])
	}
	for _, line := range r.Ingredients {
		item := IngredientInRecipe{ID: line.IngredientID, Amount: line.Amount}
		if line.Ingredient != nil {
			item.Name = line.Ingredient.Name
			item.MeasurementUnit = line.Ingredient.MeasurementUnit
		}
		out.Ingredients = append(out.Ingredients, item)
	}
	return out
}

// RecipeShortResponse is returned when a recipe is added to favorites or the cart.
type RecipeShortResponse = users.RecipeShort

func toRecipeShort(r *domain.Recipe) RecipeShortResponse {
	return users.ToRecipeShort(*r)
}
