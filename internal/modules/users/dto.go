package users

import "foodgram/internal/domain"

type UserResponse struct {
	Email        string  `json:"email"`
	ID           int64   `json:"id"`
	Username     string  `json:"username"`
	FirstName    string  `json:"first_name"`
	LastName     string  `json:"last_name"`
	Avatar       *string `json:"avatar"`
	IsSubscribed bool    `json:"is_subscribed"`
}

// RecipeShort is the compact recipe form nested under authors.
type RecipeShort struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Image       string `json:"image"`
	CookingTime int    `json:"cooking_time"`
}

// AuthorResponse is a followed author with a preview of their recipes.
type AuthorResponse struct {
	UserResponse
	Recipes      []RecipeShort `json:"recipes"`
	RecipesCount int64         `json:"recipes_count"`
}

type AvatarRequest struct {
	Avatar string `json:"avatar" validate:"required"`
}

type AvatarResponse struct {
	Avatar string `json:"avatar"`
}

func ToUserResponse(u *domain.User, subscribed bool) UserResponse {
	out := UserResponse{
		Email:        u.Email,
		ID:           u.ID,
		Username:     u.Username,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		IsSubscribed: subscribed,
	}
	if u.Avatar != "" {
		avatar := u.Avatar
		out.Avatar = &avatar
	}
	return out
}

func ToRecipeShort(r domain.Recipe) RecipeShort {
	return RecipeShort{ID: r.ID, Name: r.Name, Image: r.Image, CookingTime: r.CookingTime}
}
