package feed

import (
	"context"
	"log/slog"

	"foodgram/internal/domain"
	"foodgram/internal/logging"
)

// FollowerSource resolves who follows an author.
type FollowerSource interface {
	FollowerIDs(ctx context.Context, authorID int64) ([]int64, error)
}

// RecipePayload is the body of a recipe_published event.
type RecipePayload struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Image       string `json:"image"`
	CookingTime int    `json:"cooking_time"`
	AuthorID    int64  `json:"author_id"`
}

// Publisher fans recipe events out to the author's connected followers.
type Publisher struct {
	hub       *Hub
	followers FollowerSource
}

func NewPublisher(hub *Hub, followers FollowerSource) *Publisher {
	return &Publisher{hub: hub, followers: followers}
}

// RecipePublished never fails the caller: the recipe is already stored, so a lookup
// error is only logged.
func (p *Publisher) RecipePublished(ctx context.Context, recipe *domain.Recipe) {
	ids, err := p.followers.FollowerIDs(ctx, recipe.AuthorID)
	if err != nil {
		slog.Warn("feed: load followers", "author_id", recipe.AuthorID, logging.Err(err))
		return
	}
	p.hub.SendToUsers(ids, &Event{
		Type: EventRecipePublished,
		Payload: RecipePayload{
			ID:          recipe.ID,
			Name:        recipe.Name,
			Image:       recipe.Image,
			CookingTime: recipe.CookingTime,
			AuthorID:    recipe.AuthorID,
		},
	})
}
