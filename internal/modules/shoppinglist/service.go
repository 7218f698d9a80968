package shoppinglist

import (
	"context"
	"errors"
	"fmt"

	"foodgram/internal/domain"
)

var ErrUnknownFormat = errors.New("unknown shopping list format")

// CartLineSource loads the raw ingredient lines of every recipe in a user's cart.
type CartLineSource interface {
	CartLines(ctx context.Context, userID int64) ([]domain.IngredientLine, error)
}

type Service struct {
	lines CartLineSource
}

func NewService(lines CartLineSource) *Service {
	return &Service{lines: lines}
}

// Build returns the consolidated shopping list for userID. An empty cart yields an empty list.
func (s *Service) Build(ctx context.Context, userID int64) ([]Entry, error) {
	lines, err := s.lines.CartLines(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load cart lines: %w", err)
	}
	return Aggregate(lines), nil
}
