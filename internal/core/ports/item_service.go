package ports

import (
	"context"

	"github.com/PatrolPeakPlanner/PatrolPeakPlanners/internal/core/domain"
)

// UpdateItemInput carries an item update. UserID always comes from the
// validated session, never from the request body.
type UpdateItemInput struct {
	UserID string
	ItemID string
	Patch  domain.ItemPatch
}

// ItemService defines checklist use cases for the authenticated user.
type ItemService interface {
	List(ctx context.Context, userID string) ([]*domain.Item, error)
	Create(ctx context.Context, userID, name string) (*domain.Item, error)
	Update(ctx context.Context, in UpdateItemInput) (*domain.Item, error)
	Delete(ctx context.Context, userID, itemID string) error
}
