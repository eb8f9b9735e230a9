package ports

import (
	"context"

	"github.com/PatrolPeakPlanner/PatrolPeakPlanners/internal/core/domain"
)

// ItemRepository persists checklist items. Every method is scoped by the
// owning user's id; an item owned by someone else behaves as if it did not
// exist.
type ItemRepository interface {
	ListByUser(ctx context.Context, userID string) ([]*domain.Item, error)
	Create(ctx context.Context, item *domain.Item) (*domain.Item, error)
	Update(ctx context.Context, userID, itemID string, patch domain.ItemPatch) (*domain.Item, error)
	Delete(ctx context.Context, userID, itemID string) error
}
