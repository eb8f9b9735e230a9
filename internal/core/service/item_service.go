package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/PatrolPeakPlanner/PatrolPeakPlanners/internal/core/domain"
	"github.com/PatrolPeakPlanner/PatrolPeakPlanners/internal/core/ports"
	"github.com/PatrolPeakPlanner/PatrolPeakPlanners/internal/pkg/metrics"
)

type ItemService struct {
	repo   ports.ItemRepository
	logger zerolog.Logger
}

func NewItemService(repo ports.ItemRepository, logger zerolog.Logger) *ItemService {
	return &ItemService{repo: repo, logger: logger}
}

// List returns the caller's items, oldest first. An empty list is never nil.
func (s *ItemService) List(ctx context.Context, userID string) ([]*domain.Item, error) {
	if userID == "" {
		return nil, domain.ErrMissingToken
	}

	items, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	if items == nil {
		items = []*domain.Item{}
	}
	return items, nil
}

func (s *ItemService) Create(ctx context.Context, userID, name string) (*domain.Item, error) {
	if userID == "" {
		return nil, domain.ErrMissingToken
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", domain.ErrInvalidInput)
	}

	now := time.Now().UTC()
	item, err := s.repo.Create(ctx, &domain.Item{
		UserID:    userID,
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Msg("failed to create item")
		return nil, fmt.Errorf("create item: %w", err)
	}

	metrics.ItemsCreatedTotal.Inc()
	s.logger.Info().Str("item_id", item.ID).Str("user_id", userID).Msg("item created")
	return item, nil
}

// Update applies the patch to an item owned by the caller. Items owned by
// anyone else are reported as not found.
func (s *ItemService) Update(ctx context.Context, in ports.UpdateItemInput) (*domain.Item, error) {
	if in.UserID == "" {
		return nil, domain.ErrMissingToken
	}
	if in.Patch.Empty() {
		return nil, fmt.Errorf("%w: nothing to update", domain.ErrInvalidInput)
	}
	if in.Patch.Name != nil {
		name := strings.TrimSpace(*in.Patch.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: name must not be empty", domain.ErrInvalidInput)
		}
		in.Patch.Name = &name
	}
	if in.Patch.Initials != nil {
		initials := strings.TrimSpace(*in.Patch.Initials)
		in.Patch.Initials = &initials
	}

	item, err := s.repo.Update(ctx, in.UserID, in.ItemID, in.Patch)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("item_id", item.ID).Str("user_id", in.UserID).Msg("item updated")
	return item, nil
}

func (s *ItemService) Delete(ctx context.Context, userID, itemID string) error {
	if userID == "" {
		return domain.ErrMissingToken
	}
	if err := s.repo.Delete(ctx, userID, itemID); err != nil {
		return err
	}

	s.logger.Info().Str("item_id", itemID).Str("user_id", userID).Msg("item deleted")
	return nil
}
