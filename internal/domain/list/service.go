package list

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// Service contains the business logic for list operations
type Service struct {
	repo      Repository
	publisher Publisher
	logger    *log.Logger
	now       func() time.Time
}

// NewService creates a new list service. A nil publisher disables events.
func NewService(repo Repository, publisher Publisher, logger *log.Logger) *Service {
	if publisher == nil {
		publisher = NopPublisher{}
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Service{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
}

// NewList creates a List whose first Item carries text.
func (s *Service) NewList(ctx context.Context, text string) (*List, error) {
	id, err := NewID()
	if err != nil {
		return nil, fmt.Errorf("failed to generate list id: %w", err)
	}

	l, item, err := s.repo.CreateWithItem(ctx, id, text)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, Event{Name: EventListCreated, ListID: l.ID, ItemID: item.ID, Text: item.Text})
	return l, nil
}

// AddItem appends an Item to an existing List.
func (s *Service) AddItem(ctx context.Context, listID, text string) (*Item, error) {
	item, err := s.repo.AddItem(ctx, listID, text)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, Event{Name: EventItemAdded, ListID: listID, ItemID: item.ID, Text: item.Text})
	return item, nil
}

// GetList returns the List with its Items, or ErrListNotFound.
func (s *Service) GetList(ctx context.Context, id string) (*ListWithItems, error) {
	l, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if l == nil {
		return nil, ErrListNotFound
	}

	items, err := s.repo.ListItems(ctx, id)
	if err != nil {
		return nil, err
	}

	return &ListWithItems{List: l, Items: items}, nil
}

// Lists returns every List, newest first.
func (s *Service) Lists(ctx context.Context) ([]*List, error) {
	return s.repo.ListAll(ctx)
}

func (s *Service) publish(ctx context.Context, event Event) {
	event.ID = uuid.NewString()
	event.OccurredAt = s.now()
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn("failed to publish list event", "event", event.Name, "list", event.ListID, "err", err)
	}
}
