package list

import (
	"context"
	"errors"
	"time"
)

const (
	EventListCreated = "ListCreated"
	EventItemAdded   = "ItemAdded"
)

// Event describes a change to a List, published after the write commits.
type Event struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	ListID     string    `json:"listId"`
	ItemID     int64     `json:"itemId"`
	Text       string    `json:"text"`
	OccurredAt time.Time `json:"occurredAt"`
}

type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// NopPublisher drops every event.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }

// MultiPublisher publishes every event to each of its publishers in turn.
type MultiPublisher []Publisher

func (m MultiPublisher) Publish(ctx context.Context, event Event) error {
	var errs []error
	for _, p := range m {
		if err := p.Publish(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
