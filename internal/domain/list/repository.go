package list

import (
	"context"
)

type Repository interface {
	// CreateWithItem stores a new List and its first Item in one transaction.
	CreateWithItem(ctx context.Context, listID, text string) (*List, *Item, error)
	// GetByID returns nil, nil when the List does not exist.
	GetByID(ctx context.Context, id string) (*List, error)
	ListAll(ctx context.Context) ([]*List, error)
	// AddItem returns ErrListNotFound when the List does not exist.
	AddItem(ctx context.Context, listID, text string) (*Item, error)
	ListItems(ctx context.Context, listID string) ([]*Item, error)
	CountLists(ctx context.Context) (int64, error)
	CountItems(ctx context.Context) (int64, error)
}
