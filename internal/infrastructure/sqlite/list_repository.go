package sqlite

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"superlists/internal/domain/list"
)

type ListRepository struct {
	db *gorm.DB
}

func NewListRepository(db *gorm.DB) *ListRepository {
	return &ListRepository{db: db}
}

func (r *ListRepository) CreateWithItem(ctx context.Context, listID, text string) (*list.List, *list.Item, error) {
	l := listRecord{ID: listID}
	item := itemRecord{ListID: listID, Text: text}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&l).Error; err != nil {
			return fmt.Errorf("failed to create list: %w", err)
		}
		if err := tx.Create(&item).Error; err != nil {
			return fmt.Errorf("failed to create item: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	return toList(&l), toItem(&item), nil
}

func (r *ListRepository) GetByID(ctx context.Context, id string) (*list.List, error) {
	var l listRecord
	err := r.db.WithContext(ctx).Where("id = ?", id).Take(&l).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get list: %w", err)
	}

	return toList(&l), nil
}

func (r *ListRepository) ListAll(ctx context.Context) ([]*list.List, error) {
	var records []listRecord
	err := r.db.WithContext(ctx).Order("created_at DESC").Order("id ASC").Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list lists: %w", err)
	}

	lists := make([]*list.List, 0, len(records))
	for i := range records {
		lists = append(lists, toList(&records[i]))
	}
	return lists, nil
}

func (r *ListRepository) AddItem(ctx context.Context, listID, text string) (*list.Item, error) {
	item := itemRecord{ListID: listID, Text: text}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&listRecord{}).Where("id = ?", listID).Count(&n).Error; err != nil {
			return fmt.Errorf("failed to check list: %w", err)
		}
		if n == 0 {
			return list.ErrListNotFound
		}
		if err := tx.Create(&item).Error; err != nil {
			return fmt.Errorf("failed to add item: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return toItem(&item), nil
}

func (r *ListRepository) ListItems(ctx context.Context, listID string) ([]*list.Item, error) {
	var records []itemRecord
	err := r.db.WithContext(ctx).Where("list_id = ?", listID).Order("id ASC").Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}

	items := make([]*list.Item, 0, len(records))
	for i := range records {
		items = append(items, toItem(&records[i]))
	}
	return items, nil
}

func (r *ListRepository) CountLists(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&listRecord{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("failed to count lists: %w", err)
	}
	return n, nil
}

func (r *ListRepository) CountItems(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&itemRecord{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("failed to count items: %w", err)
	}
	return n, nil
}

func toList(r *listRecord) *list.List {
	return &list.List{ID: r.ID, CreatedAt: r.CreatedAt}
}

func toItem(r *itemRecord) *list.Item {
	return &list.Item{ID: r.ID, ListID: r.ListID, Text: r.Text, CreatedAt: r.CreatedAt}
}
