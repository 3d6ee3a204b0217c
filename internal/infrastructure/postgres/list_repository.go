package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/lib/pq"

	"superlists/internal/domain/list"
)

// foreignKeyViolation is the SQLSTATE raised when items.list_id has no list.
const foreignKeyViolation = "23503"

// storableText makes text acceptable to a TEXT column, which rejects NUL bytes
// and invalid UTF-8. Other characters are kept as submitted.
func storableText(text string) string {
	return strings.ToValidUTF8(strings.ReplaceAll(text, "\x00", ""), "\uFFFD")
}

// validID reports whether id could name a stored list. Ids that a TEXT column
// cannot hold would otherwise surface as errors instead of "not found".
func validID(id string) bool {
	return utf8.ValidString(id) && !strings.ContainsRune(id, 0)
}

type ListRepository struct {
	db *DB
}

func NewListRepository(db *DB) *ListRepository {
	return &ListRepository{db: db}
}

func (r *ListRepository) CreateWithItem(ctx context.Context, listID, text string) (*list.List, *list.Item, error) {
	var l list.List
	var item list.Item

	err := r.db.WithTx(ctx, func(tx *sql.Tx) error {
		err := tx.QueryRowContext(ctx, `
			INSERT INTO lists (id)
			VALUES ($1)
			RETURNING id, created_at
		`, listID).Scan(&l.ID, &l.CreatedAt)
		if err != nil {
			return fmt.Errorf("failed to create list: %w", err)
		}

		err = tx.QueryRowContext(ctx, `
			INSERT INTO items (list_id, text)
			VALUES ($1, $2)
			RETURNING id, list_id, text, created_at
		`, l.ID, storableText(text)).Scan(&item.ID, &item.ListID, &item.Text, &item.CreatedAt)
		if err != nil {
			return fmt.Errorf("failed to create item: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	return &l, &item, nil
}

func (r *ListRepository) GetByID(ctx context.Context, id string) (*list.List, error) {
	query := `
		SELECT id, created_at
		FROM lists
		WHERE id = $1
	`

	if !validID(id) {
		return nil, nil
	}

	var l list.List
	err := r.db.QueryRowContext(ctx, query, id).Scan(&l.ID, &l.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get list: %w", err)
	}

	return &l, nil
}

func (r *ListRepository) ListAll(ctx context.Context) ([]*list.List, error) {
	query := `
		SELECT id, created_at
		FROM lists
		ORDER BY created_at DESC, id ASC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list lists: %w", err)
	}
	defer rows.Close()

	var lists []*list.List
	for rows.Next() {
		var l list.List
		if err := rows.Scan(&l.ID, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan list: %w", err)
		}
		lists = append(lists, &l)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating lists: %w", err)
	}

	return lists, nil
}

func (r *ListRepository) AddItem(ctx context.Context, listID, text string) (*list.Item, error) {
	query := `
		INSERT INTO items (list_id, text)
		VALUES ($1, $2)
		RETURNING id, list_id, text, created_at
	`

	if !validID(listID) {
		return nil, list.ErrListNotFound
	}

	var item list.Item
	err := r.db.QueryRowContext(ctx, query, listID, storableText(text)).Scan(
		&item.ID, &item.ListID, &item.Text, &item.CreatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == foreignKeyViolation {
			return nil, list.ErrListNotFound
		}
		return nil, fmt.Errorf("failed to add item: %w", err)
	}

	return &item, nil
}

func (r *ListRepository) ListItems(ctx context.Context, listID string) ([]*list.Item, error) {
	query := `
		SELECT id, list_id, text, created_at
		FROM items
		WHERE list_id = $1
		ORDER BY id ASC
	`

	if !validID(listID) {
		return nil, nil
	}

	rows, err := r.db.QueryContext(ctx, query, listID)
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	defer rows.Close()

	var items []*list.Item
	for rows.Next() {
		var item list.Item
		if err := rows.Scan(&item.ID, &item.ListID, &item.Text, &item.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		items = append(items, &item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating items: %w", err)
	}

	return items, nil
}

func (r *ListRepository) CountLists(ctx context.Context) (int64, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM lists`)
}

func (r *ListRepository) CountItems(ctx context.Context) (int64, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM items`)
}

func (r *ListRepository) count(ctx context.Context, query string) (int64, error) {
	var n int64
	if err := r.db.QueryRowContext(ctx, query).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count rows: %w", err)
	}
	return n, nil
}
