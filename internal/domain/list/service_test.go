package list

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// MockRepository is a mock implementation of Repository interface
type MockRepository struct {
	CreateWithItemFunc func(ctx context.Context, listID, text string) (*List, *Item, error)
	GetByIDFunc        func(ctx context.Context, id string) (*List, error)
	ListAllFunc        func(ctx context.Context) ([]*List, error)
	AddItemFunc        func(ctx context.Context, listID, text string) (*Item, error)
	ListItemsFunc      func(ctx context.Context, listID string) ([]*Item, error)
	CountListsFunc     func(ctx context.Context) (int64, error)
	CountItemsFunc     func(ctx context.Context) (int64, error)
}

func (m *MockRepository) CreateWithItem(ctx context.Context, listID, text string) (*List, *Item, error) {
	if m.CreateWithItemFunc != nil {
		return m.CreateWithItemFunc(ctx, listID, text)
	}
	return &List{ID: listID}, &Item{ID: 1, ListID: listID, Text: text}, nil
}

func (m *MockRepository) GetByID(ctx context.Context, id string) (*List, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockRepository) ListAll(ctx context.Context) ([]*List, error) {
	if m.ListAllFunc != nil {
		return m.ListAllFunc(ctx)
	}
	return nil, nil
}

func (m *MockRepository) AddItem(ctx context.Context, listID, text string) (*Item, error) {
	if m.AddItemFunc != nil {
		return m.AddItemFunc(ctx, listID, text)
	}
	return &Item{ID: 1, ListID: listID, Text: text}, nil
}

func (m *MockRepository) ListItems(ctx context.Context, listID string) ([]*Item, error) {
	if m.ListItemsFunc != nil {
		return m.ListItemsFunc(ctx, listID)
	}
	return nil, nil
}

func (m *MockRepository) CountLists(ctx context.Context) (int64, error) {
	if m.CountListsFunc != nil {
		return m.CountListsFunc(ctx)
	}
	return 0, nil
}

func (m *MockRepository) CountItems(ctx context.Context) (int64, error) {
	if m.CountItemsFunc != nil {
		return m.CountItemsFunc(ctx)
	}
	return 0, nil
}

type recordingPublisher struct {
	events []Event
	err    error
}

func (p *recordingPublisher) Publish(ctx context.Context, event Event) error {
	p.events = append(p.events, event)
	return p.err
}

func TestService_NewList(t *testing.T) {
	var gotID, gotText string
	repo := &MockRepository{
		CreateWithItemFunc: func(ctx context.Context, listID, text string) (*List, *Item, error) {
			gotID, gotText = listID, text
			return &List{ID: listID}, &Item{ID: 7, ListID: listID, Text: text}, nil
		},
	}
	pub := &recordingPublisher{}
	svc := NewService(repo, pub, nil)

	l, err := svc.NewList(context.Background(), "A new list item")
	require.NoError(t, err)

	assert.Equal(t, gotID, l.ID)
	assert.Len(t, l.ID, idLength)
	assert.Equal(t, "A new list item", gotText)

	require.Len(t, pub.events, 1)
	assert.Equal(t, EventListCreated, pub.events[0].Name)
	assert.Equal(t, l.ID, pub.events[0].ListID)
	assert.Equal(t, int64(7), pub.events[0].ItemID)
	assert.False(t, pub.events[0].OccurredAt.IsZero())
	assert.Len(t, pub.events[0].ID, 36)
}

func TestService_NewList_RepositoryError(t *testing.T) {
	repo := &MockRepository{
		CreateWithItemFunc: func(ctx context.Context, listID, text string) (*List, *Item, error) {
			return nil, nil, errors.New("db error")
		},
	}
	pub := &recordingPublisher{}
	svc := NewService(repo, pub, nil)

	_, err := svc.NewList(context.Background(), "x")
	require.Error(t, err)
	assert.Empty(t, pub.events, "no event should be published for a failed write")
}

func TestService_NewList_PublishErrorIsLogged(t *testing.T) {
	var buf bytes.Buffer
	logger := log.NewWithOptions(&buf, log.Options{Level: log.DebugLevel})
	pub := &recordingPublisher{err: errors.New("broker down")}
	svc := NewService(&MockRepository{}, pub, logger)

	l, err := svc.NewList(context.Background(), "x")
	require.NoError(t, err)
	require.NotNil(t, l)
	assert.Contains(t, buf.String(), "failed to publish list event")
	assert.Contains(t, buf.String(), "broker down")
}

func TestService_AddItem(t *testing.T) {
	tests := []struct {
		name       string
		repo       *MockRepository
		wantErr    error
		wantEvents int
	}{
		{
			name:       "success",
			repo:       &MockRepository{},
			wantEvents: 1,
		},
		{
			name: "list not found",
			repo: &MockRepository{
				AddItemFunc: func(ctx context.Context, listID, text string) (*Item, error) {
					return nil, ErrListNotFound
				},
			},
			wantErr: ErrListNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pub := &recordingPublisher{}
			svc := NewService(tt.repo, pub, nil)

			item, err := svc.AddItem(context.Background(), "abc", "Y")
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
				assert.Equal(t, "abc", item.ListID)
				assert.Equal(t, "Y", item.Text)
			}

			require.Len(t, pub.events, tt.wantEvents)
			if tt.wantEvents > 0 {
				assert.Equal(t, EventItemAdded, pub.events[0].Name)
			}
		})
	}
}

func TestService_GetList(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		repo := &MockRepository{
			GetByIDFunc: func(ctx context.Context, id string) (*List, error) {
				return &List{ID: id}, nil
			},
			ListItemsFunc: func(ctx context.Context, listID string) ([]*Item, error) {
				return []*Item{
					{ID: 1, ListID: listID, Text: "itemey 1"},
					{ID: 2, ListID: listID, Text: "itemey 2"},
				}, nil
			},
		}
		svc := NewService(repo, nil, nil)

		got, err := svc.GetList(context.Background(), "abc")
		require.NoError(t, err)
		assert.Equal(t, "abc", got.ID)
		require.Len(t, got.Items, 2)
		assert.Equal(t, "itemey 1", got.Items[0].Text)
		assert.Equal(t, "itemey 2", got.Items[1].Text)
	})

	t.Run("missing", func(t *testing.T) {
		svc := NewService(&MockRepository{}, nil, nil)

		_, err := svc.GetList(context.Background(), "nope")
		require.ErrorIs(t, err, ErrListNotFound)
	})

	t.Run("repository error", func(t *testing.T) {
		repo := &MockRepository{
			GetByIDFunc: func(ctx context.Context, id string) (*List, error) {
				return nil, errors.New("db error")
			},
		}
		svc := NewService(repo, nil, nil)

		_, err := svc.GetList(context.Background(), "abc")
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrListNotFound)
	})
}
