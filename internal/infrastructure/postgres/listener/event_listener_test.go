package listener

import (
	"io"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"superlists/internal/domain/list"
)

func TestHandleNotification(t *testing.T) {
	tests := []struct {
		name     string
		payload  string
		expected []list.Event
	}{
		{
			name:     "Valid event",
			payload:  `{"name":"ItemAdded","listId":"abc","itemId":7,"text":"Buy milk"}`,
			expected: []list.Event{{Name: list.EventItemAdded, ListID: "abc", ItemID: 7, Text: "Buy milk"}},
		},
		{
			name:    "Malformed payload ignored",
			payload: `not json`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []list.Event
			l := NewEventListener("", "list_events", func(e list.Event) { got = append(got, e) }, log.New(io.Discard))

			l.handleNotification(&pq.Notification{Channel: "list_events", Extra: tt.payload})

			require.Len(t, got, len(tt.expected))
			for i := range tt.expected {
				assert.Equal(t, tt.expected[i], got[i])
			}
		})
	}
}
