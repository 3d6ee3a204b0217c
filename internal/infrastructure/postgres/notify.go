package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"superlists/internal/domain/list"
)

// maxNotifyPayload is one byte under PostgreSQL's NOTIFY payload limit.
const maxNotifyPayload = 7999

// Notifier publishes list events on a PostgreSQL NOTIFY channel.
type Notifier struct {
	db      *DB
	channel string
}

func NewNotifier(db *DB, channel string) *Notifier {
	return &Notifier{db: db, channel: channel}
}

func (n *Notifier) Publish(ctx context.Context, event list.Event) error {
	payload, err := notifyPayload(event)
	if err != nil {
		return err
	}

	if _, err := n.db.ExecContext(ctx, `SELECT pg_notify($1, $2)`, n.channel, payload); err != nil {
		return fmt.Errorf("failed to notify %s: %w", n.channel, err)
	}
	return nil
}

// notifyPayload encodes event, dropping its text when the result would not fit
// in a NOTIFY payload. Listeners can reload the item by ID.
func notifyPayload(event list.Event) (string, error) {
	b, err := json.Marshal(event)
	if err != nil {
		return "", fmt.Errorf("failed to encode event: %w", err)
	}
	if len(b) <= maxNotifyPayload {
		return string(b), nil
	}

	event.Text = ""
	b, err = json.Marshal(event)
	if err != nil {
		return "", fmt.Errorf("failed to encode event: %w", err)
	}
	return string(b), nil
}
