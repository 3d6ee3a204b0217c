package pulsar

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/apache/pulsar-client-go/pulsar"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"superlists/internal/domain/list"
)

type fakeProducer struct {
	sent   []*pulsar.ProducerMessage
	err    error
	closed bool
}

func (f *fakeProducer) Send(ctx context.Context, msg *pulsar.ProducerMessage) (pulsar.MessageID, error) {
	f.sent = append(f.sent, msg)
	return nil, f.err
}

func (f *fakeProducer) Close() { f.closed = true }

func TestPublisher_Publish(t *testing.T) {
	fake := &fakeProducer{}
	p := &Publisher{producer: fake}

	at := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	err := p.Publish(context.Background(), list.Event{
		ID:         "0b6f6d0e-8f43-4c55-9a43-0c6b2a0d4f1e",
		Name:       list.EventItemAdded,
		ListID:     "abc",
		ItemID:     3,
		Text:       "Buy peacock feathers",
		OccurredAt: at,
	})
	require.NoError(t, err)
	require.Len(t, fake.sent, 1)

	msg := fake.sent[0]
	assert.Equal(t, "abc", msg.Key)
	assert.Equal(t, list.EventItemAdded, msg.Properties["name"])
	assert.Equal(t, "0b6f6d0e-8f43-4c55-9a43-0c6b2a0d4f1e", msg.Properties["id"])
	assert.Equal(t, at, msg.EventTime)

	var decoded list.Event
	require.NoError(t, json.Unmarshal(msg.Payload, &decoded))
	assert.Equal(t, "Buy peacock feathers", decoded.Text)
	assert.Equal(t, int64(3), decoded.ItemID)
}

func TestPublisher_PublishError(t *testing.T) {
	p := &Publisher{producer: &fakeProducer{err: errors.New("timeout")}}

	err := p.Publish(context.Background(), list.Event{Name: list.EventListCreated, ListID: "abc"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "timeout")
}

func TestPublisher_NotInitialized(t *testing.T) {
	p := &Publisher{}

	err := p.Publish(context.Background(), list.Event{})
	require.Error(t, err)
}

func TestPublisher_Close(t *testing.T) {
	fake := &fakeProducer{}
	p := &Publisher{producer: fake}

	p.Close()
	assert.True(t, fake.closed)
}
