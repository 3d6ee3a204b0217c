package list

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMultiPublisher(t *testing.T) {
	first := &recordingPublisher{}
	failing := &recordingPublisher{err: errors.New("broker down")}
	last := &recordingPublisher{}

	event := Event{Name: EventItemAdded, ListID: "abc", ItemID: 3, Text: "milk"}
	err := MultiPublisher{first, failing, last}.Publish(context.Background(), event)

	require.Error(t, err)
	assert.ErrorIs(t, err, failing.err)
	assert.Equal(t, []Event{event}, first.events)
	assert.Equal(t, []Event{event}, last.events, "a failing publisher does not stop the rest")
}

func TestMultiPublisher_Empty(t *testing.T) {
	assert.NoError(t, MultiPublisher{}.Publish(context.Background(), Event{}))
}
