package dispatch

import (
	"context"
	"fmt"

	"superlists/internal/domain/list"
)

// Job is a unit of work run by the WorkerPool. Jobs with the same Key run on
// the same worker, in submission order.
type Job interface {
	Execute(ctx context.Context) error
	Key() string
	Description() string
}

// publishJob delivers one list event to a publisher.
type publishJob struct {
	publisher list.Publisher
	event     list.Event
}

func (j publishJob) Execute(ctx context.Context) error {
	return j.publisher.Publish(ctx, j.event)
}

func (j publishJob) Key() string {
	return j.event.ListID
}

func (j publishJob) Description() string {
	return fmt.Sprintf("%s for list %s", j.event.Name, j.event.ListID)
}
