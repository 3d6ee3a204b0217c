// Package pulsar publishes list events to an Apache Pulsar topic.
package pulsar

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/apache/pulsar-client-go/pulsar"

	"superlists/internal/domain/list"
)

type Options struct {
	URL   string
	Topic string
	Name  string
}

type Publisher struct {
	client   pulsar.Client
	producer producer
}

// producer is the subset of pulsar.Producer the publisher needs.
type producer interface {
	Send(ctx context.Context, msg *pulsar.ProducerMessage) (pulsar.MessageID, error)
	Close()
}

func NewPublisher(opts Options) (*Publisher, error) {
	client, err := pulsar.NewClient(pulsar.ClientOptions{
		URL:               opts.URL,
		ConnectionTimeout: 10 * time.Second,
		OperationTimeout:  30 * time.Second,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create pulsar client: %w", err)
	}

	p, err := client.CreateProducer(pulsar.ProducerOptions{
		Topic: opts.Topic,
		Name:  opts.Name,
	})
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to create pulsar producer: %w", err)
	}

	return &Publisher{client: client, producer: p}, nil
}

// Publish sends event keyed by its list so a list's events stay ordered.
func (p *Publisher) Publish(ctx context.Context, event list.Event) error {
	if p.producer == nil {
		return errors.New("producer not initialized")
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}

	_, err = p.producer.Send(ctx, &pulsar.ProducerMessage{
		Key:     event.ListID,
		Payload: payload,
		Properties: map[string]string{
			"id":   event.ID,
			"name": event.Name,
		},
		EventTime: event.OccurredAt,
	})
	if err != nil {
		return fmt.Errorf("failed to send event: %w", err)
	}
	return nil
}

func (p *Publisher) Close() {
	if p.producer != nil {
		p.producer.Close()
	}
	if p.client != nil {
		p.client.Close()
	}
}
