package events

import (
	"context"
	"encoding/json"
	"fmt"

	"cloud.google.com/go/pubsub"
	"github.com/SscSPs/checkout_settlement/internal/core/domain"
	"google.golang.org/api/option"
)

// PubSubPublisher forwards every event to a Google Cloud Pub/Sub topic.
type PubSubPublisher struct {
	client *pubsub.Client
	topic  *pubsub.Topic
}

// NewPubSubPublisher connects to projectID. Empty credentialsJSON uses Application Default Credentials.
func NewPubSubPublisher(ctx context.Context, projectID, topicID, credentialsJSON string) (*PubSubPublisher, error) {
	if projectID == "" || topicID == "" {
		return nil, fmt.Errorf("pubsub project and topic are required")
	}

	var opts []option.ClientOption
	if credentialsJSON != "" {
		opts = append(opts, option.WithCredentialsJSON([]byte(credentialsJSON)))
	}
	client, err := pubsub.NewClient(ctx, projectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create pubsub client: %w", err)
	}

	topic := client.Topic(topicID)
	// events of one order stay in order for subscribers
	topic.EnableMessageOrdering = true
	return &PubSubPublisher{client: client, topic: topic}, nil
}

func (p *PubSubPublisher) Name() string { return "pubsub" }

// Handle publishes the event and waits for the server acknowledgement.
func (p *PubSubPublisher) Handle(ctx context.Context, event domain.DomainEvent) error {
	return publishEvent(ctx, p.topic, event)
}

func publishEvent(ctx context.Context, topic *pubsub.Topic, event domain.DomainEvent) error {
	msg, err := toMessage(event)
	if err != nil {
		return err
	}
	result := topic.Publish(ctx, msg)
	if _, err := result.Get(ctx); err != nil {
		topic.ResumePublish(msg.OrderingKey)
		return fmt.Errorf("failed to publish %s: %w", event.Type, err)
	}
	return nil
}

func toMessage(event domain.DomainEvent) (*pubsub.Message, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("failed to encode event %s: %w", event.EventID, err)
	}
	return &pubsub.Message{
		Data: data,
		Attributes: map[string]string{
			"event_id":   event.EventID,
			"event_type": string(event.Type),
			"tenant_id":  event.TenantID,
		},
		OrderingKey: event.TenantID + ":" + event.AggregateID,
	}, nil
}

// Close flushes pending messages and closes the client.
func (p *PubSubPublisher) Close() error {
	p.topic.Stop()
	return p.client.Close()
}
