package nats

import (
	"context"
	"encoding/json"
	"fmt"

	"project-tracker/domain/ports"
	"project-tracker/pkg/logger"
)

// Publisher ส่ง activity event เข้า JetStream
type Publisher struct {
	client *Client
}

func NewPublisher(client *Client) ports.EventPublisherPort {
	return &Publisher{client: client}
}

func (p *Publisher) Publish(ctx context.Context, event *ports.ActivityEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	ack, err := p.client.js.Publish(ctx, SubjectFor(event.Type), data)
	if err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	logger.DebugContext(ctx, "Activity published",
		"type", event.Type,
		"project_id", event.ProjectID,
		"sequence", ack.Sequence,
	)
	return nil
}
