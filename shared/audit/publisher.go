package audit

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Publisher appends audit records to the banking-logs stream.
type Publisher struct {
	client *redis.Client
}

func NewPublisher(client *redis.Client) *Publisher {
	return &Publisher{client: client}
}

// Publish appends one record to the stream. Callers on the request path must
// treat a returned error as log-and-continue, never as a request failure.
func (p *Publisher) Publish(ctx context.Context, msg LogMessage) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal audit record: %w", err)
	}

	args := &redis.XAddArgs{
		Stream: Stream,
		Values: map[string]any{
			"log": payload,
		},
	}

	if _, err := p.client.XAdd(ctx, args).Result(); err != nil {
		return fmt.Errorf("failed to publish audit record: %w", err)
	}

	return nil
}
