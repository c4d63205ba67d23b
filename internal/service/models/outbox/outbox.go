package outbox

import (
	"encoding/json"
	"time"
)

// Message represents an order snapshot waiting to be mirrored to the
// remote sink via RabbitMQ.
type Message struct {
	ID           string          `json:"id"`
	ExchangeName string          `json:"exchange_name"`
	RoutingKey   string          `json:"routing_key"`
	Payload      json.RawMessage `json:"payload"`
	ContentType  string          `json:"content_type"`
	RetryCount   int             `json:"retry_count"`
	MaxRetries   int             `json:"max_retries"`
	LastError    string          `json:"last_error,omitempty"`
	Published    bool            `json:"published,omitempty"`
	PublishedAt  *time.Time      `json:"published_at,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
	NextRetryAt  time.Time       `json:"next_retry_at"`
}
