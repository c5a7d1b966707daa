package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/pb2jamz/Signal-Sorter/models"
)

// Item change event types published to subscribers.
const (
	EventItemCreated      = "item.created"
	EventItemReclassified = "item.reclassified"
	EventItemCompleted    = "item.completed"
	EventItemReopened     = "item.reopened"
	EventItemDeleted      = "item.deleted"
)

// ItemEvent is the payload published on a user's change channel whenever
// the tracked-item set changes, so connected clients can refresh.
type ItemEvent struct {
	Type           string                `json:"type"`
	ItemID         string                `json:"item_id"`
	Name           string                `json:"name"`
	Classification models.Classification `json:"classification,omitempty"`
}

// Notifier publishes item change events over Redis pub/sub, one channel per
// user. A nil client disables publishing.
type Notifier struct {
	redis *redis.Client
	log   zerolog.Logger
}

// NewNotifier creates a notifier. client may be nil when Redis is not
// configured.
func NewNotifier(client *redis.Client, logger zerolog.Logger) *Notifier {
	return &Notifier{redis: client, log: logger}
}

// userChannel is the pub/sub channel carrying one user's item events.
func userChannel(userID uuid.UUID) string {
	return fmt.Sprintf("sorter:user:%s", userID.String())
}

// PublishItemEvent publishes one event on the user's channel. Publish
// failures are logged, never surfaced: notification is best-effort and must
// not fail the request that caused it.
func (n *Notifier) PublishItemEvent(ctx context.Context, userID uuid.UUID, event ItemEvent) {
	if n.redis == nil {
		return
	}

	data, err := json.Marshal(event)
	if err != nil {
		n.log.Error().Err(err).Msg("failed to marshal item event")
		return
	}

	if err := n.redis.Publish(ctx, userChannel(userID), data).Err(); err != nil {
		n.log.Warn().
			Err(err).
			Str("event", event.Type).
			Msg("failed to publish item event")
	}
}

// Subscribe returns a subscription to the user's change channel. The caller
// owns the subscription and must Close it.
func (n *Notifier) Subscribe(ctx context.Context, userID uuid.UUID) *redis.PubSub {
	if n.redis == nil {
		return nil
	}
	return n.redis.Subscribe(ctx, userChannel(userID))
}
