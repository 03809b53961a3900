package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/iho/sharefund/internal/domain"
)

// NotificationPublisher delivers buyer notifications over Redis pub/sub and
// keeps the most recent ones in a capped per-buyer list.
type NotificationPublisher struct {
	client      redis.Cmdable
	keep        int64
	retention   time.Duration
	channelBase string
	inboxBase   string
}

// NewNotificationPublisher creates a new NotificationPublisher.
func NewNotificationPublisher(client redis.Cmdable) *NotificationPublisher {
	return &NotificationPublisher{
		client:      client,
		keep:        50,
		retention:   30 * 24 * time.Hour,
		channelBase: "notifications:",
		inboxBase:   "inbox:",
	}
}

// Channel returns the pub/sub channel of a buyer.
func (p *NotificationPublisher) Channel(buyerID string) string {
	return p.channelBase + buyerID
}

// Send implements notify.Sender.
func (p *NotificationPublisher) Send(ctx context.Context, n domain.Notification) error {
	payload, err := json.Marshal(n)
	if err != nil {
		return err
	}

	inbox := p.inboxBase + n.BuyerID
	_, err = p.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.LPush(ctx, inbox, payload)
		pipe.LTrim(ctx, inbox, 0, p.keep-1)
		pipe.Expire(ctx, inbox, p.retention)
		pipe.Publish(ctx, p.Channel(n.BuyerID), payload)
		return nil
	})
	return err
}

// Recent returns up to limit of a buyer's latest notifications, newest first.
func (p *NotificationPublisher) Recent(ctx context.Context, buyerID string, limit int64) ([]domain.Notification, error) {
	if limit <= 0 || limit > p.keep {
		limit = p.keep
	}

	raw, err := p.client.LRange(ctx, p.inboxBase+buyerID, 0, limit-1).Result()
	if err != nil {
		return nil, err
	}

	notifications := make([]domain.Notification, 0, len(raw))
	for _, item := range raw {
		var n domain.Notification
		if err := json.Unmarshal([]byte(item), &n); err != nil {
			continue
		}
		notifications = append(notifications, n)
	}
	return notifications, nil
}
