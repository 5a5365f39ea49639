// Package events carries bridge side effects out of the transaction: reward
// intents for the farm system, order lifecycle events for NATS and websocket
// subscribers, and inbound bank transfer notifications.
package events

import (
	"context"
	"time"

	"xchain-backend/internal/asset"
	"xchain-backend/internal/fsm"
)

// OrderKind distinguishes inbound from outbound orders.
type OrderKind string

const (
	OrderKindXin  OrderKind = "xin"
	OrderKindXout OrderKind = "xout"
)

// OrderEvent is emitted after a committed order state change.
type OrderEvent struct {
	Kind      OrderKind   `json:"kind"`
	OrderID   uint64      `json:"order_id"`
	Account   string      `json:"account"`
	Chain     string      `json:"chain"`
	Status    fsm.Status  `json:"status"`
	Quantity  asset.Asset `json:"quantity"`
	Actor     string      `json:"actor"`
	RequestID string      `json:"request_id"`
	Timestamp time.Time   `json:"timestamp"`
}

// RewardIntent asks the farm system to credit a depositor.
type RewardIntent struct {
	Contract  string      `json:"contract"`
	LandID    uint64      `json:"land_id"`
	Account   string      `json:"account"`
	Reward    asset.Asset `json:"reward"`
	Memo      string      `json:"memo"`
	OrderID   uint64      `json:"order_id"`
	RequestID string      `json:"request_id"`
}

// TransferNotice is a token transfer observed by the bridge account.
type TransferNotice struct {
	Issuer   string      `json:"issuer"`
	From     string      `json:"from"`
	To       string      `json:"to"`
	Quantity asset.Asset `json:"quantity"`
	Memo     string      `json:"memo"`
}

// RewardNotifier delivers reward intents. Callers treat failures as
// non-fatal.
type RewardNotifier interface {
	NotifyReward(ctx context.Context, intent RewardIntent) error
}

// Publisher fans out order events.
type Publisher interface {
	Publish(ctx context.Context, event OrderEvent)
}

// MessagePublisher is the subset of the NATS client used for publishing.
type MessagePublisher interface {
	PublishJSON(subject string, v interface{}) error
}

// MessageSubscriber is the subset of the NATS client used for consuming.
type MessageSubscriber interface {
	QueueSubscribe(subject, queue string, handler func(subject string, data []byte)) (func() error, error)
}

// NoopRewardNotifier drops every intent.
type NoopRewardNotifier struct{}

func (NoopRewardNotifier) NotifyReward(context.Context, RewardIntent) error { return nil }

// NoopPublisher drops every event.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, OrderEvent) {}
