package events

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
)

// NATSRewardNotifier publishes reward intents as JSON on one subject.
type NATSRewardNotifier struct {
	pub     MessagePublisher
	subject string
}

func NewNATSRewardNotifier(pub MessagePublisher, subject string) *NATSRewardNotifier {
	return &NATSRewardNotifier{pub: pub, subject: subject}
}

func (n *NATSRewardNotifier) NotifyReward(_ context.Context, intent RewardIntent) error {
	return n.pub.PublishJSON(n.subject, intent)
}

// NATSPublisher publishes order events on <prefix>.<kind>.<status>.
type NATSPublisher struct {
	pub    MessagePublisher
	prefix string
	log    *logrus.Logger
}

func NewNATSPublisher(pub MessagePublisher, prefix string, log *logrus.Logger) *NATSPublisher {
	return &NATSPublisher{pub: pub, prefix: prefix, log: log}
}

// Subject returns the subject an event is published on.
func (p *NATSPublisher) Subject(event OrderEvent) string {
	return fmt.Sprintf("%s.%s.%s", p.prefix, event.Kind, event.Status)
}

func (p *NATSPublisher) Publish(_ context.Context, event OrderEvent) {
	subject := p.Subject(event)
	if err := p.pub.PublishJSON(subject, event); err != nil {
		p.log.WithFields(logrus.Fields{
			"subject":  subject,
			"order_id": event.OrderID,
		}).WithError(err).Warn("order event publish failed")
	}
}

// MultiPublisher publishes to every member in order.
type MultiPublisher []Publisher

func (m MultiPublisher) Publish(ctx context.Context, event OrderEvent) {
	for _, p := range m {
		p.Publish(ctx, event)
	}
}
