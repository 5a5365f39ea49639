package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/sirupsen/logrus"

	"xchain-backend/internal/errs"
	"xchain-backend/internal/metrics"
)

// TransferHandler processes one bank transfer notification.
type TransferHandler interface {
	HandleTransferNotice(ctx context.Context, notice TransferNotice) error
}

// TransferConsumer feeds bank transfer notifications from NATS into the
// outbound order engine.
type TransferConsumer struct {
	sub         MessageSubscriber
	subject     string
	queue       string
	handler     TransferHandler
	log         *logrus.Logger
	timeout     time.Duration
	unsubscribe func() error
}

func NewTransferConsumer(sub MessageSubscriber, subject, queue string, handler TransferHandler, log *logrus.Logger) *TransferConsumer {
	return &TransferConsumer{
		sub:     sub,
		subject: subject,
		queue:   queue,
		handler: handler,
		log:     log,
		timeout: 30 * time.Second,
	}
}

// Start subscribes; messages are handled on the NATS delivery goroutine.
func (c *TransferConsumer) Start() error {
	unsub, err := c.sub.QueueSubscribe(c.subject, c.queue, c.handleMessage)
	if err != nil {
		return err
	}
	c.unsubscribe = unsub
	return nil
}

func (c *TransferConsumer) Stop() {
	if c.unsubscribe != nil {
		if err := c.unsubscribe(); err != nil {
			c.log.WithError(err).Warn("transfer consumer unsubscribe failed")
		}
		c.unsubscribe = nil
	}
}

func (c *TransferConsumer) handleMessage(subject string, data []byte) {
	var notice TransferNotice
	if err := json.Unmarshal(data, &notice); err != nil {
		metrics.NATSMessagesFailed.WithLabelValues(c.subject, "decode").Inc()
		c.log.WithField("subject", subject).WithError(err).Warn("invalid transfer notice")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()

	if err := c.handler.HandleTransferNotice(ctx, notice); err != nil {
		metrics.NATSMessagesFailed.WithLabelValues(c.subject, string(errs.CodeOf(err))).Inc()
		c.log.WithFields(logrus.Fields{
			"subject":  subject,
			"from":     notice.From,
			"quantity": notice.Quantity.String(),
			"code":     errs.CodeOf(err),
		}).WithError(err).Warn("transfer notice rejected")
	}
}
