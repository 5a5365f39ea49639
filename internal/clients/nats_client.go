package clients

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/sirupsen/logrus"

	"xchain-backend/internal/config"
	"xchain-backend/internal/metrics"
)

// NATSClient NATS client
type NATSClient struct {
	conn *nats.Conn
	log  *logrus.Logger
}

// NewNATSClient connects to cfg.URL with reconnect handling that keeps the
// connection gauge current.
func NewNATSClient(cfg config.NATSConfig, log *logrus.Logger) (*NATSClient, error) {
	connectTimeout := 10 * time.Second
	if cfg.Timeout > 0 {
		connectTimeout = time.Duration(cfg.Timeout) * time.Second
	}
	reconnectWait := 2 * time.Second
	if cfg.ReconnectWait > 0 {
		reconnectWait = time.Duration(cfg.ReconnectWait) * time.Second
	}
	maxReconnects := -1
	if cfg.MaxReconnects > 0 {
		maxReconnects = cfg.MaxReconnects
	}

	conn, err := nats.Connect(cfg.URL,
		nats.Name("xchain-backend"),
		nats.Timeout(connectTimeout),
		nats.ReconnectWait(reconnectWait),
		nats.MaxReconnects(maxReconnects),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			log.WithError(err).Warn("NATS disconnected")
			metrics.NATSConnectionStatus.Set(0)
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.WithField("url", nc.ConnectedUrl()).Info("NATS reconnected")
			metrics.NATSConnectionStatus.Set(1)
		}),
		nats.ClosedHandler(func(nc *nats.Conn) {
			metrics.NATSConnectionStatus.Set(0)
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("connect to NATS failed: %w", err)
	}
	metrics.NATSConnectionStatus.Set(1)
	log.WithField("url", conn.ConnectedUrl()).Info("✅ NATS connected")

	return &NATSClient{conn: conn, log: log}, nil
}

// Publish sends data on subject.
func (c *NATSClient) Publish(subject string, data []byte) error {
	if err := c.conn.Publish(subject, data); err != nil {
		return fmt.Errorf("publish to %s failed: %w", subject, err)
	}
	return nil
}

// PublishJSON marshals v and publishes it on subject.
func (c *NATSClient) PublishJSON(subject string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s payload failed: %w", subject, err)
	}
	return c.Publish(subject, data)
}

// QueueSubscribe delivers each message on subject to one member of queue.
// An empty queue subscribes every instance.
func (c *NATSClient) QueueSubscribe(subject, queue string, handler func(subject string, data []byte)) (func() error, error) {
	cb := func(msg *nats.Msg) {
		metrics.NATSMessagesReceived.WithLabelValues(subject).Inc()
		handler(msg.Subject, msg.Data)
	}

	var sub *nats.Subscription
	var err error
	if queue != "" {
		sub, err = c.conn.QueueSubscribe(subject, queue, cb)
	} else {
		sub, err = c.conn.Subscribe(subject, cb)
	}
	if err != nil {
		metrics.NATSSubscriptionStatus.WithLabelValues(subject).Set(0)
		return nil, fmt.Errorf("subscribe to %s failed: %w", subject, err)
	}
	metrics.NATSSubscriptionStatus.WithLabelValues(subject).Set(1)
	c.log.WithFields(logrus.Fields{"subject": subject, "queue": queue}).Info("✅ NATS subscription active")

	return func() error {
		metrics.NATSSubscriptionStatus.WithLabelValues(subject).Set(0)
		return sub.Unsubscribe()
	}, nil
}

// IsConnected reports the live connection state.
func (c *NATSClient) IsConnected() bool {
	return c.conn != nil && c.conn.IsConnected()
}

// Close drains pending messages and closes the connection
func (c *NATSClient) Close() {
	if c.conn != nil {
		if err := c.conn.Drain(); err != nil {
			c.conn.Close()
		}
	}
}
