package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ============================================
	// Bridge actions
	// ============================================
	ActionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "xchain_actions_total",
			Help: "Total number of bridge actions by result code",
		},
		[]string{"action", "result"},
	)

	ActionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "xchain_action_duration_seconds",
			Help:    "Bridge action duration in seconds, transaction included",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"action"},
	)

	// ============================================
	// Orders and fees
	// ============================================
	OrderTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "xchain_orders_total",
			Help: "Total number of committed order state changes",
		},
		[]string{"kind", "status"},
	)

	FeesCollected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "xchain_fees_collected_total",
			Help: "Fees paid to the fee collector, in whole tokens",
		},
		[]string{"symbol"},
	)

	RewardNotifyFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "xchain_reward_notify_failures_total",
		Help: "Reward notifications that could not be delivered",
	})

	// ============================================
	// NATS
	// ============================================
	NATSConnectionStatus = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "xchain_nats_connection_status",
		Help: "NATS connection status (1=connected, 0=disconnected)",
	})

	NATSMessagesReceived = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "xchain_nats_messages_received_total",
			Help: "Total number of NATS messages received",
		},
		[]string{"subject"},
	)

	NATSMessagesFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "xchain_nats_messages_failed_total",
			Help: "Total number of NATS messages failed to process",
		},
		[]string{"subject", "error_type"},
	)

	NATSSubscriptionStatus = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "xchain_nats_subscription_status",
			Help: "NATS subscription status (1=active, 0=inactive)",
		},
		[]string{"subject"},
	)

	// ============================================
	// WebSocket
	// ============================================
	WebSocketClients = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "xchain_websocket_clients",
		Help: "Connected order stream clients",
	})
)
