package app

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"xchain-backend/internal/clients"
	"xchain-backend/internal/config"
	"xchain-backend/internal/db"
	"xchain-backend/internal/events"
	"xchain-backend/internal/handlers"
	"xchain-backend/internal/repository"
	"xchain-backend/internal/services"
)

// MessageBus is the publish and subscribe surface of the NATS client.
type MessageBus interface {
	events.MessagePublisher
	events.MessageSubscriber
}

// ServiceContainer wires the bridge services
type ServiceContainer struct {
	Config *config.Config
	DB     *gorm.DB
	Log    *logrus.Logger
	Store  repository.Store

	// Events
	NATSClient       *clients.NATSClient
	Hub              *events.Hub
	Publisher        events.Publisher
	RewardNotifier   events.RewardNotifier
	TransferConsumer *events.TransferConsumer

	// Core Services
	Executor  *services.Executor
	Admin     *services.AdminService
	Registry  *services.RegistryService
	Addresses *services.AddressService
	XinOrders *services.XinOrderService
	XoutOrder *services.XoutOrderService
	Transfers *services.TransferService
	Accounts  *services.AccountService

	Tokens *handlers.TokenIssuer
}

// NewContainer builds every service over database. A nil bus leaves
// rewards and NATS order events disabled; the websocket hub always
// receives order events.
func NewContainer(cfg *config.Config, database *gorm.DB, bus MessageBus, log *logrus.Logger) *ServiceContainer {
	c := &ServiceContainer{
		Config: cfg,
		DB:     database,
		Log:    log,
		Store:  repository.NewStore(database),
		Hub:    events.NewHub(256),
		Tokens: handlers.NewTokenIssuer(cfg.Auth),
	}

	publishers := events.MultiPublisher{c.Hub}
	c.RewardNotifier = events.NoopRewardNotifier{}
	if bus != nil {
		publishers = append(publishers, events.NewNATSPublisher(bus, cfg.NATS.Subjects.Orders, log))
		c.RewardNotifier = events.NewNATSRewardNotifier(bus, cfg.NATS.Subjects.Reward)
	}
	c.Publisher = publishers

	c.Executor = services.NewExecutor(c.Store, cfg.Bridge, c.Publisher, log)
	c.Admin = services.NewAdminService(c.Executor)
	c.Registry = services.NewRegistryService(c.Executor)
	c.Addresses = services.NewAddressService(c.Executor)
	c.XinOrders = services.NewXinOrderService(c.Executor, c.Addresses, c.RewardNotifier)
	c.XoutOrder = services.NewXoutOrderService(c.Executor)
	c.Transfers = services.NewTransferService(c.Executor, c.XoutOrder)
	c.Accounts = services.NewAccountService(c.Executor)

	if bus != nil && cfg.NATS.Subscriptions.Transfers.Enabled {
		sub := cfg.NATS.Subscriptions.Transfers
		c.TransferConsumer = events.NewTransferConsumer(bus, sub.Subject, sub.Queue, c.XoutOrder, log)
	}
	return c
}

// InitializeContainer connects the database and, when configured, NATS
func InitializeContainer(cfg *config.Config, log *logrus.Logger) (*ServiceContainer, error) {
	if err := db.InitDB(cfg); err != nil {
		return nil, err
	}

	var bus MessageBus
	var natsClient *clients.NATSClient
	if cfg.NATS.URL != "" {
		client, err := clients.NewNATSClient(cfg.NATS, log)
		if err != nil {
			return nil, fmt.Errorf("init NATS client: %w", err)
		}
		natsClient = client
		bus = client
	} else {
		log.Warn("⚠️ nats.url not set, reward notifications and NATS order events are disabled")
	}

	c := NewContainer(cfg, db.DB, bus, log)
	c.NATSClient = natsClient
	return c, nil
}

// Start begins consuming bank transfer notifications when enabled
func (c *ServiceContainer) Start() error {
	if c.TransferConsumer == nil {
		return nil
	}
	return c.TransferConsumer.Start()
}

// Cleanup stops consumers and closes connections
func (c *ServiceContainer) Cleanup() {
	if c.TransferConsumer != nil {
		c.TransferConsumer.Stop()
	}
	if c.NATSClient != nil {
		c.NATSClient.Close()
	}
	if c.DB != nil {
		if sqlDB, err := c.DB.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
}
