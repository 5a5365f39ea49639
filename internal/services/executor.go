package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"xchain-backend/internal/config"
	"xchain-backend/internal/errs"
	"xchain-backend/internal/events"
	"xchain-backend/internal/ledger"
	"xchain-backend/internal/metrics"
	"xchain-backend/internal/models"
	"xchain-backend/internal/repository"
	"xchain-backend/internal/utils"
)

// Action names one boundary operation and its authenticated caller.
type Action struct {
	Name   string
	Caller string
	Params interface{}
}

type envelope struct {
	RequestID string      `json:"request_id"`
	Action    string      `json:"action"`
	Caller    string      `json:"caller"`
	Params    interface{} `json:"params"`
	Timestamp time.Time   `json:"timestamp"`
}

// ActionContext is everything an operation may touch while its transaction
// is open.
type ActionContext struct {
	context.Context

	Store     repository.Store
	Ledger    ledger.Ledger
	State     *models.GlobalState
	Bridge    config.BridgeConfig
	Caller    string
	RequestID string
	Now       time.Time
	Log       *logrus.Entry

	envelope    []byte
	stateDirty  bool
	events      []events.OrderEvent
	afterCommit []func(ctx context.Context)
}

// TxID is the Keccak-256 of the serialized action envelope, unique per
// request.
func (a *ActionContext) TxID() string {
	return utils.HashBytes(a.envelope)
}

// MarkStateDirty schedules the global state for saving at commit.
func (a *ActionContext) MarkStateDirty() {
	a.stateDirty = true
}

// Emit queues an order event for publication after commit.
func (a *ActionContext) Emit(event events.OrderEvent) {
	event.RequestID = a.RequestID
	if event.Timestamp.IsZero() {
		event.Timestamp = a.Now
	}
	a.events = append(a.events, event)
}

// AfterCommit schedules fn to run once the transaction has committed. It
// never runs for a rolled back action.
func (a *ActionContext) AfterCommit(fn func(ctx context.Context)) {
	a.afterCommit = append(a.afterCommit, fn)
}

// Executor runs each action in its own database transaction.
type Executor struct {
	store     repository.Store
	bridge    config.BridgeConfig
	publisher events.Publisher
	log       *logrus.Logger
	now       func() time.Time
}

func NewExecutor(store repository.Store, bridge config.BridgeConfig, publisher events.Publisher, log *logrus.Logger) *Executor {
	if publisher == nil {
		publisher = events.NoopPublisher{}
	}
	return &Executor{
		store:     store,
		bridge:    bridge,
		publisher: publisher,
		log:       log,
		now:       time.Now,
	}
}

// SetClock replaces the time source, for tests.
func (e *Executor) SetClock(now func() time.Time) {
	e.now = now
}

// Store returns the non-transactional store for read paths.
func (e *Executor) Store() repository.Store {
	return e.store
}

// Bridge returns the bridge identities and limits.
func (e *Executor) Bridge() config.BridgeConfig {
	return e.bridge
}

// Execute runs fn inside one transaction. Any error rolls back every write
// including ledger movements; on success the global state is saved if
// marked dirty, then queued events are published and commit hooks run.
func (e *Executor) Execute(ctx context.Context, action Action, fn func(actx *ActionContext) error) error {
	start := time.Now()
	requestID := uuid.New().String()
	now := e.now().UTC()

	env, err := json.Marshal(envelope{
		RequestID: requestID,
		Action:    action.Name,
		Caller:    action.Caller,
		Params:    action.Params,
		Timestamp: now,
	})
	if err != nil {
		return errors.Wrap(err, "marshal action envelope")
	}

	entry := e.log.WithFields(logrus.Fields{
		"action":     action.Name,
		"caller":     action.Caller,
		"request_id": requestID,
	})

	var queued []events.OrderEvent
	var hooks []func(ctx context.Context)
	err = e.store.WithTx(ctx, func(tx repository.Store) error {
		state, err := tx.State().Get(ctx)
		if err != nil {
			return err
		}
		actx := &ActionContext{
			Context:   ctx,
			Store:     tx,
			Ledger:    ledger.New(tx.DB(), requestID),
			State:     state,
			Bridge:    e.bridge,
			Caller:    action.Caller,
			RequestID: requestID,
			Now:       now,
			Log:       entry,
			envelope:  env,
		}
		if err := fn(actx); err != nil {
			return err
		}
		if actx.stateDirty {
			if err := tx.State().Save(ctx, actx.State); err != nil {
				return err
			}
		}
		queued = actx.events
		hooks = actx.afterCommit
		return nil
	})

	code := errs.CodeOf(err)
	result := "OK"
	if err != nil {
		result = string(code)
	}
	metrics.ActionsTotal.WithLabelValues(action.Name, result).Inc()
	metrics.ActionDuration.WithLabelValues(action.Name).Observe(time.Since(start).Seconds())

	if err != nil {
		fields := entry.WithField("code", code)
		if code == errs.CodeInternal {
			fields.WithError(err).Error("action failed")
		} else {
			fields.WithError(err).Info("action rejected")
		}
		return err
	}

	for _, ev := range queued {
		metrics.OrderTransitions.WithLabelValues(string(ev.Kind), string(ev.Status)).Inc()
		e.publisher.Publish(ctx, ev)
	}
	for _, hook := range hooks {
		hook(ctx)
	}
	entry.Debug("action committed")
	return nil
}
