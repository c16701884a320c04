// Package events provides the pub/sub EventBus built on Watermill.
//
// Two transports are available:
//   - SQL (NewEventBus, NewEventBusWithForwarder): PostgreSQL-backed, durable,
//     shared by the API and the worker. Used with the postgres store backend.
//   - In-memory (NewInMemoryEventBus): Watermill's gochannel. Messages never
//     leave the process, so subscribers run inside the publishing binary.
//
// Delivery semantics for SQL: all instances with the same ServiceName share a
// ConsumerGroup, so each message is processed by exactly one instance.
//
// Handlers should be idempotent. A failing handler is retried up to 3 times
// with exponential backoff before the message is nacked.
//
// OTel context propagation: trace context is injected into message metadata on Publish
// and extracted in Subscribe, enabling end-to-end distributed tracing across services.
package events

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	watermillsql "github.com/ThreeDotsLabs/watermill-sql/v3/pkg/sql"
	"github.com/ThreeDotsLabs/watermill/components/forwarder"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"github.com/ghuser/stockledger/pkg/config"
	"github.com/ghuser/stockledger/pkg/logger"
)

const (
	maxRetries      = 3
	retryBaseDelay  = time.Second
	shutdownTimeout = 30 * time.Second
	errBuffer       = 100
	inMemoryBuffer  = 256

	// forwarderTopic is the outbox queue drained by the forwarder daemon.
	forwarderTopic = "_forwarder_queue"
)

// EventBus publishes and consumes Watermill messages over SQL or gochannel.
type EventBus struct {
	publisher    message.Publisher
	subscriber   message.Subscriber
	fwd          *forwarder.Forwarder // set by StartForwarder
	db           *sql.DB              // nil for the in-memory transport
	group        string               // consumer group prefix, the service name
	log          logger.Logger
	wlog         watermill.LoggerAdapter
	retry        retryPolicy
	wg           sync.WaitGroup
	useForwarder bool
}

// NewEventBus initializes a Watermill SQL publisher and subscriber on db.
// Schema tables are created automatically on first use. db is owned by the
// caller and is not closed by Close.
func NewEventBus(db *sql.DB, cfg *config.Config, log logger.Logger) (*EventBus, error) {
	return newEventBus(db, cfg, log, false)
}

// NewEventBusWithForwarder creates an SQL EventBus whose Publish writes to a
// durable outbox queue. StartForwarder moves queued messages to their topics.
func NewEventBusWithForwarder(db *sql.DB, cfg *config.Config, log logger.Logger) (*EventBus, error) {
	return newEventBus(db, cfg, log, true)
}

// NewInMemoryEventBus returns a process-local EventBus. Messages published
// before any subscriber exists are dropped.
func NewInMemoryEventBus(log logger.Logger) *EventBus {
	wlog := &slogAdapter{log: log}
	ch := gochannel.NewGoChannel(gochannel.Config{OutputChannelBuffer: inMemoryBuffer}, wlog)
	return &EventBus{
		publisher:  ch,
		subscriber: ch,
		log:        log,
		wlog:       wlog,
		retry:      defaultRetry,
	}
}

func publisherConfig(initSchema bool) watermillsql.PublisherConfig {
	return watermillsql.PublisherConfig{
		SchemaAdapter:        watermillsql.DefaultPostgreSQLSchema{},
		AutoInitializeSchema: initSchema,
	}
}

func subscriberConfig(group string) watermillsql.SubscriberConfig {
	return watermillsql.SubscriberConfig{
		SchemaAdapter:    watermillsql.DefaultPostgreSQLSchema{},
		OffsetsAdapter:   watermillsql.DefaultPostgreSQLOffsetsAdapter{},
		InitializeSchema: true,
		ConsumerGroup:    group,
	}
}

func newEventBus(db *sql.DB, cfg *config.Config, log logger.Logger, useForwarder bool) (*EventBus, error) {
	q := &EventBus{
		db:           db,
		group:        cfg.ServiceName,
		log:          log,
		wlog:         &slogAdapter{log: log},
		retry:        defaultRetry,
		useForwarder: useForwarder,
	}

	pub, err := watermillsql.NewPublisher(db, publisherConfig(true), q.wlog)
	if err != nil {
		return nil, fmt.Errorf("events: new publisher: %w", err)
	}
	sub, err := watermillsql.NewSubscriber(db, subscriberConfig(q.group+"-consumer"), q.wlog)
	if err != nil {
		_ = pub.Close()
		return nil, fmt.Errorf("events: new subscriber: %w", err)
	}
	q.publisher = q.outbox(pub)
	q.subscriber = sub
	return q, nil
}

// outbox routes pub through the forwarder queue in forwarder mode.
func (q *EventBus) outbox(pub message.Publisher) message.Publisher {
	if !q.useForwarder {
		return pub
	}
	return forwarder.NewPublisher(pub, forwarder.PublisherConfig{ForwarderTopic: forwarderTopic})
}

// NewMessage encodes payload as JSON in a message with a fresh UUID.
func NewMessage(payload any) (*message.Message, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("events: encode payload: %w", err)
	}
	return message.NewMessage(watermill.NewUUID(), body), nil
}

// Durable reports whether published messages survive a process restart.
func (q *EventBus) Durable() bool {
	return q.db != nil
}

// StartForwarder runs the daemon that moves messages from the outbox queue
// to their target topics until ctx ends. It returns once the daemon is
// running. Only valid once, on a bus built by NewEventBusWithForwarder.
func (q *EventBus) StartForwarder(ctx context.Context) error {
	switch {
	case !q.useForwarder:
		return errors.New("events: StartForwarder called on non-forwarder EventBus")
	case q.db == nil:
		return errors.New("events: forwarder requires the SQL transport")
	case q.fwd != nil:
		return errors.New("events: forwarder already started")
	}

	fwdSub, err := watermillsql.NewSubscriber(q.db, subscriberConfig(q.group+"-forwarder"), q.wlog)
	if err != nil {
		return fmt.Errorf("events: new forwarder subscriber: %w", err)
	}
	targetPub, err := watermillsql.NewPublisher(q.db, publisherConfig(true), q.wlog)
	if err != nil {
		_ = fwdSub.Close()
		return fmt.Errorf("events: new forwarder target publisher: %w", err)
	}
	fwd, err := forwarder.NewForwarder(fwdSub, targetPub, q.wlog, forwarder.Config{ForwarderTopic: forwarderTopic})
	if err != nil {
		_ = targetPub.Close()
		_ = fwdSub.Close()
		return fmt.Errorf("events: create forwarder: %w", err)
	}
	q.fwd = fwd

	q.wg.Add(1)
	go func() {
		defer q.wg.Done()
		q.log.InfoContext(ctx, "events: forwarder started")
		if err := fwd.Run(ctx); err != nil {
			q.log.ErrorContext(ctx, "events: forwarder stopped with error", "error", err)
			return
		}
		q.log.InfoContext(ctx, "events: forwarder stopped")
	}()

	select {
	case <-fwd.Running():
		return nil
	case <-ctx.Done():
		return fmt.Errorf("events: context cancelled waiting for forwarder: %w", ctx.Err())
	}
}

// NewTxPublisher returns a Publisher writing inside tx, so a state change and
// its event commit together. The schema must already exist.
func (q *EventBus) NewTxPublisher(tx *sql.Tx) (message.Publisher, error) {
	if q.db == nil {
		return nil, errors.New("events: transactional publish requires the SQL transport")
	}
	pub, err := watermillsql.NewPublisher(tx, publisherConfig(false), q.wlog)
	if err != nil {
		return nil, fmt.Errorf("events: new tx publisher: %w", err)
	}
	return q.outbox(pub), nil
}

// Publish sends msgs to topic with the trace context of ctx in their metadata.
func (q *EventBus) Publish(ctx context.Context, topic string, msgs ...*message.Message) error {
	injectTrace(ctx, msgs)
	if err := q.publisher.Publish(topic, msgs...); err != nil { //nolint:contextcheck
		return fmt.Errorf("events: publish to %s: %w", topic, err)
	}
	return nil
}

// Subscribe runs handler for every message on topic in a background
// goroutine. The handler context carries the publisher's trace.
//
// A nil return acks the message. Errors are retried with exponential backoff
// (1s, 2s); after the last attempt the message is nacked and the error sent
// on the returned channel, which callers must drain:
//
//	errCh, err := bus.Subscribe(ctx, topic, handler)
//	go func() { for err := range errCh { log.ErrorContext(ctx, "subscriber error", "error", err) } }()
//
// Close waits for in-flight handlers.
func (q *EventBus) Subscribe(ctx context.Context, topic string, handler func(context.Context, *message.Message) error) (<-chan error, error) {
	ch, err := q.subscriber.Subscribe(ctx, topic)
	if err != nil {
		return nil, fmt.Errorf("events: subscribe to %s: %w", topic, err)
	}
	errCh := make(chan error, errBuffer)

	q.wg.Add(1)
	go func() {
		defer q.wg.Done()
		defer close(errCh)
		for msg := range ch {
			msgCtx := extractTrace(ctx, msg)
			if err := q.retry.run(msgCtx, msg, handler, q.log); err != nil {
				msg.Nack()
				q.report(msgCtx, errCh, topic, err)
				continue
			}
			msg.Ack()
		}
	}()
	return errCh, nil
}

func (q *EventBus) report(ctx context.Context, errCh chan<- error, topic string, err error) {
	select {
	case errCh <- err:
	default:
		q.log.ErrorContext(ctx, "events: error channel full, dropping error", "error", err, "topic", topic)
	}
}

func injectTrace(ctx context.Context, msgs []*message.Message) {
	carrier := propagation.MapCarrier{}
	otel.GetTextMapPropagator().Inject(ctx, carrier)
	for _, msg := range msgs {
		for k, v := range carrier {
			msg.Metadata.Set(k, v)
		}
	}
}

func extractTrace(ctx context.Context, msg *message.Message) context.Context {
	return otel.GetTextMapPropagator().Extract(ctx, propagation.MapCarrier(msg.Metadata))
}

// retryPolicy calls a handler up to attempts times, doubling the pause
// after each failure.
type retryPolicy struct {
	attempts int
	base     time.Duration
}

var defaultRetry = retryPolicy{attempts: maxRetries, base: retryBaseDelay}

func (p retryPolicy) run(
	ctx context.Context,
	msg *message.Message,
	handler func(context.Context, *message.Message) error,
	log logger.Logger,
) error {
	delay := p.base
	var err error
	for attempt := 1; ; attempt++ {
		if err = handler(ctx, msg); err == nil {
			return nil
		}
		if attempt >= p.attempts {
			return fmt.Errorf("events: handler failed after %d retries: %w", p.attempts, err)
		}
		log.WarnContext(ctx, "events: handler failed, retrying",
			"attempt", attempt,
			"max_retries", p.attempts,
			"next_delay", delay,
			"message_uuid", msg.UUID,
			"error", err,
		)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
		delay *= 2
	}
}

// Ping checks the EventBus database connection health. The in-memory
// transport is always healthy.
func (q *EventBus) Ping(ctx context.Context) error {
	if q.db == nil {
		return nil
	}
	if err := q.db.PingContext(ctx); err != nil {
		return fmt.Errorf("events: ping db: %w", err)
	}
	return nil
}

// Close stops the subscriber and the forwarder, waits up to 30s for
// in-flight handlers, then closes the publisher. The database is left open.
func (q *EventBus) Close() error {
	if err := q.subscriber.Close(); err != nil {
		return fmt.Errorf("events: close subscriber: %w", err)
	}
	if q.fwd != nil {
		if err := q.fwd.Close(); err != nil {
			return fmt.Errorf("events: close forwarder: %w", err)
		}
	}

	done := make(chan struct{})
	go func() {
		q.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(shutdownTimeout):
		q.log.Error("events: timed out waiting for in-flight handlers to complete")
	}

	if q.db == nil {
		// gochannel is both publisher and subscriber and is already closed.
		return nil
	}
	if err := q.publisher.Close(); err != nil {
		return fmt.Errorf("events: close publisher: %w", err)
	}
	return nil
}

// slogAdapter bridges logger.Logger to watermill.LoggerAdapter.
type slogAdapter struct{ log logger.Logger }

func (a *slogAdapter) Error(msg string, err error, fields watermill.LogFields) {
	a.log.Error(msg, append(fieldsToArgs(fields), "error", err)...)
}
func (a *slogAdapter) Info(msg string, fields watermill.LogFields) {
	a.log.Info(msg, fieldsToArgs(fields)...)
}
func (a *slogAdapter) Debug(msg string, fields watermill.LogFields) {
	a.log.Debug(msg, fieldsToArgs(fields)...)
}
func (a *slogAdapter) Trace(msg string, fields watermill.LogFields) {
	a.log.Debug(msg, fieldsToArgs(fields)...)
}
func (a *slogAdapter) With(fields watermill.LogFields) watermill.LoggerAdapter {
	return &slogAdapter{log: a.log.With(fieldsToArgs(fields)...)}
}

func fieldsToArgs(fields watermill.LogFields) []any {
	args := make([]any, 0, len(fields)*2)
	for k, v := range fields {
		args = append(args, k, v)
	}
	return args
}
