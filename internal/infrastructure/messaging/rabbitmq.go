package messaging

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/hilthontt/signals/internal/infrastructure/configs"
	"github.com/hilthontt/signals/internal/infrastructure/logging"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/multierr"
)

const (
	DeadLetterExchange = "signals.dlx"
	DeadLetterQueue    = "signals.dead_letter"
)

var ErrConnectionClosed = errors.New("broker connection closed")

// Handler processes one inbound message. Returning nil acknowledges it.
type Handler func(ctx context.Context, topic string, payload []byte) error

type RabbitMQ struct {
	conn     *amqp.Connection
	Channel  *amqp.Channel
	pub      *amqp.Channel
	mu       sync.Mutex
	exchange string
	queue    string
	prefetch int
	logger   logging.Logger
}

func NewRabbitMQ(ctx context.Context, cfg configs.BrokerConfig, logger logging.Logger) (*RabbitMQ, error) {
	conn, err := dial(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to create channel: %w", err)
	}

	pub, err := conn.Channel()
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to create publish channel: %w", err)
	}

	return &RabbitMQ{
		conn:     conn,
		Channel:  ch,
		pub:      pub,
		exchange: cfg.Exchange,
		queue:    "signals." + cfg.ClientID,
		prefetch: cfg.Prefetch,
		logger:   logger,
	}, nil
}

func dial(ctx context.Context, cfg configs.BrokerConfig, logger logging.Logger) (*amqp.Connection, error) {
	amqpCfg := amqp.Config{
		Heartbeat: cfg.KeepAlive,
		Locale:    "en_US",
		Properties: amqp.Table{
			"connection_name": cfg.ClientID,
		},
	}

	attempts := max(cfg.DialAttempts, 1)

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		conn, err := amqp.DialConfig(cfg.URI, amqpCfg)
		if err == nil {
			logger.Info(logging.RabbitMQ, logging.Connect, "connected to broker", map[logging.ExtraKey]any{
				"attempt": attempt,
			})
			return conn, nil
		}
		lastErr = err

		logger.Warn(logging.RabbitMQ, logging.Connect, "broker dial failed", map[logging.ExtraKey]any{
			"attempt":            attempt,
			logging.ErrorMessage: err.Error(),
		})

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(cfg.ReconnectInterval):
		}
	}

	return nil, fmt.Errorf("failed to connect to RabbitMQ after %d attempts: %w", attempts, lastErr)
}

func (r *RabbitMQ) Close() error {
	var err error
	if r.pub != nil {
		err = multierr.Append(err, ignoreClosed(r.pub.Close()))
	}
	if r.Channel != nil {
		err = multierr.Append(err, ignoreClosed(r.Channel.Close()))
	}
	if r.conn != nil {
		err = multierr.Append(err, ignoreClosed(r.conn.Close()))
	}
	return err
}

func ignoreClosed(err error) error {
	if errors.Is(err, amqp.ErrClosed) {
		return nil
	}
	return err
}

// Publish sends payload on the MQTT topic. Safe for concurrent use.
func (r *RabbitMQ) Publish(ctx context.Context, topic string, payload []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	err := r.pub.PublishWithContext(ctx,
		r.exchange,
		TopicToRoutingKey(topic),
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: QoSFor(topic).deliveryMode(),
			Timestamp:    time.Now(),
			Body:         payload,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish to %s: %w", topic, err)
	}

	return nil
}

// Subscribe binds the client queue to every filter and feeds deliveries to
// handler until ctx is done or the broker goes away.
func (r *RabbitMQ) Subscribe(ctx context.Context, subs []Subscription, handler Handler) error {
	if err := r.declareDeadLetter(); err != nil {
		return err
	}

	keys := make([]string, 0, len(subs))
	for _, s := range subs {
		keys = append(keys, FilterToBindingKey(s.Filter))
	}

	if err := r.declareAndBindQueue(r.queue, keys, r.exchange); err != nil {
		return err
	}

	if err := r.Channel.Qos(r.prefetch, 0, false); err != nil {
		return fmt.Errorf("failed to set QoS: %w", err)
	}

	deliveries, err := r.Channel.ConsumeWithContext(ctx,
		r.queue,
		r.queue, // consumer tag
		false,   // auto-ack
		false,   // exclusive
		false,   // no-local
		false,   // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}

	r.logger.Info(logging.RabbitMQ, logging.Subscribe, "consuming", map[logging.ExtraKey]any{
		"queue":            r.queue,
		logging.RoutingKey: keys,
	})

	closed := r.conn.NotifyClose(make(chan *amqp.Error, 1))

	for {
		select {
		case <-ctx.Done():
			return nil
		case amqpErr := <-closed:
			if amqpErr == nil {
				return ErrConnectionClosed
			}
			return fmt.Errorf("%w: %s", ErrConnectionClosed, amqpErr.Reason)
		case d, ok := <-deliveries:
			if !ok {
				if ctx.Err() != nil {
					return nil
				}
				return ErrConnectionClosed
			}
			r.handleDelivery(ctx, d, handler)
		}
	}
}

func (r *RabbitMQ) handleDelivery(ctx context.Context, d amqp.Delivery, handler Handler) {
	topic := RoutingKeyToTopic(d.RoutingKey)

	if err := handler(ctx, topic, d.Body); err != nil {
		requeue := redeliverable(err)
		if nackErr := d.Nack(false, requeue); nackErr != nil {
			r.logger.Error(logging.RabbitMQ, logging.Consume, "nack failed", map[logging.ExtraKey]any{
				logging.TopicName:    topic,
				logging.ErrorMessage: nackErr.Error(),
			})
		}
		return
	}

	if err := d.Ack(false); err != nil {
		r.logger.Error(logging.RabbitMQ, logging.Consume, "ack failed", map[logging.ExtraKey]any{
			logging.TopicName:    topic,
			logging.ErrorMessage: err.Error(),
		})
	}
}

// redeliverable reports whether a failed delivery goes back on the queue
// instead of to the dead letter exchange.
func redeliverable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var temporary interface{ Temporary() bool }
	return errors.As(err, &temporary) && temporary.Temporary()
}

func (r *RabbitMQ) declareDeadLetter() error {
	if err := r.Channel.ExchangeDeclare(
		DeadLetterExchange,
		amqp.ExchangeFanout,
		true,  // durable
		false, // auto-deleted
		false, // internal
		false, // no-wait
		nil,
	); err != nil {
		return fmt.Errorf("failed to declare dead letter exchange: %w", err)
	}

	return r.declareAndBindQueue(DeadLetterQueue, []string{""}, DeadLetterExchange)
}

func (r *RabbitMQ) declareAndBindQueue(queueName string, routingKeys []string, exchange string) error {
	var args amqp.Table
	if exchange != DeadLetterExchange {
		args = amqp.Table{
			"x-dead-letter-exchange": DeadLetterExchange,
		}
	}

	q, err := r.Channel.QueueDeclare(
		queueName, // name
		true,      // durable
		false,     // delete when unused
		false,     // exclusive
		false,     // no-wait
		args,
	)
	if err != nil {
		return fmt.Errorf("failed to declare queue %s: %w", queueName, err)
	}

	for _, key := range routingKeys {
		if err := r.Channel.QueueBind(
			q.Name,   // queue name
			key,      // routing key
			exchange, // exchange
			false,
			nil,
		); err != nil {
			return fmt.Errorf("failed to bind queue %s to %s: %w", queueName, key, err)
		}
	}

	return nil
}

// Ping reports whether the broker connection is still open.
func (r *RabbitMQ) Ping(context.Context) error {
	if r.conn == nil || r.conn.IsClosed() {
		return ErrConnectionClosed
	}
	return nil
}
