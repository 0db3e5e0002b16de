package messaging

import (
	"context"

	"github.com/hilthontt/signals/internal/infrastructure/logging"
	amqp "github.com/rabbitmq/amqp091-go"
)

// Test hooks for the external messaging_test package.

var Redeliverable = redeliverable

func NewTestRabbitMQ(logger logging.Logger) *RabbitMQ {
	return &RabbitMQ{logger: logger}
}

func (r *RabbitMQ) HandleDelivery(ctx context.Context, d amqp.Delivery, handler Handler) {
	r.handleDelivery(ctx, d, handler)
}
