package messaging

import amqp "github.com/rabbitmq/amqp091-go"

type QoS int

const (
	AtMostOnce QoS = iota
	AtLeastOnce
)

func (q QoS) deliveryMode() uint8 {
	if q == AtMostOnce {
		return amqp.Transient
	}
	return amqp.Persistent
}

// QoSFor picks the delivery guarantee for an outbound topic. The
// connectivity probe is fire-and-forget, everything else is at least once.
func QoSFor(topic string) QoS {
	switch topic {
	case "ping", "pong":
		return AtMostOnce
	default:
		return AtLeastOnce
	}
}

type Subscription struct {
	Filter string
	QoS    QoS
}
