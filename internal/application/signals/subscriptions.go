package signals

import (
	"fmt"

	"github.com/hilthontt/signals/internal/infrastructure/messaging"
	"github.com/hilthontt/signals/internal/protocol/topic"
)

// Subscriptions are the topic filters the service listens on: the
// connectivity probe, every agent's outbound channel and every agent's
// state channel.
func Subscriptions() []messaging.Subscription {
	return []messaging.Subscription{
		{Filter: topic.Ping{}.String(), QoS: messaging.AtMostOnce},
		{Filter: fmt.Sprintf("agents/+/%s/%s/api/%s", topic.Out, topic.ServiceAudience, topic.V1), QoS: messaging.AtLeastOnce},
		{Filter: fmt.Sprintf("agents/+/state/api/%s", topic.V1), QoS: messaging.AtLeastOnce},
	}
}
