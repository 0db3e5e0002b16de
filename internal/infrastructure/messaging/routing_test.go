package messaging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func TestTopicToRoutingKey(t *testing.T) {
	tests := []struct {
		topic string
		key   string
	}{
		{"ping", "ping"},
		{
			"agents/e19c94cf-53eb-4048-9c94-7ae74ff6d912/out/signals.netology-group.services/api/v1",
			"agents.e19c94cf-53eb-4048-9c94-7ae74ff6d912.out.signals/netology-group/services.api.v1",
		},
		{
			"apps/signals.netology-group.services/api/v1/rooms/050b7c6f-795c-4cb4-aeea-5ee3f9083de2/agents",
			"apps.signals/netology-group/services.api.v1.rooms.050b7c6f-795c-4cb4-aeea-5ee3f9083de2.agents",
		},
	}

	for _, tt := range tests {
		t.Run(tt.topic, func(t *testing.T) {
			assert.Equal(t, tt.key, TopicToRoutingKey(tt.topic))
			assert.Equal(t, tt.topic, RoutingKeyToTopic(tt.key))
		})
	}
}

func TestFilterToBindingKey(t *testing.T) {
	assert.Equal(t, "ping", FilterToBindingKey("ping"))
	assert.Equal(t,
		"agents.*.out.signals/netology-group/services.api.v1",
		FilterToBindingKey("agents/+/out/signals.netology-group.services/api/v1"),
	)
	assert.Equal(t, "agents.*.state.api.v1", FilterToBindingKey("agents/+/state/api/v1"))
	assert.Equal(t, "apps.#", FilterToBindingKey("apps/#"))
}

func TestRoutingKeyRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		topic := rapid.StringMatching(`[a-z0-9./-]{0,40}`).Draw(t, "topic")
		assert.Equal(t, topic, RoutingKeyToTopic(TopicToRoutingKey(topic)))
	})
}

func TestQoSFor(t *testing.T) {
	assert.Equal(t, AtMostOnce, QoSFor("pong"))
	assert.Equal(t, AtLeastOnce, QoSFor("apps/signals.netology-group.services/api/v1/rooms/x/agents"))
	assert.Equal(t, uint8(1), AtMostOnce.deliveryMode())
	assert.Equal(t, uint8(2), AtLeastOnce.deliveryMode())
}
