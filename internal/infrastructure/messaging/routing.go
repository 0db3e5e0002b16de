package messaging

import "strings"

// The RabbitMQ MQTT plugin publishes MQTT topics on amq.topic with the
// separators swapped: MQTT "/" is AMQP "." and the other way round.
var separatorSwap = strings.NewReplacer("/", ".", ".", "/")

// TopicToRoutingKey converts an MQTT topic name into the routing key the
// MQTT plugin uses on the topic exchange.
func TopicToRoutingKey(topic string) string {
	return separatorSwap.Replace(topic)
}

// RoutingKeyToTopic is the inverse of TopicToRoutingKey.
func RoutingKeyToTopic(key string) string {
	return separatorSwap.Replace(key)
}

// FilterToBindingKey converts an MQTT subscription filter into an AMQP
// binding key. "+" becomes "*", "#" is shared by both syntaxes.
func FilterToBindingKey(filter string) string {
	levels := strings.Split(filter, "/")
	for i, level := range levels {
		if level == "+" {
			levels[i] = "*"
			continue
		}
		levels[i] = strings.ReplaceAll(level, ".", "/")
	}

	return strings.Join(levels, ".")
}
