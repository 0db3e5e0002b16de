package cli

import (
	"encoding/json"
	"fmt"

	"github.com/hilthontt/signals/internal/infrastructure/messaging"
	"github.com/hilthontt/signals/internal/protocol/topic"
	"github.com/spf13/cobra"
)

func newTopicCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "topic",
		Short: "Inspect broker topic names",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "parse TOPIC",
			Short: "Parse a topic and print its fields",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				t, err := topic.Parse(args[0])
				if err != nil {
					return err
				}

				out := map[string]any{
					"kind":        topicKind(t),
					"topic":       t.String(),
					"routing_key": messaging.TopicToRoutingKey(t.String()),
					"value":       t,
				}
				if reply, ok := topic.Reverse(t); ok {
					out["reply_to"] = reply.String()
				}

				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(out)
			},
		},
		&cobra.Command{
			Use:   "reverse TOPIC",
			Short: "Print the topic a reply to TOPIC is published on",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				t, err := topic.Parse(args[0])
				if err != nil {
					return err
				}

				reply, ok := topic.Reverse(t)
				if !ok {
					return fmt.Errorf("%s topics have no reply side", topicKind(t))
				}

				_, err = fmt.Fprintln(cmd.OutOrStdout(), reply.String())
				return err
			},
		},
	)

	return cmd
}

func topicKind(t topic.Topic) string {
	switch t.(type) {
	case topic.Ping:
		return "ping"
	case topic.Pong:
		return "pong"
	case topic.Agent:
		return "agent"
	case topic.State:
		return "state"
	case topic.App:
		return "app"
	}
	return "unknown"
}
