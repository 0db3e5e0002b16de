package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

const serviceName = "signals"

var (
	version = "dev"
	commit  = "none"
)

type rootOptions struct {
	configPath string
}

// NewRootCommand builds the signals command tree.
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           serviceName,
		Short:         "Signalling backend for WebRTC rooms over an MQTT broker",
		Version:       fmt.Sprintf("%s (%s)", version, commit),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "",
		"config file (default: $SIGNALS_CONFIG or ./config/config.yaml)")

	root.AddCommand(
		newServeCommand(opts),
		newTopicCommand(),
		newAuditCommand(opts),
		newVersionCommand(),
	)

	return root
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the build version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			printVersion(cmd.OutOrStdout())
		},
	}
}

func printVersion(w io.Writer) {
	fmt.Fprintf(w, "%s %s (commit %s)\n", serviceName, version, commit)
}
