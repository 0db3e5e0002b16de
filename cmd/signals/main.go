package main

import (
	"fmt"
	"os"

	"github.com/hilthontt/signals/internal/presentation/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "signals:", err)
		os.Exit(1)
	}
}
