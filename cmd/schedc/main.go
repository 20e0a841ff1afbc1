package main

import (
	"os"

	"github.com/inferkit/schedc/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		// Commands render their own errors; only the exit code is left.
		os.Exit(cli.GetExitCode(err))
	}
}
