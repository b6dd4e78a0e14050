// Command cauldron manages a versioned recipe workspace.
package main

import (
	"fmt"
	"os"

	"github.com/roach88/cauldron/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(cli.GetExitCode(err))
	}
}
