// Command gatorctl inspects and revokes granted permissions from the command line.
package main

import (
	"fmt"
	"os"

	"github.com/cyphera/gator-permissions/internal/logger"
)

func main() {
	state := newRuntimeState(os.Stdout, os.Stderr)
	err := state.newRootCommand().Execute()
	_ = logger.Sync()
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
