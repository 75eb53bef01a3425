// Command duoslide is the dual-view slide presenter.
package main

import (
	"os"

	"github.com/duoslide/duoslide-cli/internal/adapters/driving/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
