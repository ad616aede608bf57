// Command docchat is a terminal client for a document chat server.
package main

import (
	"os"

	"github.com/custodia-labs/docchat/internal/adapters/driving/cli"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	cli.SetVersion(version)
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
