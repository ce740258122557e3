// Command dusage reports disk usage under a directory.
package main

import (
	"fmt"
	"os"

	"github.com/idelchi/dusage/internal/cli"
)

// version is set at build time with -ldflags "-X main.version=...".
//
//nolint:gochecknoglobals // Set by the linker
var version = "unknown - unofficial & generated by unknown"

func main() {
	if err := cli.New(version).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)

		os.Exit(1)
	}
}
