// Command socialnet manages the socialnet database: migrations, seeding and inspection.
package main

import (
	"errors"
	"fmt"
	"os"

	"socialnet/internal/cli"
)

// Set with -ldflags at build time.
var (
	version   = "dev"
	commit    = "none"
	buildTime = "unknown"
)

func main() {
	cmd := cli.NewRootCommand(os.Stdout, cli.BuildInfo{
		Version:   version,
		Commit:    commit,
		BuildTime: buildTime,
	})
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "socialnet: %v\n", err)
		var withExitCode interface{ ExitCode() int }
		if errors.As(err, &withExitCode) {
			os.Exit(withExitCode.ExitCode())
		}
		os.Exit(1)
	}
}
