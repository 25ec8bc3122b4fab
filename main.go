package main

import (
	"fmt"
	"os"

	"github.com/perfgo/jsbench/cli"
)

// Version information, set by goreleaser via ldflags
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	app := cli.New()
	app.SetVersion(version, commit, date)
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", cli.AppName, err)
		os.Exit(1)
	}
}
