// Command reconciled runs the observation-reconciliation engine: a
// single-writer coordinator that folds observations from any number of
// polling and record producers into one consensus value, publishing it
// to subscribed consumers.
package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"
	"go.ntppool.org/common/version"
)

// CLI is the top-level command set, grounded on cmd/rrr-server/main.go
// and cmd/rrr-fsck/main.go's kong.Parse/CLI-struct pattern.
type CLI struct {
	Serve    ServeCmd    `cmd:"" help:"Run the reconciliation coordinator against configured producers."`
	Simulate SimulateCmd `cmd:"" help:"Run an in-process simulation against mocked producers."`
	Fsck     FsckCmd     `cmd:"" help:"Verify the invariants of a batch of observations."`

	Version kong.VersionFlag `short:"V" help:"Show version."`
}

func main() {
	var cli CLI

	kctx := kong.Parse(&cli,
		kong.Name("reconciled"),
		kong.Description("Observation reconciliation engine"),
		kong.UsageOnError(),
		kong.Vars{"version": version.Version()},
	)

	if err := kctx.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		kctx.Exit(1)
	}
}
