package main

import (
	"fmt"
	"os"

	"github.com/aryankumar/podcleaner/internal/cli"
	"github.com/aryankumar/podcleaner/internal/util"
)

func main() {
	// Setup signal handling for graceful shutdown
	ctx := util.SetupSignalHandler()

	if err := cli.Execute(ctx); err != nil {
		fmt.Fprintln(os.Stderr, util.FriendlyError(err))
		os.Exit(1)
	}
}
