package main

import (
	"fmt"
	"os"

	"github.com/ethcredit/ecreds-deploy/internal/cli"
	"github.com/ethcredit/ecreds-deploy/internal/config"
)

// Set via -ldflags at release time
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	config.SetBuildFlags(version, commit, date)

	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
