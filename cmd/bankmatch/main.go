package main

import (
	"os"

	"bank-matching-engine/cmd/bankmatch/cmd"
)

var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	cmd.SetVersionInfo(version, commit, date)

	if err := cmd.Execute(); err != nil {
		os.Exit(cmd.HandleError(err))
	}
}
