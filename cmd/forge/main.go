package main

import (
	"fmt"
	"os"

	"github.com/PerryB-GIT/support-forge-app-sub000/cmd/forge/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(cmd.ExitCode(err))
	}
}
