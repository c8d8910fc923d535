package main

import (
	"os"

	"agentflow/cmd/agentctl/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
