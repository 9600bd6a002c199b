package main

import (
	"os"

	"annualreports/cmd/fetch/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
