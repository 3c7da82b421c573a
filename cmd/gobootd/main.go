package main

import (
	"os"

	"github.com/centraunit/goboot/cmd/gobootd/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
