package main

import (
	"os"

	"github.com/sgp/sgp-backend/cmd/provaform/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
