package main

import (
	"os"

	"cca_wallet/cmd/cca_wallet/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
