package main

import (
	"os"

	"phyboot/cmd/phyboot/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(commands.ExitCode(err))
	}
}
