package main

import (
	"os"

	"github.com/abhisek/quotafill/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(cmd.ExitCode(err))
	}
}
