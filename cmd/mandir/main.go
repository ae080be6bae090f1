package main

import (
	"os"

	"github.com/mandir-dev/mandir/internal/commands"
)

func main() {
	if err := commands.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
