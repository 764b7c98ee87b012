package main

import (
	"os"

	"github.com/EdwinWenink/gnucash-scripts/internal/commands"
)

func main() {
	if err := commands.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
