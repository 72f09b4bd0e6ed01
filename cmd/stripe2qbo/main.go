package main

import (
	"os"

	"github.com/stripe2qbo/stripe2qbo/internal/commands"
)

func main() {
	if err := commands.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
