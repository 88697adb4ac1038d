package main

import (
	"os"

	"github.com/msto63/rhl/cmd/rhl/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
