package main

import (
	"os"

	"github.com/nick-codes/soldi/cmd/soldi/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
