package main

import (
	"os"

	"github.com/dbassani/arista-ceos-topo/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
