package main

import (
	"os"

	"github.com/nuetzliches/nestconf/cmd/nestconf/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
