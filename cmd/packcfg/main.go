package main

import (
	"os"

	"github.com/vormadev/packcfg/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
