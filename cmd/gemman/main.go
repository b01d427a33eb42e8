package main

import (
	"os"

	"github.com/unkn0wn-root/gemman/internal/cli"
)

func main() {
	if err := cli.NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
