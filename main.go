package main

import (
	"os"

	"github.com/cwarden/eventscope/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
