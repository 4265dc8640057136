package main

import (
	"os"

	"github.com/abhisek/realie/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
