package main

import (
	"os"

	"github.com/readingrally/readingrally/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
