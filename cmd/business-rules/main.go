package main

import (
	"os"

	"github.com/zipari/business-rules/cmd/business-rules/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
