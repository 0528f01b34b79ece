package main

import (
	"os"

	"github.com/FACorreiaa/go-travel-planner/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
