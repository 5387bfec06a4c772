// Package main is the entry point for retail-insights.
package main

import (
	"fmt"
	"os"

	"github.com/retailab/retail-insights/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
