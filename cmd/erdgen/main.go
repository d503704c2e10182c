// Package main provides the erdgen command.
package main

import (
	"os"

	"github.com/leapstack-labs/erdgen/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
