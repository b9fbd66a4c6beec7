// Package main is the entry point for the forkcheck CLI.
package main

import (
	"os"

	"github.com/AndreyAkinshin/forkcheck/internal/cli"
)

func main() {
	os.Exit(cli.Run(os.Args[1:]))
}
