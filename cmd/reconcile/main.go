// Package main is the entry point for the reconcile binary.
package main

import (
	"os"

	"github.com/kirillkom/claims-reconciler/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
