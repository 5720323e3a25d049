// Package main is the entry point for the rbac CLI binary.
package main

import (
	"os"

	_ "github.com/mattn/go-sqlite3"

	"rbac-demo/pkg/cli"
)

func main() {
	os.Exit(cli.Execute())
}
