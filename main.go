package main

import (
	"os"

	"github.com/tmaxmax/ndex-exporters/internal/cli"
)

func main() {
	c := cli.New(os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	os.Exit(c.Run())
}
