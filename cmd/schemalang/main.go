package main

import (
	"os"

	"github.com/funvibe/schemalang/pkg/cli"
)

func main() {
	os.Exit(cli.Main())
}
