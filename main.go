package main

import (
	"os"

	"github.com/naka-gawa/github-repos/cmd"
)

func main() {
	os.Exit(cmd.Run(os.Args, os.Stdin, os.Stdout, os.Stderr))
}
