package main

import (
	"os"

	"github.com/PolarWolf314/envseal/cmd"
)

func main() {
	os.Exit(cmd.Execute(os.Args[1:], os.Stdout, os.Stderr))
}
