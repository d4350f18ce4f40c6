// Command mrsolve is the CLI entry point for the Machine Reassignment
// solver: it wires the parser, solver, full-checker and writer
// packages behind two subcommands, "solve" and "check".
package main

import (
	"fmt"
	"os"

	"k8s.io/klog/v2"

	"github.com/AllergicMushroom/RoadefChallenge2012/cmd/mrsolve/app"
)

func main() {
	defer klog.Flush()

	if err := app.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
