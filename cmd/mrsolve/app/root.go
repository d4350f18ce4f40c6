// Package app assembles the mrsolve cobra command tree: the root
// command plus its "solve" and "check" subcommands.
package app

import (
	"flag"

	"github.com/spf13/cobra"
	"k8s.io/klog/v2"
)

// NewRootCommand builds the mrsolve root command with klog's verbosity
// flags bridged onto it, the same way a klog-based binary conventionally
// exposes -v/--vmodule alongside its own flags.
func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "mrsolve",
		Short:         "Machine Reassignment Problem solver",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	goFlags := flag.NewFlagSet("klog", flag.ContinueOnError)
	klog.InitFlags(goFlags)
	root.PersistentFlags().AddGoFlagSet(goFlags)

	root.AddCommand(newSolveCommand())
	root.AddCommand(newCheckCommand())
	return root
}
