package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

func newRootCommand(in io.Reader) *cobra.Command {
	root := &cobra.Command{
		Use:   "gogensolve",
		Short: "Search for integer values that solve an equation with a genetic algorithm",
		// errors are reported once, by main
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	root.AddCommand(newSolveCommand(in), newHistoryCommand())
	return root
}

func main() {
	root := newRootCommand(os.Stdin)
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
