package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/they4kman/gensolve/store"
)

func newHistoryCommand() *cobra.Command {
	var (
		dbPath string
		runID  uint
		limit  int
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded runs, or the generations of one run",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if dbPath == "" {
				return fmt.Errorf("--db is required")
			}

			s, err := store.Open(&store.Config{Path: dbPath})
			if err != nil {
				return err
			}
			defer s.Close()

			if runID != 0 {
				return printGenerations(cmd.OutOrStdout(), s, runID)
			}
			return printRuns(cmd.OutOrStdout(), s, limit)
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", "", "SQLite database the runs were recorded in")
	cmd.Flags().UintVar(&runID, "run", 0, "Show the generations of this run")
	cmd.Flags().IntVar(&limit, "limit", 20, "Number of recent runs to list. 0 lists all")
	return cmd
}

func printRuns(out io.Writer, s *store.Store, limit int) error {
	runs, err := s.Runs(limit)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tEQUATION\tTARGET\tITERATIONS\tSOLVED\tCREATED")
	for _, run := range runs {
		status := fmt.Sprint(run.Solved)
		if !run.Finished {
			status = "-"
		}
		fmt.Fprintf(w, "%d\t%s\t%d\t%d\t%s\t%s\n",
			run.ID, run.Equation, run.Target, run.Iterations, status, run.CreatedAt.Format("2006-01-02 15:04:05"))
	}
	return w.Flush()
}

func printGenerations(out io.Writer, s *store.Store, runID uint) error {
	run, err := s.Run(runID)
	if err != nil {
		return fmt.Errorf("run %d: %w", runID, err)
	}
	generations, err := s.Generations(runID)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "run %d: %s (target %d)\n", run.ID, run.Equation, run.Target)
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ITERATION\tAVG FITNESS\tBEST FITNESS\tPOPULATION")
	for _, g := range generations {
		fmt.Fprintf(w, "%d\t%d\t%d\t%s\n", g.Iteration, g.AvgFitness, g.BestFitness, g.Population)
	}
	return w.Flush()
}
