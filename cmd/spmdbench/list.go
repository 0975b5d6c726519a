package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Print the benchmark variants that would be built",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			jobs, err := a.jobs()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, j := range jobs {
				fmt.Fprintf(out, "%-14s %-16s %s\n", j.Bench.Name, j.Key, j.Bench.Description)
			}
			fmt.Fprintf(out, "\n%d variants\n", len(jobs))
			return nil
		},
	}
}
