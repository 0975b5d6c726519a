package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sarchlab/spmdbench/toolchain"
)

func newCheckCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Verify the toolchain, libraries, and simulator are installed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tc := a.cfg.Toolchain()
			err := tc.CheckSetup(a.cfg.SimulatorBinary())
			var missing *toolchain.MissingPaths
			if errors.As(err, &missing) {
				for _, p := range missing.Paths {
					fmt.Fprintf(cmd.ErrOrStderr(), "  ❌ %s\n", p)
				}
			}
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "✅ %d paths present\n", len(tc.RequiredPaths())+1)
			return nil
		},
	}
}
