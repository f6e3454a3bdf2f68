package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func NewDialectsCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "dialects",
		Short: "List dialect tags",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			for _, tag := range rootOpts.compiler.Tags() {
				d, err := rootOpts.compiler.Dialect(tag)
				if err != nil {
					return err
				}
				fmt.Fprintf(w, "%-12s %s\n", tag, d.Name())
			}
			return nil
		},
	}
}
