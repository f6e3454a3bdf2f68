package main

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	q "github.com/krew-solutions/ascetic-query-go/asceticql/query/domain"
	qi "github.com/krew-solutions/ascetic-query-go/asceticql/query/infrastructure"
)

func NewExplainCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "explain <file>",
		Short: "Show the condition trees of a statement document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			stmt, err := rootOpts.statement(args[0])
			if err != nil {
				return err
			}
			return explain(cmd.OutOrStdout(), stmt)
		},
	}
}

func explain(w io.Writer, stmt q.SelectStatement) error {
	heading := color.New(color.FgCyan, color.Bold)

	heading.Fprintf(w, "statement %s\n", stmt.Entity())
	fmt.Fprintf(w, "  fields: %d\n  joins: %d\n  limit: %d\n", len(stmt.Fields()), len(stmt.Joins()), stmt.Limit())
	fmt.Fprintf(w, "  fingerprint: %s\n", qi.Fingerprint(stmt))

	for _, join := range stmt.Joins() {
		fmt.Fprintln(w)
		heading.Fprintf(w, "%s %s\n", join.Kind, join.Entity)
		tree := join.Constraint.Tree()
		explainTree(w, &tree)
	}
	if filter, ok := stmt.Filter().Get(); ok {
		fmt.Fprintln(w)
		heading.Fprintln(w, "WHERE")
		tree := filter.Tree()
		explainTree(w, &tree)
	}
	return nil
}

func explainTree(w io.Writer, t *q.ExpressionTree) {
	fmt.Fprintf(w, "  infix:   %s\n", q.InfixString(t))
	fmt.Fprintf(w, "  prefix:  %s\n", q.PrefixString(t))
	fmt.Fprintf(w, "  postfix: %s\n", q.PostfixString(t))
	fmt.Fprintf(w, "  stats:   %s\n", q.TreeStats(t))
}
