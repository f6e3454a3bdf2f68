package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/sergi/go-diff/diffmatchpatch"
	"github.com/spf13/cobra"
)

type DiffOptions struct {
	*RootOptions
	From string
	To   string
}

func NewDiffCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &DiffOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "diff <file>",
		Short: "Compare the SQL two dialects produce for a statement document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			stmt, err := opts.statement(args[0])
			if err != nil {
				return err
			}
			from, err := opts.compiler.Compile(stmt, opts.config.MaxRows, opts.From)
			if err != nil {
				return err
			}
			to, err := opts.compiler.Compile(stmt, opts.config.MaxRows, opts.To)
			if err != nil {
				return err
			}
			writeLineDiff(cmd.OutOrStdout(), from, to)
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.From, "from", "postgres", "first dialect tag")
	cmd.Flags().StringVar(&opts.To, "to", "sqlserver", "second dialect tag")

	return cmd
}

// writeLineDiff prints a line diff of a and b with -, + and space prefixes.
func writeLineDiff(w io.Writer, a, b string) {
	dmp := diffmatchpatch.New()
	ca, cb, lines := dmp.DiffLinesToChars(a+"\n", b+"\n")
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(ca, cb, false), lines)

	removed := color.New(color.FgRed)
	added := color.New(color.FgGreen)
	for _, d := range diffs {
		for _, line := range strings.SplitAfter(d.Text, "\n") {
			if line == "" {
				continue
			}
			switch d.Type {
			case diffmatchpatch.DiffDelete:
				removed.Fprint(w, "-"+line)
			case diffmatchpatch.DiffInsert:
				added.Fprint(w, "+"+line)
			default:
				fmt.Fprint(w, " "+line)
			}
		}
	}
}
