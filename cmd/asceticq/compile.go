package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

type CompileOptions struct {
	*RootOptions
	Params bool
	Watch  bool
}

func NewCompileCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CompileOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "compile <file>",
		Short: "Print the SQL of a statement document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.Watch {
				return opts.watch(cmd.Context(), args[0], cmd.OutOrStdout(), cmd.ErrOrStderr())
			}
			return opts.compile(args[0], cmd.OutOrStdout())
		},
	}

	cmd.Flags().BoolVarP(&opts.Params, "params", "p", false, "emit bind placeholders and list their values")
	cmd.Flags().BoolVarP(&opts.Watch, "watch", "w", false, "recompile whenever the file changes")

	return cmd
}

func (o *CompileOptions) compile(path string, w io.Writer) error {
	stmt, err := o.statement(path)
	if err != nil {
		return err
	}
	if !o.Params {
		sql, err := o.compiler.Compile(stmt, o.config.MaxRows, o.config.Dialect)
		if err != nil {
			return err
		}
		fmt.Fprintln(w, sql)
		return nil
	}

	sql, params, err := o.compiler.CompileWithParams(stmt, o.config.MaxRows, o.config.Dialect)
	if err != nil {
		return err
	}
	fmt.Fprintln(w, sql)
	if len(params) == 0 {
		return nil
	}
	dialect, err := o.compiler.Dialect(o.config.Dialect)
	if err != nil {
		return err
	}
	for i, p := range params {
		text, err := dialect.FormatValue(p)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "-- %s = %s\n", dialect.Placeholder(i+1), text)
	}
	return nil
}

func (o *CompileOptions) watch(ctx context.Context, path string, w, errW io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	recompile := func() error {
		if err := o.compile(path, w); err != nil {
			fmt.Fprintf(errW, "%v\n", err)
		}
		return nil
	}
	watcher, err := NewWatcher(path, recompile, o.logger)
	if err != nil {
		return err
	}
	if err := watcher.Start(); err != nil {
		return err
	}
	<-ctx.Done()
	return watcher.Stop()
}
