package main

import (
	"io"
	"log/slog"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/krew-solutions/ascetic-query-go/asceticql/config"
	q "github.com/krew-solutions/ascetic-query-go/asceticql/query/domain"
	"github.com/krew-solutions/ascetic-query-go/asceticql/query/document"
	qi "github.com/krew-solutions/ascetic-query-go/asceticql/query/infrastructure"
)

// RootOptions holds global flags and the state resolved from them.
type RootOptions struct {
	ConfigPath string
	Dialect    string
	MaxRows    int
	Verbose    bool

	fs       afero.Fs
	config   *config.Config
	logger   *slog.Logger
	compiler *qi.Compiler
}

func NewRootCommand(fs afero.Fs) *cobra.Command {
	opts := &RootOptions{fs: fs}

	cmd := &cobra.Command{
		Use:           "asceticq",
		Short:         "Compile query documents to SQL",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.setup(cmd)
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.ConfigPath, "config", "c", "", "config file (default .asceticq.yaml)")
	cmd.PersistentFlags().StringVarP(&opts.Dialect, "dialect", "d", "", "dialect tag, e.g. postgres, mysql, sqlite, mssql")
	cmd.PersistentFlags().IntVar(&opts.MaxRows, "max-rows", 0, "row limit overriding the document's")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "debug logging to stderr")

	cmd.AddCommand(NewCompileCommand(opts))
	cmd.AddCommand(NewExplainCommand(opts))
	cmd.AddCommand(NewDiffCommand(opts))
	cmd.AddCommand(NewRunCommand(opts))
	cmd.AddCommand(NewDialectsCommand(opts))

	return cmd
}

func (o *RootOptions) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(o.fs, o.ConfigPath)
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	if flags.Changed("dialect") {
		cfg.Dialect = o.Dialect
	}
	if flags.Changed("max-rows") {
		cfg.MaxRows = o.MaxRows
	}
	if o.Verbose {
		cfg.LogLevel = slog.LevelDebug
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	o.config = cfg
	o.logger = newLogger(cmd.ErrOrStderr(), cfg.LogLevel)
	o.logger.Debug("configuration", "file", cfg.File, "dialect", cfg.Dialect, "max_rows", cfg.MaxRows)

	o.compiler, err = qi.NewCompiler(qi.WithCacheSize(cfg.CacheSize), qi.WithLogger(o.logger))
	return err
}

func newLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func (o *RootOptions) statement(path string) (q.SelectStatement, error) {
	doc, err := document.Load(o.fs, path)
	if err != nil {
		return q.SelectStatement{}, err
	}
	return doc.Statement()
}
