// Package main provides sheetcalc, a runner that applies a script of cell
// edits to a fresh sheet and prints the result.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/vogtb/go-sheetgraph/packages/spreadsheet"
)

// options receives the raw flag values before they are merged into Config
type options struct {
	configPath string
	logLevel   string
	print      string
	metrics    bool
	keepGoing  bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:   "sheetcalc [script]",
		Short: "Apply a script of cell edits to a sheet and print it",
		Long: `sheetcalc reads commands from the script file, or from stdin when no file
is given, one per line:

  set A1 <text>     set a cell; text starting with '=' is a formula
  clear A1          clear a cell
  print values      print the computed values (or: texts, both)
  size              print the printable size as RxC

Blank lines and lines starting with '#' are ignored.`,
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts, args)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.configPath, "config", "", "YAML config file")
	flags.StringVar(&opts.logLevel, "log-level", "info", "Log level: debug, info, warn, error")
	flags.StringVar(&opts.print, "print", printValues, "Print the sheet after the script: values, texts, both, none")
	flags.BoolVar(&opts.metrics, "metrics", false, "Print the collected metrics after the script")
	flags.BoolVar(&opts.keepGoing, "keep-going", false, "Report failing commands and continue")

	return cmd
}

func run(cmd *cobra.Command, opts *options, args []string) error {
	config, err := LoadConfig(opts.configPath)
	if err != nil {
		return err
	}
	config.applyFlags(cmd.Flags(), opts)
	if err := config.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	logger, err := config.newLogger()
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer logger.Sync()

	input := cmd.InOrStdin()
	source := "stdin"
	if len(args) == 1 {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("open script: %w", err)
		}
		defer f.Close()
		input, source = f, args[0]
	}

	registry := prometheus.NewRegistry()
	sheetOpts := []spreadsheet.Option{spreadsheet.WithLogger(logger)}
	if config.Metrics {
		sheetOpts = append(sheetOpts, spreadsheet.WithMetrics(registry))
	}
	sheet := spreadsheet.New(sheetOpts...)
	defer sheet.Close()

	logger.Debug("running script", zap.String("source", source), zap.String("sheet", sheet.ID()))

	out := cmd.OutOrStdout()
	runner := &scriptRunner{
		sheet:     sheet,
		out:       out,
		errOut:    cmd.ErrOrStderr(),
		keepGoing: config.KeepGoing,
	}
	scriptErr := runner.run(input)

	if err := runner.print(config.Print); err != nil {
		return fmt.Errorf("print sheet: %w", err)
	}
	if config.Metrics {
		if err := writeMetrics(out, registry); err != nil {
			return fmt.Errorf("print metrics: %w", err)
		}
	}
	return scriptErr
}

// writeMetrics lists every gathered sample in the prometheus text format
func writeMetrics(w io.Writer, gatherer prometheus.Gatherer) error {
	families, err := gatherer.Gather()
	if err != nil {
		return err
	}
	for _, family := range families {
		if _, err := expfmt.MetricFamilyToText(w, family); err != nil {
			return err
		}
	}
	return nil
}
