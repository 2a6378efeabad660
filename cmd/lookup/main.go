// Command lookup resolves one order ticket against the configured table source
// and prints the status view as text.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/rastreo/backend/internal/bootstrap"
	"github.com/rastreo/backend/internal/infrastructure/config"
	"github.com/rastreo/backend/internal/infrastructure/logger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// errOrderNotFound makes the process exit with status 1 after the
// not-found message was printed
var errOrderNotFound = errors.New("order not found")

type options struct {
	configPath string
	verbose    bool
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "lookup <ticket>",
		Short: "Look up the status of an order by ticket",
		Long: `lookup reads the orders and customers tables from the configured source,
joins the customer name onto the order matching <ticket> and prints its status.

Configuration is read from config.toml and RASTREO_* environment variables.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLookup(cmd, opts, args[0])
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.configPath, "config", "c", "", "path to a config.toml file")
	flags.String("source", "", "override source.kind (sheets, csv, s3, sql)")
	flags.String("csv-dir", "", "override source.csv.dir")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "log pipeline steps to stderr")

	return cmd
}

func runLookup(cmd *cobra.Command, opts *options, ticket string) error {
	cfg, err := loadConfig(cmd, opts)
	if err != nil {
		return err
	}

	level := "warn"
	if opts.verbose {
		level = "debug"
	}
	log, err := logger.New(&logger.Config{
		Level:  level,
		Format: "console",
		Output: "stderr",
	})
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() {
		_ = log.Sync()
	}()

	pipeline, err := bootstrap.NewPipeline(cmd.Context(), cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := pipeline.Close(); err != nil {
			log.Warn("Error closing table source", zap.Error(err))
		}
	}()

	result, err := pipeline.Lookup.Lookup(cmd.Context(), ticket)
	if err != nil {
		return err
	}

	render(cmd.OutOrStdout(), result)
	if !result.Found {
		return errOrderNotFound
	}
	return nil
}

func loadConfig(cmd *cobra.Command, opts *options) (*config.Config, error) {
	flags := cmd.Flags()
	cfg, err := config.LoadFrom(opts.configPath,
		config.BindFlag("source.kind", flags.Lookup("source")),
		config.BindFlag("source.csv.dir", flags.Lookup("csv-dir")),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		if !errors.Is(err, errOrderNotFound) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}
