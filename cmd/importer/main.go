package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/deppfellow/countyhealth/internal/importer"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var (
		opts    importer.Options
		verbose bool
	)

	cmd := &cobra.Command{
		Use:   "importer <database-url> <csv-path>",
		Short: "Load a CSV file into a PostgreSQL table",
		Long: `Load a CSV file into a PostgreSQL table.

The table is named after the CSV file (zip_county.csv -> zip_county) and is
replaced on every run. Every column is TEXT and every cell is stored as-is.

Example:
  importer postgres://app@localhost:5432/countyhealth data/zip_county.csv --index zip`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.DatabaseURL = args[0]
			opts.CSVPath = args[1]

			level := zerolog.InfoLevel
			if verbose {
				level = zerolog.DebugLevel
			}
			log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly}).
				Level(level).
				With().
				Timestamp().
				Logger()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			result, err := importer.New(&log).Run(ctx, opts)
			if err != nil {
				if errors.Is(err, importer.ErrInvalidInput) {
					fmt.Fprintf(cmd.ErrOrStderr(), "error: %v\n", err)
				} else {
					fmt.Fprintf(cmd.ErrOrStderr(), "import failed: %v\n", err)
				}
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "imported %d rows into %s (%d columns)\n",
				result.Rows, result.Table, len(result.Columns))
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.Table, "table", "", "table name (default: CSV file name without extension)")
	flags.StringSliceVar(&opts.Indexes, "index", nil, "column to index after loading (repeatable)")
	flags.StringVar(&opts.NotifyRedis, "notify-redis", "", "Redis address to notify running API servers after import")
	flags.BoolVarP(&verbose, "verbose", "v", false, "log SQL statements")

	return cmd
}
