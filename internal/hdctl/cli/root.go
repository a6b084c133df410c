// Package cli implements hdctl, the operator tool for the recruitment
// analytics service. Commands talk to the database directly, so they
// work even when the API is down.
package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/hiredeck/hiredeck/internal/hdctl/config"
	"github.com/hiredeck/hiredeck/internal/hdctl/output"
	"github.com/hiredeck/hiredeck/internal/hdctl/version"
	"github.com/hiredeck/hiredeck/internal/logger"
	"github.com/hiredeck/hiredeck/internal/store"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"
)

var (
	jsonOutput bool
	quietMode  bool
	cfg        *config.Config
	printer    *output.Printer
)

var rootCmd = &cobra.Command{
	Use:   "hdctl",
	Short: "hiredeck operations CLI - reports and data repair from the terminal",
	Long: `hdctl is the operations tool for the hiredeck analytics service.

Run reports and repair legacy application data directly against the
database.

Get started:
  hdctl report dashboard           # KPI summary for the last month
  hdctl normalize-statuses --dry-run   # Preview legacy status repair`,
	Version: version.Full(),
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "help" || cmd.Name() == "version" {
			return nil
		}

		var err error
		cfg, err = config.Load()
		if err != nil {
			return err
		}

		logger.Init(cfg.LogLevel)

		printer = output.New(
			output.WithJSON(jsonOutput),
			output.WithQuiet(quietMode),
		)
		return nil
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output as JSON (for scripting)")
	rootCmd.PersistentFlags().BoolVar(&quietMode, "quiet", false, "Suppress non-error output")

	rootCmd.SetVersionTemplate("hdctl version {{.Version}}\n")

	rootCmd.AddCommand(normalizeCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(configCmd)
}

// openStore connects to the database for one command invocation.
func openStore(ctx context.Context) (*pgxpool.Pool, store.Store, error) {
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("ping database: %w", err)
	}
	return pool, store.NewPostgres(pool), nil
}

func itoa(n int) string {
	return strconv.Itoa(n)
}
