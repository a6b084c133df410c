package cli

import (
	"fmt"
	"net/url"

	"github.com/hiredeck/hiredeck/internal/hdctl/config"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage CLI configuration",
	Long:  `View and manage hdctl configuration.`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE:  runConfigShow,
}

var configSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Set a configuration value",
	Long: `Set a configuration value.

Available keys:
  database_url  Postgres DSN
  redis_url     Redis URL (optional)
  log_level     Log level (debug, info, warn, error)
  timeout       Per-command timeout (e.g. 5m)

Examples:
  hdctl config set database_url postgres://localhost/hiredeck
  hdctl config set timeout 10m`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show config file path",
	RunE:  runConfigPath,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configPathCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	if jsonOutput {
		return printer.JSON(map[string]interface{}{
			"database_url": redactDSN(cfg.DatabaseURL),
			"redis_url":    redactDSN(cfg.RedisURL),
			"log_level":    cfg.LogLevel,
			"timeout":      cfg.CommandTimeout().String(),
		})
	}

	printer.Section("Configuration")
	printer.KeyValue("Database URL", redactDSN(cfg.DatabaseURL))
	printer.KeyValue("Redis URL", redactDSN(cfg.RedisURL))
	printer.KeyValue("Log Level", cfg.LogLevel)
	printer.KeyValue("Timeout", cfg.CommandTimeout().String())
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	key, value := args[0], args[1]

	switch key {
	case "database_url":
		cfg.DatabaseURL = value
	case "redis_url":
		cfg.RedisURL = value
	case "log_level":
		cfg.LogLevel = value
	case "timeout":
		cfg.Timeout = value
	default:
		return fmt.Errorf("unknown config key: %s", key)
	}

	if err := cfg.Save(); err != nil {
		return err
	}
	printer.Success("%s updated", key)
	return nil
}

func runConfigPath(cmd *cobra.Command, args []string) error {
	path, err := config.Path()
	if err != nil {
		return err
	}
	if jsonOutput {
		return printer.JSON(map[string]string{"path": path})
	}
	printer.Println(path)
	return nil
}

// redactDSN strips credentials before anything gets printed.
func redactDSN(dsn string) string {
	if dsn == "" {
		return "(not set)"
	}
	u, err := url.Parse(dsn)
	if err != nil || u.User == nil {
		return dsn
	}
	u.User = url.User(u.User.Username())
	return u.String()
}
