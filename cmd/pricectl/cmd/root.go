// Package cmd holds the pricectl commands.
package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"StockAccess/internal/di"
	"StockAccess/pkg/config"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	envFile string
	timeout time.Duration
	verbose bool
)

// loadToolkit builds the readers for a command. Tests replace it.
var loadToolkit = func() (*di.Toolkit, func(), error) {
	cfg, err := config.LoadWithEnv(cfgFile)
	if err != nil {
		return nil, nil, err
	}
	if !verbose {
		cfg.Logging.Level = "warn"
	}
	cfg.Metrics.Enabled = false
	return di.InitializeToolkit(cfg)
}

var rootCmd = &cobra.Command{
	Use:   "pricectl",
	Short: "Read stock prices from the MongoDB price store",
	Long: `pricectl reads daily and minute OHLCV bars, security names and the
trading calendar from MongoDB, and exports bars to ClickHouse or Kafka.

Examples:
  pricectl batch --symbols 300722,000001 --start 20251101 --end 20251130
  pricectl frame --symbols 300722 --start 202511010930 --end 202511301500 --mode minute
  pricectl names --symbols 300722
  pricectl calendar --start 20251101 --end 20251130
  pricectl export --sink clickhouse --symbols 300722 --start 20250101 --end 20251231`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Assigned here rather than in the literal: initEnv refers to rootCmd.
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return initEnv()
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "config/config.yaml", "config file")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file loaded before the environment is read")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 30*time.Second, "deadline for the whole command")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	rootCmd.AddCommand(batchCmd)
	rootCmd.AddCommand(frameCmd)
	rootCmd.AddCommand(namesCmd)
	rootCmd.AddCommand(calendarCmd)
	rootCmd.AddCommand(exportCmd)
}

// initEnv loads the dotenv file. A missing file is not an error.
func initEnv() error {
	if envFile == "" {
		return nil
	}
	if err := godotenv.Load(envFile); err != nil && verbose {
		fmt.Fprintf(rootCmd.ErrOrStderr(), "warning: %s not loaded, using environment variables\n", envFile)
	}
	return nil
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
