package main

import (
	"fmt"
	"os"
	_ "time/tzdata" // report timezone on hosts without zoneinfo

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/ops-report/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "ops-report",
	Short: "Daily operational ticket report",
	Long:  "Counts CRM tickets per pipeline stage, draws the counts onto the report template and posts the image to Slack.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
	SilenceUsage: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
