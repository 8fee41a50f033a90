package cmd

import (
	"fmt"
	"os"

	"github.com/cipherboard/cipherboard/internal/configs"
	"github.com/cipherboard/cipherboard/internal/metrics"
	"github.com/cipherboard/cipherboard/internal/ui"
	"github.com/spf13/cobra"
)

// MetricsCmd prints the persisted operation counters.
var MetricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Print operation counters in the Prometheus text format",
	Long: `Prints the counters cipherboard keeps between runs: operations by
outcome and key chain failures by kind. The output can be served to a
Prometheus node exporter textfile collector.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		config, err := configs.LoadClientConfig()
		if err != nil {
			return Logger.ErrorfAndReturn("Failed to load config: %w", err)
		}
		if config.MetricsFile == "" {
			fmt.Println(ui.Warning.Sprint("⚠") + " metrics_file is not set")
			return nil
		}

		m := metrics.New()
		if err := m.LoadFile(config.MetricsFile); err != nil {
			return Logger.ErrorfAndReturn("Failed to read %s: %w", config.MetricsFile, err)
		}
		return m.WriteText(os.Stdout)
	},
}

func init() {
	addLoggingFlags(MetricsCmd)
}
