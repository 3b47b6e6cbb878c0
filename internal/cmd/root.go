// Package cmd implements the maskd command line interface.
package cmd

import (
	"github.com/spf13/cobra"

	"github.com/maskd-io/maskd/internal/config"
	"github.com/maskd-io/maskd/internal/logger"
)

var (
	version = "0.1.0"
	commit  = "dev"
	date    = "unknown"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:           "maskd",
	Short:         "Detect and mask PII in text and structured data",
	Long:          "maskd scrubs personally identifiable information from text, JSON, and YAML before the data leaves a trust boundary.",
	SilenceUsage:  true,
	SilenceErrors: false,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "Path to configuration file")
}

// Execute runs the CLI and returns the process exit code.
func Execute() int {
	if err := rootCmd.Execute(); err != nil {
		return 1
	}
	return 0
}

// loadConfig loads the file/env configuration once per invocation.
func loadConfig() (*config.Config, error) {
	return config.Load(cfgFile)
}

// newLogger builds the CLI logger from the logging section.
func newLogger(cfg *config.Config) (*logger.Logger, error) {
	lc := logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	}
	if cfg.Logging.File.Enabled {
		lc.File = &logger.FileConfig{
			Enabled:  cfg.Logging.File.Enabled,
			Path:     cfg.Logging.File.Path,
			MaxSize:  cfg.Logging.File.MaxSize,
			MaxAge:   cfg.Logging.File.MaxAge,
			Compress: cfg.Logging.File.Compress,
		}
	}
	return logger.New(lc)
}
