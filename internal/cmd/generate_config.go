package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/maskd-io/maskd/internal/config"
)

var generateConfigCmd = &cobra.Command{
	Use:   "generate-config <path>",
	Short: "Write a sample configuration file with default values",
	Args:  cobra.ExactArgs(1),
	RunE:  runGenerateConfig,
}

func init() {
	rootCmd.AddCommand(generateConfigCmd)
}

func runGenerateConfig(cmd *cobra.Command, args []string) error {
	if err := config.WriteSample(args[0]); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Sample configuration written to %s\n", args[0])
	return nil
}
