package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/maskd-io/maskd/internal/codec"
	"github.com/maskd-io/maskd/internal/config"
	"github.com/maskd-io/maskd/internal/mask"
)

var maskCmd = &cobra.Command{
	Use:   "mask <input> <output>",
	Short: "Mask PII in a file",
	Long: `Mask PII in a file and write the result.

Input and output formats are chosen by file extension: .json and .yaml/.yml
are parsed and masked recursively; anything else is treated as plain text.`,
	Args: cobra.ExactArgs(2),
	RunE: runMask,
}

var (
	maskStrategy       string
	maskPreserveFormat bool
	maskPartial        bool
	maskThreshold      float64
	maskEncryptionKey  string
)

func init() {
	maskCmd.Flags().StringVarP(&maskStrategy, "strategy", "s", "replace", "Masking strategy (replace, redact, encrypt, tokenize, faker)")
	maskCmd.Flags().BoolVar(&maskPreserveFormat, "preserve-format", true, "Preserve the original format of masked values")
	maskCmd.Flags().BoolVar(&maskPartial, "partial-mask", true, "Reveal boundary characters of masked values")
	maskCmd.Flags().Float64VarP(&maskThreshold, "confidence-threshold", "t", 0.8, "Minimum rule confidence for detection")
	maskCmd.Flags().StringVarP(&maskEncryptionKey, "encryption-key", "k", "", "Key for the encrypt strategy (base64)")
	rootCmd.AddCommand(maskCmd)
}

// maskingOptions merges the loaded configuration with any flags the user
// set explicitly; flags win.
func maskingOptions(cmd *cobra.Command, cfg *config.Config) config.MaskingConfig {
	mc := cfg.Masking
	if cmd.Flags().Changed("strategy") {
		mc.Strategy = config.Strategy(maskStrategy)
	}
	if cmd.Flags().Changed("preserve-format") {
		mc.PreserveFormat = maskPreserveFormat
	}
	if cmd.Flags().Changed("partial-mask") {
		mc.PartialMask = maskPartial
	}
	if cmd.Flags().Changed("confidence-threshold") {
		mc.ConfidenceThreshold = maskThreshold
	}
	if cmd.Flags().Changed("encryption-key") {
		mc.EncryptionKey = maskEncryptionKey
	}
	return mc
}

func runMask(cmd *cobra.Command, args []string) error {
	inputPath, outputPath := args[0], args[1]

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	mc := maskingOptions(cmd, cfg)

	log, err := newLogger(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer log.Sync()

	masker, err := mask.New(mc, log)
	if err != nil {
		return err
	}

	data, err := codec.Load(inputPath)
	if err != nil {
		return err
	}

	masked := masker.Mask(data)

	if err := codec.Dump(outputPath, masked); err != nil {
		return err
	}

	if key := masker.GeneratedKey(); key != "" {
		fmt.Fprintf(cmd.OutOrStdout(), "Generated encryption key: %s\n", key)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Masked data written to %s\n", outputPath)
	return nil
}
