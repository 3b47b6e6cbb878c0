package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/maskd-io/maskd/internal/config"
	"github.com/maskd-io/maskd/internal/mask"
)

var decryptCmd = &cobra.Command{
	Use:   "decrypt <encrypted-value>",
	Short: "Decrypt a value produced by the encrypt strategy",
	Args:  cobra.ExactArgs(1),
	RunE:  runDecrypt,
}

var decryptKey string

func init() {
	decryptCmd.Flags().StringVarP(&decryptKey, "encryption-key", "k", "", "Base64 key used when the value was encrypted")
	decryptCmd.MarkFlagRequired("encryption-key")
	rootCmd.AddCommand(decryptCmd)
}

func runDecrypt(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	mc := cfg.Masking
	mc.Strategy = config.StrategyEncrypt
	mc.EncryptionKey = decryptKey

	log, err := newLogger(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer log.Sync()

	masker, err := mask.New(mc, log)
	if err != nil {
		return err
	}

	plain, err := masker.Decrypt(args[0])
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), plain)
	return nil
}
