package cmd

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/maskd-io/maskd/internal/codec"
	"github.com/maskd-io/maskd/internal/detect"
	"github.com/maskd-io/maskd/internal/mask"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <input>",
	Short: "Report detected PII in a file without masking it",
	Args:  cobra.ExactArgs(1),
	RunE:  runAnalyze,
}

var (
	analyzeThreshold float64
	analyzeFormat    string
)

func init() {
	analyzeCmd.Flags().Float64VarP(&analyzeThreshold, "confidence-threshold", "t", 0.8, "Minimum rule confidence for detection")
	analyzeCmd.Flags().StringVarP(&analyzeFormat, "format", "f", "table", "Output format (table, json, yaml)")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	mc := cfg.Masking
	if cmd.Flags().Changed("confidence-threshold") {
		mc.ConfidenceThreshold = analyzeThreshold
	}

	log, err := newLogger(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer log.Sync()

	masker, err := mask.New(mc, log)
	if err != nil {
		return err
	}

	data, err := codec.Load(args[0])
	if err != nil {
		return err
	}

	report := masker.Analyze(data)

	switch analyzeFormat {
	case "json":
		out, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(out))
	case "yaml":
		out, err := yaml.Marshal(report)
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), string(out))
	case "table":
		printReportTable(cmd, report)
	default:
		return fmt.Errorf("invalid format: %q (must be table, json, or yaml)", analyzeFormat)
	}
	return nil
}

func printReportTable(cmd *cobra.Command, report *detect.Report) {
	out := cmd.OutOrStdout()

	fmt.Fprintln(out, "PII Analysis Results")
	fmt.Fprintln(out, "====================")
	if report.Error != "" {
		fmt.Fprintf(out, "Error: %s\n", report.Error)
		return
	}
	fmt.Fprintf(out, "Total matches: %d\n", report.TotalMatches)

	if len(report.Categories) > 0 {
		fmt.Fprintln(out)
		table := tablewriter.NewWriter(out)
		table.SetHeader([]string{"Category", "Count"})
		for _, category := range sortedKeys(report.Categories) {
			table.Append([]string{category, strconv.Itoa(report.Categories[category])})
		}
		table.Render()
	}

	if len(report.Patterns) > 0 {
		fmt.Fprintln(out)
		table := tablewriter.NewWriter(out)
		table.SetHeader([]string{"Pattern", "Count"})
		for _, pattern := range sortedKeys(report.Patterns) {
			table.Append([]string{pattern, strconv.Itoa(report.Patterns[pattern])})
		}
		table.Render()
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, "Confidence Distribution:")
	fmt.Fprintf(out, "  High (>=0.9):  %d\n", report.Confidence.High)
	fmt.Fprintf(out, "  Medium (>=0.7): %d\n", report.Confidence.Medium)
	fmt.Fprintf(out, "  Low (<0.7):    %d\n", report.Confidence.Low)
}

func sortedKeys(counts map[string]int) []string {
	keys := make([]string, 0, len(counts))
	for key := range counts {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
