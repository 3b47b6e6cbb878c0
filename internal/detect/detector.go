package detect

import (
	"encoding/json"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/maskd-io/maskd/internal/config"
	"github.com/maskd-io/maskd/internal/logger"
	"github.com/maskd-io/maskd/internal/patterns"
)

// Detector finds PII in text and in nested structured data. A Detector is
// immutable after construction and safe for concurrent use.
type Detector struct {
	registry  *patterns.Registry
	whitelist map[string]struct{}
	logger    *logger.Logger
	config    config.MaskingConfig
}

// New creates a detector from the masking configuration. Custom patterns are
// merged into the registry with a fixed 0.9 confidence under the "custom"
// category; a pattern that fails to compile aborts construction.
func New(cfg config.MaskingConfig, log *logger.Logger) (*Detector, error) {
	if log == nil {
		log = logger.Nop()
	}

	registry := patterns.NewRegistry()
	for name, source := range cfg.CustomPatterns {
		if err := registry.Register(name, source, 0.9, "custom", fmt.Sprintf("Custom pattern: %s", name)); err != nil {
			return nil, fmt.Errorf("failed to register custom pattern: %w", err)
		}
	}

	whitelist := make(map[string]struct{}, len(cfg.Whitelist))
	for _, value := range cfg.Whitelist {
		whitelist[value] = struct{}{}
	}

	detector := &Detector{
		registry:  registry,
		whitelist: whitelist,
		logger:    log,
		config:    cfg,
	}

	log.Info("PII detector initialized",
		zap.Int("total_rules", len(registry.All())),
		zap.Int("custom_rules", len(cfg.CustomPatterns)),
		zap.Float64("confidence_threshold", cfg.ConfidenceThreshold),
	)

	return detector, nil
}

// Registry exposes the detector's pattern registry for inspection and
// runtime registration of additional rules.
func (d *Detector) Registry() *patterns.Registry {
	return d.registry
}

// DetectInText returns every match above the configured confidence
// threshold, sorted ascending by start offset. Whitelisted literals are
// dropped. Overlapping matches from different rules are all returned; it is
// the masking layer's job to resolve them.
func (d *Detector) DetectInText(text string) []Match {
	var matches []Match

	for _, rm := range d.registry.FindMatches(text, d.config.ConfidenceThreshold) {
		for _, span := range rm.Spans {
			literal := text[span[0]:span[1]]
			if _, skip := d.whitelist[literal]; skip {
				continue
			}
			matches = append(matches, Match{
				Text:        literal,
				Start:       span[0],
				End:         span[1],
				PatternName: rm.Rule.Name,
				Confidence:  rm.Rule.Confidence,
				Category:    rm.Rule.Category,
			})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Start < matches[j].Start
	})
	return matches
}

// DetectInStructure recurses into mappings and sequences and runs text
// detection on every string leaf. The result mirrors the input's shape but
// keeps only branches that produced at least one match: mapping branches are
// keyed by their original key, sequence branches by element index. Non-string
// scalars are ignored.
func (d *Detector) DetectInStructure(value any) any {
	switch v := value.(type) {
	case string:
		return d.DetectInText(v)
	case map[string]any:
		return d.detectInMap(v)
	case []any:
		return d.detectInSlice(v)
	default:
		return []Match(nil)
	}
}

func (d *Detector) detectInMap(data map[string]any) map[string]any {
	results := make(map[string]any)
	for key, value := range data {
		switch v := value.(type) {
		case string:
			if matches := d.DetectInText(v); len(matches) > 0 {
				results[key] = matches
			}
		case map[string]any:
			if nested := d.detectInMap(v); len(nested) > 0 {
				results[key] = nested
			}
		case []any:
			if nested := d.detectInSlice(v); len(nested) > 0 {
				results[key] = nested
			}
		}
	}
	return results
}

func (d *Detector) detectInSlice(data []any) map[int]any {
	results := make(map[int]any)
	for i, item := range data {
		switch v := item.(type) {
		case string:
			if matches := d.DetectInText(v); len(matches) > 0 {
				results[i] = matches
			}
		case map[string]any:
			if nested := d.detectInMap(v); len(nested) > 0 {
				results[i] = nested
			}
		case []any:
			if nested := d.detectInSlice(v); len(nested) > 0 {
				results[i] = nested
			}
		}
	}
	return results
}

// AnalyzeText runs one detection pass and aggregates the results.
func (d *Detector) AnalyzeText(text string) *Report {
	matches := d.DetectInText(text)

	report := &Report{
		TotalMatches: len(matches),
		Categories:   make(map[string]int),
		Patterns:     make(map[string]int),
		Matches:      matches,
	}

	for _, match := range matches {
		report.Categories[match.Category]++
		report.Patterns[match.PatternName]++

		switch {
		case match.Confidence >= 0.9:
			report.Confidence.High++
		case match.Confidence >= 0.7:
			report.Confidence.Medium++
		default:
			report.Confidence.Low++
		}
	}

	return report
}

// Analyze aggregates detection statistics for any supported value. Mappings
// and sequences are analyzed through their JSON serialization, so matches
// report offsets into that serialized form. Unsupported top-level types
// produce a report with Error set rather than failing, to keep batch
// pipelines non-fatal.
func (d *Detector) Analyze(value any) *Report {
	switch v := value.(type) {
	case string:
		return d.AnalyzeText(v)
	case map[string]any, []any:
		serialized, err := json.Marshal(v)
		if err != nil {
			return &Report{
				Categories: make(map[string]int),
				Patterns:   make(map[string]int),
				Error:      fmt.Sprintf("failed to serialize value: %v", err),
			}
		}
		return d.AnalyzeText(string(serialized))
	default:
		return &Report{
			Categories: make(map[string]int),
			Patterns:   make(map[string]int),
			Error:      fmt.Sprintf("unsupported data type for analysis: %T", value),
		}
	}
}
