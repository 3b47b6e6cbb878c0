// Package mask rewrites detected PII spans according to a configured
// strategy while leaving the surrounding text untouched.
package mask

import (
	"fmt"

	"github.com/fernet/fernet-go"
	"go.uber.org/zap"

	"github.com/maskd-io/maskd/internal/config"
	"github.com/maskd-io/maskd/internal/detect"
	"github.com/maskd-io/maskd/internal/logger"
	"github.com/maskd-io/maskd/internal/synth"
)

// Masker applies the configured masking strategy to every PII span a
// detector finds. Construction fixes the configuration, the pattern set and
// the encryption key; after that a Masker is read-only and safe to share
// across goroutines.
type Masker struct {
	config   config.MaskingConfig
	detector *detect.Detector
	gen      synth.Generator
	logger   *logger.Logger

	maskChar string // single rune, validated at construction

	key          *fernet.Key
	generatedKey string
}

// Option configures a Masker.
type Option func(*Masker)

// WithGenerator replaces the bundled synthetic-data backend.
func WithGenerator(gen synth.Generator) Option {
	return func(m *Masker) { m.gen = gen }
}

// New creates a masker. If the encrypt strategy is selected and no key is
// configured, a session key is generated; it is surfaced through
// GeneratedKey and logged, since ciphertext is unrecoverable without it.
func New(cfg config.MaskingConfig, log *logger.Logger, opts ...Option) (*Masker, error) {
	if log == nil {
		log = logger.Nop()
	}
	if err := config.ValidateMasking(&cfg); err != nil {
		return nil, err
	}

	detector, err := detect.New(cfg, log)
	if err != nil {
		return nil, err
	}

	m := &Masker{
		config:   cfg,
		detector: detector,
		gen:      synth.NewFake(0),
		logger:   log,
		maskChar: cfg.MaskCharacter,
	}
	for _, opt := range opts {
		opt(m)
	}

	if cfg.EncryptionKey != "" {
		key, err := fernet.DecodeKey(cfg.EncryptionKey)
		if err != nil {
			return nil, fmt.Errorf("invalid encryption key: %w", err)
		}
		m.key = key
	} else if cfg.Strategy == config.StrategyEncrypt {
		var key fernet.Key
		if err := key.Generate(); err != nil {
			return nil, fmt.Errorf("failed to generate encryption key: %w", err)
		}
		m.key = &key
		m.generatedKey = key.Encode()
		log.Info("Generated session encryption key",
			zap.String("key", m.generatedKey),
		)
	}

	return m, nil
}

// GeneratedKey returns the session key generated at construction, or "" if
// a key was configured or the strategy never needed one. Callers must retain
// it to decrypt later.
func (m *Masker) GeneratedKey() string {
	return m.generatedKey
}

// Detector returns the underlying detector.
func (m *Masker) Detector() *detect.Detector {
	return m.detector
}

// MaskText detects PII in text and rewrites every matched span. Overlapping
// matches are resolved first, then substitutions are applied from the last
// span backwards so earlier offsets stay valid.
func (m *Masker) MaskText(text string) string {
	matches := m.detector.DetectInText(text)
	if len(matches) == 0 {
		return text
	}

	resolved := ResolveOverlaps(matches)

	masked := text
	for i := len(resolved) - 1; i >= 0; i-- {
		match := resolved[i]
		masked = masked[:match.Start] + m.Apply(match) + masked[match.End:]
	}
	return masked
}

// MaskStructure walks mappings and sequences the same way detection does,
// rewriting string leaves with MaskText and rebuilding containers around the
// masked children. Non-string scalars pass through unchanged.
func (m *Masker) MaskStructure(value any) any {
	switch v := value.(type) {
	case string:
		return m.MaskText(v)
	case map[string]any:
		masked := make(map[string]any, len(v))
		for key, child := range v {
			masked[key] = m.MaskStructure(child)
		}
		return masked
	case []any:
		masked := make([]any, len(v))
		for i, child := range v {
			masked[i] = m.MaskStructure(child)
		}
		return masked
	default:
		return value
	}
}

// Mask masks PII in any supported value.
func (m *Masker) Mask(value any) any {
	return m.MaskStructure(value)
}

// Analyze reports detection statistics for any supported value without
// masking it.
func (m *Masker) Analyze(value any) *detect.Report {
	return m.detector.Analyze(value)
}
