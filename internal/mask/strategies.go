package mask

import (
	"fmt"
	"hash/fnv"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/maskd-io/maskd/internal/config"
	"github.com/maskd-io/maskd/internal/detect"
	"github.com/maskd-io/maskd/internal/synth"
)

// redactedLiteral is what the redact strategy emits for every match,
// regardless of format or length.
const redactedLiteral = "[REDACTED]"

// Apply converts one detected match into its replacement text according to
// the configured strategy.
func (m *Masker) Apply(match detect.Match) string {
	switch m.config.Strategy {
	case config.StrategyReplace:
		return m.replace(match.Text, match.PatternName)
	case config.StrategyRedact:
		return redactedLiteral
	case config.StrategyEncrypt:
		return m.encrypt(match.Text)
	case config.StrategyTokenize:
		return tokenize(match.Text, match.PatternName)
	case config.StrategyFaker:
		return m.fake(match)
	default:
		return m.replace(match.Text, match.PatternName)
	}
}

// tokenize produces a deterministic placeholder for a matched literal. The
// number is a 32-bit FNV-1a hash reduced mod 10000, so the same text and
// pattern always map to the same token within and across runs.
func tokenize(text, patternName string) string {
	h := fnv.New32a()
	h.Write([]byte(text))
	return fmt.Sprintf("[%s_TOKEN_%04d]", strings.ToUpper(patternName), h.Sum32()%10000)
}

// replace masks the literal with the mask character, preserving as much of
// the original's visual structure as the configuration allows.
func (m *Masker) replace(text, patternName string) string {
	if !m.config.PreserveFormat {
		return m.fill(utf8.RuneCountInString(text))
	}

	switch {
	case patternName == "email":
		return m.maskEmail(text)
	case strings.HasPrefix(patternName, "phone"):
		return m.maskPhone(text)
	case patternName == "ssn":
		return m.maskSSN(text)
	case patternName == "credit_card":
		return m.maskCreditCard(text)
	default:
		return m.maskGeneric(text)
	}
}

// fill returns the mask character repeated n times.
func (m *Masker) fill(n int) string {
	return strings.Repeat(m.maskChar, n)
}

// maskGeneric obscures the whole value, optionally revealing a couple of
// boundary characters when partial masking is on and the value is long
// enough for the reveal not to leak most of it.
func (m *Masker) maskGeneric(text string) string {
	runes := []rune(text)
	n := len(runes)
	if !m.config.PartialMask || n <= 4 {
		return m.fill(n)
	}

	visible := n / 4
	if visible > 2 {
		visible = 2
	}
	return string(runes[:visible]) + m.fill(n-2*visible) + string(runes[n-visible:])
}

// maskEmail obscures the local part entirely; the domain survives verbatim
// only when domain preservation is on.
func (m *Masker) maskEmail(email string) string {
	at := strings.Index(email, "@")
	if at < 0 {
		return m.fill(utf8.RuneCountInString(email))
	}

	if !m.config.PreserveDomains {
		return m.fill(utf8.RuneCountInString(email))
	}

	local, domain := email[:at], email[at+1:]
	return m.fill(utf8.RuneCountInString(local)) + "@" + domain
}

// maskPhone keeps the format skeleton exactly: every digit becomes the mask
// character, every separator stays where it was.
func (m *Masker) maskPhone(phone string) string {
	var b strings.Builder
	b.Grow(len(phone))
	for _, ch := range phone {
		if ch >= '0' && ch <= '9' {
			b.WriteString(m.maskChar)
		} else {
			b.WriteRune(ch)
		}
	}
	return b.String()
}

// maskSSN emits the standard 3-2-4 masked form when the literal is a real
// nine-digit SSN, matching the separator style of the original.
func (m *Masker) maskSSN(ssn string) string {
	digits := stripNonDigits(ssn)
	if len(digits) == 9 {
		if strings.Contains(ssn, "-") {
			return m.fill(3) + "-" + m.fill(2) + "-" + m.fill(4)
		}
		return m.fill(9)
	}
	return m.fill(utf8.RuneCountInString(ssn))
}

// maskCreditCard keeps the last four digits and the original separator
// positions; all other digits are obscured.
func (m *Masker) maskCreditCard(card string) string {
	digits := stripNonDigits(card)
	if len(digits) < 12 {
		return m.fill(utf8.RuneCountInString(card))
	}

	maskedDigits := make([]string, len(digits))
	for i := range digits {
		if i < len(digits)-4 {
			maskedDigits[i] = m.maskChar
		} else {
			maskedDigits[i] = string(digits[i])
		}
	}

	var b strings.Builder
	idx := 0
	for _, ch := range card {
		if ch >= '0' && ch <= '9' {
			b.WriteString(maskedDigits[idx])
			idx++
		} else {
			b.WriteRune(ch)
		}
	}
	return b.String()
}

// fake substitutes a synthetic value of the matching semantic category. Any
// backend failure falls back to the replace strategy's output for the match
// and never propagates.
func (m *Masker) fake(match detect.Match) string {
	kind := kindFor(match.PatternName, match.Category)
	value, err := m.gen.Generate(kind, m.config.Locale)
	if err != nil {
		m.logger.Debug("Synthetic data generation failed, falling back to replace",
			zap.String("pattern", match.PatternName),
			zap.Error(err),
		)
		return m.replace(match.Text, match.PatternName)
	}
	return value
}

// kindFor maps a pattern name and category to a generator kind.
func kindFor(patternName, category string) synth.Kind {
	switch {
	case patternName == "email":
		return synth.KindEmail
	case strings.HasPrefix(patternName, "phone"):
		return synth.KindPhone
	case patternName == "ssn":
		return synth.KindSSN
	case patternName == "credit_card":
		return synth.KindCreditCard
	case strings.HasPrefix(patternName, "name"):
		return synth.KindPersonName
	case category == "location":
		return synth.KindAddress
	case category == "personal":
		return synth.KindPersonName
	default:
		return synth.KindWord
	}
}

// stripNonDigits removes all non-digit characters from s.
func stripNonDigits(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, ch := range s {
		if ch >= '0' && ch <= '9' {
			b.WriteRune(ch)
		}
	}
	return b.String()
}
