package patterns

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
)

// Rule is a single named PII detection rule. Rules are immutable once
// registered; the registry owns them for its lifetime.
type Rule struct {
	Name        string
	Pattern     *regexp.Regexp
	Confidence  float64
	Category    string
	Description string
}

// ErrNotFound is returned when a pattern name is not registered.
var ErrNotFound = errors.New("pattern not found")

// InvalidPatternError reports a pattern source that failed to compile.
type InvalidPatternError struct {
	Name   string
	Source string
	Err    error
}

func (e *InvalidPatternError) Error() string {
	return fmt.Sprintf("invalid pattern %q: %v", e.Name, e.Err)
}

func (e *InvalidPatternError) Unwrap() error { return e.Err }

// Registry holds the set of named detection rules. It is not a process-wide
// singleton: each detector owns or shares one instance, and after
// construction it is treated as read-only.
type Registry struct {
	rules map[string]*Rule
	order []string
}

// NewRegistry creates a registry pre-loaded with the default rule set.
func NewRegistry() *Registry {
	r := &Registry{rules: make(map[string]*Rule)}
	for _, d := range defaultRules {
		// Default sources are vetted at development time; a compile
		// failure here is a programming error.
		if err := r.Register(d.name, d.source, d.confidence, d.category, d.description); err != nil {
			panic(fmt.Sprintf("patterns: default rule %q: %v", d.name, err))
		}
	}
	return r
}

// Register compiles source case-insensitively and stores the rule,
// overwriting any existing rule with the same name. Returns
// *InvalidPatternError if the source does not compile; the registry is left
// unchanged in that case.
func (r *Registry) Register(name, source string, confidence float64, category, description string) error {
	compiled, err := regexp.Compile("(?i)" + source)
	if err != nil {
		return &InvalidPatternError{Name: name, Source: source, Err: err}
	}

	if _, exists := r.rules[name]; !exists {
		r.order = append(r.order, name)
	}
	r.rules[name] = &Rule{
		Name:        name,
		Pattern:     compiled,
		Confidence:  confidence,
		Category:    category,
		Description: description,
	}
	return nil
}

// Get returns the rule registered under name.
func (r *Registry) Get(name string) (*Rule, error) {
	rule, ok := r.rules[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	return rule, nil
}

// ByCategory returns all rules with the given category, in registration order.
func (r *Registry) ByCategory(category string) []*Rule {
	var out []*Rule
	for _, name := range r.order {
		if rule := r.rules[name]; rule.Category == category {
			out = append(out, rule)
		}
	}
	return out
}

// All returns every registered rule in registration order.
func (r *Registry) All() []*Rule {
	out := make([]*Rule, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.rules[name])
	}
	return out
}

// Categories returns the sorted set of categories in use.
func (r *Registry) Categories() []string {
	seen := make(map[string]bool)
	var out []string
	for _, rule := range r.rules {
		if !seen[rule.Category] {
			seen[rule.Category] = true
			out = append(out, rule.Category)
		}
	}
	sort.Strings(out)
	return out
}

// RuleMatches pairs a rule with the span indices of its matches in a text.
// Each span is a half-open [start, end) byte interval.
type RuleMatches struct {
	Rule  *Rule
	Spans [][]int
}

// FindMatches runs every rule with confidence >= minConfidence against text
// and returns the rules that matched at least once, each with all of its
// non-empty match spans. Rules are visited in registration order.
func (r *Registry) FindMatches(text string, minConfidence float64) []RuleMatches {
	var out []RuleMatches
	for _, name := range r.order {
		rule := r.rules[name]
		if rule.Confidence < minConfidence {
			continue
		}
		spans := rule.Pattern.FindAllStringIndex(text, -1)
		kept := spans[:0]
		for _, span := range spans {
			if span[1] > span[0] {
				kept = append(kept, span)
			}
		}
		if len(kept) > 0 {
			out = append(out, RuleMatches{Rule: rule, Spans: kept})
		}
	}
	return out
}
