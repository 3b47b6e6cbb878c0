package detect

// Match is a single detected PII span. Offsets are byte offsets into the
// exact source string that produced the match, as a half-open [Start, End)
// interval. Matches are transient: they are consumed by masking or analysis
// and never persisted.
type Match struct {
	Text        string  `json:"text"`
	Start       int     `json:"start"`
	End         int     `json:"end"`
	PatternName string  `json:"pattern_name"`
	Confidence  float64 `json:"confidence"`
	Category    string  `json:"category"`
}

// ConfidenceDistribution buckets matches by rule confidence.
// High is >= 0.9, medium is >= 0.7, low is everything below.
type ConfidenceDistribution struct {
	High   int `json:"high"`
	Medium int `json:"medium"`
	Low    int `json:"low"`
}

// Report is the aggregate result of analyzing a value. Purely derived from
// one detection pass, never stored.
type Report struct {
	TotalMatches int                    `json:"total_matches"`
	Categories   map[string]int         `json:"categories"`
	Patterns     map[string]int         `json:"patterns"`
	Confidence   ConfidenceDistribution `json:"confidence_distribution"`
	Matches      []Match                `json:"matches"`
	Error        string                 `json:"error,omitempty"`
}
