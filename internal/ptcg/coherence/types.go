package coherence

// Severity ranks how much an issue hurts the deck.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityMajor    Severity = "major"
	SeverityMinor    Severity = "minor"
)

// Category groups issues by the aspect of the deck they concern.
type Category string

const (
	CategoryStrategy Category = "strategy"
	CategorySynergy  Category = "synergy"
	CategoryEnergy   Category = "energy"
	CategoryTyping   Category = "typing"
	CategoryFormat   Category = "format"
)

// Issue is a single diagnostic raised by a coherence check.
type Issue struct {
	Severity    Severity `json:"severity"`
	Category    Category `json:"category"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Impact      string   `json:"impact"`
	Suggestions []string `json:"suggestions"`
}

// Report is the result of validating a deck.
type Report struct {
	IsCoherent      bool     `json:"isCoherent"`
	CoherenceScore  int      `json:"coherenceScore"` // 0-100
	PrimaryStrategy *string  `json:"primaryStrategy"`
	Issues          []Issue  `json:"issues"`
	Recommendations []string `json:"recommendations"`
}

// Count returns the number of issues with the given severity.
func (r Report) Count(s Severity) int {
	n := 0
	for _, issue := range r.Issues {
		if issue.Severity == s {
			n++
		}
	}
	return n
}

// Score weights per severity.
const (
	criticalPenalty = 30
	majorPenalty    = 15
	minorPenalty    = 5
)

// Score computes the coherence score for a set of issues, floored at 0.
func Score(issues []Issue) int {
	score := 100
	for _, issue := range issues {
		switch issue.Severity {
		case SeverityCritical:
			score -= criticalPenalty
		case SeverityMajor:
			score -= majorPenalty
		case SeverityMinor:
			score -= minorPenalty
		}
	}
	if score < 0 {
		return 0
	}
	return score
}
