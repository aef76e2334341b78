package analysis

import "strings"

// RiskLevel is the structured risk rating of a clause. It is never translated.
type RiskLevel string

const (
	RiskHigh    RiskLevel = "high"
	RiskMedium  RiskLevel = "medium"
	RiskLow     RiskLevel = "low"
	RiskUnknown RiskLevel = "unknown"
)

// Normalized folds the level to one of the known constants, mapping anything
// unrecognized to RiskUnknown.
func (r RiskLevel) Normalized() RiskLevel {
	switch RiskLevel(strings.ToLower(strings.TrimSpace(string(r)))) {
	case RiskHigh:
		return RiskHigh
	case RiskMedium:
		return RiskMedium
	case RiskLow:
		return RiskLow
	default:
		return RiskUnknown
	}
}

// Clause is the per-clause breakdown produced by the analysis service.
type Clause struct {
	ID                string    `json:"id"`
	Title             string    `json:"title"`
	Explanation       string    `json:"explanation"`
	RiskLevel         RiskLevel `json:"riskLevel"`
	RiskJustification string    `json:"riskJustification"`
}

// DocumentAnalysis is the result of analyzing one document. Values are treated
// as immutable once received: callers replace them wholesale, never edit them.
type DocumentAnalysis struct {
	OriginalText string   `json:"originalText"`
	Summary      []string `json:"summary"`
	Clauses      []Clause `json:"clauses"`
}

// Clone returns a deep copy so read-only views never share backing arrays
// with the session's copy.
func (a *DocumentAnalysis) Clone() *DocumentAnalysis {
	if a == nil {
		return nil
	}
	out := &DocumentAnalysis{
		OriginalText: a.OriginalText,
		Summary:      make([]string, len(a.Summary)),
		Clauses:      make([]Clause, len(a.Clauses)),
	}
	copy(out.Summary, a.Summary)
	copy(out.Clauses, a.Clauses)
	return out
}

// SameShape reports whether b has the same clause count and clause ID order as a.
func SameShape(a, b *DocumentAnalysis) bool {
	if a == nil || b == nil {
		return a == b
	}
	if len(a.Clauses) != len(b.Clauses) {
		return false
	}
	for i := range a.Clauses {
		if a.Clauses[i].ID != b.Clauses[i].ID {
			return false
		}
	}
	return true
}
