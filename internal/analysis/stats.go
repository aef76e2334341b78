package analysis

import "strings"

// Stats is the at-a-glance summary shown above an analysis.
type Stats struct {
	Words       int               `json:"words"`
	Clauses     int               `json:"clauses"`
	HighRisk    int               `json:"high_risk"`
	ByRiskLevel map[RiskLevel]int `json:"by_risk_level"`
}

// ComputeStats counts whitespace-separated words of the original text and
// clauses per normalized risk level.
func ComputeStats(a *DocumentAnalysis) Stats {
	st := Stats{
		ByRiskLevel: map[RiskLevel]int{
			RiskHigh:    0,
			RiskMedium:  0,
			RiskLow:     0,
			RiskUnknown: 0,
		},
	}
	if a == nil {
		return st
	}
	st.Words = len(strings.Fields(a.OriginalText))
	st.Clauses = len(a.Clauses)
	for _, c := range a.Clauses {
		st.ByRiskLevel[c.RiskLevel.Normalized()]++
	}
	st.HighRisk = st.ByRiskLevel[RiskHigh]
	return st
}
