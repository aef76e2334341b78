package analysis

import (
	"fmt"
	"strconv"
	"strings"
)

// Normalize checks an analysis received from the remote service and coerces
// the fields that are safe to coerce. It fills blank clause IDs with a
// positional "clause-N", trims IDs and lowercases known risk levels. Duplicate
// IDs are rejected because they break clause identity across translation.
func Normalize(a *DocumentAnalysis) error {
	if a == nil {
		return fmt.Errorf("analysis is empty")
	}
	if a.Summary == nil {
		a.Summary = []string{}
	}
	if a.Clauses == nil {
		a.Clauses = []Clause{}
	}

	seen := make(map[string]int, len(a.Clauses))
	for i := range a.Clauses {
		c := &a.Clauses[i]
		c.ID = strings.TrimSpace(c.ID)
		if c.ID == "" {
			c.ID = "clause-" + strconv.Itoa(i+1)
		}
		if prev, dup := seen[c.ID]; dup {
			return fmt.Errorf("clause %d repeats id %q of clause %d", i, c.ID, prev)
		}
		seen[c.ID] = i

		if n := c.RiskLevel.Normalized(); n != RiskUnknown {
			c.RiskLevel = n
		}
	}
	return nil
}
