package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/dgallion1/lexplain/internal/analysis"
	"github.com/dgallion1/lexplain/internal/gateway"
	"github.com/dgallion1/lexplain/internal/session"
)

const rule = "============================================"

func writeReport(w io.Writer, snap session.Snapshot, st analysis.Stats) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "Document: %s\n", snap.FileName)
	fmt.Fprintf(w, "Language: %s\n", snap.Language)
	if snap.Error != "" {
		fmt.Fprintf(w, "Warning:  %s\n", snap.Error)
	}
	fmt.Fprintf(w, "Words: %d  Clauses: %d  High risk: %d\n", st.Words, st.Clauses, st.HighRisk)
	fmt.Fprintln(w, rule)

	if len(snap.Outline) > 0 {
		fmt.Fprintln(w, "\nOutline")
		for _, h := range snap.Outline {
			fmt.Fprintf(w, "  %s\n", h)
		}
	}

	a := snap.Display
	if a == nil {
		fmt.Fprintln(w, "No analysis available.")
		return
	}

	fmt.Fprintln(w, "\nSummary")
	for _, item := range a.Summary {
		fmt.Fprintf(w, "  - %s\n", item)
	}

	fmt.Fprintln(w, "\nClauses")
	for i, c := range a.Clauses {
		fmt.Fprintf(w, "\n%d. %s [%s]\n", i+1, c.Title, riskLabel(c.RiskLevel))
		if c.Explanation != "" {
			fmt.Fprintf(w, "   %s\n", c.Explanation)
		}
		if c.RiskJustification != "" {
			fmt.Fprintf(w, "   Why: %s\n", c.RiskJustification)
		}
	}
}

func writeAnswer(w io.Writer, question string, ans gateway.Answer) {
	fmt.Fprintf(w, "\nQ: %s\nA: %s\n", question, ans.Text)
	for _, c := range ans.Citations {
		fmt.Fprintf(w, "   > %s\n", strings.TrimSpace(c.Text))
	}
}

func riskLabel(r analysis.RiskLevel) string {
	n := r.Normalized()
	if n == analysis.RiskUnknown {
		return "UNRATED"
	}
	return strings.ToUpper(string(n)) + " RISK"
}
