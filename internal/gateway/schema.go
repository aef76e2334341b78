package gateway

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/dgallion1/lexplain/internal/analysis"
)

// Wire shapes of the analysis backend.

type uploadResponse struct {
	Message  string `json:"message"`
	GCSURI   string `json:"gcs_uri"`
	MimeType string `json:"mime_type"`
}

type analyzeRequest struct {
	GCSURI   string `json:"gcs_uri"`
	MimeType string `json:"mime_type"`
}

type wireClause struct {
	ID                string `json:"id"`
	Title             string `json:"title"`
	Explanation       string `json:"explanation"`
	RiskLevel         string `json:"riskLevel"`
	RiskJustification string `json:"riskJustification"`
}

type wireAnalysis struct {
	OriginalText string          `json:"originalText"`
	Summary      json.RawMessage `json:"summary"`
	Clauses      []wireClause    `json:"clauses"`
}

type translateRequest struct {
	Texts  []string `json:"texts"`
	Target string   `json:"target"`
}

type translateResponse struct {
	TranslatedTexts []string `json:"translated_texts"`
}

type exportRequest struct {
	TextContent string `json:"textContent"`
}

type askRequest struct {
	Question    string `json:"question"`
	TextContent string `json:"textContent"`
}

type askResponse struct {
	Answer    string     `json:"answer"`
	Citations []Citation `json:"citations"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// decodeAnalysis converts the loosely typed analyze payload into the typed
// model. The summary may arrive as a list of bullets or as one string.
func decodeAnalysis(body []byte) (*analysis.DocumentAnalysis, error) {
	var w wireAnalysis
	dec := json.NewDecoder(bytes.NewReader(body))
	if err := dec.Decode(&w); err != nil {
		return nil, fmt.Errorf("decode analysis: %w", err)
	}

	summary, err := decodeSummary(w.Summary)
	if err != nil {
		return nil, err
	}

	a := &analysis.DocumentAnalysis{
		OriginalText: w.OriginalText,
		Summary:      summary,
		Clauses:      make([]analysis.Clause, 0, len(w.Clauses)),
	}
	for _, c := range w.Clauses {
		a.Clauses = append(a.Clauses, analysis.Clause{
			ID:                c.ID,
			Title:             c.Title,
			Explanation:       c.Explanation,
			RiskLevel:         analysis.RiskLevel(c.RiskLevel),
			RiskJustification: c.RiskJustification,
		})
	}
	if err := analysis.Normalize(a); err != nil {
		return nil, fmt.Errorf("invalid analysis: %w", err)
	}
	return a, nil
}

func decodeSummary(raw json.RawMessage) ([]string, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return []string{}, nil
	}
	switch trimmed[0] {
	case '[':
		var items []string
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, fmt.Errorf("decode summary list: %w", err)
		}
		return items, nil
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return nil, fmt.Errorf("decode summary text: %w", err)
		}
		if strings.TrimSpace(s) == "" {
			return []string{}, nil
		}
		return []string{s}, nil
	default:
		return nil, fmt.Errorf("summary must be a list of strings or a string")
	}
}
