package analysis

import (
	"errors"
	"fmt"
)

// ErrStructural is matched by every StructuralError.
var ErrStructural = errors.New("structural mismatch")

// StructuralError reports a translated list whose length does not match the
// layout it was flattened from. Reconstruction never pads or truncates.
type StructuralError struct {
	Want int
	Got  int
}

func (e *StructuralError) Error() string {
	return fmt.Sprintf("translated list has %d entries, want %d", e.Got, e.Want)
}

func (e *StructuralError) Is(target error) bool {
	return target == ErrStructural
}

// Layout fixes the section sizes of a flattened analysis:
//
//	[0, S)        summary items
//	[S, S+C)      clause titles
//	[S+C, S+2C)   clause explanations
//	[S+2C, S+3C)  clause risk justifications
type Layout struct {
	Summary int // S
	Clauses int // C
}

// LayoutOf measures a.
func LayoutOf(a *DocumentAnalysis) Layout {
	return Layout{Summary: len(a.Summary), Clauses: len(a.Clauses)}
}

// Len is S + 3C.
func (l Layout) Len() int {
	return l.Summary + 3*l.Clauses
}

func (l Layout) titleAt(i int) int         { return l.Summary + i }
func (l Layout) explanationAt(i int) int   { return l.Summary + l.Clauses + i }
func (l Layout) justificationAt(i int) int { return l.Summary + 2*l.Clauses + i }

// Batch is one flattened analysis ready for a bulk translation call. The
// layout is measured once, at flatten time, and reused to rebuild.
type Batch struct {
	Layout Layout
	Texts  []string
}

// Flatten encodes the translatable prose of a in the fixed Layout order.
func Flatten(a *DocumentAnalysis) Batch {
	l := LayoutOf(a)
	texts := make([]string, l.Len())
	copy(texts, a.Summary)
	for i, c := range a.Clauses {
		texts[l.titleAt(i)] = c.Title
		texts[l.explanationAt(i)] = c.Explanation
		texts[l.justificationAt(i)] = c.RiskJustification
	}
	return Batch{Layout: l, Texts: texts}
}

// Rebuild decodes translated back onto original. Clause IDs, risk levels and
// the original document text are carried over untouched. original must be the
// analysis the batch was flattened from.
func (b Batch) Rebuild(original *DocumentAnalysis, translated []string) (*DocumentAnalysis, error) {
	if got := LayoutOf(original); got != b.Layout {
		return nil, &StructuralError{Want: b.Layout.Len(), Got: got.Len()}
	}
	if len(translated) != b.Layout.Len() {
		return nil, &StructuralError{Want: b.Layout.Len(), Got: len(translated)}
	}

	l := b.Layout
	out := &DocumentAnalysis{
		OriginalText: original.OriginalText,
		Summary:      make([]string, l.Summary),
		Clauses:      make([]Clause, l.Clauses),
	}
	copy(out.Summary, translated[:l.Summary])
	for i, c := range original.Clauses {
		out.Clauses[i] = Clause{
			ID:                c.ID,
			Title:             translated[l.titleAt(i)],
			Explanation:       translated[l.explanationAt(i)],
			RiskLevel:         c.RiskLevel,
			RiskJustification: translated[l.justificationAt(i)],
		}
	}
	return out, nil
}

// Reconstruct is Flatten(original).Rebuild(original, translated).
func Reconstruct(original *DocumentAnalysis, translated []string) (*DocumentAnalysis, error) {
	return Flatten(original).Rebuild(original, translated)
}
