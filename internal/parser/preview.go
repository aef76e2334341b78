package parser

import (
	"bytes"
	"strings"
	"unicode/utf8"
)

// Inspection is what an upload shows before any remote analysis.
type Inspection struct {
	Preview string   // Leading plain text, whitespace collapsed
	Outline []string // Section headings, indented two spaces per level
}

// Inspect parses a document once and returns its preview, cut to limit
// runes, together with its heading outline.
func Inspect(filename string, data []byte, limit int) (Inspection, error) {
	p, err := ForFile(filename)
	if err != nil {
		return Inspection{}, err
	}
	doc, err := p.Parse(bytes.NewReader(data), filename)
	if err != nil {
		return Inspection{}, err
	}
	text := strings.Join(strings.Fields(doc.PlainText()), " ")
	return Inspection{
		Preview: truncateRunes(text, limit),
		Outline: doc.Headings(),
	}, nil
}

func truncateRunes(s string, limit int) string {
	if limit <= 0 || utf8.RuneCountInString(s) <= limit {
		return s
	}
	n := 0
	for i := range s {
		if n == limit {
			return s[:i]
		}
		n++
	}
	return s
}
