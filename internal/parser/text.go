package parser

import (
	"bufio"
	"io"
	"strings"
	"unicode"

	"github.com/dgallion1/lexplain/internal/doctree"
)

const maxHeadingLen = 80

// TextParser handles plain text. A short paragraph written entirely in
// capitals ("ARTICLE 4 - TERMINATION") is taken as a heading.
type TextParser struct{}

func (p *TextParser) Parse(r io.Reader, filename string) (*doctree.Document, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	o := newOutline()
	var current strings.Builder
	emit := func() {
		para := current.String()
		current.Reset()
		if isCapsHeading(para) {
			o.heading(1, para)
			return
		}
		o.paragraph(para)
	}

	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			if current.Len() > 0 {
				emit()
			}
			continue
		}
		if current.Len() > 0 {
			current.WriteString("\n")
		}
		current.WriteString(line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if current.Len() > 0 {
		emit()
	}
	return o.document(baseTitle(filename)), nil
}

func isCapsHeading(para string) bool {
	para = strings.TrimSpace(para)
	if para == "" || len(para) > maxHeadingLen || strings.Contains(para, "\n") {
		return false
	}
	letters := 0
	for _, r := range para {
		if unicode.IsLetter(r) {
			if !unicode.IsUpper(r) {
				return false
			}
			letters++
		}
	}
	return letters >= 3
}
