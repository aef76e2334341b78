package parser

import (
	"path/filepath"
	"strings"

	"github.com/dgallion1/lexplain/internal/doctree"
)

// outline assembles a section tree from a flat stream of headings and
// paragraphs. A heading closes every open section at its level or deeper.
type outline struct {
	root    *doctree.Section
	stack   []frame
	pending strings.Builder
}

type frame struct {
	section *doctree.Section
	level   int
}

func newOutline() *outline {
	root := &doctree.Section{}
	return &outline{root: root, stack: []frame{{section: root}}}
}

func (o *outline) heading(level int, title string) {
	title = strings.TrimSpace(title)
	if title == "" {
		return
	}
	o.flush()
	for len(o.stack) > 1 && o.stack[len(o.stack)-1].level >= level {
		o.stack = o.stack[:len(o.stack)-1]
	}
	s := &doctree.Section{Heading: title}
	parent := o.stack[len(o.stack)-1].section
	parent.Children = append(parent.Children, s)
	o.stack = append(o.stack, frame{section: s, level: level})
}

func (o *outline) paragraph(text string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}
	if o.pending.Len() > 0 {
		o.pending.WriteString("\n\n")
	}
	o.pending.WriteString(text)
}

func (o *outline) flush() {
	t := o.pending.String()
	o.pending.Reset()
	if t == "" {
		return
	}
	top := o.stack[len(o.stack)-1].section
	if top.Text != "" {
		top.Text += "\n\n" + t
	} else {
		top.Text = t
	}
}

// document closes the outline. Text seen before the first heading becomes
// a leading untitled section.
func (o *outline) document(title string) *doctree.Document {
	o.flush()
	doc := &doctree.Document{Title: title}
	if o.root.Text != "" {
		doc.Sections = append(doc.Sections, &doctree.Section{Text: o.root.Text})
	}
	doc.Sections = append(doc.Sections, o.root.Children...)
	return doc
}

func baseTitle(filename string) string {
	base := filepath.Base(filename)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
