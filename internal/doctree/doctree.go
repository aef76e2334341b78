package doctree

import "strings"

// Document is the structural outline of an uploaded file.
type Document struct {
	Title    string     // From metadata or the file name
	Sections []*Section // Top-level sections
}

// Section is one heading and the text under it.
type Section struct {
	Heading  string     // Empty for untitled text
	Text     string     // Body text, may be empty for container sections
	Children []*Section // Subsections
}

// Walk visits every section depth-first with its nesting depth.
func (d *Document) Walk(fn func(s *Section, depth int)) {
	if d == nil {
		return
	}
	var visit func(ss []*Section, depth int)
	visit = func(ss []*Section, depth int) {
		for _, s := range ss {
			fn(s, depth)
			visit(s.Children, depth+1)
		}
	}
	visit(d.Sections, 0)
}

// PlainText joins headings and bodies in reading order, separated by blank lines.
func (d *Document) PlainText() string {
	var parts []string
	d.Walk(func(s *Section, _ int) {
		if h := strings.TrimSpace(s.Heading); h != "" {
			parts = append(parts, h)
		}
		if t := strings.TrimSpace(s.Text); t != "" {
			parts = append(parts, t)
		}
	})
	return strings.Join(parts, "\n\n")
}

// Headings lists section headings indented two spaces per level.
func (d *Document) Headings() []string {
	var out []string
	d.Walk(func(s *Section, depth int) {
		if s.Heading == "" {
			return
		}
		out = append(out, strings.Repeat("  ", depth)+s.Heading)
	})
	return out
}
