package parser

import (
	"strings"
	"testing"
)

func TestHTMLParser_HeadingsAndTitle(t *testing.T) {
	input := `<html><head><title>Service Terms</title><style>p{}</style></head>
<body>
<nav><p>Home</p></nav>
<h1>Terms</h1>
<p>Use of the   service.</p>
<h2>Liability</h2>
<ul><li>No warranty</li></ul>
<script>var x = 1;</script>
</body></html>`
	doc, err := (&HTMLParser{}).Parse(strings.NewReader(input), "terms.html")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.Title != "Service Terms" {
		t.Errorf("expected title from <title>, got %q", doc.Title)
	}
	if len(doc.Sections) != 1 {
		t.Fatalf("expected 1 top-level section, got %d", len(doc.Sections))
	}
	terms := doc.Sections[0]
	if terms.Heading != "Terms" || terms.Text != "Use of the service." {
		t.Errorf("unexpected section %+v", terms)
	}
	if len(terms.Children) != 1 || terms.Children[0].Text != "No warranty" {
		t.Errorf("unexpected children %+v", terms.Children)
	}
	if strings.Contains(doc.PlainText(), "Home") || strings.Contains(doc.PlainText(), "var x") {
		t.Errorf("expected nav and script to be skipped, got %q", doc.PlainText())
	}
}

func TestHTMLParser_FallbackTitle(t *testing.T) {
	doc, err := (&HTMLParser{}).Parse(strings.NewReader("<p>hi</p>"), "dir/page.htm")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.Title != "page" {
		t.Errorf("expected title page, got %q", doc.Title)
	}
}
