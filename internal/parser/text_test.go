package parser

import (
	"strings"
	"testing"
)

func TestTextParser_Paragraphs(t *testing.T) {
	input := "Line one.\nLine two.\n\nSecond paragraph.\n\n\nThird paragraph."
	doc, err := (&TextParser{}).Parse(strings.NewReader(input), "notes.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.Title != "notes" {
		t.Errorf("expected title notes, got %q", doc.Title)
	}
	if len(doc.Sections) != 1 {
		t.Fatalf("expected 1 untitled section, got %d", len(doc.Sections))
	}
	want := "Line one.\nLine two.\n\nSecond paragraph.\n\nThird paragraph."
	if doc.Sections[0].Text != want {
		t.Errorf("expected %q, got %q", want, doc.Sections[0].Text)
	}
}

func TestTextParser_CapsHeadings(t *testing.T) {
	input := "This agreement is made today.\n\nARTICLE 1 - RENT\n\nRent is due monthly.\n\nARTICLE 2 - TERMINATION\n\nEither party may terminate."
	doc, err := (&TextParser{}).Parse(strings.NewReader(input), "lease.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(doc.Sections) != 3 {
		t.Fatalf("expected preamble plus 2 sections, got %d", len(doc.Sections))
	}
	if doc.Sections[0].Heading != "" || doc.Sections[0].Text != "This agreement is made today." {
		t.Errorf("unexpected preamble %+v", doc.Sections[0])
	}
	if doc.Sections[1].Heading != "ARTICLE 1 - RENT" || doc.Sections[1].Text != "Rent is due monthly." {
		t.Errorf("unexpected first article %+v", doc.Sections[1])
	}
	if doc.Sections[2].Heading != "ARTICLE 2 - TERMINATION" {
		t.Errorf("unexpected second article %+v", doc.Sections[2])
	}
}

func TestIsCapsHeading(t *testing.T) {
	tests := map[string]bool{
		"DEFINITIONS":            true,
		"1. GOVERNING LAW":       true,
		"Definitions":            false,
		"NO":                     false,
		"TWO LINES\nOF CAPITALS": false,
		strings.Repeat("A", 81):  false,
	}
	for in, want := range tests {
		if got := isCapsHeading(in); got != want {
			t.Errorf("isCapsHeading(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestTextParser_EmptyInput(t *testing.T) {
	doc, err := (&TextParser{}).Parse(strings.NewReader(""), "empty.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(doc.Sections) != 0 {
		t.Errorf("expected 0 sections, got %d", len(doc.Sections))
	}
}
