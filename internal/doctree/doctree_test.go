package doctree

import "testing"

func sample() *Document {
	return &Document{
		Title: "lease",
		Sections: []*Section{
			{Heading: "Terms", Text: "Intro.", Children: []*Section{
				{Heading: "Rent", Text: "Monthly."},
				{Text: "Loose paragraph."},
			}},
			{Heading: "Termination"},
		},
	}
}

func TestPlainText_ReadingOrder(t *testing.T) {
	want := "Terms\n\nIntro.\n\nRent\n\nMonthly.\n\nLoose paragraph.\n\nTermination"
	if got := sample().PlainText(); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestHeadings_Indented(t *testing.T) {
	got := sample().Headings()
	want := []string{"Terms", "  Rent", "Termination"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("heading[%d]: expected %q, got %q", i, want[i], got[i])
		}
	}
}

func TestNilDocument(t *testing.T) {
	var d *Document
	if d.PlainText() != "" || len(d.Headings()) != 0 {
		t.Error("expected empty output for nil document")
	}
}
