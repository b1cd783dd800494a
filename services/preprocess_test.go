package services

import (
	"testing"
)

func TestIndexLinesPreservesOrderAndCount(t *testing.T) {
	text := "Course Overview\r\nWeek 1: Oct 22\n\nWeek 2: Oct 29"
	lines := IndexLines(text)

	if len(lines) != 4 {
		t.Fatalf("expected 4 lines, got %d", len(lines))
	}
	for i, line := range lines {
		if line.Index != i {
			t.Errorf("line %d has index %d", i, line.Index)
		}
	}
	if lines[0].Text != "Course Overview" {
		t.Errorf("CRLF not normalized: %q", lines[0].Text)
	}
	if lines[2].Text != "" {
		t.Errorf("expected empty line preserved, got %q", lines[2].Text)
	}
}

func TestIsValidDateToken(t *testing.T) {
	cases := []struct {
		token string
		valid bool
	}{
		{"22/10", true},
		{"22.10.2024", true},
		{"Oct 22", true},
		{"Sept 5", true},
		{"October 22", true},
		{"3/4", false},  // fraction-style enumeration
		{"1/2", false},  // "part 1/2"
		{"15/9", true},  // two-digit day, real date
		{"32/10", false},
		{"22/13", false},
		{"", false},
		{"Oct\n22", false},
	}

	for _, tc := range cases {
		if got := IsValidDateToken(tc.token); got != tc.valid {
			t.Errorf("IsValidDateToken(%q) = %v, want %v", tc.token, got, tc.valid)
		}
	}
}

func TestExtractDateCandidates(t *testing.T) {
	lines := IndexLines("Session 1: Oct 22\nHomework due 5/11\nAssignment part 1/2 handed out\nFinal exam December 15")
	candidates := ExtractDateCandidates(lines)

	if len(candidates) != 3 {
		t.Fatalf("expected 3 candidates, got %d: %+v", len(candidates), candidates)
	}

	if candidates[0].DateString != "Oct 22" || candidates[0].LineIndex != 0 {
		t.Errorf("unexpected first candidate: %+v", candidates[0])
	}
	if candidates[1].DateString != "5/11" || candidates[1].LineIndex != 1 {
		t.Errorf("unexpected second candidate: %+v", candidates[1])
	}
	if candidates[2].DateString != "December 15" || candidates[2].LineIndex != 3 {
		t.Errorf("unexpected third candidate: %+v", candidates[2])
	}
}

func TestExtractDateCandidatesNoMerging(t *testing.T) {
	// The same token on two lines must produce two candidates
	lines := IndexLines("Draft due Oct 22\nFinal due Oct 22")
	candidates := ExtractDateCandidates(lines)

	if len(candidates) != 2 {
		t.Fatalf("expected 2 candidates, got %d", len(candidates))
	}
	if candidates[0].LineIndex == candidates[1].LineIndex {
		t.Errorf("candidates should come from distinct lines")
	}
}
