package services

import (
	"testing"
	"time"

	"github.com/sahilchouksey/syllabus-planner/model"
)

func TestDeduplicateExactFirstWins(t *testing.T) {
	tasks := []model.FlatTask{
		{Date: "Oct 22", Type: model.TaskTypeAssignment, Title: "Reflection Memo", Description: "first"},
		{Date: "Oct 22", Type: model.TaskTypeAssignment, Title: "reflection memo  ", Description: "second"},
		{Date: "Oct 29", Type: model.TaskTypeAssignment, Title: "Reflection Memo"},
	}

	unique := DeduplicateExact(tasks)

	if len(unique) != 2 {
		t.Fatalf("expected 2 tasks, got %d", len(unique))
	}
	if unique[0].Description != "first" {
		t.Errorf("first occurrence must win, kept %q", unique[0].Description)
	}
	if unique[1].Date != "Oct 29" {
		t.Errorf("same title on a different date must survive")
	}
}

func TestDeduplicateExactIsIdempotent(t *testing.T) {
	tasks := []model.FlatTask{
		{Date: "Oct 22", Type: model.TaskTypeExam, Title: "Midterm"},
		{Date: "Oct 22", Type: model.TaskTypeExam, Title: "Midterm"},
	}

	once := DeduplicateExact(tasks)
	twice := DeduplicateExact(once)

	if len(once) != 1 || len(twice) != 1 {
		t.Errorf("dedup not idempotent: %d then %d", len(once), len(twice))
	}
}

func TestParseTaskDate(t *testing.T) {
	year := time.Now().Year()

	cases := []struct {
		input string
		want  time.Time
	}{
		{"Oct 22", time.Date(year, time.October, 22, 0, 0, 0, 0, time.UTC)},
		{"December 15", time.Date(year, time.December, 15, 0, 0, 0, 0, time.UTC)},
		{"12/15/2024", time.Date(2024, time.December, 15, 0, 0, 0, 0, time.UTC)},
		{"2024-12-15", time.Date(2024, time.December, 15, 0, 0, 0, 0, time.UTC)},
		{"12/15", time.Date(year, time.December, 15, 0, 0, 0, 0, time.UTC)},
		{"garbage", time.Time{}},
		{"", time.Time{}},
	}

	for _, tc := range cases {
		got := ParseTaskDate(tc.input)
		if !got.Equal(tc.want) {
			t.Errorf("ParseTaskDate(%q) = %v, want %v", tc.input, got, tc.want)
		}
	}
}

func TestDeduplicateByTitleKeepLatest(t *testing.T) {
	tasks := []model.FlatTask{
		{Date: "Oct 22", Type: model.TaskTypeAssignment, Title: "Final Paper", Description: "introduced"},
		{Date: "Nov 5", Type: model.TaskTypeReading, Title: "Read Chapter 4"},
		{Date: "Dec 1", Type: model.TaskTypeAssignment, Title: "final paper", Description: "draft due"},
		{Date: "Dec 15", Type: model.TaskTypeAssignment, Title: "Final Paper", Description: "final due"},
	}

	result := DeduplicateByTitleKeepLatest(tasks)

	if len(result) != 2 {
		t.Fatalf("expected 2 tasks, got %d: %+v", len(result), result)
	}

	var paper *model.FlatTask
	for i := range result {
		if result[i].Type == model.TaskTypeAssignment {
			paper = &result[i]
		}
	}
	if paper == nil {
		t.Fatal("final paper missing from result")
	}
	if paper.Date != "Dec 15" || paper.Description != "final due" {
		t.Errorf("latest date must win, got %+v", paper)
	}
}

func TestDeduplicateByTitleExemptsNonGraded(t *testing.T) {
	tasks := []model.FlatTask{
		{Date: "Oct 22", Type: model.TaskTypeReading, Title: "Weekly reflection"},
		{Date: "Oct 29", Type: model.TaskTypeReading, Title: "Weekly reflection"},
		{Date: "Nov 5", Type: model.TaskTypeAdministrative, Title: "Bring name tag"},
		{Date: "Nov 12", Type: model.TaskTypeAdministrative, Title: "Bring name tag"},
	}

	result := DeduplicateByTitleKeepLatest(tasks)

	if len(result) != 4 {
		t.Errorf("non-graded tasks must not be collapsed, got %d", len(result))
	}
}

func TestDeduplicateByTitleKeepsDistinctTypes(t *testing.T) {
	// Same title under different graded types stays separate
	tasks := []model.FlatTask{
		{Date: "Oct 22", Type: model.TaskTypeAssignment, Title: "Negotiation analysis"},
		{Date: "Dec 1", Type: model.TaskTypeExam, Title: "Negotiation analysis"},
	}

	result := DeduplicateByTitleKeepLatest(tasks)
	if len(result) != 2 {
		t.Errorf("distinct types must not collapse, got %d", len(result))
	}
}

func TestDeduplicateByTitlePreservesOrder(t *testing.T) {
	tasks := []model.FlatTask{
		{Date: "Oct 22", Type: model.TaskTypeReading, Title: "Read Chapter 1"},
		{Date: "Nov 1", Type: model.TaskTypeAssignment, Title: "Essay"},
		{Date: "Nov 8", Type: model.TaskTypeReading, Title: "Read Chapter 2"},
		{Date: "Dec 1", Type: model.TaskTypeAssignment, Title: "Essay"},
	}

	result := DeduplicateByTitleKeepLatest(tasks)

	if len(result) != 3 {
		t.Fatalf("expected 3 tasks, got %d", len(result))
	}
	if result[0].Title != "Read Chapter 1" || result[2].Title != "Read Chapter 2" {
		t.Errorf("surviving tasks out of order: %+v", result)
	}
}
