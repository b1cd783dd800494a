package services

import (
	"testing"

	"github.com/sahilchouksey/syllabus-planner/model"
)

func TestFlattenClassSession(t *testing.T) {
	items := []model.RawExtractedItem{
		{
			Kind:         model.ItemKindClassSession,
			DateString:   "Oct 22",
			SessionTitle: "Negotiation Basics",
			PrepTasks: []model.ReadingTask{
				{Title: "Read Chapters 1-3"},
			},
			MandatoryTasks: []model.ReadingTask{
				{Title: "Case study: Acme Corp", Description: "Come prepared to discuss"},
			},
			HardDeadlines: []model.DeadlineDetail{
				{Title: "Reflection memo", Type: model.TaskTypeAssignment},
			},
		},
	}

	tasks := FlattenItems(items)
	if len(tasks) != 3 {
		t.Fatalf("expected 3 tasks, got %d", len(tasks))
	}

	prep := tasks[0]
	if prep.Type != model.TaskTypeReading || prep.ReadingType != "reading_preparatory" {
		t.Errorf("prep reading misclassified: %+v", prep)
	}
	if prep.Description != "Preparatory reading for Negotiation Basics" {
		t.Errorf("blank description not synthesized from session title: %q", prep.Description)
	}

	mandatory := tasks[1]
	if mandatory.Description != "Come prepared to discuss" {
		t.Errorf("supplied description must be copied verbatim: %q", mandatory.Description)
	}
	if mandatory.ReadingType != "reading_mandatory" {
		t.Errorf("mandatory reading type wrong: %q", mandatory.ReadingType)
	}

	if tasks[2].Type != model.TaskTypeAssignment || tasks[2].Date != "Oct 22" {
		t.Errorf("embedded deadline flattened wrong: %+v", tasks[2])
	}
}

func TestFlattenHardDeadlineItem(t *testing.T) {
	items := []model.RawExtractedItem{
		{
			Kind:       model.ItemKindHardDeadline,
			DateString: "Nov 5",
			HardDeadlines: []model.DeadlineDetail{
				{Title: "Sales-video task", Type: model.TaskTypeAssignment, Conditions: "Only if assigned to group B"},
				{Title: "Mystery submission"}, // untyped
			},
		},
	}

	tasks := FlattenItems(items)
	if len(tasks) != 2 {
		t.Fatalf("expected 2 tasks, got %d", len(tasks))
	}

	if tasks[0].Conditions != "Only if assigned to group B" {
		t.Errorf("conditions lost in flattening: %+v", tasks[0])
	}
	if tasks[1].Type != model.TaskTypeAssignment {
		t.Errorf("untyped deadline should default to assignment, got %q", tasks[1].Type)
	}
}

func TestFlattenSkipsBlankReadingTitles(t *testing.T) {
	items := []model.RawExtractedItem{
		{
			Kind:       model.ItemKindClassSession,
			DateString: "Oct 22",
			PrepTasks: []model.ReadingTask{
				{Title: "   "},
				{Title: "Real reading"},
			},
		},
	}

	tasks := FlattenItems(items)
	if len(tasks) != 1 || tasks[0].Title != "Real reading" {
		t.Errorf("blank-titled reading must be skipped, got %+v", tasks)
	}
}

func TestFlattenIgnoresIgnoreKind(t *testing.T) {
	items := []model.RawExtractedItem{
		{
			Kind:       model.ItemKindIgnore,
			DateString: "Oct 22",
			HardDeadlines: []model.DeadlineDetail{
				{Title: "Should never appear", Type: model.TaskTypeAssignment},
			},
		},
	}

	if tasks := FlattenItems(items); len(tasks) != 0 {
		t.Errorf("ignore items must contribute nothing, got %+v", tasks)
	}
}
