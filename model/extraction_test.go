package model

import (
	"encoding/json"
	"testing"
)

func TestFlatTaskKeyNormalizesTitle(t *testing.T) {
	a := FlatTask{Date: "Oct 22", Type: TaskTypeAssignment, Title: "Final Paper"}
	b := FlatTask{Date: "Oct 22", Type: TaskTypeAssignment, Title: "  final paper "}

	if a.Key() != b.Key() {
		t.Errorf("keys differ: %q vs %q", a.Key(), b.Key())
	}

	c := FlatTask{Date: "Oct 29", Type: TaskTypeAssignment, Title: "Final Paper"}
	if a.Key() == c.Key() {
		t.Errorf("different dates must produce different keys")
	}

	d := FlatTask{Date: "Oct 22", Type: TaskTypeExam, Title: "Final Paper"}
	if a.Key() == d.Key() {
		t.Errorf("different types must produce different keys")
	}
}

func TestTaskTypeIsGraded(t *testing.T) {
	graded := []TaskType{TaskTypeAssignment, TaskTypeExam, TaskTypeProject, TaskTypeAssessment}
	for _, tt := range graded {
		if !tt.IsGraded() {
			t.Errorf("%s should be graded", tt)
		}
	}

	ungraded := []TaskType{TaskTypeReading, TaskTypeAdministrative, TaskType("")}
	for _, tt := range ungraded {
		if tt.IsGraded() {
			t.Errorf("%s should not be graded", tt)
		}
	}
}

func TestSessionDateMapFirstWriterWins(t *testing.T) {
	sessionDates := make(SessionDateMap)

	sessionDates.AddIfAbsent(1, "Oct 22")
	sessionDates.AddIfAbsent(1, "Nov 5")

	if sessionDates[1] != "Oct 22" {
		t.Errorf("session 1 = %q, first writer must win", sessionDates[1])
	}
}

func TestHoursRoundTrip(t *testing.T) {
	task := FlatTask{Title: "Essay", EstimatedHours: 12}

	encoded, err := json.Marshal(task)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var decoded FlatTask
	if err := json.Unmarshal(encoded, &decoded); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if decoded.EstimatedHours != 12 {
		t.Errorf("hours round-tripped to %d", decoded.EstimatedHours)
	}
}

func TestHoursDecodesFractionsInsideArrays(t *testing.T) {
	// One fractional value must not poison the surrounding array
	payload := `[
		{"title": "A", "estimated_hours": 7.5},
		{"title": "B", "estimated_hours": 3}
	]`

	var tasks []FlatTask
	if err := json.Unmarshal([]byte(payload), &tasks); err != nil {
		t.Fatalf("array decode failed: %v", err)
	}
	if tasks[0].EstimatedHours != 7 || tasks[1].EstimatedHours != 3 {
		t.Errorf("got hours %d and %d", tasks[0].EstimatedHours, tasks[1].EstimatedHours)
	}
}
