package services

import (
	"encoding/json"
	"testing"

	"github.com/sahilchouksey/syllabus-planner/model"
)

func TestNormalizeWorkloadHours(t *testing.T) {
	tasks := []model.FlatTask{
		{Title: "Estimated", EstimatedHours: 8},
		{Title: "Missing"},
		{Title: "Negative", EstimatedHours: -2},
	}

	normalized := NormalizeWorkloadHours(tasks, 5)

	if normalized[0].EstimatedHours != 8 {
		t.Errorf("existing estimate must not change, got %d", normalized[0].EstimatedHours)
	}
	if normalized[1].EstimatedHours != 5 || normalized[2].EstimatedHours != 5 {
		t.Errorf("missing estimates must get the default, got %d and %d",
			normalized[1].EstimatedHours, normalized[2].EstimatedHours)
	}
}

func TestTotalEstimatedHours(t *testing.T) {
	tasks := []model.FlatTask{
		{EstimatedHours: 3},
		{EstimatedHours: 7},
		{EstimatedHours: 5},
	}

	if total := TotalEstimatedHours(tasks); total != 15 {
		t.Errorf("total = %d, want 15", total)
	}
}

func TestHoursDecodingIsLenient(t *testing.T) {
	cases := []struct {
		payload string
		want    model.Hours
	}{
		{`{"estimated_hours": 7}`, 7},
		{`{"estimated_hours": 7.5}`, 7},
		{`{"estimated_hours": "4"}`, 4},
		{`{"estimated_hours": "4.9"}`, 4},
		{`{"estimated_hours": null}`, 0},
		{`{"estimated_hours": "a lot"}`, 0},
		{`{"estimated_hours": -3}`, 0},
		{`{}`, 0},
	}

	for _, tc := range cases {
		var task model.FlatTask
		if err := json.Unmarshal([]byte(tc.payload), &task); err != nil {
			t.Errorf("unmarshal of %s must never fail: %v", tc.payload, err)
			continue
		}
		if task.EstimatedHours != tc.want {
			t.Errorf("hours from %s = %d, want %d", tc.payload, task.EstimatedHours, tc.want)
		}
	}
}
