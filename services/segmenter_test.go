package services

import (
	"testing"

	"github.com/sahilchouksey/syllabus-planner/model"
)

func TestBuildSessionDateMapExplicitWins(t *testing.T) {
	seg := &model.SegmentationResult{
		SessionDates: []model.SessionDate{
			{SessionNumber: 1, Date: "Oct 22"},
			{SessionNumber: 3, Date: "Nov 5"},
			{SessionNumber: 5, Date: "Nov 19"},
		},
		ScheduleBlocks: []model.ScheduleBlock{
			{DateString: "Oct 99"}, // positional fallback would assign session 1
		},
	}

	sessionDates := BuildSessionDateMap(seg)

	if sessionDates[1] != "Oct 22" {
		t.Errorf("session 1 = %q, explicit mapping should not be overwritten", sessionDates[1])
	}
	if sessionDates[3] != "Nov 5" || sessionDates[5] != "Nov 19" {
		t.Errorf("explicit mappings lost: %+v", sessionDates)
	}
}

func TestBuildSessionDateMapBlockSessionNumbers(t *testing.T) {
	seg := &model.SegmentationResult{
		ScheduleBlocks: []model.ScheduleBlock{
			{SessionNumber: 2, DateString: "Oct 29"},
			{SessionNumber: 4, DateString: "Nov 12"},
		},
	}

	sessionDates := BuildSessionDateMap(seg)

	if sessionDates[2] != "Oct 29" || sessionDates[4] != "Nov 12" {
		t.Errorf("block session numbers not honored: %+v", sessionDates)
	}
	if _, ok := sessionDates[1]; ok {
		t.Errorf("no positional entry expected when blocks carry session numbers")
	}
}

func TestBuildSessionDateMapPositionalFallback(t *testing.T) {
	seg := &model.SegmentationResult{
		ScheduleBlocks: []model.ScheduleBlock{
			{DateString: "Oct 22"},
			{DateString: "Oct 29"},
			{DateString: ""}, // dateless block contributes nothing
			{DateString: "Nov 12"},
		},
	}

	sessionDates := BuildSessionDateMap(seg)

	if sessionDates[1] != "Oct 22" || sessionDates[2] != "Oct 29" {
		t.Errorf("positional fallback wrong: %+v", sessionDates)
	}
	if _, ok := sessionDates[3]; ok {
		t.Errorf("dateless block should not produce a mapping")
	}
	if sessionDates[4] != "Nov 12" {
		t.Errorf("session 4 = %q, want Nov 12", sessionDates[4])
	}
}

func TestSessionDateMapToSortedList(t *testing.T) {
	sessionDates := model.SessionDateMap{3: "Nov 5", 1: "Oct 22", 2: "Oct 29"}
	list := sessionDates.ToSortedList()

	if len(list) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(list))
	}
	for i, want := range []int{1, 2, 3} {
		if list[i].SessionNumber != want {
			t.Errorf("position %d has session %d, want %d", i, list[i].SessionNumber, want)
		}
	}
}
