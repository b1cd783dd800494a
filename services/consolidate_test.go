package services

import (
	"testing"

	"github.com/sahilchouksey/syllabus-planner/model"
)

func sessionWithReadings(date string, titles ...string) model.RawExtractedItem {
	readings := make([]model.ReadingTask, len(titles))
	for i, title := range titles {
		readings[i] = model.ReadingTask{Title: title}
	}
	return model.RawExtractedItem{
		Kind:           model.ItemKindClassSession,
		DateString:     date,
		MandatoryTasks: readings,
	}
}

func allReadingTitles(items []model.RawExtractedItem) []string {
	var titles []string
	for _, item := range items {
		for _, r := range item.PrepTasks {
			titles = append(titles, r.Title)
		}
		for _, r := range item.MandatoryTasks {
			titles = append(titles, r.Title)
		}
	}
	return titles
}

func TestConsolidateDropsStrictChapterSubset(t *testing.T) {
	items := []model.RawExtractedItem{
		sessionWithReadings("Oct 22", "Read Chapters 1-3", "Read Chapter 3"),
	}

	result := ConsolidateOverlappingReadings(items)
	titles := allReadingTitles(result)

	if len(titles) != 1 || titles[0] != "Read Chapters 1-3" {
		t.Errorf("expected only the broad reading to survive, got %v", titles)
	}
}

func TestConsolidateDropsStrictPageSubset(t *testing.T) {
	items := []model.RawExtractedItem{
		sessionWithReadings("Nov 5", "Textbook pp. 15-82", "Textbook pp. 20-30"),
	}

	result := ConsolidateOverlappingReadings(items)
	titles := allReadingTitles(result)

	if len(titles) != 1 || titles[0] != "Textbook pp. 15-82" {
		t.Errorf("expected only the broad page range to survive, got %v", titles)
	}
}

func TestConsolidateKeepsEqualRanges(t *testing.T) {
	// Identical coverage is not a strict subset; both survive and exact
	// dedup decides later.
	items := []model.RawExtractedItem{
		sessionWithReadings("Oct 22", "Chapter 2 of the textbook", "Read Chapter 2 carefully"),
	}

	result := ConsolidateOverlappingReadings(items)
	if titles := allReadingTitles(result); len(titles) != 2 {
		t.Errorf("equal ranges must both survive, got %v", titles)
	}
}

func TestConsolidateRespectsDateBoundaries(t *testing.T) {
	items := []model.RawExtractedItem{
		sessionWithReadings("Oct 22", "Read Chapters 1-3"),
		sessionWithReadings("Oct 29", "Read Chapter 3"),
	}

	result := ConsolidateOverlappingReadings(items)
	if titles := allReadingTitles(result); len(titles) != 2 {
		t.Errorf("readings on different dates must not be compared, got %v", titles)
	}
}

func TestConsolidateLeavesUnparseableTitlesAlone(t *testing.T) {
	items := []model.RawExtractedItem{
		sessionWithReadings("Oct 22", "Read Chapters 1-3", "Lecture notes on negotiation"),
	}

	result := ConsolidateOverlappingReadings(items)
	if titles := allReadingTitles(result); len(titles) != 2 {
		t.Errorf("unparseable reading must survive, got %v", titles)
	}
}

func TestConsolidateNeverComparesChaptersToPages(t *testing.T) {
	items := []model.RawExtractedItem{
		sessionWithReadings("Oct 22", "Read Chapters 1-5", "Textbook pp. 2-3"),
	}

	result := ConsolidateOverlappingReadings(items)
	if titles := allReadingTitles(result); len(titles) != 2 {
		t.Errorf("chapter and page ranges are incomparable, got %v", titles)
	}
}

func TestConsolidateHandlesReadingTypedDeadlines(t *testing.T) {
	items := []model.RawExtractedItem{
		{
			Kind:       model.ItemKindClassSession,
			DateString: "Oct 22",
			MandatoryTasks: []model.ReadingTask{
				{Title: "Read Chapters 1-4"},
			},
			HardDeadlines: []model.DeadlineDetail{
				{Title: "Read Chapter 2", Type: model.TaskTypeReading},
				{Title: "Submit essay draft", Type: model.TaskTypeAssignment},
			},
		},
	}

	result := ConsolidateOverlappingReadings(items)

	if len(result[0].HardDeadlines) != 1 {
		t.Fatalf("expected subset reading deadline dropped, got %+v", result[0].HardDeadlines)
	}
	if result[0].HardDeadlines[0].Title != "Submit essay draft" {
		t.Errorf("non-reading deadline must pass through untouched")
	}
}
