package services

import (
	"log"
	"regexp"
	"strconv"

	"github.com/sahilchouksey/syllabus-planner/model"
)

// Range patterns for reading titles: "chapter 1-3", "chapters 2-4", "Ch. 3",
// "pp. 15-82", "pages 83-102", "p. 45". En/em dashes show up in PDF text.
var (
	chapterRangeRegex = regexp.MustCompile(`(?i)(?:chapter|ch\.?)s?\s+(\d+)(?:\s*[-–—]\s*(\d+))?`)
	pageRangeRegex    = regexp.MustCompile(`(?i)(?:pp?\.?|pages?)\s+(\d+)(?:\s*[-–—]\s*(\d+))?`)
)

// readingRange is the parsed chapter and page coverage of one reading title
type readingRange struct {
	chapters map[int]bool
	pages    map[int]bool
}

func parseNumberSet(re *regexp.Regexp, title string) map[int]bool {
	m := re.FindStringSubmatch(title)
	if m == nil {
		return nil
	}
	start, err := strconv.Atoi(m[1])
	if err != nil {
		return nil
	}
	end := start
	if m[2] != "" {
		if e, err := strconv.Atoi(m[2]); err == nil && e >= start {
			end = e
		}
	}
	set := make(map[int]bool, end-start+1)
	for n := start; n <= end; n++ {
		set[n] = true
	}
	return set
}

func parseReadingRange(title string) readingRange {
	return readingRange{
		chapters: parseNumberSet(chapterRangeRegex, title),
		pages:    parseNumberSet(pageRangeRegex, title),
	}
}

// isStrictSubset reports whether a is a non-empty, non-equal subset of b
func isStrictSubset(a, b map[int]bool) bool {
	if len(a) == 0 || len(b) <= len(a) {
		return false
	}
	for n := range a {
		if !b[n] {
			return false
		}
	}
	return true
}

// encompassedBy reports whether reading a is fully contained in reading b,
// comparing chapters to chapters and pages to pages. Unparseable ranges
// never match: failing to consolidate beats discarding a distinct reading.
func encompassedBy(a, b readingRange) bool {
	return isStrictSubset(a.chapters, b.chapters) || isStrictSubset(a.pages, b.pages)
}

// readingRef points at one reading inside the raw item stream
type readingRef struct {
	title string
	rng   readingRange
}

// ConsolidateOverlappingReadings drops readings whose chapter/page range is a
// strict subset of another reading on the same date. "Read Chapters 1-3" and
// "Read Chapter 3" on one date collapse to the broader one. Readings on
// different dates are never compared, and non-reading items pass through
// untouched.
func ConsolidateOverlappingReadings(items []model.RawExtractedItem) []model.RawExtractedItem {
	// Inventory every reading per date: prep/mandatory tasks of class
	// sessions plus reading-typed deadlines.
	byDate := make(map[string][]readingRef)
	addRef := func(date, title string) {
		if date == "" || title == "" {
			return
		}
		byDate[date] = append(byDate[date], readingRef{title: title, rng: parseReadingRange(title)})
	}

	for _, item := range items {
		for _, task := range item.PrepTasks {
			addRef(item.DateString, task.Title)
		}
		for _, task := range item.MandatoryTasks {
			addRef(item.DateString, task.Title)
		}
		for _, dl := range item.HardDeadlines {
			if dl.Type == model.TaskTypeReading {
				addRef(item.DateString, dl.Title)
			}
		}
	}

	// A reading is dropped when some other same-date reading encompasses it
	dropped := func(date, title string) bool {
		refs := byDate[date]
		if len(refs) < 2 {
			return false
		}
		own := parseReadingRange(title)
		for _, other := range refs {
			if other.title == title {
				continue
			}
			if encompassedBy(own, other.rng) {
				return true
			}
		}
		return false
	}

	removed := 0
	result := make([]model.RawExtractedItem, 0, len(items))
	for _, item := range items {
		kept := item

		kept.PrepTasks = filterReadings(item.PrepTasks, item.DateString, dropped, &removed)
		kept.MandatoryTasks = filterReadings(item.MandatoryTasks, item.DateString, dropped, &removed)

		var deadlines []model.DeadlineDetail
		for _, dl := range item.HardDeadlines {
			if dl.Type == model.TaskTypeReading && dropped(item.DateString, dl.Title) {
				removed++
				continue
			}
			deadlines = append(deadlines, dl)
		}
		kept.HardDeadlines = deadlines

		result = append(result, kept)
	}

	if removed > 0 {
		log.Printf("[Consolidator] Removed %d overlapping readings", removed)
	}

	return result
}

func filterReadings(tasks []model.ReadingTask, date string, dropped func(string, string) bool, removed *int) []model.ReadingTask {
	if len(tasks) == 0 {
		return tasks
	}
	var kept []model.ReadingTask
	for _, task := range tasks {
		if dropped(date, task.Title) {
			*removed++
			continue
		}
		kept = append(kept, task)
	}
	return kept
}
