package services

import (
	"log"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/sahilchouksey/syllabus-planner/model"
)

// DeduplicateExact removes tasks sharing an identical (date, type, title)
// key. The first occurrence wins and input order is preserved, so the pass
// is idempotent.
func DeduplicateExact(tasks []model.FlatTask) []model.FlatTask {
	seen := make(map[string]bool, len(tasks))
	unique := make([]model.FlatTask, 0, len(tasks))
	for _, task := range tasks {
		key := task.Key()
		if seen[key] {
			continue
		}
		seen[key] = true
		unique = append(unique, task)
	}
	return unique
}

var taskDateFormats = []string{
	"Jan 2",
	"January 2",
	"1/2/2006",
	"1/2",
	"2006-01-02",
}

var digitsRegex = regexp.MustCompile(`\d+`)

// ParseTaskDate parses the date formats syllabi actually use: short and long
// month names, numeric M/D with or without year, and ISO. A year-less date
// gets the current calendar year, which can misassign syllabi for a past or
// future term; the source formats carry no better signal. Unparsable dates
// return the zero time so they sort before everything else.
func ParseTaskDate(dateStr string) time.Time {
	dateStr = strings.TrimSpace(dateStr)
	if dateStr == "" {
		return time.Time{}
	}

	for _, format := range taskDateFormats {
		parsed, err := time.Parse(format, dateStr)
		if err != nil {
			continue
		}
		if parsed.Year() == 0 {
			parsed = parsed.AddDate(time.Now().Year(), 0, 0)
		}
		return parsed
	}

	// Last resort: read bare numbers as month then day
	nums := digitsRegex.FindAllString(dateStr, -1)
	if len(nums) > 0 {
		month, _ := strconv.Atoi(nums[0])
		day := 1
		if len(nums) > 1 {
			day, _ = strconv.Atoi(nums[1])
		}
		if month >= 1 && month <= 12 && day >= 1 && day <= 31 {
			return time.Date(time.Now().Year(), time.Month(month), day, 0, 0, 0, 0, time.UTC)
		}
	}

	return time.Time{}
}

// DeduplicateByTitleKeepLatest collapses graded tasks with the same
// normalized title mentioned on multiple dates down to the latest date.
// A graded task's true identity is its final due date: earlier mentions
// are introductions ("get started on X"), later ones past-due reminders.
// Readings and administrative items are exempt because they legitimately
// recur.
func DeduplicateByTitleKeepLatest(tasks []model.FlatTask) []model.FlatTask {
	type group struct {
		first int // position of first member, to keep output order stable
		items []model.FlatTask
	}

	groups := make(map[string]*group)
	order := make([]string, 0)
	var passthrough []model.FlatTask
	passthroughPos := make([]int, 0)

	for pos, task := range tasks {
		if !task.Type.IsGraded() {
			passthrough = append(passthrough, task)
			passthroughPos = append(passthroughPos, pos)
			continue
		}
		key := string(task.Type) + "|" + task.NormalizedTitle()
		g, ok := groups[key]
		if !ok {
			g = &group{first: pos}
			groups[key] = g
			order = append(order, key)
		}
		g.items = append(g.items, task)
	}

	type placed struct {
		pos  int
		task model.FlatTask
	}
	result := make([]placed, 0, len(tasks))

	removed := 0
	for _, key := range order {
		g := groups[key]
		latest := g.items[0]
		latestDate := ParseTaskDate(latest.Date)
		for _, candidate := range g.items[1:] {
			if d := ParseTaskDate(candidate.Date); d.After(latestDate) {
				latest = candidate
				latestDate = d
			}
		}
		removed += len(g.items) - 1
		result = append(result, placed{pos: g.first, task: latest})
	}
	for i, task := range passthrough {
		result = append(result, placed{pos: passthroughPos[i], task: task})
	}

	// Restore original ordering
	for i := 1; i < len(result); i++ {
		for j := i; j > 0 && result[j-1].pos > result[j].pos; j-- {
			result[j-1], result[j] = result[j], result[j-1]
		}
	}

	if removed > 0 {
		log.Printf("[Dedup] Removed %d duplicate graded-task mentions across dates", removed)
	}

	final := make([]model.FlatTask, len(result))
	for i, p := range result {
		final[i] = p.task
	}
	return final
}
