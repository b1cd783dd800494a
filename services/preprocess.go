package services

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/sahilchouksey/syllabus-planner/model"
)

// dateCandidateRegex matches the three date shapes we accept:
// numeric D[/.]M[/.]Y?, short month-name "Oct 22", long month-name "October 22".
var dateCandidateRegex = regexp.MustCompile(
	`(?i)\b(` +
		`(\d{1,2})[/.](\d{1,2})(?:[/.](\d{2,4}))?` +
		`|` +
		`(Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Sept|Oct|Nov|Dec)\.?\s+\d{1,2}` +
		`|` +
		`(January|February|March|April|May|June|July|August|September|October|November|December)\s+\d{1,2}` +
		`)\b`,
)

var (
	numericDateRegex   = regexp.MustCompile(`^(\d{1,2})[/.](\d{1,2})(?:[/.](\d{2,4}))?$`)
	bareFractionRegex  = regexp.MustCompile(`^[1-9]/[1-9]$`)
	shortMonthDayRegex = regexp.MustCompile(`(?i)^(?:jan|feb|mar|apr|may|jun|jul|aug|sep|sept|oct|nov|dec)[a-z]*\.?\s+\d{1,2}$`)
	longMonthDayRegex  = regexp.MustCompile(`(?i)^(?:january|february|march|april|may|june|july|august|september|october|november|december)\s+\d{1,2}$`)
)

// IndexLines splits raw document text into an ordered sequence of
// indexed lines. This is the only place lines are created.
func IndexLines(text string) []model.IndexedLine {
	raw := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	lines := make([]model.IndexedLine, len(raw))
	for i, line := range raw {
		lines[i] = model.IndexedLine{Index: i, Text: line}
	}
	return lines
}

// IsValidDateToken checks a candidate token against structural rules:
// numeric forms need day 1-31 and month 1-12 and must not look like a
// fraction-style enumeration ("1/2", "2/2"); month-name forms need a
// recognizable month word followed by a day. Tokens spanning a line
// break are never valid.
func IsValidDateToken(token string) bool {
	token = strings.TrimSpace(token)
	if token == "" || strings.Contains(token, "\n") {
		return false
	}

	if m := numericDateRegex.FindStringSubmatch(token); m != nil {
		if bareFractionRegex.MatchString(token) {
			return false
		}
		day, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		return day >= 1 && day <= 31 && month >= 1 && month <= 12
	}

	return shortMonthDayRegex.MatchString(token) || longMonthDayRegex.MatchString(token)
}

// ExtractDateCandidates scans every line for date-like tokens and keeps
// the ones that pass structural validation. Candidates are never merged;
// the same token on two lines yields two candidates, and segmentation
// decides which are relevant.
func ExtractDateCandidates(lines []model.IndexedLine) []model.DateCandidate {
	var candidates []model.DateCandidate
	for _, line := range lines {
		for _, match := range dateCandidateRegex.FindAllString(line.Text, -1) {
			token := strings.TrimSpace(match)
			if !IsValidDateToken(token) {
				continue
			}
			candidates = append(candidates, model.DateCandidate{
				DateString: token,
				LineIndex:  line.Index,
				RawMatch:   token,
			})
		}
	}
	return candidates
}
