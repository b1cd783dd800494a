package model

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// IndexedLine is one line of the source document with its position.
// Lines are created once at pipeline entry and never mutated.
type IndexedLine struct {
	Index int    `json:"index"`
	Text  string `json:"text"`
}

// DateCandidate is a date-like token found by the regex scanner,
// tied to the line it was found on. Duplicate tokens on different
// lines are kept distinct; segmentation decides which ones matter.
type DateCandidate struct {
	DateString string `json:"date_string"`
	LineIndex  int    `json:"line_index"`
	RawMatch   string `json:"raw_match"`
}

// ScheduleBlock is a contiguous span of lines anchored to one
// class-session date, produced by the segmentation call.
type ScheduleBlock struct {
	DateString    string `json:"date_string"`
	SessionNumber int    `json:"session_number,omitempty"`
	LineIndices   []int  `json:"line_indices"`
	RawBlock      string `json:"raw_block"`
}

// NonScheduleBlock is text outside the schedule (grading policies,
// honor code, etc.) kept for the audit stage.
type NonScheduleBlock struct {
	Title       string `json:"title"`
	LineIndices []int  `json:"line_indices"`
	RawBlock    string `json:"raw_block"`
}

// SessionDate maps one session number to its calendar date string.
type SessionDate struct {
	SessionNumber int    `json:"session_number"`
	Date          string `json:"date"`
}

// SegmentationResult is the output contract of the segmentation call.
type SegmentationResult struct {
	ScheduleBlocks    []ScheduleBlock    `json:"schedule_blocks"`
	SessionDates      []SessionDate      `json:"session_dates"`
	NonScheduleBlocks []NonScheduleBlock `json:"non_schedule_blocks"`
}

// SessionDateMap looks up a class/session ordinal to its date string.
// Every session number has at most one date; the first writer wins.
type SessionDateMap map[int]string

// AddIfAbsent records a session date unless the number is already mapped.
func (m SessionDateMap) AddIfAbsent(sessionNumber int, date string) {
	if sessionNumber <= 0 || date == "" {
		return
	}
	if _, ok := m[sessionNumber]; !ok {
		m[sessionNumber] = date
	}
}

// ToSortedList serializes the map as an ordered session_dates array
// for the per-block extraction prompt.
func (m SessionDateMap) ToSortedList() []SessionDate {
	list := make([]SessionDate, 0, len(m))
	max := 0
	for n := range m {
		if n > max {
			max = n
		}
	}
	for n := 1; n <= max; n++ {
		if date, ok := m[n]; ok {
			list = append(list, SessionDate{SessionNumber: n, Date: date})
		}
	}
	return list
}

// ItemKind tags the variants of a RawExtractedItem.
type ItemKind string

const (
	ItemKindClassSession ItemKind = "class_session"
	ItemKindHardDeadline ItemKind = "hard_deadline"
	ItemKindIgnore       ItemKind = "ignore"
)

// TaskType classifies a flattened task.
type TaskType string

const (
	TaskTypeAssignment     TaskType = "assignment"
	TaskTypeExam           TaskType = "exam"
	TaskTypeProject        TaskType = "project"
	TaskTypeAssessment     TaskType = "assessment"
	TaskTypeAdministrative TaskType = "administrative"
	TaskTypeReading        TaskType = "reading"
)

// IsGraded reports whether the type carries grade weight. Readings and
// administrative items are exempt from latest-date deduplication because
// they may legitimately recur across sessions.
func (t TaskType) IsGraded() bool {
	switch t {
	case TaskTypeAssignment, TaskTypeExam, TaskTypeProject, TaskTypeAssessment:
		return true
	}
	return false
}

// ReadingTask is a prep/mandatory/optional reading attached to a class session.
type ReadingTask struct {
	Title       string `json:"title"`
	Type        string `json:"type,omitempty"` // reading_preparatory | reading_mandatory | reading_optional
	Description string `json:"description,omitempty"`
}

// DeadlineDetail is one hard deadline inside an extracted item.
type DeadlineDetail struct {
	Title          string   `json:"title"`
	Type           TaskType `json:"type"`
	Description    string   `json:"description,omitempty"`
	AssessmentName string   `json:"assessment_name,omitempty"`
	IsOptional     bool     `json:"is_optional,omitempty"`
	Conditions     string   `json:"conditions,omitempty"`
}

// RawExtractedItem is the tagged output of the per-block extraction call.
// A class_session carries readings and embedded deadlines; a hard_deadline
// carries only deadlines (typically forward references resolved to a
// future session's date).
type RawExtractedItem struct {
	Kind           ItemKind         `json:"kind"`
	DateString     string           `json:"date_string"`
	SessionTitle   string           `json:"session_title,omitempty"`
	PrepTasks      []ReadingTask    `json:"prep_tasks,omitempty"`
	MandatoryTasks []ReadingTask    `json:"mandatory_tasks,omitempty"`
	HardDeadlines  []DeadlineDetail `json:"hard_deadlines,omitempty"`
}

// Hours is an integer hour count that tolerates the sloppy encodings
// inference output actually contains: floats, numeric strings, null.
// Fractional hours are truncated; anything unreadable decodes to zero and
// is normalized to the default later.
type Hours int

func (h *Hours) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "" || s == "null" {
		*h = 0
		return nil
	}
	s = strings.Trim(s, `"`)
	if f, err := strconv.ParseFloat(s, 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
		if f < 0 {
			f = 0
		}
		*h = Hours(int(f))
		return nil
	}
	*h = 0
	return nil
}

func (h Hours) MarshalJSON() ([]byte, error) {
	return json.Marshal(int(h))
}

// FlatTask is the canonical unit from flattening onward.
// Identity key is (date, type, normalized title).
type FlatTask struct {
	Date           string   `json:"date"`
	Type           TaskType `json:"type"`
	Title          string   `json:"title"`
	Description    string   `json:"description,omitempty"`
	AssessmentName string   `json:"assessment_name,omitempty"`
	ReadingType    string   `json:"reading_type,omitempty"`
	IsOptional     bool     `json:"is_optional,omitempty"`
	Conditions     string   `json:"conditions,omitempty"`

	// Workload fields, attached by the estimation stage.
	EstimatedHours    Hours  `json:"estimated_hours"`
	WorkloadBreakdown string `json:"workload_breakdown,omitempty"`
	Confidence        string `json:"confidence,omitempty"` // high | medium | low
	Notes             string `json:"notes,omitempty"`
}

// NormalizedTitle returns the title form used for identity comparison.
func (t FlatTask) NormalizedTitle() string {
	return strings.ToLower(strings.TrimSpace(t.Title))
}

// Key is the exact-dedup identity of the task.
func (t FlatTask) Key() string {
	return t.Date + "|" + string(t.Type) + "|" + t.NormalizedTitle()
}

// AssessmentComponent is a graded component declared in the grading
// section of the syllabus. Supplied by the caller or derived from the
// document; never mutated by the pipeline.
type AssessmentComponent struct {
	Name   string `json:"name" validate:"required"`
	Weight string `json:"weight,omitempty"`
}

// AuditAnomaly is a single finding from the consistency audit.
type AuditAnomaly struct {
	Type    string `json:"type"`
	Details string `json:"details"`
}

// MissingAssessment is a graded component with no matching dated deadline.
type MissingAssessment struct {
	ComponentName string `json:"component_name"`
	Reason        string `json:"reason"`
}

// UnmatchedDeadline is an extracted deadline that maps to no graded component.
type UnmatchedDeadline struct {
	Title  string `json:"title"`
	Date   string `json:"date"`
	Reason string `json:"reason"`
}

// AuditReport is the output contract of the consistency audit call.
type AuditReport struct {
	ValidatedItems     []FlatTask          `json:"validated_items"`
	MissingAssessments []MissingAssessment `json:"missing_assessments,omitempty"`
	UnmatchedDeadlines []UnmatchedDeadline `json:"unmatched_deadlines,omitempty"`
	Inconsistencies    []AuditAnomaly      `json:"inconsistencies,omitempty"`
	OtherAnomalies     []AuditAnomaly      `json:"other_anomalies,omitempty"`
	Summary            string              `json:"summary,omitempty"`
}

// ExtractionResult is what the pipeline hands back to the caller.
// Entities inside it never outlive the request; persistence is the
// caller's concern.
type ExtractionResult struct {
	Success    bool         `json:"success"`
	RunID      string       `json:"run_id,omitempty"`
	Items      []FlatTask   `json:"items_with_workload"`
	AuditRep   *AuditReport `json:"qa_report,omitempty"`
	TotalHours int          `json:"total_estimated_hours"`
	ItemsCount int          `json:"items_count"`
	Error      string       `json:"error,omitempty"`
}
