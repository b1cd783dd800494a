package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/sahilchouksey/syllabus-planner/model"
	"github.com/sahilchouksey/syllabus-planner/services/digitalocean"
	"github.com/sahilchouksey/syllabus-planner/utils"
)

// segmentationSystemPrompt drives the first pipeline call: group the
// indexed lines into date-anchored schedule blocks without interpreting
// their content.
const segmentationSystemPrompt = `You are the Segmentation Agent for a university syllabus.
PDF extraction often breaks tables, wraps lines strangely, and scatters schedule information across multiple lines. You reconstruct this into coherent blocks.

You do NOT interpret the pedagogical meaning of the text and you do NOT extract assignments or deadlines. You only:
1. Identify all lines that describe the course schedule, class meetings, and date-based events (tables, "Week 1", "Session 2", "Detailed Schedule").
2. Group consecutive lines into schedule blocks, where each block corresponds to a single primary date_string. Include ALL lines that belong to that date's session (week label, date, topic, readings, assignments, notes). Forward-looking references like "by class #3" or "prior to next class" belong to the block where they appear; a later stage resolves them.
3. Ignore purely decorative headers/footers and column labels like "Day / Instructor / Topic".
4. Build a "session_dates" array mapping session/class numbers (from text like "Class 1", "Session 2", "Week 3") to their calendar date strings.
5. Group relevant non-schedule content ("Assessment & Grading", "Exams", "Policies") into non_schedule_blocks.
6. Do NOT invent dates. Every date_string must appear in the provided date candidates or literally in the text.

Return a single JSON object:
{
  "schedule_blocks": [
    {"date_string": "<canonical date string>", "session_number": <optional int>, "line_indices": [ints], "raw_block": "concatenated raw text for this block"}
  ],
  "session_dates": [
    {"session_number": 1, "date": "Oct 22"}
  ],
  "non_schedule_blocks": [
    {"title": "short label, e.g. 'Assessment & Grading'", "line_indices": [ints], "raw_block": "concatenated raw text"}
  ]
}`

// segmentationInput is the structured payload serialized into the user prompt
type segmentationInput struct {
	IndexedLines   []model.IndexedLine   `json:"indexed_lines"`
	DateCandidates []model.DateCandidate `json:"date_candidates"`
	SectionHints   []string              `json:"sections_hint"`
}

// segmentDocument runs the segmentation call and parses its output.
// A segmentation failure aborts the whole run: no default blocks are
// fabricated when the model's output cannot be salvaged.
func (s *DeadlineExtractionService) segmentDocument(
	ctx context.Context,
	lines []model.IndexedLine,
	candidates []model.DateCandidate,
) (*model.SegmentationResult, error) {
	input := segmentationInput{
		IndexedLines:   lines,
		DateCandidates: candidates,
		SectionHints:   []string{},
	}

	payload, err := json.MarshalIndent(input, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to serialize segmentation input: %w", err)
	}

	userPrompt := "Segment the following syllabus:\n\n" + s.truncateForPrompt(string(payload))

	response, err := s.reasoning.JSONCompletion(
		ctx,
		segmentationSystemPrompt,
		userPrompt,
		digitalocean.WithInferenceMaxTokens(s.config.MaxTokens),
		digitalocean.WithInferenceTemperature(s.config.Temperature),
	)
	if err != nil {
		return nil, fmt.Errorf("segmentation call failed: %w", err)
	}

	var result model.SegmentationResult
	if err := utils.ExtractJSONTo(response, &result); err != nil {
		return nil, fmt.Errorf("segmentation output is not valid JSON: %w", err)
	}

	if len(result.ScheduleBlocks) == 0 {
		return nil, fmt.Errorf("no schedule blocks found")
	}

	log.Printf("[Segmenter] %d schedule blocks, %d explicit session dates, %d non-schedule blocks",
		len(result.ScheduleBlocks), len(result.SessionDates), len(result.NonScheduleBlocks))

	return &result, nil
}

// BuildSessionDateMap merges the segmenter's explicit session_dates with a
// positional fallback over the block order. The explicit mapping is applied
// first; blocks carrying their own session_number fill gaps; blocks without
// one get sequential numbers by position. An already-mapped session number
// is never overwritten.
//
// The positional fallback can mis-map documents whose schedule blocks are
// not in chronological class order; it is a heuristic, not a guarantee.
func BuildSessionDateMap(seg *model.SegmentationResult) model.SessionDateMap {
	sessionDates := make(model.SessionDateMap)

	for _, sd := range seg.SessionDates {
		sessionDates.AddIfAbsent(sd.SessionNumber, sd.Date)
	}

	for idx, block := range seg.ScheduleBlocks {
		if block.DateString == "" {
			continue
		}
		if block.SessionNumber > 0 {
			sessionDates.AddIfAbsent(block.SessionNumber, block.DateString)
		} else {
			sessionDates.AddIfAbsent(idx+1, block.DateString)
		}
	}

	return sessionDates
}
