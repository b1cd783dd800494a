package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/sahilchouksey/syllabus-planner/model"
	"github.com/sahilchouksey/syllabus-planner/services/digitalocean"
	"github.com/sahilchouksey/syllabus-planner/utils"
)

// extractionSystemPrompt drives the per-block extraction call. This is the
// densest contract in the pipeline: it owns forward-reference resolution,
// duplicate prevention, conditional-task detection and type classification.
const extractionSystemPrompt = `You are the Schedule Interpretation / Task Extraction Agent for a university syllabus.
You receive one schedule block at a time, already segmented: its raw text, its primary date_string, a session_dates mapping (session number -> calendar date), and the list of graded assessment components.

For this single block identify:
- Class session information (topic, title, week label).
- Preparatory readings and mandatory/optional readings for THIS session only.
- Hard deadlines: anything clearly due, to be submitted, exam dates, quizzes, tests, projects.

DATE RULES (in priority order):
1. An explicit calendar date in the text ("March 15", "3/15/2024", "Oct 22") wins; preserve its exact format, never reformat.
2. If only relative labels exist ("Week 1", "Session 2"), use the block's date_string.
3. Resolve forward references using session_dates (see below).
Never invent dates that appear neither in the text nor in session_dates.

FORWARD REFERENCES. Phrases like "by class #X", "by session X", "prior to the Xth class", "before next session", "due [date]", "watch video for next week" name an obligation due at a FUTURE session:
- Do NOT put these in prep_tasks or mandatory_tasks and do NOT date them with the current block's date_string.
- Create a SEPARATE item with kind="hard_deadline" carrying the RESOLVED date.
- "by class #3": look up session_number=3 in session_dates and use that date.
- "prior to next class" with no number: use the session immediately after this block's session number.
- If the named session number is not in session_dates, skip that task entirely. Do not guess.
- "get started on X, due [date]": create exactly ONE task dated at the DUE date. The start phrase is never its own task.

DUPLICATE PREVENTION. Tasks are often mentioned multiple times (introduction, reminder, actual due date). Extract each task once, at its explicit due date:
- Skip pure introduction mentions: "get started on", "begin working on", "consider", "start thinking about", "make progress on".
- Skip past-tense reminders: "you should have completed X", "X was due yesterday".
- Extract when deadline keywords appear: "due", "submit by", "turn in", "deadline", "hand in".
- If unsure whether a mention is a duplicate, extract it; missing a task is worse.

CONDITIONAL TASKS. Keywords like "if you are", "for those who", "students who already", "optional", "choose one of", "OR" mark conditional work: set is_optional=true and put the full conditional clause into "conditions" (who it applies to, or when). "Choose either A OR B" yields two tasks, both optional, both carrying the choice in conditions. Default is_optional=false and conditions="" otherwise.

TYPE CLASSIFICATION (apply in this order):
1. If the title matches an assessment component name (even partially), the task is GRADED: type must be "assignment", "exam" or "project" and NEVER "reading", even if it involves watching videos or reading a case.
2. If the text mentions points, percentage or weight ("10 pts", "5% of grade"), use "assignment" or "exam".
3. Keywords: exam/test/quiz/midterm/final -> "exam"; paper/project/write-up/presentation/submit/turn in/upload/survey/video task -> "assignment"; read chapter/read article/textbook/preparatory reading with no grading signal -> "reading".
4. Default: "reading" for genuinely unclear ungraded material, "assignment" when a submission or due cue exists. "administrative" is for non-academic tasks (registration, forms).

DESCRIPTIONS. Always carry page numbers ("pp. 15-82"), point values ("Worth 10 pts"), word counts, length requirements and deliverable formats into the description (max 300 chars). When a deadline matches an assessment component, link it via "assessment_name" and prefix the description with the component's weight as "[Weight: X pts]" or "[Weight: X%]".

Return a JSON ARRAY. Each element:
{
  "kind": "class_session" | "hard_deadline" | "ignore",
  "date_string": "<one of the allowed date strings>",
  "session_title": "optional, for class_session",
  "prep_tasks": [{"title": "...", "type": "reading_preparatory" | "reading_mandatory" | "reading_optional", "description": "optional, include page numbers"}],
  "mandatory_tasks": [{"title": "...", "type": "reading_mandatory" | "reading_optional", "description": "optional"}],
  "hard_deadlines": [{"title": "...", "type": "assignment" | "exam" | "project" | "assessment" | "administrative" | "reading", "description": "...", "assessment_name": "optional", "is_optional": false, "conditions": ""}]
}`

// blockExtractionInput is the structured payload for one block's call
type blockExtractionInput struct {
	BlockText            string                      `json:"block_text"`
	DateString           string                      `json:"date_string"`
	SessionDates         []model.SessionDate         `json:"session_dates"`
	AssessmentComponents []model.AssessmentComponent `json:"assessment_components"`
}

// gradedComponentsReminder builds the short textual reminder appended to each
// block, biasing classification of known graded components away from "reading".
func gradedComponentsReminder(components []model.AssessmentComponent) string {
	names := make([]string, 0, len(components))
	for _, comp := range components {
		if comp.Name != "" {
			names = append(names, comp.Name)
		}
	}
	listed := "None specified"
	if len(names) > 0 {
		listed = strings.Join(names, ", ")
	}
	return "\n\nREMINDER: The following components are GRADED and should be type='assignment' or 'exam' (NEVER 'reading'):\n" + listed
}

// extractBlock runs one extraction call for a single schedule block.
// A block whose output cannot be parsed as an array is skipped entirely;
// partial results are preferred over failing the whole run.
func (s *DeadlineExtractionService) extractBlock(
	ctx context.Context,
	block model.ScheduleBlock,
	sessionDates model.SessionDateMap,
	components []model.AssessmentComponent,
) ([]model.RawExtractedItem, error) {
	input := blockExtractionInput{
		BlockText:            block.RawBlock + gradedComponentsReminder(components),
		DateString:           block.DateString,
		SessionDates:         sessionDates.ToSortedList(),
		AssessmentComponents: components,
	}
	if input.AssessmentComponents == nil {
		input.AssessmentComponents = []model.AssessmentComponent{}
	}

	payload, err := json.MarshalIndent(input, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to serialize block input: %w", err)
	}

	userPrompt := "Extract tasks from this schedule block:\n\n" + s.truncateForPrompt(string(payload))

	response, err := s.reasoning.JSONCompletion(
		ctx,
		extractionSystemPrompt,
		userPrompt,
		digitalocean.WithInferenceMaxTokens(s.config.MaxTokens),
		digitalocean.WithInferenceTemperature(s.config.Temperature),
	)
	if err != nil {
		return nil, fmt.Errorf("block extraction call failed: %w", err)
	}

	var items []model.RawExtractedItem
	if err := utils.ExtractJSONTo(response, &items); err != nil {
		return nil, fmt.Errorf("block extraction output is not a valid JSON array: %w", err)
	}

	return items, nil
}

// extractAllBlocks runs the extraction call once per block, sequentially.
// Failed blocks only lose their own items.
func (s *DeadlineExtractionService) extractAllBlocks(
	ctx context.Context,
	blocks []model.ScheduleBlock,
	sessionDates model.SessionDateMap,
	components []model.AssessmentComponent,
) []model.RawExtractedItem {
	var allItems []model.RawExtractedItem
	for idx, block := range blocks {
		items, err := s.extractBlock(ctx, block, sessionDates, components)
		if err != nil {
			log.Printf("[Extractor] Block %d/%d (date %q) skipped: %v", idx+1, len(blocks), block.DateString, err)
			continue
		}
		allItems = append(allItems, items...)
	}
	log.Printf("[Extractor] %d items extracted from %d blocks", len(allItems), len(blocks))
	return allItems
}
