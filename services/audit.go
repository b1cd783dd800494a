package services

import (
	"context"
	"encoding/json"
	"log"
	"strings"

	"github.com/sahilchouksey/syllabus-planner/model"
	"github.com/sahilchouksey/syllabus-planner/services/digitalocean"
	"github.com/sahilchouksey/syllabus-planner/utils"
)

// auditSystemPrompt drives the global consistency audit: coverage of graded
// components, duplicate detection across dates, and misclassification fixes.
const auditSystemPrompt = `You are the Global QA & Consistency Agent for a syllabus extraction pipeline.
You receive the flat list of extracted items, the graded assessment components, a preliminary component-to-task mapping, and raw non-schedule text.

Your job:
1. Coverage: for each SPECIFIC assessment component (exams, papers, projects with due dates), verify a corresponding hard deadline exists. Ignore general/ongoing components like "Participation" or "Attendance".
2. Report missing assessments: specific components with no dated deadline.
3. Duplicate detection: tasks with identical or very similar titles on multiple dates are usually one task mentioned as introduction ("get started on X"), actual due date ("X due today") and past-due reminder ("you should have completed X"). For graded items keep ONLY the mention with the actual (latest) due date and report each removal in inconsistencies as {"type": "duplicate_deadline", "details": "..."}. Readings may legitimately recur; leave them alone.
4. Report unmatched deadlines: hard deadlines that map to no graded component.
5. Global sanity checks (e.g. a 40% Final Exam that never appears in the schedule).
6. You may fix obvious misclassifications (e.g. "Final Exam" typed as "assignment" instead of "exam").

CRITICAL CONSTRAINTS:
- Do NOT create new deadline items for components lacking specific dates.
- Do NOT invent dates or generic deadlines.
- Only report missing assessments; never add them to validated_items.
- Remove true duplicates from validated_items but preserve every legitimate item.

Return a single JSON object:
{
  "validated_items": [ /* final list with duplicates removed */ ],
  "missing_assessments": [{"component_name": "...", "reason": "..."}],
  "unmatched_deadlines": [{"title": "...", "date": "...", "reason": "..."}],
  "inconsistencies": [{"type": "duplicate_deadline" | "conflicting_type" | "grading_mismatch" | "other", "details": "..."}],
  "other_anomalies": [{"type": "...", "details": "..."}],
  "summary": "Short natural language summary of findings."
}`

// genericComponentKeywords mark ongoing components that cannot have a single
// dated deadline and would only tempt the audit into fabricating one.
var genericComponentKeywords = []string{
	"participation", "attendance", "class participation", "engagement", "general",
}

// FilterGenericComponents strips ongoing components (participation,
// attendance) before the audit sees them.
func FilterGenericComponents(components []model.AssessmentComponent) []model.AssessmentComponent {
	filtered := make([]model.AssessmentComponent, 0, len(components))
	for _, comp := range components {
		name := strings.ToLower(comp.Name)
		generic := false
		for _, keyword := range genericComponentKeywords {
			if strings.Contains(name, keyword) {
				generic = true
				break
			}
		}
		if !generic {
			filtered = append(filtered, comp)
		}
	}
	return filtered
}

// auditInput is the structured payload for the audit call
type auditInput struct {
	MergedTasks          []model.FlatTask            `json:"merged_tasks"`
	AssessmentComponents []model.AssessmentComponent `json:"assessment_components"`
	PreliminaryMapping   map[string]string           `json:"preliminary_mapping"`
	NonScheduleText      string                      `json:"non_schedule_text"`
}

// auditItems runs the consistency audit. Audit failure never blocks the
// pipeline: on any parse problem the pre-audit task list is used unmodified.
func (s *DeadlineExtractionService) auditItems(
	ctx context.Context,
	tasks []model.FlatTask,
	components []model.AssessmentComponent,
	nonScheduleText string,
) *model.AuditReport {
	input := auditInput{
		MergedTasks:          tasks,
		AssessmentComponents: FilterGenericComponents(components),
		PreliminaryMapping:   map[string]string{},
		NonScheduleText:      nonScheduleText,
	}

	fallback := &model.AuditReport{ValidatedItems: tasks}

	payload, err := json.MarshalIndent(input, "", "  ")
	if err != nil {
		log.Printf("[Auditor] Failed to serialize audit input, skipping audit: %v", err)
		return fallback
	}

	userPrompt := "Audit these extracted syllabus items:\n\n" + s.truncateForPrompt(string(payload))

	response, err := s.reasoning.JSONCompletion(
		ctx,
		auditSystemPrompt,
		userPrompt,
		digitalocean.WithInferenceMaxTokens(s.config.MaxTokens),
		digitalocean.WithInferenceTemperature(s.config.Temperature),
	)
	if err != nil {
		log.Printf("[Auditor] Audit call failed, using pre-audit items: %v", err)
		return fallback
	}

	var report model.AuditReport
	if err := utils.ExtractJSONTo(response, &report); err != nil {
		log.Printf("[Auditor] Audit output unparsable, using pre-audit items: %v", err)
		return fallback
	}

	if report.ValidatedItems == nil {
		report.ValidatedItems = tasks
	}

	log.Printf("[Auditor] %d validated items, %d missing assessments, %d unmatched deadlines",
		len(report.ValidatedItems), len(report.MissingAssessments), len(report.UnmatchedDeadlines))

	return &report
}

// auditGuard validates the audit did not invent work: validated items whose
// normalized title never appeared before the audit are discarded. The
// auditor may prune and reclassify, never create.
func auditGuard(preAudit, validated []model.FlatTask) []model.FlatTask {
	known := make(map[string]bool, len(preAudit))
	for _, task := range preAudit {
		known[task.NormalizedTitle()] = true
	}

	kept := make([]model.FlatTask, 0, len(validated))
	invented := 0
	for _, task := range validated {
		if !known[task.NormalizedTitle()] {
			invented++
			continue
		}
		kept = append(kept, task)
	}
	if invented > 0 {
		log.Printf("[Auditor] Discarded %d items the audit invented", invented)
	}
	return kept
}
