package services

import (
	"context"
	"encoding/json"
	"log"

	"github.com/sahilchouksey/syllabus-planner/model"
	"github.com/sahilchouksey/syllabus-planner/services/digitalocean"
	"github.com/sahilchouksey/syllabus-planner/utils"
)

// workloadSystemPrompt drives the workload estimation call.
const workloadSystemPrompt = `You are the Academic Workload Estimation Agent.
For each item (deadline, reading, assignment, exam, project) estimate the realistic time a student needs to complete it.

ESTIMATION GUIDELINES:
- Readings: 15-25 pages/hour for moderate difficulty, 10-15 pages/hour for dense material, plus note-taking time.
- Essays/Papers: 2-4 hours per page for research + writing + revision; a 3-4 page paper is 8-15 hours.
- Exams: study time of 2-4 hours per exam hour; midterms 6-12 hours, finals 15-25 hours.
- Projects: small 10-20 hours, major 30-60+ hours including research, implementation, writing, presentation prep.
- Presentations: 1-2 hours per minute of presentation.
- Problem sets: 3-8 hours depending on complexity.
- Class preparation: 1-2 hours per session.
- Reflections/journals: 1-3 hours.

Weigh grade impact (higher weight deserves more thorough prep), complexity signals in the description, research or creative work, group work, and stated length or scope. Be realistic and slightly conservative.

Return a JSON array of ALL input items with every original field preserved, plus:
  "estimated_hours": <integer>,
  "workload_breakdown": "Research (5h) + Writing (7h) + Revision (3h)",
  "confidence": "high" | "medium" | "low",
  "notes": "assumptions behind the estimate"`

// workloadInput is the structured payload for the estimation call
type workloadInput struct {
	ValidatedItems       []model.FlatTask            `json:"validated_items"`
	AssessmentComponents []model.AssessmentComponent `json:"assessment_components"`
	FullText             string                      `json:"full_text"`
}

// estimateWorkload attaches hour estimates to every task. Like the audit,
// estimation failure never blocks the run: the unannotated tasks come back
// and get default hours in normalization.
func (s *DeadlineExtractionService) estimateWorkload(
	ctx context.Context,
	tasks []model.FlatTask,
	components []model.AssessmentComponent,
	documentText string,
) []model.FlatTask {
	excerpt := documentText
	if len(excerpt) > s.config.WorkloadContextChars {
		excerpt = excerpt[:s.config.WorkloadContextChars]
	}

	input := workloadInput{
		ValidatedItems:       tasks,
		AssessmentComponents: components,
		FullText:             excerpt,
	}
	if input.AssessmentComponents == nil {
		input.AssessmentComponents = []model.AssessmentComponent{}
	}

	payload, err := json.MarshalIndent(input, "", "  ")
	if err != nil {
		log.Printf("[Workload] Failed to serialize estimation input, keeping unannotated items: %v", err)
		return tasks
	}

	userPrompt := "Estimate workload for these syllabus items:\n\n" + s.truncateForPrompt(string(payload))

	response, err := s.reasoning.JSONCompletion(
		ctx,
		workloadSystemPrompt,
		userPrompt,
		digitalocean.WithInferenceMaxTokens(s.config.MaxTokens),
		digitalocean.WithInferenceTemperature(s.config.Temperature),
	)
	if err != nil {
		log.Printf("[Workload] Estimation call failed, keeping unannotated items: %v", err)
		return tasks
	}

	var estimated []model.FlatTask
	if err := utils.ExtractJSONTo(response, &estimated); err != nil {
		log.Printf("[Workload] Estimation output unparsable, keeping unannotated items: %v", err)
		return tasks
	}
	if len(estimated) == 0 {
		return tasks
	}

	return estimated
}

// NormalizeWorkloadHours guarantees every task carries a positive integer
// hours estimate. Fractional and string-encoded hours were already coerced
// during decoding; missing or zero values get the configured default.
func NormalizeWorkloadHours(tasks []model.FlatTask, defaultHours int) []model.FlatTask {
	for i := range tasks {
		if tasks[i].EstimatedHours <= 0 {
			tasks[i].EstimatedHours = model.Hours(defaultHours)
		}
	}
	return tasks
}

// TotalEstimatedHours sums the workload across all tasks.
func TotalEstimatedHours(tasks []model.FlatTask) int {
	total := 0
	for _, task := range tasks {
		total += int(task.EstimatedHours)
	}
	return total
}
