package services

import (
	"context"
	"fmt"
	"log"
	"regexp"

	"github.com/sahilchouksey/syllabus-planner/model"
	"github.com/sahilchouksey/syllabus-planner/services/digitalocean"
	"github.com/sahilchouksey/syllabus-planner/utils"
)

var (
	assessmentHeadingRegex = regexp.MustCompile(`(?im)^(TESTS|ASSESSMENT METHODS|ASSESSMENT|EVALUATION|GRADING)\b`)
	sectionBreakRegex      = regexp.MustCompile(`(?im)^(ATTENDANCE|DETAILED SCHEDULE|COURSE ETIQUETTE|HONOR CODE|TEXTBOOKS AND REQUIRED READINGS)\b`)
)

// minAssessmentSectionChars guards against matching a stray heading with no
// body behind it.
const minAssessmentSectionChars = 80

// ExtractAssessmentSection locates the grading/assessment section of the
// syllabus, bounded by the next major section heading. Returns "" when no
// usable section is found.
func ExtractAssessmentSection(text string) string {
	loc := assessmentHeadingRegex.FindStringIndex(text)
	if loc == nil {
		return ""
	}

	section := text[loc[0]:]
	if breakLoc := sectionBreakRegex.FindStringIndex(text[loc[0]+1:]); breakLoc != nil {
		section = text[loc[0] : loc[0]+1+breakLoc[0]]
	}

	if len(section) < minAssessmentSectionChars {
		return ""
	}
	return section
}

// componentSchema is the JSON schema for structured component extraction
var componentSchema = map[string]interface{}{
	"type": "object",
	"properties": map[string]interface{}{
		"components": map[string]interface{}{
			"type":        "array",
			"description": "Graded assessment components declared in the grading section",
			"items": map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"name": map[string]interface{}{
						"type":        "string",
						"description": "Component name exactly as written (e.g. 'Final Paper', 'Sales-video task')",
					},
					"weight": map[string]interface{}{
						"type":        "string",
						"description": "Declared weight, preserving units (e.g. '30%', '10 pts')",
					},
				},
				"required": []string{"name"},
			},
		},
	},
	"required": []string{"components"},
}

const componentExtractionPrompt = `You are an expert at reading university grading policies.
Extract every graded assessment component from the provided grading/assessment section: name and declared weight (percentage or points), exactly as written. Include ongoing components like participation if they carry a weight. Do not invent components that are not in the text.`

// componentList matches the structured response shape
type componentList struct {
	Components []model.AssessmentComponent `json:"components"`
}

// DeriveAssessmentComponents parses graded components out of the document
// when the caller supplied none. Failures here are non-fatal: the pipeline
// simply runs without component hints.
func (s *DeadlineExtractionService) DeriveAssessmentComponents(ctx context.Context, documentText string) []model.AssessmentComponent {
	section := ExtractAssessmentSection(documentText)
	if section == "" {
		log.Printf("[Assessment Parser] No grading section found")
		return nil
	}

	userPrompt := fmt.Sprintf("Extract the graded components from this grading section:\n\n%s", s.truncateForPrompt(section))

	response, err := s.reasoning.StructuredCompletion(
		ctx,
		componentExtractionPrompt,
		userPrompt,
		"assessment_components",
		"Graded assessment components with their weights",
		componentSchema,
		digitalocean.WithInferenceMaxTokens(2048),
		digitalocean.WithInferenceTemperature(s.config.Temperature),
	)
	if err != nil {
		log.Printf("[Assessment Parser] Component extraction failed: %v", err)
		return nil
	}

	var list componentList
	if err := utils.ExtractJSONTo(response, &list); err != nil {
		log.Printf("[Assessment Parser] Component output unparsable: %v", err)
		return nil
	}

	log.Printf("[Assessment Parser] Derived %d graded components", len(list.Components))
	return list.Components
}
