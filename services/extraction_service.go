package services

import (
	"context"
	"log"
	"strings"

	"github.com/google/uuid"

	"github.com/sahilchouksey/syllabus-planner/model"
)

// DeadlineExtractionService runs the full syllabus extraction pipeline:
// preprocessing, segmentation, per-block extraction, consolidation,
// deduplication, audit, and workload estimation.
type DeadlineExtractionService struct {
	reasoning ReasoningClient
	config    PipelineConfig
}

// NewDeadlineExtractionService creates the pipeline service. Zero-valued
// config fields are filled with production defaults.
func NewDeadlineExtractionService(reasoning ReasoningClient, config PipelineConfig) *DeadlineExtractionService {
	return &DeadlineExtractionService{
		reasoning: reasoning,
		config:    config.withDefaults(),
	}
}

// truncateForPrompt caps inference input at the configured limit so a single
// oversized syllabus cannot blow the model's context window.
func (s *DeadlineExtractionService) truncateForPrompt(text string) string {
	if len(text) <= s.config.MaxPromptChars {
		return text
	}
	return text[:s.config.MaxPromptChars] + "\n\n[Document truncated due to length]"
}

func failedResult(runID, message string) *model.ExtractionResult {
	return &model.ExtractionResult{
		Success: false,
		RunID:   runID,
		Items:   []model.FlatTask{},
		Error:   message,
	}
}

// Extract runs the whole pipeline over raw syllabus text. components may be
// nil, in which case graded components are derived from the document's own
// grading section. The returned result always carries structured
// success/error state; the only error paths that abort a run are the ones
// where no usable output could exist at all.
func (s *DeadlineExtractionService) Extract(
	ctx context.Context,
	documentText string,
	components []model.AssessmentComponent,
) *model.ExtractionResult {
	runID := uuid.New().String()

	trimmed := strings.TrimSpace(documentText)
	if len(trimmed) < s.config.MinDocumentChars {
		return failedResult(runID, "Document too short to be a syllabus")
	}

	lines := IndexLines(documentText)
	candidates := ExtractDateCandidates(lines)
	log.Printf("[Pipeline %s] %d lines indexed, %d date candidates", runID, len(lines), len(candidates))
	if len(candidates) == 0 {
		return failedResult(runID, "No date candidates found in syllabus")
	}

	seg, err := s.segmentDocument(ctx, lines, candidates)
	if err != nil {
		log.Printf("[Pipeline %s] Segmentation failed: %v", runID, err)
		return failedResult(runID, "Failed to segment document into schedule blocks: "+err.Error())
	}
	log.Printf("[Pipeline %s] %d schedule blocks, %d non-schedule blocks",
		runID, len(seg.ScheduleBlocks), len(seg.NonScheduleBlocks))

	sessionDates := BuildSessionDateMap(seg)

	if components == nil {
		components = s.DeriveAssessmentComponents(ctx, documentText)
	}

	rawItems := s.extractAllBlocks(ctx, seg.ScheduleBlocks, sessionDates, components)
	if len(rawItems) == 0 {
		return failedResult(runID, "No items extracted from schedule blocks")
	}

	rawItems = ConsolidateOverlappingReadings(rawItems)

	tasks := FlattenItems(rawItems)
	if len(tasks) == 0 {
		return failedResult(runID, "No deadlines found after flattening")
	}

	tasks = DeduplicateExact(tasks)
	log.Printf("[Pipeline %s] %d tasks after first dedup pass", runID, len(tasks))

	report := s.auditItems(ctx, tasks, components, nonScheduleText(seg))
	tasks = auditGuard(tasks, report.ValidatedItems)
	report.ValidatedItems = tasks

	tasks = DeduplicateByTitleKeepLatest(tasks)
	tasks = DeduplicateExact(tasks)

	tasks = s.estimateWorkload(ctx, tasks, components, documentText)
	tasks = NormalizeWorkloadHours(tasks, s.config.DefaultWorkloadHours)

	total := TotalEstimatedHours(tasks)
	log.Printf("[Pipeline %s] Done: %d tasks, %d estimated hours", runID, len(tasks), total)

	return &model.ExtractionResult{
		Success:    true,
		RunID:      runID,
		Items:      tasks,
		AuditRep:   report,
		TotalHours: total,
		ItemsCount: len(tasks),
	}
}

// ExtractFromDocument accepts a raw uploaded file, converts it to text
// (PDF via the extractor, anything else treated as plain text), and runs
// the pipeline.
func (s *DeadlineExtractionService) ExtractFromDocument(
	ctx context.Context,
	content []byte,
	filename string,
	components []model.AssessmentComponent,
) *model.ExtractionResult {
	var text string

	isPDF := strings.HasSuffix(strings.ToLower(filename), ".pdf") ||
		(len(content) >= 5 && string(content[:5]) == "%PDF-")
	if isPDF {
		extracted, err := NewPDFExtractor().ExtractText(content)
		if err != nil {
			log.Printf("[Pipeline] PDF extraction failed for %q: %v", filename, err)
			return failedResult("", "Failed to extract text from PDF: "+err.Error())
		}
		text = extracted
	} else {
		text = string(content)
	}

	return s.Extract(ctx, text, components)
}

// nonScheduleText joins the non-schedule blocks for the audit's context.
func nonScheduleText(seg *model.SegmentationResult) string {
	parts := make([]string, 0, len(seg.NonScheduleBlocks))
	for _, block := range seg.NonScheduleBlocks {
		parts = append(parts, block.RawBlock)
	}
	return strings.Join(parts, "\n\n")
}
