package services

import (
	"context"

	"github.com/sahilchouksey/syllabus-planner/services/digitalocean"
)

// ReasoningClient is the capability every LLM-dependent stage talks to.
// The production implementation is the DigitalOcean inference client;
// tests substitute a stub returning canned JSON so the pipeline runs
// without a live model.
type ReasoningClient interface {
	JSONCompletion(ctx context.Context, systemPrompt, userPrompt string, options ...digitalocean.InferenceOption) (string, error)
	StructuredCompletion(ctx context.Context, systemPrompt, userPrompt string, schemaName, schemaDescription string, schema map[string]interface{}, options ...digitalocean.InferenceOption) (string, error)
}

// PipelineConfig carries per-run tuning for the extraction pipeline.
// Constructed explicitly and passed in; there is no package-level agent
// state, so independent runs can execute concurrently.
type PipelineConfig struct {
	MinDocumentChars     int     // Below this the document is rejected outright (default: 100)
	MaxPromptChars       int     // Inference input truncation limit (default: 50000)
	WorkloadContextChars int     // Syllabus excerpt passed to workload estimation (default: 3000)
	DefaultWorkloadHours int     // Fallback when the model omits or garbles hours (default: 5)
	MaxTokens            int     // Completion budget per call (default: 8192)
	Temperature          float64 // Low for structured extraction (default: 0.1)
}

// DefaultPipelineConfig returns the configuration used in production
func DefaultPipelineConfig() PipelineConfig {
	return PipelineConfig{
		MinDocumentChars:     100,
		MaxPromptChars:       50000,
		WorkloadContextChars: 3000,
		DefaultWorkloadHours: 5,
		MaxTokens:            8192,
		Temperature:          0.1,
	}
}

// withDefaults fills zero values so a partially specified config still works
func (c PipelineConfig) withDefaults() PipelineConfig {
	d := DefaultPipelineConfig()
	if c.MinDocumentChars <= 0 {
		c.MinDocumentChars = d.MinDocumentChars
	}
	if c.MaxPromptChars <= 0 {
		c.MaxPromptChars = d.MaxPromptChars
	}
	if c.WorkloadContextChars <= 0 {
		c.WorkloadContextChars = d.WorkloadContextChars
	}
	if c.DefaultWorkloadHours <= 0 {
		c.DefaultWorkloadHours = d.DefaultWorkloadHours
	}
	if c.MaxTokens <= 0 {
		c.MaxTokens = d.MaxTokens
	}
	if c.Temperature <= 0 {
		c.Temperature = d.Temperature
	}
	return c
}
