package extract

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/sahilchouksey/syllabus-planner/model"
	"github.com/sahilchouksey/syllabus-planner/services"
	"github.com/sahilchouksey/syllabus-planner/utils/cache"
	"github.com/sahilchouksey/syllabus-planner/utils/pdfvalidation"
	"github.com/sahilchouksey/syllabus-planner/utils/response"
	"github.com/sahilchouksey/syllabus-planner/utils/validation"
)

// maxUploadBytes caps syllabus uploads; anything larger is not a syllabus.
const maxUploadBytes = 20 * 1024 * 1024

// ExtractHandler serves the extraction endpoints. cache may be nil, in
// which case every request runs the full pipeline.
type ExtractHandler struct {
	service   *services.DeadlineExtractionService
	cache     *cache.RedisCache
	validator *validation.Validator
	cacheTTL  time.Duration
}

func NewExtractHandler(service *services.DeadlineExtractionService, redisCache *cache.RedisCache, cacheTTL time.Duration) *ExtractHandler {
	return &ExtractHandler{
		service:   service,
		cache:     redisCache,
		validator: validation.NewValidator(),
		cacheTTL:  cacheTTL,
	}
}

// componentListRequest wraps the optional assessment_components form field
// for struct-tag validation.
type componentListRequest struct {
	Components []model.AssessmentComponent `validate:"dive"`
}

// ExtractDeadlines handles POST /api/v1/extract. It accepts a multipart
// "file" field (PDF or plain text) plus an optional "assessment_components"
// field carrying a JSON array of {name, weight} objects. Results are cached
// by document digest so repeated uploads of the same syllabus skip the
// pipeline.
func (h *ExtractHandler) ExtractDeadlines(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return response.BadRequest(c, "Missing 'file' upload field")
	}
	if fileHeader.Size > maxUploadBytes {
		return response.BadRequest(c, fmt.Sprintf("File exceeds %d MB limit", maxUploadBytes/(1024*1024)))
	}

	file, err := fileHeader.Open()
	if err != nil {
		return response.InternalServerError(c, "Failed to open uploaded file")
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		return response.InternalServerError(c, "Failed to read uploaded file")
	}
	if len(content) == 0 {
		return response.BadRequest(c, "Uploaded file is empty")
	}

	if bytes.HasPrefix(content, []byte("%PDF-")) {
		check, err := pdfvalidation.ValidatePDFBytes(content, pdfvalidation.SyllabusLimits)
		if err != nil {
			return response.InternalServerError(c, "Failed to validate PDF")
		}
		if !check.Valid {
			return response.BadRequest(c, check.Error)
		}
	}

	components, err := h.parseComponents(c.FormValue("assessment_components"))
	if err != nil {
		return response.ValidationError(c, err)
	}

	digest := resultDigest(content, components)

	if h.cache != nil {
		var cached model.ExtractionResult
		if err := h.cache.GetJSON(c.Context(), cache.ExtractResultKeyPrefix+digest, &cached); err == nil {
			log.Printf("[Extract Handler] Cache hit for digest %s", digest[:12])
			return response.SuccessWithMessage(c, "Result served from cache", cached)
		}
	}

	result := h.service.ExtractFromDocument(c.Context(), content, fileHeader.Filename, components)

	if !result.Success {
		return response.UnprocessableEntity(c, result.Error)
	}

	if h.cache != nil {
		ctx := c.Context()
		if err := h.cache.SetJSON(ctx, cache.ExtractResultKeyPrefix+digest, result, h.cacheTTL); err != nil {
			log.Printf("[Extract Handler] Failed to cache result: %v", err)
		}
		if err := h.cache.SetJSON(ctx, cache.RunRegistryKeyPrefix+result.RunID, result, h.cacheTTL); err != nil {
			log.Printf("[Extract Handler] Failed to register run %s: %v", result.RunID, err)
		}
	}

	return response.Success(c, result)
}

// GetRun handles GET /api/v1/runs/:run_id, serving a previously computed
// result from the run registry.
func (h *ExtractHandler) GetRun(c *fiber.Ctx) error {
	runID := validation.SanitizeString(c.Params("run_id"))
	if runID == "" {
		return response.BadRequest(c, "Missing run_id")
	}

	if h.cache == nil {
		return response.ServiceUnavailable(c, "Run registry is not available without a cache")
	}

	var result model.ExtractionResult
	if err := h.cache.GetJSON(c.Context(), cache.RunRegistryKeyPrefix+runID, &result); err != nil {
		if err == cache.ErrNotFound {
			return response.NotFound(c, "No run found for that id")
		}
		return response.InternalServerError(c, "Failed to load run")
	}

	return response.Success(c, result)
}

// parseComponents decodes and validates the optional component hint list.
// An empty field means "derive components from the document".
func (h *ExtractHandler) parseComponents(raw string) ([]model.AssessmentComponent, error) {
	raw = validation.SanitizeString(raw)
	if raw == "" {
		return nil, nil
	}

	var components []model.AssessmentComponent
	if err := json.Unmarshal([]byte(raw), &components); err != nil {
		return nil, fmt.Errorf("assessment_components must be a JSON array of {name, weight} objects: %w", err)
	}

	if err := h.validator.ValidateStruct(componentListRequest{Components: components}); err != nil {
		return nil, err
	}

	return components, nil
}

// resultDigest keys the cache on document bytes plus the component hints,
// so the same PDF with different hints is a different cache entry.
func resultDigest(content []byte, components []model.AssessmentComponent) string {
	hash := sha256.New()
	hash.Write(content)
	if len(components) > 0 {
		if encoded, err := json.Marshal(components); err == nil {
			hash.Write(encoded)
		}
	}
	return hex.EncodeToString(hash.Sum(nil))
}
