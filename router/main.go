package router

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/sahilchouksey/syllabus-planner/handlers"
	extract_handlers "github.com/sahilchouksey/syllabus-planner/handlers/extract"
	"github.com/sahilchouksey/syllabus-planner/utils/cache"
	"github.com/sahilchouksey/syllabus-planner/utils/middleware"
)

// SetupRoutes wires every endpoint onto the fiber app.
func SetupRoutes(app *fiber.App, extractHandler *extract_handlers.ExtractHandler, redisCache *cache.RedisCache) {
	app.Get("/health", handlers.HandleCheckHealth(redisCache))

	v1 := app.Group("/api/v1")

	// Each extraction triggers multiple inference calls, so the upload
	// endpoint gets a tight per-IP budget.
	extractLimiter := middleware.NewRateLimiter(redisCache, 10, 10*time.Minute)

	v1.Post("/extract", extractLimiter.Limit(), extractHandler.ExtractDeadlines)
	v1.Get("/runs/:run_id", extractHandler.GetRun)
}
