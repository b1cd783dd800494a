package app

import (
	"fmt"
	"log"
	"time"

	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/sahilchouksey/syllabus-planner/api"
	"github.com/sahilchouksey/syllabus-planner/config"
	extract_handlers "github.com/sahilchouksey/syllabus-planner/handlers/extract"
	"github.com/sahilchouksey/syllabus-planner/router"
	"github.com/sahilchouksey/syllabus-planner/services"
	"github.com/sahilchouksey/syllabus-planner/services/cron"
	"github.com/sahilchouksey/syllabus-planner/services/digitalocean"
	"github.com/sahilchouksey/syllabus-planner/utils/cache"
)

func SetupAndRunServer() error {

	// Load ENV
	if err := config.LoadENV(); err != nil {
		return err
	}

	getEnv, err := config.Get()
	if err != nil {
		return err
	}

	if getEnv.MODEL_ACCESS_KEY == "" {
		return fmt.Errorf("MODEL_ACCESS_KEY environment variable is not set")
	}

	// Inference client shared by the pipeline and the cron health check
	rateLimiterConfig := digitalocean.DefaultRateLimiterConfig()
	inferenceClient := digitalocean.NewInferenceClient(digitalocean.InferenceConfig{
		APIKey:      getEnv.MODEL_ACCESS_KEY,
		Model:       getEnv.INFERENCE_MODEL,
		RateLimiter: &rateLimiterConfig,
	})

	extractionService := services.NewDeadlineExtractionService(inferenceClient, services.DefaultPipelineConfig())

	// Result cache is optional: without Redis every request runs the pipeline
	var redisCache *cache.RedisCache
	if getEnv.REDIS_URL != "" {
		redisCache, err = cache.NewRedisCache(getEnv.REDIS_URL)
		if err != nil {
			log.Printf("Warning: Failed to connect to Redis: %v. Result caching will be disabled.", err)
			redisCache = nil
		}
	}

	// Cron janitor (cache stats, run-registry pruning, inference health)
	var cronManager *cron.CronManager
	if getEnv.CRON_ENABLED {
		cronManager = cron.NewCronManager(redisCache, inferenceClient)
		if err := cronManager.Start(); err != nil {
			log.Printf("Warning: Failed to start cron jobs: %v", err)
		}
	}

	defer func() {
		if cronManager != nil {
			cronManager.Stop()
		}
		if redisCache != nil {
			redisCache.Close()
		}
	}()

	// Init API
	var server *api.APIServer = api.NewAPIServer(fmt.Sprintf(":%d", getEnv.PORT))
	fiberApp := server.GetEngine()

	// Attach Middleware
	fiberApp.Use(logger.New())
	fiberApp.Use(recover.New())

	cacheTTL := time.Duration(getEnv.CACHE_TTL_HOURS) * time.Hour
	extractHandler := extract_handlers.NewExtractHandler(extractionService, redisCache, cacheTTL)

	// Setup Routes
	router.SetupRoutes(fiberApp, extractHandler, redisCache)

	// Get the PORT & Start the Server
	return server.Run()
}
