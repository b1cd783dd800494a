package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// LoadENV loads environment variables from .env unless GO_ENV indicates a
// deployed environment where they come from the platform.
func LoadENV() error {
	goEnv := os.Getenv("GO_ENV")

	if goEnv == "" || goEnv == "development" {
		err := godotenv.Load()
		if err != nil {
			return err
		}
	}

	return nil
}

type EnviornmentVariable struct {
	GO_ENV string
	PORT   int
	// Redis Configuration
	REDIS_URL string
	// Result cache lifetime in hours
	CACHE_TTL_HOURS int
	// Cron janitor toggle
	CRON_ENABLED bool
	// Inference Configuration
	MODEL_ACCESS_KEY string
	INFERENCE_MODEL  string
}

func Get() (*EnviornmentVariable, error) {

	port, err := strconv.Atoi(os.Getenv("PORT"))
	if err != nil {
		port = 8080
	}

	cacheTTL, err := strconv.Atoi(os.Getenv("CACHE_TTL_HOURS"))
	if err != nil || cacheTTL <= 0 {
		cacheTTL = 24
	}

	cronEnabled := true
	if v := os.Getenv("CRON_ENABLED"); v != "" {
		if parsed, err := strconv.ParseBool(v); err == nil {
			cronEnabled = parsed
		}
	}

	inferenceModel := os.Getenv("INFERENCE_MODEL")
	if inferenceModel == "" {
		inferenceModel = "llama3.3-70b-instruct"
	}

	envVariables := &EnviornmentVariable{
		GO_ENV:           os.Getenv("GO_ENV"),
		PORT:             port,
		REDIS_URL:        os.Getenv("REDIS_URL"),
		CACHE_TTL_HOURS:  cacheTTL,
		CRON_ENABLED:     cronEnabled,
		MODEL_ACCESS_KEY: os.Getenv("MODEL_ACCESS_KEY"),
		INFERENCE_MODEL:  inferenceModel,
	}

	return envVariables, nil
}
