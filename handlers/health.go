package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/sahilchouksey/syllabus-planner/utils/cache"
)

// HandleCheckHealth reports service liveness and whether the result cache
// is reachable.
func HandleCheckHealth(redisCache *cache.RedisCache) fiber.Handler {
	return func(c *fiber.Ctx) error {
		cacheStatus := "disabled"
		if redisCache != nil {
			cacheStatus = "ok"
			if _, err := redisCache.Exists(c.Context(), "healthcheck"); err != nil {
				cacheStatus = "unreachable"
			}
		}

		return c.JSON(fiber.Map{
			"status": "ok",
			"cache":  cacheStatus,
		})
	}
}
