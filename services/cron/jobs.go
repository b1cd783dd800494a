package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/sahilchouksey/syllabus-planner/utils/cache"
)

// CheckInferenceHealth pings the inference endpoint so a dead upstream shows
// up in the logs before a user hits it.
func (m *CronManager) CheckInferenceHealth() {
	jobName := "inference_health_check"

	if m.inference == nil {
		m.logJobComplete(jobName, "No inference client configured, skipping")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := m.inference.HealthCheck(ctx); err != nil {
		m.logJobError(jobName, fmt.Errorf("inference endpoint unhealthy: %w", err))
		return
	}

	m.logJobComplete(jobName, "Inference endpoint healthy")
}

// ReportCacheStats logs how many extraction results are currently cached.
func (m *CronManager) ReportCacheStats() {
	jobName := "report_cache_stats"

	if m.cache == nil {
		m.logJobComplete(jobName, "No cache configured, skipping")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 1*time.Minute)
	defer cancel()

	resultKeys, err := m.cache.Keys(ctx, cache.ExtractResultKeyPrefix+"*")
	if err != nil {
		m.logJobError(jobName, fmt.Errorf("failed to list result keys: %w", err))
		return
	}

	runKeys, err := m.cache.Keys(ctx, cache.RunRegistryKeyPrefix+"*")
	if err != nil {
		m.logJobError(jobName, fmt.Errorf("failed to list run keys: %w", err))
		return
	}

	m.logJobComplete(jobName, fmt.Sprintf("%d cached results, %d registered runs", len(resultKeys), len(runKeys)))
}

// PruneRunRegistry deletes run-registry entries that lost their TTL.
// Entries are written with an expiry; one without a TTL is a leftover from
// an interrupted write and would otherwise live forever.
func (m *CronManager) PruneRunRegistry() {
	jobName := "prune_run_registry"

	if m.cache == nil {
		m.logJobComplete(jobName, "No cache configured, skipping")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	keys, err := m.cache.Keys(ctx, cache.RunRegistryKeyPrefix+"*")
	if err != nil {
		m.logJobError(jobName, fmt.Errorf("failed to list run keys: %w", err))
		return
	}

	pruned := 0
	for _, key := range keys {
		ttl, err := m.cache.TTL(ctx, key)
		if err != nil {
			continue
		}
		// go-redis reports -1 for a key with no expiry, -2 for a missing key
		if ttl == -1 {
			if err := m.cache.Delete(ctx, key); err == nil {
				pruned++
			}
		}
	}

	m.logJobComplete(jobName, fmt.Sprintf("Checked %d run entries, pruned %d without TTL", len(keys), pruned))
}
