package cron

import (
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/sahilchouksey/syllabus-planner/services/digitalocean"
	"github.com/sahilchouksey/syllabus-planner/utils/cache"
)

// CronManager runs the background maintenance jobs: result cache reporting,
// stale run-registry pruning, and inference health checks.
type CronManager struct {
	cron      *cron.Cron
	cache     *cache.RedisCache
	inference *digitalocean.InferenceClient
}

// NewCronManager creates a new cron manager. cache may be nil when Redis is
// unavailable; cache-dependent jobs then skip themselves.
func NewCronManager(redisCache *cache.RedisCache, inference *digitalocean.InferenceClient) *CronManager {
	c := cron.New(cron.WithSeconds())

	return &CronManager{
		cron:      c,
		cache:     redisCache,
		inference: inference,
	}
}

// Start registers and starts all jobs
func (m *CronManager) Start() error {
	log.Println("Starting cron jobs...")

	if err := m.registerJobs(); err != nil {
		return err
	}

	m.cron.Start()

	log.Println("Cron jobs started successfully")
	return nil
}

// Stop stops the scheduler and waits for running jobs to finish
func (m *CronManager) Stop() {
	log.Println("Stopping cron jobs...")
	ctx := m.cron.Stop()
	<-ctx.Done()
	log.Println("Cron jobs stopped")
}

func (m *CronManager) registerJobs() error {
	// Every 15 minutes: verify the inference endpoint is reachable
	_, err := m.cron.AddFunc("0 */15 * * * *", func() {
		m.logJobStart("inference_health_check")
		m.CheckInferenceHealth()
	})
	if err != nil {
		return err
	}

	// Every hour: report cache occupancy
	_, err = m.cron.AddFunc("0 0 * * * *", func() {
		m.logJobStart("report_cache_stats")
		m.ReportCacheStats()
	})
	if err != nil {
		return err
	}

	// Daily at 2 AM: prune stale run-registry entries
	_, err = m.cron.AddFunc("0 0 2 * * *", func() {
		m.logJobStart("prune_run_registry")
		m.PruneRunRegistry()
	})
	if err != nil {
		return err
	}

	log.Println("All cron jobs registered successfully")
	return nil
}

func (m *CronManager) logJobStart(jobName string) {
	log.Printf("[CRON] Starting job: %s at %s", jobName, time.Now().Format(time.RFC3339))
}

func (m *CronManager) logJobComplete(jobName string, message string) {
	log.Printf("[CRON] Completed job: %s - %s", jobName, message)
}

func (m *CronManager) logJobError(jobName string, err error) {
	log.Printf("[CRON] Error in job: %s - %v", jobName, err)
}
