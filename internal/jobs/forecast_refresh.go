package jobs

import (
	"context"
	"log"

	"github.com/go-co-op/gocron/v2"

	"github.com/Sankalvax/opt/internal/caching"
	"github.com/Sankalvax/opt/internal/services"
)

// Horizons refreshed by the nightly job.
var refreshHorizons = []int{6, 12}

// ForecastRefreshJob re-simulates the standard horizons on a schedule, warms
// the cache, and archives the fresh runs.
type ForecastRefreshJob struct {
	scheduler  gocron.Scheduler
	simulation services.SimulationService
	cache      caching.CacheService
	archive    services.ArchiveService
}

func NewForecastRefreshJob(simulation services.SimulationService, cache caching.CacheService, archive services.ArchiveService) (*ForecastRefreshJob, error) {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}

	j := &ForecastRefreshJob{
		scheduler:  scheduler,
		simulation: simulation,
		cache:      cache,
		archive:    archive,
	}

	_, err = scheduler.NewJob(
		gocron.DailyJob(1, gocron.NewAtTimes(gocron.NewAtTime(2, 0, 0))),
		gocron.NewTask(j.Refresh),
	)
	if err != nil {
		return nil, err
	}
	return j, nil
}

// Start begins the schedule.
func (j *ForecastRefreshJob) Start() {
	log.Printf("Starting forecast refresh scheduler")
	j.scheduler.Start()
}

// Stop shuts the scheduler down.
func (j *ForecastRefreshJob) Stop() error {
	return j.scheduler.Shutdown()
}

// Refresh drops all cached baselines, re-runs each horizon, and archives the
// results. Failures are logged per horizon so one bad run doesn't block the
// rest.
func (j *ForecastRefreshJob) Refresh() {
	ctx := context.Background()

	if j.cache != nil {
		if err := j.cache.InvalidateAll(ctx); err != nil {
			log.Printf("Failed to invalidate forecast cache: %v", err)
		}
	}

	for _, horizon := range refreshHorizons {
		result, err := j.simulation.Run(ctx, horizon)
		if err != nil {
			log.Printf("Scheduled %dm forecast refresh failed: %v", horizon, err)
			continue
		}
		log.Printf("Refreshed %dm forecast, run %s, %d alerts", horizon, result.RunID, len(result.Alerts))

		if j.archive != nil {
			if err := j.archive.ArchiveRun(ctx, "forecast", result.RunID, result); err != nil {
				log.Printf("Failed to archive refreshed %dm forecast: %v", horizon, err)
			}
		}
	}
}
