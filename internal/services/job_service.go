package services

import (
	"github.com/ashrayhostel/hostel-api/internal/jobs"
)

type JobService struct {
	worker  *jobs.Worker
	sweeper *RetentionSweeper
}

func NewJobService(worker *jobs.Worker, sweeper *RetentionSweeper) *JobService {
	return &JobService{
		worker:  worker,
		sweeper: sweeper,
	}
}

func (s *JobService) GetStatus() map[string]interface{} {
	stats := s.worker.GetStats()
	return map[string]interface{}{
		"active_jobs":    stats.ActiveJobs,
		"completed_jobs": stats.CompletedJobs,
		"failed_jobs":    stats.FailedJobs,
		"queue_length":   stats.QueueLength,
		"max_concurrent": stats.MaxConcurrent,
		"last_runs":      stats.LastRuns,
	}
}

// TriggerSweep starts a retention sweep in the background.
// Returns false when one is already running.
func (s *JobService) TriggerSweep() bool {
	return s.sweeper.TriggerAsync()
}
