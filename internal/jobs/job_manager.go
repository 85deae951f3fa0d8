package jobs

import (
	"fmt"
)

// Job is a scheduled background task.
type Job interface {
	Name() string
	Start() error
	Stop()
}

// JobManager coordinates all scheduled jobs in the application.
// Provides a unified interface to start and stop all background jobs.
type JobManager struct {
	jobs    []Job
	started []Job
}

// NewJobManager creates a manager that starts jobs in the given order.
func NewJobManager(jobs ...Job) *JobManager {
	return &JobManager{jobs: jobs}
}

// StartAll starts all scheduled jobs.
// Returns an error if any job fails to start.
func (jm *JobManager) StartAll() error {
	for _, job := range jm.jobs {
		if err := job.Start(); err != nil {
			// Stop already started jobs if this one fails
			jm.StopAll()
			return fmt.Errorf("failed to start %s: %w", job.Name(), err)
		}
		jm.started = append(jm.started, job)
	}
	return nil
}

// StopAll stops started jobs in reverse order.
func (jm *JobManager) StopAll() {
	for i := len(jm.started) - 1; i >= 0; i-- {
		jm.started[i].Stop()
	}
	jm.started = nil
}
