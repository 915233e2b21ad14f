// Package jobs runs generation work as asynchronous, pollable jobs.
package jobs

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"deckgen/internal/domain"
)

// DefaultRetention is how long a terminal job stays queryable before the
// sweeper evicts it.
const DefaultRetention = 24 * time.Hour

// Task is the unit of work a job executes. Failures are returned, never
// panicked; the manager captures both onto the job record.
type Task func(ctx context.Context, progress *Reporter) (any, error)

// Reporter lets a running task publish progress to pollers. It is only
// valid inside the task that owns the job.
type Reporter struct {
	m     *Manager
	jobID string
}

// JobID returns the identifier of the job being reported on.
func (r *Reporter) JobID() string { return r.jobID }

// Update publishes the current progress percentage (clamped to [0, 100])
// and a human-readable status message.
func (r *Reporter) Update(percent int, message string) {
	r.m.reportProgress(r.jobID, percent, message)
}

// ManagerOptions configures a Manager.
type ManagerOptions struct {
	// BaseContext parents every task context; cancelling it stops
	// in-flight jobs. Defaults to context.Background().
	BaseContext context.Context
	// Retention is how long terminal jobs remain queryable.
	Retention time.Duration
	Clock     func() time.Time
	Logger    zerolog.Logger
}

// Manager owns the job table. Tasks run on their own goroutines; Submit
// returns immediately with the job identifier. Pollers only read.
type Manager struct {
	baseCtx   context.Context
	retention time.Duration
	now       func() time.Time
	logger    zerolog.Logger

	mu   sync.RWMutex
	jobs map[string]*domain.Job
	wg   sync.WaitGroup
}

func NewManager(opts ManagerOptions) *Manager {
	baseCtx := opts.BaseContext
	if baseCtx == nil {
		baseCtx = context.Background()
	}
	retention := opts.Retention
	if retention <= 0 {
		retention = DefaultRetention
	}
	now := opts.Clock
	if now == nil {
		now = time.Now
	}
	return &Manager{
		baseCtx:   baseCtx,
		retention: retention,
		now:       now,
		logger:    opts.Logger,
		jobs:      make(map[string]*domain.Job),
	}
}

// Submit registers a job for the session and starts the task on its own
// goroutine. The returned identifier is generated before any work begins.
func (m *Manager) Submit(sessionID string, jobType domain.JobType, task Task) string {
	job := &domain.Job{
		ID:        uuid.NewString(),
		SessionID: sessionID,
		Type:      jobType,
		Status:    domain.JobStatusQueued,
		Message:   "Job queued",
		CreatedAt: m.now(),
	}

	m.mu.Lock()
	m.jobs[job.ID] = job
	m.mu.Unlock()

	m.wg.Add(1)
	go m.run(job.ID, task)
	return job.ID
}

// Status returns a snapshot of the job, or ErrJobNotFound.
func (m *Manager) Status(jobID string) (domain.Job, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	job, ok := m.jobs[jobID]
	if !ok {
		return domain.Job{}, domain.ErrJobNotFound
	}
	return *job, nil
}

// Sweep evicts terminal jobs older than the retention window and returns
// how many were removed.
func (m *Manager) Sweep() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	removed := 0
	for id, job := range m.jobs {
		if job.Status.Terminal() && now.Sub(job.CompletedAt) > m.retention {
			delete(m.jobs, id)
			removed++
		}
	}
	return removed
}

// StartSweeper runs Sweep on the given interval until ctx is cancelled.
func (m *Manager) StartSweeper(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n := m.Sweep(); n > 0 {
					m.logger.Debug().Int("evicted", n).Msg("jobs: swept expired jobs")
				}
			}
		}
	}()
}

// Wait blocks until all in-flight jobs have finished.
func (m *Manager) Wait() {
	m.wg.Wait()
}

func (m *Manager) run(jobID string, task Task) {
	defer m.wg.Done()

	m.transition(jobID, domain.JobStatusRunning, 0, "Processing...")

	var (
		result any
		err    error
	)
	func() {
		defer func() {
			if rec := recover(); rec != nil {
				err = fmt.Errorf("job panicked: %v", rec)
			}
		}()
		result, err = task(m.baseCtx, &Reporter{m: m, jobID: jobID})
	}()

	m.mu.Lock()
	defer m.mu.Unlock()
	job, ok := m.jobs[jobID]
	if !ok || job.Status.Terminal() {
		return
	}
	job.CompletedAt = m.now()
	if err != nil {
		job.Status = domain.JobStatusFailed
		job.Error = err.Error()
		job.Message = "Failed: " + err.Error()
		m.logger.Warn().Err(err).Str("job_id", jobID).Msg("jobs: job failed")
		return
	}
	job.Status = domain.JobStatusCompleted
	job.Progress = 100
	job.Message = "Completed successfully"
	job.Result = result
}

func (m *Manager) transition(jobID string, status domain.JobStatus, progress int, message string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	job, ok := m.jobs[jobID]
	if !ok || job.Status.Terminal() {
		return
	}
	job.Status = status
	job.Progress = clampPercent(progress)
	job.Message = message
}

func (m *Manager) reportProgress(jobID string, percent int, message string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	job, ok := m.jobs[jobID]
	if !ok || job.Status.Terminal() {
		return
	}
	job.Progress = clampPercent(percent)
	if message != "" {
		job.Message = message
	}
}

func clampPercent(p int) int {
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}
