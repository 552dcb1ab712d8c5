package job

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/beatcut/beatcut/internal/domain"
	"github.com/beatcut/beatcut/internal/progress"
)

// Manager handles job bookkeeping. Jobs are mutated from background
// goroutines, so all access goes through the mutex and reads return
// snapshots.
type Manager struct {
	mu   sync.RWMutex
	jobs map[string]*Status
}

// NewManager creates a new job manager.
func NewManager() *Manager {
	return &Manager{
		jobs: make(map[string]*Status),
	}
}

// CreateJob registers a new pending job and returns its snapshot.
func (m *Manager) CreateJob() *Status {
	m.mu.Lock()
	defer m.mu.Unlock()

	job := &Status{
		ID:        uuid.NewString(),
		Status:    StatusPending,
		Message:   "Job created",
		StartTime: time.Now(),
	}
	m.jobs[job.ID] = job
	return snapshot(job)
}

// GetJob retrieves a job snapshot by ID.
func (m *Manager) GetJob(jobID string) (*Status, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	job, exists := m.jobs[jobID]
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, jobID)
	}
	return snapshot(job), nil
}

// StartJob moves a pending job to processing.
func (m *Manager) StartJob(jobID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	job, exists := m.jobs[jobID]
	if !exists {
		return fmt.Errorf("%w: %s", ErrNotFound, jobID)
	}
	if job.Status != StatusPending {
		return fmt.Errorf("%w: %s", ErrInvalidState, job.Status)
	}

	job.Status = StatusProcessing
	job.Message = "Processing"
	return nil
}

// CompleteJob marks a job as completed with its results.
func (m *Manager) CompleteJob(jobID, outputRef string, assignments []domain.Assignment, assets []domain.MediaAsset) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	job, exists := m.jobs[jobID]
	if !exists {
		return fmt.Errorf("%w: %s", ErrNotFound, jobID)
	}

	job.Status = StatusCompleted
	job.Progress = 100
	job.Message = "Processing completed"
	job.OutputRef = outputRef
	job.Assignments = assignments
	job.Assets = assets
	endTime := time.Now()
	job.EndTime = &endTime
	return nil
}

// FailJob marks a job as failed.
func (m *Manager) FailJob(jobID string, jobErr error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	job, exists := m.jobs[jobID]
	if !exists {
		return fmt.Errorf("%w: %s", ErrNotFound, jobID)
	}

	job.Status = StatusFailed
	job.Message = "Processing failed"
	job.Error = jobErr.Error()
	endTime := time.Now()
	job.EndTime = &endTime
	return nil
}

// RecordEvent appends a progress event to the job's history and keeps the
// top-level progress figure current.
func (m *Manager) RecordEvent(jobID string, event progress.Event) {
	m.mu.Lock()
	defer m.mu.Unlock()

	job, exists := m.jobs[jobID]
	if !exists {
		return
	}

	job.Events = append(job.Events, event)
	if event.OverallPercent > job.Progress {
		job.Progress = event.OverallPercent
	}
	if event.Message != "" {
		job.Message = event.Message
	}
}

// ListJobs lists all jobs with pagination, newest first.
func (m *Manager) ListJobs(page, pageSize int) *Response {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > MaxPageSize {
		pageSize = DefaultPageSize
	}

	m.mu.RLock()
	jobs := make([]*Status, 0, len(m.jobs))
	for _, job := range m.jobs {
		jobs = append(jobs, snapshot(job))
	}
	m.mu.RUnlock()

	sort.Slice(jobs, func(i, j int) bool {
		return jobs[i].StartTime.After(jobs[j].StartTime)
	})

	totalPages := (len(jobs) + pageSize - 1) / pageSize

	start := (page - 1) * pageSize
	if start >= len(jobs) {
		return &Response{
			Jobs:       []*Status{},
			Page:       page,
			PageSize:   pageSize,
			TotalJobs:  len(jobs),
			TotalPages: totalPages,
		}
	}

	end := start + pageSize
	if end > len(jobs) {
		end = len(jobs)
	}

	return &Response{
		Jobs:       jobs[start:end],
		Page:       page,
		PageSize:   pageSize,
		TotalJobs:  len(jobs),
		TotalPages: totalPages,
	}
}

func snapshot(job *Status) *Status {
	copied := *job
	copied.Events = append([]progress.Event(nil), job.Events...)
	copied.Assignments = append([]domain.Assignment(nil), job.Assignments...)
	copied.Assets = append([]domain.MediaAsset(nil), job.Assets...)
	return &copied
}
