package job

import (
	"time"

	"github.com/beatcut/beatcut/internal/domain"
	"github.com/beatcut/beatcut/internal/progress"
)

// Status represents the current state of a processing job.
type Status struct {
	ID          string              `json:"id"`
	Status      string              `json:"status"`
	Progress    float64             `json:"progress"`
	Message     string              `json:"message"`
	Error       string              `json:"error,omitempty"`
	OutputRef   string              `json:"outputRef,omitempty"`
	Assignments []domain.Assignment `json:"assignments,omitempty"`
	Assets      []domain.MediaAsset `json:"assets,omitempty"`
	Events      []progress.Event    `json:"events"`
	StartTime   time.Time           `json:"startTime"`
	EndTime     *time.Time          `json:"endTime,omitempty"`
}

// Request represents the request body for starting a render job.
type Request struct {
	Beats      []float64 `json:"beats" binding:"required"`
	AudioPath  string    `json:"audioPath" binding:"required"`
	VideoPaths []string  `json:"videoPaths" binding:"required"`
	Randomize  bool      `json:"randomize"`
	ClientID   string    `json:"clientId"`
}

// Response represents the paginated job listing.
type Response struct {
	Jobs       []*Status `json:"jobs"`
	Page       int       `json:"page"`
	PageSize   int       `json:"pageSize"`
	TotalJobs  int       `json:"totalJobs"`
	TotalPages int       `json:"totalPages"`
}

// Constants for job status. There is no cancelled state: a started render
// runs to completion or failure.
const (
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)

// Constants for pagination
const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)
