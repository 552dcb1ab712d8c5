package server

import (
	"context"
	"log/slog"

	"github.com/beatcut/beatcut/internal/domain"
	"github.com/beatcut/beatcut/internal/job"
	"github.com/beatcut/beatcut/internal/pipeline"
	"github.com/beatcut/beatcut/internal/progress"
)

// renderInBackground runs the pipeline for one job and records its outcome.
// Progress events go to the job history and, when the request names a
// client, to that client's event stream.
func (s *Server) renderInBackground(jobID string, req job.Request, assets []domain.MediaAsset) {
	if err := s.jobManager.StartJob(jobID); err != nil {
		slog.Error("Failed to start job", "jobId", jobID, "error", err)
		return
	}

	listener := func(event progress.Event) {
		s.jobManager.RecordEvent(jobID, event)
		if req.ClientID != "" {
			s.registry.Send(req.ClientID, event)
		}
	}

	result, err := s.pipeline.Run(context.Background(), pipeline.Request{
		Beats:      req.Beats,
		Assets:     assets,
		AudioPath:  req.AudioPath,
		OutputName: jobID + ".mp4",
		Randomize:  req.Randomize,
	}, listener)

	if err != nil {
		if failErr := s.jobManager.FailJob(jobID, err); failErr != nil {
			slog.Error("Failed to record job failure", "jobId", jobID, "error", failErr)
		}
		slog.Error("Job failed", "jobId", jobID, "error", err)
		return
	}

	if err := s.jobManager.CompleteJob(jobID, result.OutputRef, result.Assignments, result.Assets); err != nil {
		slog.Error("Failed to record job completion", "jobId", jobID, "error", err)
		return
	}
	slog.Info("Job completed", "jobId", jobID, "output", result.OutputRef)
}
