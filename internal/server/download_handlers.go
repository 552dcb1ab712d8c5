package server

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/beatcut/beatcut/internal/job"
)

// downloadOutput godoc
// @Summary Download the rendered video
// @Description Streams the final render of a completed job.
// @Tags Downloads
// @Produce video/mp4
// @Param id path string true "Job ID"
// @Success 200 {file} video/mp4 "Rendered video"
// @Failure 400 {object} ErrorResponse "Job is not completed yet"
// @Failure 404 {object} ErrorResponse "Job or output not found"
// @Router /api/v1/jobs/{id}/download [get]
func (s *Server) downloadOutput(c *gin.Context) {
	jobID := c.Param("id")

	jobStatus, err := s.jobManager.GetJob(jobID)
	if err != nil {
		c.JSON(404, ErrorResponse{Error: fmt.Sprintf("%v: %s", job.ErrNotFound, jobID)})
		return
	}

	if jobStatus.Status != job.StatusCompleted {
		c.JSON(400, ErrorResponse{Error: "Job is not completed yet"})
		return
	}

	if jobStatus.OutputRef == "" || !s.store.Exists(c.Request.Context(), jobStatus.OutputRef) {
		c.JSON(404, ErrorResponse{Error: "Output not available"})
		return
	}

	reader, err := s.store.Open(c.Request.Context(), jobStatus.OutputRef)
	if err != nil {
		c.JSON(500, ErrorResponse{Error: fmt.Sprintf("Failed to open output: %v", err)})
		return
	}
	defer reader.Close()

	c.Header("Content-Type", "video/mp4")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s.mp4\"", SanitizeFilename(jobID)))

	if _, err := io.Copy(c.Writer, reader); err != nil {
		// Headers are already sent, the client gets a truncated body.
		slog.Error("Failed to stream output", "jobId", jobID, "error", err)
	}
}

// listOutputs godoc
// @Summary List published renders
// @Description Lists references to all published renders, including those from earlier runs.
// @Tags Downloads
// @Produce json
// @Param prefix query string false "Reference prefix filter"
// @Success 200 {object} map[string][]string
// @Failure 500 {object} ErrorResponse
// @Router /api/v1/outputs [get]
func (s *Server) listOutputs(c *gin.Context) {
	outputs, err := s.store.List(c.Request.Context(), c.Query("prefix"))
	if err != nil {
		c.JSON(500, ErrorResponse{Error: fmt.Sprintf("Failed to list outputs: %v", err)})
		return
	}
	if outputs == nil {
		outputs = []string{}
	}

	c.JSON(200, gin.H{"outputs": outputs})
}
