package server

import (
	"fmt"
	"net/http"
	"path/filepath"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/beatcut/beatcut/internal/domain"
	"github.com/beatcut/beatcut/internal/job"
)

// startRender godoc
// @Summary Start a render job
// @Description Submits a job that cuts the given clip pool on the supplied beat grid and muxes the audio track.
// @Tags Jobs
// @Accept json
// @Produce json
// @Param request body job.Request true "Render parameters"
// @Success 202 {object} MessageResponse
// @Failure 400 {object} ErrorResponse
// @Router /api/v1/render [post]
func (s *Server) startRender(c *gin.Context) {
	var req job.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"error": fmt.Sprintf("invalid request: %v", err)})
		return
	}

	if len(req.Beats) < 2 {
		c.JSON(400, gin.H{"error": fmt.Sprintf("%v", domain.ErrTooFewBeats)})
		return
	}

	if len(req.VideoPaths) == 0 {
		c.JSON(400, gin.H{"error": "at least one video is required"})
		return
	}

	assets := make([]domain.MediaAsset, len(req.VideoPaths))
	for i, path := range req.VideoPaths {
		assets[i] = domain.MediaAsset{
			ID:           uuid.NewString(),
			OriginalName: filepath.Base(path),
			StoragePath:  path,
		}
	}

	jobStatus := s.jobManager.CreateJob()
	go s.renderInBackground(jobStatus.ID, req, assets)

	c.JSON(202, gin.H{
		"message": "Processing started",
		"jobId":   jobStatus.ID,
	})
}

// getJobStatus godoc
// @Summary Get job status
// @Tags Jobs
// @Produce json
// @Param id path string true "Job ID"
// @Success 200 {object} job.Status
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/jobs/{id} [get]
func (s *Server) getJobStatus(c *gin.Context) {
	jobID := c.Param("id")

	jobStatus, err := s.jobManager.GetJob(jobID)
	if err != nil {
		c.JSON(404, gin.H{"error": fmt.Sprintf("%v: %s", job.ErrNotFound, jobID)})
		return
	}

	c.JSON(200, jobStatus)
}

// listJobs godoc
// @Summary List jobs
// @Tags Jobs
// @Produce json
// @Param page query int false "Page number"
// @Param pageSize query int false "Page size"
// @Success 200 {object} job.Response
// @Router /api/v1/jobs [get]
func (s *Server) listJobs(c *gin.Context) {
	page := 1
	pageSize := job.DefaultPageSize

	if p := c.Query("page"); p != "" {
		if parsed, err := strconv.Atoi(p); err == nil && parsed > 0 {
			page = parsed
		}
	}

	if ps := c.Query("pageSize"); ps != "" {
		if parsed, err := strconv.Atoi(ps); err == nil && parsed > 0 && parsed <= job.MaxPageSize {
			pageSize = parsed
		}
	}

	response := s.jobManager.ListJobs(page, pageSize)
	c.JSON(200, response)
}

// health godoc
// @Summary Health check
// @Tags Utility
// @Produce json
// @Success 200 {object} MessageResponse
// @Router /health [get]
func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
