// Package server exposes the rendering pipeline over HTTP.
package server

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/beatcut/beatcut/config"
	"github.com/beatcut/beatcut/internal/clients"
	"github.com/beatcut/beatcut/internal/domain"
	"github.com/beatcut/beatcut/internal/job"
	"github.com/beatcut/beatcut/internal/pipeline"
	"github.com/beatcut/beatcut/internal/probe"
	"github.com/beatcut/beatcut/internal/progress"
	"github.com/beatcut/beatcut/internal/render"
	"github.com/beatcut/beatcut/internal/storage"
	"github.com/beatcut/beatcut/internal/workspace"
)

// Runner executes a rendering session. Satisfied by *pipeline.Pipeline.
type Runner interface {
	Run(ctx context.Context, req pipeline.Request, listeners ...func(progress.Event)) (*pipeline.Result, error)
}

// Server handles HTTP requests for the beat-cut renderer.
type Server struct {
	cfg        *config.Config
	router     *gin.Engine
	pipeline   Runner
	jobManager *job.Manager
	registry   *clients.Registry
	store      storage.Store
	workspaces *workspace.Manager
}

// New creates a new HTTP server instance with its full processing stack.
func New(cfg *config.Config) (*Server, error) {
	workspaces, err := workspace.NewManager(cfg.Workspace.BaseDir)
	if err != nil {
		return nil, fmt.Errorf("failed to create workspace manager: %w", err)
	}

	store, err := newStore(cfg)
	if err != nil {
		return nil, err
	}

	spec := EncodeSpec(cfg)
	p := pipeline.New(
		pipeline.ProberFunc(probe.Probe),
		render.NewRenderer(spec),
		workspaces,
		store,
		spec,
		cfg.TailDuration,
	)

	server := &Server{
		cfg:        cfg,
		router:     gin.Default(),
		pipeline:   p,
		jobManager: job.NewManager(),
		registry:   clients.NewRegistry(),
		store:      store,
		workspaces: workspaces,
	}

	server.setupRoutes()
	return server, nil
}

// EncodeSpec maps the encode configuration onto the domain spec.
func EncodeSpec(cfg *config.Config) domain.EncodeSpec {
	return domain.EncodeSpec{
		Width:      cfg.Encode.Width,
		Height:     cfg.Encode.Height,
		FrameRate:  cfg.Encode.FrameRate,
		VideoCodec: cfg.Encode.VideoCodec,
		AudioCodec: cfg.Encode.AudioCodec,
	}
}

func newStore(cfg *config.Config) (storage.Store, error) {
	switch cfg.Storage.Type {
	case "gcs":
		return storage.NewGCSStore(context.Background(), cfg.Storage.Bucket, cfg.Storage.ObjectPrefix, cfg.Storage.CredentialsFile)
	default:
		return storage.NewLocalStore(cfg.Storage.OutputDir)
	}
}

// setupRoutes configures the HTTP routes
func (s *Server) setupRoutes() {
	// Add CORS middleware
	s.router.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	s.router.GET("/health", s.health)

	api := s.router.Group("/api/v1")
	{
		api.POST("/render", s.startRender)
		api.GET("/jobs/:id", s.getJobStatus)
		api.GET("/jobs", s.listJobs)
		api.GET("/jobs/:id/download", s.downloadOutput)
		api.GET("/outputs", s.listOutputs)
		api.GET("/events/:clientId", s.streamEvents)
	}
}

// Start starts the HTTP server
func (s *Server) Start(port string) error {
	return s.router.Run(":" + port)
}
