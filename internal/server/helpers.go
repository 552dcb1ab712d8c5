package server

import (
	"log/slog"
	"strings"
	"time"
)

const (
	// Default TTL for orphaned session workspaces
	DefaultFileTTL = 24 * time.Hour

	// Cleanup interval for the sweep worker
	CleanupInterval = 2 * time.Hour
)

// StartCleanupWorker starts a background worker that sweeps session
// workspaces left behind by a crashed process. Live sessions remove their own
// directories on exit.
func (s *Server) StartCleanupWorker() {
	ticker := time.NewTicker(CleanupInterval)
	go func() {
		defer ticker.Stop()
		for range ticker.C {
			s.workspaces.Sweep(DefaultFileTTL)
		}
	}()
	slog.Info("Workspace cleanup worker started", "interval", CleanupInterval)
}

// SanitizeFilename sanitizes a filename by removing invalid characters
func SanitizeFilename(name string) string {
	invalid := []string{"/", "\\", ":", "*", "?", "\"", "<", ">", "|", "\n", "\r", "\t"}
	result := name
	for _, char := range invalid {
		result = strings.ReplaceAll(result, char, "_")
	}

	result = strings.Trim(result, " .")

	if result == "" {
		result = "untitled"
	}

	return result
}
