// Package workspace manages isolated per-session scratch directories.
package workspace

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// Manager allocates one scratch directory per processing session and removes
// it again when the session ends, on success and failure alike.
type Manager struct {
	baseDir string
}

// Session is an exclusively owned scratch directory. It is never shared
// between sessions.
type Session struct {
	ID        string
	Dir       string
	CreatedAt time.Time
}

func NewManager(baseDir string) (*Manager, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create workspace base directory: %w", err)
	}
	return &Manager{baseDir: baseDir}, nil
}

// Acquire creates a fresh session directory.
func (m *Manager) Acquire() (*Session, error) {
	id := uuid.NewString()
	dir := filepath.Join(m.baseDir, id)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create session directory: %w", err)
	}

	slog.Debug("Acquired session workspace", "sessionId", id, "dir", dir)
	return &Session{ID: id, Dir: dir, CreatedAt: time.Now()}, nil
}

// Release recursively removes the session directory. Callers defer this right
// after Acquire so cleanup runs on every exit path.
func (s *Session) Release() {
	if err := os.RemoveAll(s.Dir); err != nil {
		slog.Error("Failed to remove session workspace", "sessionId", s.ID, "error", err)
		return
	}
	slog.Debug("Released session workspace", "sessionId", s.ID)
}

// Sweep removes session directories older than ttl. It backs the periodic
// cleanup worker and catches directories orphaned by a crashed process.
func (m *Manager) Sweep(ttl time.Duration) int {
	cutoff := time.Now().Add(-ttl)

	entries, err := os.ReadDir(m.baseDir)
	if err != nil {
		slog.Error("Failed to read workspace base directory", "error", err)
		return 0
	}

	cleaned := 0
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			dir := filepath.Join(m.baseDir, entry.Name())
			if err := os.RemoveAll(dir); err != nil {
				slog.Error("Failed to remove old session directory", "dir", dir, "error", err)
				continue
			}
			cleaned++
		}
	}

	if cleaned > 0 {
		slog.Info("Workspace sweep completed", "directories_cleaned", cleaned)
	}
	return cleaned
}
