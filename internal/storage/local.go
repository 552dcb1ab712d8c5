package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// LocalStore implements the Store interface for the local filesystem.
type LocalStore struct {
	outputDir string
}

// NewLocalStore creates a local store rooted at outputDir.
func NewLocalStore(outputDir string) (*LocalStore, error) {
	if err := os.MkdirAll(outputDir, os.ModePerm); err != nil {
		return nil, fmt.Errorf("failed to create output directory %s: %w", outputDir, err)
	}
	return &LocalStore{outputDir: outputDir}, nil
}

// Publish copies the file into the output directory. The returned reference
// is the destination path.
func (s *LocalStore) Publish(_ context.Context, localPath, objectName string) (string, error) {
	src, err := os.Open(localPath)
	if err != nil {
		return "", fmt.Errorf("failed to open file %s: %w", localPath, err)
	}
	defer src.Close()

	destPath := filepath.Join(s.outputDir, objectName)
	if err := os.MkdirAll(filepath.Dir(destPath), os.ModePerm); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	dest, err := os.Create(destPath)
	if err != nil {
		return "", fmt.Errorf("failed to create output file: %w", err)
	}
	defer dest.Close()

	if _, err := io.Copy(dest, src); err != nil {
		return "", fmt.Errorf("failed to copy file to output: %w", err)
	}

	return destPath, nil
}

// Open returns a reader for a published file.
func (s *LocalStore) Open(_ context.Context, ref string) (io.ReadCloser, error) {
	return os.Open(ref)
}

// Exists checks if a published file exists.
func (s *LocalStore) Exists(_ context.Context, ref string) bool {
	_, err := os.Stat(ref)
	return err == nil
}

// List lists published files whose names start with prefix.
func (s *LocalStore) List(_ context.Context, prefix string) ([]string, error) {
	entries, err := os.ReadDir(s.outputDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read output directory: %w", err)
	}

	var results []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if prefix != "" && !strings.HasPrefix(entry.Name(), prefix) {
			continue
		}
		results = append(results, filepath.Join(s.outputDir, entry.Name()))
	}

	return results, nil
}

func (s *LocalStore) Close() error {
	return nil
}
