package render

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Concatenate joins the segments in the given order into a single stream
// without re-encoding. Every input must have been rendered to the same target
// spec; order defines the output timeline and is preserved exactly.
func (r *Renderer) Concatenate(ctx context.Context, segmentPaths []string, outputPath string) error {
	if len(segmentPaths) == 0 {
		return fmt.Errorf("no segments to concatenate")
	}

	for _, path := range segmentPaths {
		if err := validateFile(path); err != nil {
			return fmt.Errorf("concatenation failed: %w", err)
		}
	}

	listPath, err := writeConcatList(segmentPaths, filepath.Dir(outputPath))
	if err != nil {
		return fmt.Errorf("failed to create concat list: %w", err)
	}
	defer os.Remove(listPath)

	args := []string{
		"-y",
		"-f", "concat",
		"-safe", "0",
		"-i", listPath,
		"-c", "copy",
		outputPath,
	}

	if err := runFFmpeg(ctx, args); err != nil {
		return fmt.Errorf("concatenation failed: %w", err)
	}

	return nil
}

// writeConcatList writes a concat-demuxer list file referencing the segments
// by absolute path.
func writeConcatList(paths []string, dir string) (string, error) {
	listFile, err := os.CreateTemp(dir, "concat_*.txt")
	if err != nil {
		return "", err
	}
	defer listFile.Close()

	for _, path := range paths {
		absPath, err := filepath.Abs(path)
		if err != nil {
			os.Remove(listFile.Name())
			return "", fmt.Errorf("failed to resolve %s: %w", path, err)
		}
		escaped := strings.ReplaceAll(absPath, "'", `'\''`)
		if _, err := fmt.Fprintf(listFile, "file '%s'\n", escaped); err != nil {
			os.Remove(listFile.Name())
			return "", err
		}
	}

	return listFile.Name(), nil
}
