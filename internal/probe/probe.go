// Package probe inspects media files with ffprobe and decides whether an
// asset already conforms to the target encode spec.
package probe

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"os/exec"
	"strconv"

	"github.com/beatcut/beatcut/internal/domain"
)

var (
	ErrNoVideoStream = errors.New("no video stream")
	ErrNoDuration    = errors.New("duration not available")
)

// frameRateTolerance absorbs rounding between rational frame rates and their
// decimal representation (e.g. 24000/1001 vs 23.976).
const frameRateTolerance = 1e-3

// stream mirrors the per-stream fields of ffprobe's JSON output.
type stream struct {
	Index      int    `json:"index"`
	CodecName  string `json:"codec_name"`
	CodecType  string `json:"codec_type"`
	Width      int    `json:"width,omitempty"`
	Height     int    `json:"height,omitempty"`
	RFrameRate string `json:"r_frame_rate,omitempty"`
	SampleRate string `json:"sample_rate,omitempty"`
}

// format mirrors the container-level fields of ffprobe's JSON output.
type format struct {
	Filename   string `json:"filename"`
	FormatName string `json:"format_name"`
	Duration   string `json:"duration"`
}

type ffprobeOutput struct {
	Streams []stream `json:"streams"`
	Format  format   `json:"format"`
}

// Result holds the metadata of a probed file: container duration plus the
// geometry and codecs of its primary video stream and, when present, the
// codec of its first audio stream.
type Result struct {
	Duration   float64
	Width      int
	Height     int
	FrameRate  float64
	VideoCodec string
	AudioCodec string
	HasAudio   bool
}

// NeedsReencode reports whether the probed file must be transcoded to a
// standardized copy before it can feed the stream-copy concatenation.
func (r *Result) NeedsReencode(spec domain.EncodeSpec) bool {
	if r.Width != spec.Width || r.Height != spec.Height {
		return true
	}
	if math.Abs(r.FrameRate-spec.FrameRate) > frameRateTolerance {
		return true
	}
	if r.VideoCodec != spec.VideoCodec {
		return true
	}
	if r.HasAudio && r.AudioCodec != spec.AudioCodec {
		return true
	}
	return false
}

// Probe runs ffprobe on the given path and extracts the stream metadata the
// pipeline needs. A file without a video stream is an error.
func Probe(ctx context.Context, path string) (*Result, error) {
	if path == "" {
		return nil, fmt.Errorf("source path cannot be empty")
	}

	args := []string{
		"-v", "quiet",
		"-print_format", "json",
		"-show_streams",
		"-show_format",
		path,
	}

	cmd := exec.CommandContext(ctx, "ffprobe", args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("ffprobe failed: %w (output: %s)", err, string(output))
	}

	result, err := parseOutput(output)
	if err != nil {
		return nil, err
	}

	slog.Debug("Probed media file",
		"path", path,
		"duration", result.Duration,
		"resolution", fmt.Sprintf("%dx%d", result.Width, result.Height),
		"videoCodec", result.VideoCodec,
	)

	return result, nil
}

// parseOutput turns raw ffprobe JSON into a Result.
func parseOutput(data []byte) (*Result, error) {
	var raw ffprobeOutput
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse ffprobe JSON output: %w", err)
	}

	if raw.Format.Duration == "" {
		return nil, ErrNoDuration
	}
	duration, err := strconv.ParseFloat(raw.Format.Duration, 64)
	if err != nil {
		return nil, fmt.Errorf("failed to parse duration %q: %w", raw.Format.Duration, err)
	}

	result := &Result{Duration: duration}

	foundVideo := false
	for _, s := range raw.Streams {
		switch s.CodecType {
		case "video":
			if foundVideo {
				continue
			}
			foundVideo = true
			result.Width = s.Width
			result.Height = s.Height
			result.VideoCodec = s.CodecName
			if s.RFrameRate != "" {
				rate, err := ParseRational(s.RFrameRate)
				if err != nil {
					return nil, fmt.Errorf("invalid frame rate %q: %w", s.RFrameRate, err)
				}
				result.FrameRate = rate
			}
		case "audio":
			if result.HasAudio {
				continue
			}
			result.HasAudio = true
			result.AudioCodec = s.CodecName
		}
	}

	if !foundVideo {
		return nil, ErrNoVideoStream
	}

	return result, nil
}
