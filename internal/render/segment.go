package render

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/beatcut/beatcut/internal/domain"
)

// Codec identifiers from the encode spec and their FFmpeg encoder names.
var (
	videoEncoders = map[string]string{
		"h264": "libx264",
		"hevc": "libx265",
		"vp9":  "libvpx-vp9",
	}
	audioEncoders = map[string]string{
		"aac":  "aac",
		"mp3":  "libmp3lame",
		"opus": "libopus",
	}

	// Default audio settings for conformant segments. Every segment must use
	// the same sample rate and channel count so concatenation can stream-copy.
	defaultAudioSampleRate = "44100"
	defaultAudioChannels   = "2"
	defaultAudioBitrate    = "192k"
	defaultPreset          = "veryfast"
)

// durationEpsilon absorbs float noise when comparing clip and interval
// durations.
const durationEpsilon = 1e-6

// Segment is one rendered, spec-conformant piece of the final timeline.
type Segment struct {
	Path           string
	TargetDuration float64

	// Underfilled is set when even a single forward+reverse doubling of the
	// source clip could not cover the target duration. Only one doubling pass
	// is performed; the segment then comes up short and callers must not
	// treat it as exact.
	Underfilled bool
}

// Renderer produces exact-duration segments encoded to a fixed target spec.
type Renderer struct {
	spec domain.EncodeSpec
}

func NewRenderer(spec domain.EncodeSpec) *Renderer {
	return &Renderer{spec: spec}
}

// Render cuts (or extends) one clip into a segment of exactly targetDuration
// seconds, written inside workDir. Clips at least as long as the target are
// trimmed; shorter clips go through the forward+reverse loop extension.
func (r *Renderer) Render(ctx context.Context, asset domain.MediaAsset, targetDuration float64, workDir string, index int) (*Segment, error) {
	if err := validateFile(asset.StoragePath); err != nil {
		return nil, fmt.Errorf("segment render failed: %w", err)
	}
	if targetDuration <= 0 {
		return nil, fmt.Errorf("invalid target duration %.3f", targetDuration)
	}

	segmentPath := filepath.Join(workDir, fmt.Sprintf("segment_%03d.mp4", index))

	if asset.DurationSeconds+durationEpsilon >= targetDuration {
		slog.Debug("Trimming segment",
			"asset", asset.ID,
			"target", fmt.Sprintf("%.3f", targetDuration),
		)
		if err := runFFmpeg(ctx, r.encodeArgs(asset.StoragePath, segmentPath, targetDuration)); err != nil {
			return nil, fmt.Errorf("trim of asset %s failed: %w", asset.ID, err)
		}
		return &Segment{Path: segmentPath, TargetDuration: targetDuration}, nil
	}

	return r.renderExtended(ctx, asset, targetDuration, workDir, segmentPath, index)
}

// renderExtended synthesizes extra duration from a too-short clip: the whole
// clip is rendered forward, a time-reversed copy is appended, and the doubled
// result is trimmed to the target duration.
func (r *Renderer) renderExtended(ctx context.Context, asset domain.MediaAsset, targetDuration float64, workDir, segmentPath string, index int) (*Segment, error) {
	slog.Debug("Extending short segment with reverse loop",
		"asset", asset.ID,
		"clipDuration", asset.DurationSeconds,
		"target", fmt.Sprintf("%.3f", targetDuration),
	)

	forwardPath := filepath.Join(workDir, fmt.Sprintf("segment_%03d_fwd.mp4", index))
	reversedPath := filepath.Join(workDir, fmt.Sprintf("segment_%03d_rev.mp4", index))
	doubledPath := filepath.Join(workDir, fmt.Sprintf("segment_%03d_loop.mp4", index))
	defer func() {
		for _, p := range []string{forwardPath, reversedPath, doubledPath} {
			os.Remove(p)
		}
	}()

	// Stage 1: render the entire clip forward at the target spec.
	if err := runFFmpeg(ctx, r.encodeArgs(asset.StoragePath, forwardPath, 0)); err != nil {
		return nil, fmt.Errorf("forward render of asset %s failed: %w", asset.ID, err)
	}

	// Stage 2: time-reverse both video and audio of the forward render.
	if err := runFFmpeg(ctx, r.reverseArgs(forwardPath, reversedPath)); err != nil {
		return nil, fmt.Errorf("reverse render of asset %s failed: %w", asset.ID, err)
	}

	// Stage 3: join forward + reversed, doubling the available duration.
	if err := r.Concatenate(ctx, []string{forwardPath, reversedPath}, doubledPath); err != nil {
		return nil, fmt.Errorf("loop join of asset %s failed: %w", asset.ID, err)
	}

	// Stage 4: trim the doubled clip down to the target duration.
	if err := runFFmpeg(ctx, copyTrimArgs(doubledPath, segmentPath, targetDuration)); err != nil {
		return nil, fmt.Errorf("loop trim of asset %s failed: %w", asset.ID, err)
	}

	segment := &Segment{Path: segmentPath, TargetDuration: targetDuration}
	if 2*asset.DurationSeconds+durationEpsilon < targetDuration {
		// A single doubling pass is all the extension does; the segment will
		// run shorter than requested.
		segment.Underfilled = true
		slog.Warn("Segment under-runs its interval after one doubling pass",
			"asset", asset.ID,
			"available", 2*asset.DurationSeconds,
			"target", targetDuration,
		)
	}

	return segment, nil
}

// Standardize re-encodes a full asset to the target spec, producing the
// standardized copy used when a probed file does not conform.
func (r *Renderer) Standardize(ctx context.Context, inputPath, outputPath string) error {
	if err := validateFile(inputPath); err != nil {
		return fmt.Errorf("standardize failed: %w", err)
	}
	if err := runFFmpeg(ctx, r.encodeArgs(inputPath, outputPath, 0)); err != nil {
		return fmt.Errorf("standardize of %s failed: %w", inputPath, err)
	}
	return nil
}

// encodeArgs builds the ffmpeg arguments for a conformant re-encode of
// inputPath, trimmed to duration seconds when duration > 0. Presentation
// timestamps are regenerated and the start offset zeroed so downstream
// concatenation is a clean stream copy.
func (r *Renderer) encodeArgs(inputPath, outputPath string, duration float64) []string {
	args := []string{
		"-y",
		"-fflags", "+genpts",
		"-ss", "0",
		"-i", inputPath,
	}

	if duration > 0 {
		args = append(args, "-t", fmt.Sprintf("%.3f", duration))
	}

	args = append(args,
		"-vf", fmt.Sprintf("scale=%d:%d,fps=%g", r.spec.Width, r.spec.Height, r.spec.FrameRate),
		"-r", fmt.Sprintf("%g", r.spec.FrameRate),
		"-c:v", videoEncoder(r.spec.VideoCodec),
		"-preset", defaultPreset,
		"-pix_fmt", "yuv420p",
		"-c:a", audioEncoder(r.spec.AudioCodec),
		"-ar", defaultAudioSampleRate,
		"-ac", defaultAudioChannels,
		"-avoid_negative_ts", "make_zero",
		"-movflags", "+faststart",
		outputPath,
	)

	return args
}

// reverseArgs builds the ffmpeg arguments that play a conformant clip
// backwards, reversing both video frames and audio samples.
func (r *Renderer) reverseArgs(inputPath, outputPath string) []string {
	return []string{
		"-y",
		"-i", inputPath,
		"-vf", "reverse",
		"-af", "areverse",
		"-c:v", videoEncoder(r.spec.VideoCodec),
		"-preset", defaultPreset,
		"-pix_fmt", "yuv420p",
		"-c:a", audioEncoder(r.spec.AudioCodec),
		"-ar", defaultAudioSampleRate,
		"-ac", defaultAudioChannels,
		"-movflags", "+faststart",
		outputPath,
	}
}

// copyTrimArgs builds the ffmpeg arguments for a stream-copy trim to the
// first duration seconds of an already conformant input.
func copyTrimArgs(inputPath, outputPath string, duration float64) []string {
	return []string{
		"-y",
		"-i", inputPath,
		"-t", fmt.Sprintf("%.3f", duration),
		"-c", "copy",
		"-avoid_negative_ts", "make_zero",
		outputPath,
	}
}

func videoEncoder(codec string) string {
	if enc, ok := videoEncoders[codec]; ok {
		return enc
	}
	return videoEncoders["h264"]
}

func audioEncoder(codec string) string {
	if enc, ok := audioEncoders[codec]; ok {
		return enc
	}
	return audioEncoders["aac"]
}
