// Package pipeline orchestrates a full processing session: validate the clip
// pool, assign clips to beat intervals, render the segments, concatenate them
// and mux the soundtrack back in.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"path/filepath"
	"time"

	"github.com/beatcut/beatcut/internal/assign"
	"github.com/beatcut/beatcut/internal/domain"
	"github.com/beatcut/beatcut/internal/probe"
	"github.com/beatcut/beatcut/internal/progress"
	"github.com/beatcut/beatcut/internal/render"
	"github.com/beatcut/beatcut/internal/storage"
	"github.com/beatcut/beatcut/internal/workspace"
)

var ErrNoValidAssets = errors.New("no valid assets in pool")

// Prober inspects a media file and reports its properties.
type Prober interface {
	Probe(ctx context.Context, path string) (*probe.Result, error)
}

// ProberFunc adapts a plain probe function to the Prober interface.
type ProberFunc func(ctx context.Context, path string) (*probe.Result, error)

func (f ProberFunc) Probe(ctx context.Context, path string) (*probe.Result, error) {
	return f(ctx, path)
}

// MediaRenderer covers the ffmpeg operations the pipeline drives.
type MediaRenderer interface {
	Render(ctx context.Context, asset domain.MediaAsset, targetDuration float64, workDir string, index int) (*render.Segment, error)
	Standardize(ctx context.Context, inputPath, outputPath string) error
	Concatenate(ctx context.Context, segmentPaths []string, outputPath string) error
	Mux(ctx context.Context, videoPath, audioPath, outputPath string) error
}

// Request describes one processing session.
type Request struct {
	Beats      []float64
	Assets     []domain.MediaAsset
	AudioPath  string
	OutputName string
	Randomize  bool
}

// Result reports the outcome of a completed session.
type Result struct {
	OutputRef   string
	Assignments []domain.Assignment
	Assets      []domain.MediaAsset
}

// Pipeline runs processing sessions. Each Run gets its own workspace
// directory which is removed on every exit path.
type Pipeline struct {
	prober       Prober
	renderer     MediaRenderer
	workspaces   *workspace.Manager
	store        storage.Store
	spec         domain.EncodeSpec
	tailDuration float64
}

func New(prober Prober, renderer MediaRenderer, workspaces *workspace.Manager, store storage.Store, spec domain.EncodeSpec, tailDuration float64) *Pipeline {
	return &Pipeline{
		prober:       prober,
		renderer:     renderer,
		workspaces:   workspaces,
		store:        store,
		spec:         spec,
		tailDuration: tailDuration,
	}
}

// Run executes the full pipeline for one request. Listeners receive every
// progress event synchronously.
func (p *Pipeline) Run(ctx context.Context, req Request, listeners ...func(progress.Event)) (*Result, error) {
	reporter := progress.NewReporter()
	for _, listener := range listeners {
		reporter.AddListener(listener)
	}

	track, err := domain.NewBeatTrack(req.Beats)
	if err != nil {
		return nil, p.fail(reporter, err)
	}

	session, err := p.workspaces.Acquire()
	if err != nil {
		return nil, p.fail(reporter, fmt.Errorf("failed to acquire workspace: %w", err))
	}
	defer session.Release()

	assets, err := p.validate(ctx, reporter, session, req.Assets)
	if err != nil {
		return nil, p.fail(reporter, err)
	}

	pool := validAssets(assets)
	if len(pool) == 0 {
		return nil, p.fail(reporter, ErrNoValidAssets)
	}

	intervals := track.Intervals(p.tailDuration)

	var rng *rand.Rand
	if req.Randomize {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	assignments, err := assign.Assign(intervals, pool, req.Randomize, rng)
	if err != nil {
		return nil, p.fail(reporter, fmt.Errorf("failed to assign clips: %w", err))
	}

	segmentPaths, err := p.renderSegments(ctx, reporter, session, pool, assignments, intervals)
	if err != nil {
		return nil, p.fail(reporter, err)
	}

	reporter.BeginPhase(progress.PhaseConcat, 1)
	mergedPath := filepath.Join(session.Dir, "merged.mp4")
	if err := p.renderer.Concatenate(ctx, segmentPaths, mergedPath); err != nil {
		return nil, p.fail(reporter, fmt.Errorf("failed to concatenate segments: %w", err))
	}
	reporter.CompleteUnit("Segments merged")

	reporter.BeginPhase(progress.PhaseMux, 1)
	finalPath := filepath.Join(session.Dir, "final.mp4")
	if err := p.renderer.Mux(ctx, mergedPath, req.AudioPath, finalPath); err != nil {
		return nil, p.fail(reporter, fmt.Errorf("failed to mux audio: %w", err))
	}
	reporter.CompleteUnit("Audio muxed")

	outputName := req.OutputName
	if outputName == "" {
		outputName = session.ID + ".mp4"
	}
	ref, err := p.store.Publish(ctx, finalPath, outputName)
	if err != nil {
		return nil, p.fail(reporter, fmt.Errorf("failed to publish output: %w", err))
	}

	reporter.Done("Processing completed")
	slog.Info("Pipeline completed", "sessionId", session.ID, "output", ref, "segments", len(segmentPaths))

	return &Result{
		OutputRef:   ref,
		Assignments: assignments,
		Assets:      assets,
	}, nil
}

// validate probes every asset in the pool. Unreadable assets are marked
// invalid and skipped rather than failing the whole session; nonconformant
// ones are standardized into the session workspace first.
func (p *Pipeline) validate(ctx context.Context, reporter *progress.Reporter, session *workspace.Session, input []domain.MediaAsset) ([]domain.MediaAsset, error) {
	reporter.Status("Validating clip pool")
	reporter.BeginPhase(progress.PhaseValidation, len(input))

	assets := make([]domain.MediaAsset, len(input))
	copy(assets, input)

	for i := range assets {
		asset := &assets[i]

		result, err := p.prober.Probe(ctx, asset.StoragePath)
		if err != nil {
			asset.IsValid = false
			asset.ValidationError = err.Error()
			slog.Warn("Skipping unreadable asset", "asset", asset.OriginalName, "error", err)
			reporter.CompleteUnit(fmt.Sprintf("Skipped %s", asset.OriginalName))
			continue
		}

		if result.NeedsReencode(p.spec) {
			standardizedPath := filepath.Join(session.Dir, fmt.Sprintf("standardized_%03d.mp4", i))
			if err := p.renderer.Standardize(ctx, asset.StoragePath, standardizedPath); err != nil {
				asset.IsValid = false
				asset.ValidationError = err.Error()
				slog.Warn("Failed to standardize asset", "asset", asset.OriginalName, "error", err)
				reporter.CompleteUnit(fmt.Sprintf("Skipped %s", asset.OriginalName))
				continue
			}
			asset.StoragePath = standardizedPath

			result, err = p.prober.Probe(ctx, standardizedPath)
			if err != nil {
				asset.IsValid = false
				asset.ValidationError = err.Error()
				slog.Warn("Skipping asset after standardization", "asset", asset.OriginalName, "error", err)
				reporter.CompleteUnit(fmt.Sprintf("Skipped %s", asset.OriginalName))
				continue
			}
		}

		asset.DurationSeconds = result.Duration
		asset.IsValid = true
		reporter.CompleteUnit(fmt.Sprintf("Validated %s", asset.OriginalName))
	}

	return assets, nil
}

func (p *Pipeline) renderSegments(ctx context.Context, reporter *progress.Reporter, session *workspace.Session, pool []domain.MediaAsset, assignments []domain.Assignment, intervals []float64) ([]string, error) {
	reporter.Status("Cutting segments")
	reporter.BeginPhase(progress.PhaseTrim, len(assignments))

	byID := make(map[string]domain.MediaAsset, len(pool))
	for _, asset := range pool {
		byID[asset.ID] = asset
	}

	paths := make([]string, 0, len(assignments))
	for _, assignment := range assignments {
		asset, ok := byID[assignment.AssetID]
		if !ok {
			return nil, fmt.Errorf("assignment references unknown asset %s", assignment.AssetID)
		}

		target := intervals[assignment.IntervalIndex]
		segment, err := p.renderer.Render(ctx, asset, target, session.Dir, assignment.IntervalIndex)
		if err != nil {
			return nil, fmt.Errorf("failed to render segment %d: %w", assignment.IntervalIndex, err)
		}
		if segment.Underfilled {
			reporter.Status(fmt.Sprintf("Segment %d is shorter than its interval: clip %s cannot fill %.2fs", assignment.IntervalIndex, asset.OriginalName, target))
		}

		paths = append(paths, segment.Path)
		reporter.CompleteUnit(fmt.Sprintf("Rendered segment %d", assignment.IntervalIndex))
	}

	return paths, nil
}

func (p *Pipeline) fail(reporter *progress.Reporter, err error) error {
	reporter.Fail(err)
	return err
}

func validAssets(assets []domain.MediaAsset) []domain.MediaAsset {
	var valid []domain.MediaAsset
	for _, asset := range assets {
		if asset.IsValid {
			valid = append(valid, asset)
		}
	}
	return valid
}
