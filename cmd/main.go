package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	ansi "github.com/k0kubun/go-ansi"
	"github.com/schollz/progressbar/v3"

	"github.com/beatcut/beatcut/config"
	"github.com/beatcut/beatcut/internal/domain"
	"github.com/beatcut/beatcut/internal/pipeline"
	"github.com/beatcut/beatcut/internal/probe"
	"github.com/beatcut/beatcut/internal/progress"
	"github.com/beatcut/beatcut/internal/render"
	"github.com/beatcut/beatcut/internal/server"
	"github.com/beatcut/beatcut/internal/storage"
	"github.com/beatcut/beatcut/internal/workspace"
	"github.com/google/uuid"
)

func main() {
	audioPath := flag.String("audio", "", "Path to the audio track (required)")
	beatsPath := flag.String("beats", "", "Path to a JSON file with beat timestamps in seconds (required)")
	outputName := flag.String("output", "final.mp4", "Name of the output file")
	randomize := flag.Bool("randomize", false, "Shuffle clip candidate order before assignment")
	configPath := flag.String("config", "", "Path to config file (optional)")

	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [flags] video1.mp4 video2.mp4 ...\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if *audioPath == "" {
		log.Fatal("Missing required flag: -audio")
	}
	if *beatsPath == "" {
		log.Fatal("Missing required flag: -beats")
	}
	videoPaths := flag.Args()
	if len(videoPaths) == 0 {
		log.Fatal("At least one video file is required")
	}

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			log.Fatal(err)
		}
		cfg = loaded
	}

	beats, err := loadBeats(*beatsPath)
	if err != nil {
		log.Fatal(err)
	}

	assets := make([]domain.MediaAsset, len(videoPaths))
	for i, path := range videoPaths {
		assets[i] = domain.MediaAsset{
			ID:           uuid.NewString(),
			OriginalName: filepath.Base(path),
			StoragePath:  path,
		}
	}

	workspaces, err := workspace.NewManager(cfg.Workspace.BaseDir)
	if err != nil {
		log.Fatal(err)
	}
	store, err := storage.NewLocalStore(cfg.Storage.OutputDir)
	if err != nil {
		log.Fatal(err)
	}

	spec := server.EncodeSpec(cfg)
	p := pipeline.New(
		pipeline.ProberFunc(probe.Probe),
		render.NewRenderer(spec),
		workspaces,
		store,
		spec,
		cfg.TailDuration,
	)

	bar := progressbar.NewOptions(
		100,
		progressbar.OptionSetWriter(ansi.NewAnsiStdout()),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetTheme(progressbar.ThemeASCII),
		progressbar.OptionFullWidth(),
		progressbar.OptionShowCount(),
		progressbar.OptionSetDescription("[cyan]Rendering...[reset]"),
	)

	result, err := p.Run(context.Background(), pipeline.Request{
		Beats:      beats,
		Assets:     assets,
		AudioPath:  *audioPath,
		OutputName: *outputName,
		Randomize:  *randomize,
	}, func(event progress.Event) {
		if event.Type == progress.TypeProgressUpdate {
			_ = bar.Set(int(event.OverallPercent))
		}
	})
	if err != nil {
		fmt.Println()
		log.Fatal(err)
	}

	fmt.Printf("\nDone: %s\n", result.OutputRef)
}

func loadBeats(path string) ([]float64, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read beats file: %w", err)
	}

	var beats []float64
	if err := json.Unmarshal(data, &beats); err != nil {
		return nil, fmt.Errorf("failed to parse beats file: %w", err)
	}
	return beats, nil
}
