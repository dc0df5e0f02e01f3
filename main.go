package main

import (
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/dermalens/dermalens/internal/align"
	"github.com/dermalens/dermalens/internal/analyze"
	"github.com/dermalens/dermalens/internal/config"
	"github.com/dermalens/dermalens/internal/detect"
	"github.com/dermalens/dermalens/internal/pipeline"
	"github.com/dermalens/dermalens/internal/quality"
	"github.com/dermalens/dermalens/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}
	if level, err := log.ParseLevel(cfg.LogLevel); err == nil {
		log.SetLevel(level)
	}

	checker := quality.NewChecker(quality.Thresholds{
		MinWidth:      cfg.MinWidth,
		MinHeight:     cfg.MinHeight,
		MinBrightness: cfg.MinBrightness,
		MaxBrightness: cfg.MaxBrightness,
		MinSharpness:  cfg.MinSharpness,
	})

	fast, err := detect.NewFastDetector(detect.FastDetectorConfig{
		CascadePath:    cfg.CascadePath,
		MinFaceSize:    cfg.MinFaceSize,
		ScoreThreshold: cfg.DetectionScore,
	})
	if err != nil {
		log.Fatalf("Face detector init failed: %v", err)
	}

	var dense detect.LandmarkDetector
	if cfg.LandmarkURL != "" {
		mesh := detect.NewMeshClient(cfg.LandmarkURL)
		mesh.SetTimeout(time.Duration(cfg.LandmarkTimeoutSec) * time.Second)
		if err := mesh.Health(); err != nil {
			log.Warnf("Landmark service unreachable, running cascade-only: %v", err)
		} else {
			dense = mesh
		}
	}
	locator := detect.NewLocator(fast, dense, cfg.PaddingRatio)

	aligner := align.NewAligner(cfg.AlignedSize)

	var provider analyze.Provider
	if cfg.ProviderURL != "" {
		provider = analyze.NewProviderClient(cfg.ProviderURL, cfg.ProviderAPIKey,
			time.Duration(cfg.ProviderTimeoutSec)*time.Second)
	}

	schema := analyze.DefaultSchema()
	var model analyze.Model
	if cfg.ModelWeightsPath != "" {
		local, err := analyze.LoadModel(cfg.ModelWeightsPath)
		if err != nil {
			log.Warnf("Local model unavailable, relying on provider and rules: %v", err)
		} else {
			model = local
			schema = local.Schema()
		}
	}

	post := analyze.NewPostProcessor(schema, cfg.ConcernThreshold, cfg.MaxRecommendations)
	analyzer := analyze.NewAnalyzer(provider, model, post)

	pipe := pipeline.New(checker, locator, aligner, analyzer)

	srv := server.New(pipe)
	if err := srv.Run(cfg.ListenAddr); err != nil {
		log.Fatalf("Server exited: %v", err)
	}
}
