// Package pipeline orchestrates a full analysis run: segmentation,
// artifact extraction, and every registered scorer against the same
// source, producing one AnalysisResult.
package pipeline

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mpearce/vidvet/internal/config"
	"github.com/mpearce/vidvet/internal/decode"
	"github.com/mpearce/vidvet/internal/errors"
	"github.com/mpearce/vidvet/internal/extract"
	"github.com/mpearce/vidvet/internal/facedetect"
	"github.com/mpearce/vidvet/internal/logging"
	"github.com/mpearce/vidvet/internal/reporter"
	"github.com/mpearce/vidvet/internal/score"
	"github.com/mpearce/vidvet/internal/score/authenticity"
	"github.com/mpearce/vidvet/internal/score/quality"
	"github.com/mpearce/vidvet/internal/segment"
)

// Scorer is one registered scoring component.
type Scorer interface {
	Name() string
	Score(ctx context.Context, src decode.Source) (score.Report, error)
}

// ScorerResult pairs a scorer name with its report, or the error that
// replaced it.
type ScorerResult struct {
	Name   string
	Report score.Report
	Err    error
}

// AnalysisResult is the complete output of one run.
type AnalysisResult struct {
	RunID   uuid.UUID
	Scenes  []extract.Scene
	Scorers []ScorerResult
}

// DefaultScorers returns the scorer registry in its fixed registration
// order. The order defines result ordering in every AnalysisResult.
func DefaultScorers(det facedetect.Detector) []Scorer {
	return []Scorer{
		quality.NewScorer(),
		authenticity.NewScorer(det),
	}
}

// Pipeline runs analysis with a fixed configuration and scorer registry.
type Pipeline struct {
	Threshold         float64
	KeyframesPerScene int
	Scorers           []Scorer
	Reporter          reporter.Reporter
}

// New builds a Pipeline from the configuration. A nil reporter reports
// nothing.
func New(cfg *config.Config, scorers []Scorer, rep reporter.Reporter) *Pipeline {
	if rep == nil {
		rep = reporter.NullReporter{}
	}
	return &Pipeline{
		Threshold:         cfg.SceneThreshold,
		KeyframesPerScene: cfg.KeyframesPerScene,
		Scorers:           scorers,
		Reporter:          rep,
	}
}

// Run performs segmentation, extraction and scoring. The source is closed
// on every exit path. Callers receive either a complete result, possibly
// with per-scorer error markers, or a single fatal error explaining why
// no scenes could be produced.
func (p *Pipeline) Run(ctx context.Context, src decode.Source) (*AnalysisResult, error) {
	defer func() {
		if err := src.Close(); err != nil {
			logging.Warn("failed to close video source", "error", err)
		}
	}()

	started := time.Now()
	runID := uuid.New()

	p.Reporter.SegmentationStarted(src.TotalFrames())
	boundaries, err := segment.DetectWithProgress(ctx, src, p.Threshold, func(done, total int) {
		percent := float32(0)
		if total > 0 {
			percent = float32(done) / float32(total) * 100
		}
		p.Reporter.SegmentationProgress(reporter.ProgressSnapshot{
			CurrentFrame: done,
			TotalFrames:  total,
			Percent:      percent,
		})
	})
	if err != nil {
		return nil, err
	}
	p.Reporter.ScenesDetected(len(boundaries))

	scenes, err := extract.Extract(ctx, src, boundaries, p.KeyframesPerScene)
	if err != nil {
		return nil, err
	}
	for _, scene := range scenes {
		p.Reporter.SceneSummary(reporter.SceneSummary{
			Index:         scene.Index,
			Start:         scene.Start,
			End:           scene.End,
			Duration:      scene.Duration(),
			KeyframeCount: len(scene.Keyframes),
			HasAudio:      scene.Audio != nil,
			Warnings:      scene.Warnings,
		})
	}

	results := p.runScorers(ctx, src)
	for _, result := range results {
		outcome := reporter.ScorerOutcome{Name: result.Name, Metrics: result.Report}
		if result.Err != nil {
			outcome.Failed = true
			outcome.Err = result.Err.Error()
		}
		p.Reporter.ScorerComplete(outcome)
	}

	p.Reporter.AnalysisComplete(reporter.AnalysisOutcome{
		RunID:      runID.String(),
		SceneCount: len(scenes),
		TotalTime:  time.Since(started),
	})

	return &AnalysisResult{
		RunID:   runID,
		Scenes:  scenes,
		Scorers: results,
	}, nil
}

// runScorers executes every scorer concurrently and collects results in
// registration order. A panicking scorer is recorded with an error marker
// and does not halt its siblings.
func (p *Pipeline) runScorers(ctx context.Context, src decode.Source) []ScorerResult {
	results := make([]ScorerResult, len(p.Scorers))

	var wg sync.WaitGroup
	for i, scorer := range p.Scorers {
		wg.Add(1)
		go func(i int, scorer Scorer) {
			defer wg.Done()
			results[i] = runOne(ctx, scorer, src)
		}(i, scorer)
	}
	wg.Wait()

	return results
}

func runOne(ctx context.Context, scorer Scorer, src decode.Source) (result ScorerResult) {
	result.Name = scorer.Name()
	defer func() {
		if r := recover(); r != nil {
			logging.Error("scorer panicked", "scorer", result.Name, "panic", r)
			result.Report = nil
			result.Err = errors.NewScorerError(result.Name, fmt.Sprintf("panicked: %v", r), nil)
		}
	}()

	report, err := scorer.Score(ctx, src)
	result.Report = report
	result.Err = err
	return result
}
