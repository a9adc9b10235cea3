// Package reporter provides progress reporting interfaces and implementations.
package reporter

import "time"

// MediaSummary describes the probed input before analysis begins.
type MediaSummary struct {
	InputFile        string
	Duration         string
	Resolution       string
	FrameRate        string
	AudioDescription string
}

// ProgressSnapshot contains segmentation scan progress.
type ProgressSnapshot struct {
	CurrentFrame int
	TotalFrames  int
	Percent      float32
}

// SceneSummary describes one extracted scene.
type SceneSummary struct {
	Index         int
	Start         float64
	End           float64
	Duration      float64
	KeyframeCount int
	HasAudio      bool
	Warnings      []string
}

// ScorerOutcome contains one scorer's result or failure.
type ScorerOutcome struct {
	Name    string
	Metrics map[string]float64
	Failed  bool
	Err     string
}

// AnalysisOutcome contains the final run summary.
type AnalysisOutcome struct {
	RunID      string
	InputFile  string
	SceneCount int
	TotalTime  time.Duration
}

// ReporterError contains error information.
type ReporterError struct {
	Title      string
	Message    string
	Context    string
	Suggestion string
}

// BatchStartInfo contains batch start metadata.
type BatchStartInfo struct {
	TotalFiles int
	FileList   []string
}

// FileProgressContext contains current file index within a batch.
type FileProgressContext struct {
	CurrentFile int
	TotalFiles  int
}

// BatchSummary contains batch completion information.
type BatchSummary struct {
	SuccessfulCount int
	TotalFiles      int
	TotalDuration   time.Duration
}
