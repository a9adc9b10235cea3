// Package vidvet provides a Go library for video scene decomposition and
// scoring.
//
// Vidvet splits a video into content-bounded scenes, extracts positional
// keyframes and audio slices for each scene, and scores the footage on
// visual quality and on a noise-residual authenticity heuristic.
//
// Basic usage:
//
//	analyzer, err := vidvet.New(
//	    vidvet.WithSceneThreshold(27.0),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	result, err := analyzer.Analyze(ctx, "input.mp4", nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	for _, scorer := range result.Scorers {
//	    fmt.Printf("%s: %v\n", scorer.Name, scorer.Report)
//	}
package vidvet

import (
	"context"
	"fmt"

	"github.com/mpearce/vidvet/internal/config"
	"github.com/mpearce/vidvet/internal/decode"
	"github.com/mpearce/vidvet/internal/extract"
	"github.com/mpearce/vidvet/internal/facedetect"
	"github.com/mpearce/vidvet/internal/pipeline"
	"github.com/mpearce/vidvet/internal/reporter"
	"github.com/mpearce/vidvet/internal/score"
	"github.com/mpearce/vidvet/internal/score/authenticity"
	"github.com/mpearce/vidvet/internal/score/quality"
	"github.com/mpearce/vidvet/internal/segment"
	"github.com/mpearce/vidvet/internal/util"
)

// Re-export the result types callers work with.
type (
	Scene          = extract.Scene
	Keyframe       = extract.Keyframe
	Boundary       = segment.Boundary
	Frame          = decode.Frame
	Report         = score.Report
	ScorerResult   = pipeline.ScorerResult
	AnalysisResult = pipeline.AnalysisResult
	Reporter       = reporter.Reporter
)

// Quality metric names in reports.
const (
	MetricResolution   = quality.MetricResolution
	MetricSharpness    = quality.MetricSharpness
	MetricColor        = quality.MetricColor
	MetricLighting     = quality.MetricLighting
	MetricOverall      = quality.MetricOverall
	MetricAuthenticity = authenticity.MetricAuthenticity
)

// Analyzer is the main entry point for video analysis.
type Analyzer struct {
	config   *config.Config
	detector facedetect.Detector
}

// Option configures the analyzer.
type Option func(*config.Config)

// New creates a new Analyzer with the given options.
func New(opts ...Option) (*Analyzer, error) {
	cfg := config.NewConfig()

	for _, opt := range opts {
		opt(cfg)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	a := &Analyzer{config: cfg}
	if cfg.FaceCascadePath != "" {
		det, err := facedetect.NewPigoDetector(cfg.FaceCascadePath, float64(cfg.FaceMinQuality))
		if err != nil {
			return nil, err
		}
		a.detector = det
	}
	return a, nil
}

// WithSceneThreshold sets the content-difference threshold for scene cuts.
// Lower values produce more scenes.
func WithSceneThreshold(t float64) Option {
	return func(c *config.Config) {
		c.SceneThreshold = t
	}
}

// WithKeyframesPerScene sets how many positional keyframes each scene gets.
func WithKeyframesPerScene(n int) Option {
	return func(c *config.Config) {
		c.KeyframesPerScene = n
	}
}

// WithMaxFaces caps the number of faces the authenticity scorer analyzes.
func WithMaxFaces(n int) Option {
	return func(c *config.Config) {
		c.MaxFaces = n
	}
}

// WithFaceCascade sets the pigo cascade file used for face detection.
// Without a cascade the authenticity score is always 0.0.
func WithFaceCascade(path string) Option {
	return func(c *config.Config) {
		c.FaceCascadePath = path
	}
}

// WithArtifactDir enables writing keyframe JPEGs and scene audio WAVs
// under the given directory after extraction.
func WithArtifactDir(dir string) Option {
	return func(c *config.Config) {
		c.ArtifactDir = dir
	}
}

// WithBlurThreshold sets the Laplacian-variance threshold for key-moment
// sampling.
func WithBlurThreshold(t float64) Option {
	return func(c *config.Config) {
		c.BlurThreshold = t
	}
}

// WithConfig replaces the whole configuration, for callers loading it
// from a file.
func WithConfig(loaded *config.Config) Option {
	return func(c *config.Config) {
		*c = *loaded
	}
}

// Detector returns the configured face detector, or nil when no cascade
// is loaded.
func (a *Analyzer) Detector() facedetect.Detector { return a.detector }

// Analyze runs the full pipeline on a video file: segmentation, artifact
// extraction, and every registered scorer. A nil reporter reports nothing.
func (a *Analyzer) Analyze(ctx context.Context, input string, rep Reporter) (*AnalysisResult, error) {
	if rep == nil {
		rep = reporter.NullReporter{}
	}

	src, err := decode.Open(input)
	if err != nil {
		return nil, err
	}

	w, h := src.Bounds()
	audio := "none"
	if src.HasAudio() {
		audio = "mono pcm"
	}
	rep.Initialization(reporter.MediaSummary{
		InputFile:        util.GetFilename(input),
		Duration:         util.FormatDuration(src.Duration()),
		Resolution:       fmt.Sprintf("%dx%d", w, h),
		FrameRate:        fmt.Sprintf("%.3f fps", src.FrameRate()),
		AudioDescription: audio,
	})

	p := pipeline.New(a.config, pipeline.DefaultScorers(a.detector), rep)
	result, err := p.Run(ctx, src)
	if err != nil {
		return nil, err
	}

	if a.config.ArtifactDir != "" {
		if err := extract.WriteArtifacts(a.config.ArtifactDir, result.Scenes); err != nil {
			return nil, err
		}
	}
	return result, nil
}

// SegmentAndExtract splits the video into scenes and extracts keyframes
// and audio for each, without running any scorer.
func (a *Analyzer) SegmentAndExtract(ctx context.Context, input string) ([]Scene, error) {
	src, err := decode.Open(input)
	if err != nil {
		return nil, err
	}
	defer func() { _ = src.Close() }()

	return a.segmentAndExtract(ctx, src)
}

func (a *Analyzer) segmentAndExtract(ctx context.Context, src decode.Source) ([]Scene, error) {
	boundaries, err := segment.Detect(ctx, src, a.config.SceneThreshold)
	if err != nil {
		return nil, err
	}
	return extract.Extract(ctx, src, boundaries, a.config.KeyframesPerScene)
}

// ScoreQuality scores already-extracted frames on the four quality
// metrics plus the weighted overall score. All values are in [0, 1].
func (a *Analyzer) ScoreQuality(frames []*Frame) Report {
	return quality.ScoreFrames(frames)
}

// ScoreAuthenticity detects faces in the given frames and returns the
// fraction of up to maxFaces faces whose noise residual looks synthetic.
// Returns 0.0 when no detector is configured or no faces are found.
func (a *Analyzer) ScoreAuthenticity(frames []*Frame, maxFaces int) float64 {
	if a.detector == nil || maxFaces < 1 {
		return 0.0
	}

	var faces []authenticity.Face
	for _, frame := range frames {
		if len(faces) >= maxFaces {
			break
		}
		regions, err := a.detector.Detect(frame)
		if err != nil {
			continue
		}
		for _, region := range regions {
			if len(faces) >= maxFaces {
				break
			}
			faces = append(faces, authenticity.Face{Frame: frame, Region: region})
		}
	}
	return authenticity.ScoreFaces(faces)
}

// KeyMoments returns one sharp timestamp per scene, skipping blurry
// frames by Laplacian-variance test.
func (a *Analyzer) KeyMoments(ctx context.Context, input string) ([]float64, error) {
	src, err := decode.Open(input)
	if err != nil {
		return nil, err
	}
	defer func() { _ = src.Close() }()

	boundaries, err := segment.Detect(ctx, src, a.config.SceneThreshold)
	if err != nil {
		return nil, err
	}

	moments := make([]float64, 0, len(boundaries))
	for _, b := range boundaries {
		ms, err := segment.KeyMoments(ctx, src, b, 1, a.config.BlurThreshold)
		if err != nil {
			return nil, err
		}
		if len(ms) > 0 {
			moments = append(moments, ms[0])
		}
	}
	return moments, nil
}
