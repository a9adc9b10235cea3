// Package quality scores frames on four independent visual metrics and
// combines them into an overall score. The normalization constants are
// empirically tuned and preserved exactly so scores stay comparable
// across runs; they have no derivable rationale. Do not adjust them.
package quality

import (
	"context"
	"io"
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/mpearce/vidvet/internal/config"
	"github.com/mpearce/vidvet/internal/decode"
	"github.com/mpearce/vidvet/internal/errors"
	"github.com/mpearce/vidvet/internal/imaging"
	"github.com/mpearce/vidvet/internal/logging"
	"github.com/mpearce/vidvet/internal/score"
	"github.com/mpearce/vidvet/internal/util"
)

// Metric names used in quality reports.
const (
	MetricResolution = "resolution_score"
	MetricSharpness  = "sharpness_score"
	MetricColor      = "color_score"
	MetricLighting   = "lighting_score"
	MetricOverall    = "overall_quality"
)

// sharpnessMaxWidth is the luma downscale limit for the Laplacian pass.
const sharpnessMaxWidth = 1280

// ResolutionScore maps total pixel count onto resolution tiers. 4K and
// above saturates at 1.0; each lower tier gets a linear ramp within its
// band.
func ResolutionScore(width, height int) (float64, error) {
	if width <= 0 || height <= 0 {
		return 0, errors.NewScorerError("quality", "frame has no pixels", nil)
	}
	px := float64(width * height)

	switch {
	case px >= 8000000:
		return 1.0, nil
	case px >= 2000000:
		return 0.7 + (px-2000000)/6000000*0.3, nil
	case px >= 900000:
		return 0.3 + (px-900000)/1100000*0.4, nil
	case px >= 300000:
		return 0.1 + (px-300000)/600000*0.2, nil
	default:
		return px / 300000 * 0.1, nil
	}
}

// SharpnessScore measures edge energy via the variance of a Laplacian
// filter over the downscaled luma plane.
func SharpnessScore(frame *decode.Frame) (float64, error) {
	if frame == nil || len(frame.Pix) == 0 {
		return 0, errors.NewScorerError("quality", "empty frame", nil)
	}

	gray := imaging.GrayFromRGB(frame.Pix, frame.Width, frame.Height)
	gray = imaging.ResizeGrayMaxWidth(gray, sharpnessMaxWidth)

	variance := imaging.LaplacianVariance(gray)
	s := math.Pow(math.Tanh(variance/300.0), 0.8)
	return util.Clamp01(s), nil
}

// ColorScore combines channel balance (65%) with a saturation band fit
// (35%). Balance penalizes coefficient of variation across the R/G/B
// channel means; saturation peaks inside [0.35, 0.65] mean HSV saturation.
func ColorScore(frame *decode.Frame) (float64, error) {
	if frame == nil || len(frame.Pix) == 0 {
		return 0, errors.NewScorerError("quality", "empty frame", nil)
	}

	r, g, b := frame.ChannelMeans()
	means := []float64{r, g, b}
	mean := stat.Mean(means, nil)
	std := stat.PopStdDev(means, nil)

	cv := std / (mean + 1e-8)
	balance := math.Pow(1.0-math.Tanh(cv*3.0), 1.2)

	saturation := frame.MeanSaturation()
	satScore := bandScore(saturation, 0.35, 0.65, 0.35, 0.35, 1.5)

	return util.Clamp01(balance*0.65 + satScore*0.35), nil
}

// LightingScore combines brightness-band fit, dynamic-range-band fit and
// a histogram clipping penalty as 45/45/10, raised to 0.9.
func LightingScore(frame *decode.Frame) (float64, error) {
	if frame == nil || len(frame.Pix) == 0 {
		return 0, errors.NewScorerError("quality", "empty frame", nil)
	}

	gray := imaging.GrayFromRGB(frame.Pix, frame.Width, frame.Height)

	brightness := imaging.MeanLuma(gray) / 255.0
	brightnessScore := bandScore(brightness, 0.42, 0.58, 0.42, 0.42, 1.5)

	minPx, maxPx := imaging.MinMax(gray)
	dynamicRange := float64(maxPx-minPx) / 255.0
	rangeScore := bandScore(dynamicRange, 0.75, 0.92, 0.75, 0.08, 1.5)

	hist := imaging.Histogram256(gray)
	var over, under float64
	for i := 240; i < 256; i++ {
		over += hist[i]
	}
	for i := 0; i < 16; i++ {
		under += hist[i]
	}
	clipping := math.Pow(over+under, 1.5) * 0.8

	lighting := brightnessScore*0.45 + rangeScore*0.45 + (1.0-clipping)*0.1
	return util.Clamp01(math.Pow(lighting, 0.9)), nil
}

// bandScore is 1.0 inside [lo, hi] and falls off with the given exponent
// outside it. loDiv and hiDiv are the normalization spans below and above
// the band.
func bandScore(v, lo, hi, loDiv, hiDiv, exp float64) float64 {
	var s float64
	switch {
	case v >= lo && v <= hi:
		return 1.0
	case v < lo:
		s = math.Pow(v/loDiv, exp)
	default:
		s = math.Pow(1.0-(v-hi)/hiDiv, exp)
	}
	if math.IsNaN(s) {
		return 0
	}
	return util.Clamp01(s)
}

// ScoreFrames computes the full quality report over already-sampled
// frames. Resolution comes from the first frame only. A frame whose
// metrics fail is skipped; no scorable frames yields an all-zero report.
func ScoreFrames(frames []*decode.Frame) score.Report {
	if len(frames) == 0 {
		return zeroReport()
	}

	var (
		resolution float64
		sharpness  []float64
		colors     []float64
		lightings  []float64
	)

	resolution, err := ResolutionScore(frames[0].Width, frames[0].Height)
	if err != nil {
		logging.Warn("resolution metric failed", "error", err)
		resolution = 0
	}

	for _, frame := range frames {
		s, err := SharpnessScore(frame)
		if err != nil {
			logging.Warn("sharpness metric failed on frame", "timestamp", frame.Timestamp, "error", err)
			continue
		}
		c, err := ColorScore(frame)
		if err != nil {
			logging.Warn("color metric failed on frame", "timestamp", frame.Timestamp, "error", err)
			continue
		}
		l, err := LightingScore(frame)
		if err != nil {
			logging.Warn("lighting metric failed on frame", "timestamp", frame.Timestamp, "error", err)
			continue
		}
		sharpness = append(sharpness, s)
		colors = append(colors, c)
		lightings = append(lightings, l)
	}

	if len(sharpness) == 0 {
		return zeroReport()
	}

	avgSharpness := stat.Mean(sharpness, nil)
	avgColor := stat.Mean(colors, nil)
	avgLighting := stat.Mean(lightings, nil)

	overall := resolution*0.15 + avgSharpness*0.35 + avgColor*0.20 + avgLighting*0.30
	overall = math.Pow(overall, 0.85)

	return score.Report{
		MetricResolution: util.Clamp01(resolution),
		MetricSharpness:  util.Clamp01(avgSharpness),
		MetricColor:      util.Clamp01(avgColor),
		MetricLighting:   util.Clamp01(avgLighting),
		MetricOverall:    util.Clamp01(overall),
	}
}

func zeroReport() score.Report {
	return score.Report{
		MetricResolution: 0,
		MetricSharpness:  0,
		MetricColor:      0,
		MetricLighting:   0,
		MetricOverall:    0,
	}
}

// Scorer samples frames from a source and scores them. It satisfies the
// pipeline Scorer interface.
type Scorer struct {
	FrameInterval float64 // seconds between sampled frames
	MaxFrames     int
}

// NewScorer returns a Scorer with the default sampling parameters.
func NewScorer() *Scorer {
	return &Scorer{
		FrameInterval: config.DefaultQualityFrameInterval,
		MaxFrames:     config.DefaultQualityMaxFrames,
	}
}

// Name implements the pipeline Scorer interface.
func (s *Scorer) Name() string { return "quality" }

// Score samples up to MaxFrames frames at FrameInterval spacing and runs
// the quality metrics over them. Scorer-level failures return an all-zero
// report with the error so the caller can mark the result.
func (s *Scorer) Score(ctx context.Context, src decode.Source) (score.Report, error) {
	frames, err := SampleFrames(ctx, src, s.FrameInterval, s.MaxFrames, 0)
	if err != nil {
		return zeroReport(), err
	}
	return ScoreFrames(frames), nil
}

// SampleFrames reads frames at a fixed interval from the sequential
// stream, optionally downscaled to maxWidth. Used by both scorers.
func SampleFrames(ctx context.Context, src decode.Source, interval float64, maxFrames, maxWidth int) ([]*decode.Frame, error) {
	// Low-fps sources are stepped as if they ran at 30, so the sample
	// positions stay stable across frame rates.
	fps := src.FrameRate()
	if fps < 30 {
		fps = 30
	}
	step := int(fps * interval)
	if step < 1 {
		step = 1
	}

	reader, err := src.Reader(ctx, maxWidth)
	if err != nil {
		return nil, err
	}
	defer func() { _ = reader.Close() }()

	var frames []*decode.Frame
	index := 0
	for len(frames) < maxFrames {
		if err := ctx.Err(); err != nil {
			return nil, errors.NewCancelledError()
		}
		frame, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if index%step == 0 {
			frames = append(frames, frame)
		}
		index++
	}
	return frames, nil
}
