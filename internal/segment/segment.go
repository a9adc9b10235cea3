// Package segment finds scene boundaries in a video by scanning decoded
// frames for abrupt changes in intensity and edge structure.
package segment

import (
	"context"
	"image"
	"io"
	"math"

	"github.com/mpearce/vidvet/internal/config"
	"github.com/mpearce/vidvet/internal/decode"
	"github.com/mpearce/vidvet/internal/errors"
	"github.com/mpearce/vidvet/internal/imaging"
	"github.com/mpearce/vidvet/internal/logging"
)

// Boundary is one detected scene, a half-open time interval of the video.
type Boundary struct {
	Start float64 // seconds, inclusive
	End   float64 // seconds, exclusive
}

// Duration returns the scene length in seconds.
func (b Boundary) Duration() float64 { return b.End - b.Start }

// sobelEdgeThreshold is the gradient magnitude above which a pixel counts
// as an edge when comparing edge density between frames.
const sobelEdgeThreshold = 96.0

// accumulatorDecay controls how quickly older frame deltas fade out of the
// change accumulator. A change must be sustained or sharp enough to push
// the decayed sum past the threshold before a cut is emitted.
const accumulatorDecay = 0.5

// ProgressFunc receives the number of frames scanned so far and the total
// expected frame count.
type ProgressFunc func(done, total int)

// Detect scans src for scene changes and returns the resulting boundaries.
// The boundaries partition [0, duration) exactly. A video with no detected
// cuts returns a single boundary covering the whole file.
func Detect(ctx context.Context, src decode.Source, threshold float64) ([]Boundary, error) {
	return DetectWithProgress(ctx, src, threshold, nil)
}

// DetectWithProgress is Detect with a per-frame progress callback.
func DetectWithProgress(ctx context.Context, src decode.Source, threshold float64, progress ProgressFunc) ([]Boundary, error) {
	if threshold <= 0 || threshold > config.MaxSceneThreshold {
		threshold = config.DefaultSceneThreshold
	}

	reader, err := src.Reader(ctx, config.DefaultAnalysisWidth)
	if err != nil {
		return nil, err
	}
	defer func() { _ = reader.Close() }()

	total := src.TotalFrames()
	duration := src.Duration()

	var (
		prevGray *image.Gray
		prevEdge float64
		acc      float64
		cuts     []float64
		scanned  int
	)

	for {
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

		gray := imaging.GrayFromRGB(frame.Pix, frame.Width, frame.Height)
		edge := imaging.EdgeDensity(gray, sobelEdgeThreshold)

		if prevGray != nil {
			intensity := imaging.MeanAbsDiff(prevGray, gray)
			delta := 0.5*intensity + 0.5*math.Abs(edge-prevEdge)*255.0

			acc = acc*accumulatorDecay + delta
			if acc > threshold {
				cuts = append(cuts, frame.Timestamp)
				acc = 0
			}
		}

		prevGray = gray
		prevEdge = edge
		scanned++
		if progress != nil {
			progress(scanned, total)
		}
	}

	if scanned == 0 {
		return nil, errors.NewDecodeError("video produced no frames", nil)
	}

	boundaries := boundariesFromCuts(cuts, duration)
	logging.Debug("scene detection complete",
		"frames", scanned, "cuts", len(cuts), "scenes", len(boundaries))
	return boundaries, nil
}

// boundariesFromCuts turns cut timestamps into a partition of the video.
// Cuts at or past the end of the video are dropped rather than producing
// empty scenes.
func boundariesFromCuts(cuts []float64, duration float64) []Boundary {
	boundaries := make([]Boundary, 0, len(cuts)+1)
	start := 0.0
	for _, cut := range cuts {
		if cut <= start || cut >= duration {
			continue
		}
		boundaries = append(boundaries, Boundary{Start: start, End: cut})
		start = cut
	}
	boundaries = append(boundaries, Boundary{Start: start, End: duration})
	return boundaries
}
