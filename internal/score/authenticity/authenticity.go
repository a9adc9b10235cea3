// Package authenticity estimates the fraction of detected faces whose
// noise signature looks synthetic. Real camera footage carries high
// frequency sensor noise in the residual spectrum; generated faces tend
// not to. The transform constants are empirically fixed and preserved
// exactly for score comparability. The output is a sensitive heuristic
// with known false positives, not a classifier verdict.
package authenticity

import (
	"context"
	"image"
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/dsp/fourier"

	"github.com/mpearce/vidvet/internal/config"
	"github.com/mpearce/vidvet/internal/decode"
	"github.com/mpearce/vidvet/internal/facedetect"
	"github.com/mpearce/vidvet/internal/imaging"
	"github.com/mpearce/vidvet/internal/logging"
	"github.com/mpearce/vidvet/internal/score"
	"github.com/mpearce/vidvet/internal/score/quality"
	"github.com/mpearce/vidvet/internal/util"
)

// MetricAuthenticity is the single metric name in authenticity reports.
const MetricAuthenticity = "authenticity_score"

// lowFreqHalf is half the side length of the central low-frequency block
// masked out of the shifted spectrum.
const lowFreqHalf = 20

// hfEnergyRatio computes the fraction of spectral energy outside the
// central low-frequency block of the shifted 2D FFT magnitude spectrum.
func hfEnergyRatio(residual []float64, w, h int) float64 {
	mag := fftMagnitude2D(residual, w, h)

	crow, ccol := h/2, w/2
	var total, high float64
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			m2 := mag[y*w+x] * mag[y*w+x]
			total += m2
			inBlock := y >= crow-lowFreqHalf && y < crow+lowFreqHalf &&
				x >= ccol-lowFreqHalf && x < ccol+lowFreqHalf
			if !inBlock {
				high += m2
			}
		}
	}
	return high / (total + 1e-8)
}

// fftMagnitude2D computes the centered magnitude spectrum of a real
// w-by-h signal: FFT across rows, then columns, then a half-length shift
// on both axes so the zero frequency lands in the middle.
func fftMagnitude2D(data []float64, w, h int) []float64 {
	grid := make([]complex128, w*h)
	for i, v := range data {
		grid[i] = complex(v, 0)
	}

	rowFFT := fourier.NewCmplxFFT(w)
	row := make([]complex128, w)
	for y := 0; y < h; y++ {
		copy(row, grid[y*w:(y+1)*w])
		rowFFT.Coefficients(grid[y*w:(y+1)*w], row)
	}

	colFFT := fourier.NewCmplxFFT(h)
	col := make([]complex128, h)
	out := make([]complex128, h)
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			col[y] = grid[y*w+x]
		}
		colFFT.Coefficients(out, col)
		for y := 0; y < h; y++ {
			grid[y*w+x] = out[y]
		}
	}

	mag := make([]float64, w*h)
	for y := 0; y < h; y++ {
		sy := (y + h/2) % h
		for x := 0; x < w; x++ {
			sx := (x + w/2) % w
			mag[sy*w+sx] = cmplx.Abs(grid[y*w+x])
		}
	}
	return mag
}

// FaceSuspicion scores one face region in [0, 1]. High values mean the
// region's residual spectrum lacks the high-frequency energy of real
// sensor noise.
func FaceSuspicion(frame *decode.Frame, region image.Rectangle) float64 {
	gray := imaging.GrayFromRGB(frame.Pix, frame.Width, frame.Height)
	face := gray.SubImage(region).(*image.Gray)
	canvas := imaging.ResizeGray(face, canvasSize, canvasSize)

	residual := noiseResidual(canvas)
	ratio := hfEnergyRatio(residual, canvasSize, canvasSize)

	realness := util.Clamp01((ratio - 0.1) / 0.4)
	suspicion := 1.0 - realness

	// Renormalize against the observed band and sharpen so borderline
	// faces separate toward 0 or 1.
	const minObserved, maxObserved = 0.7, 1.0
	var normalized float64
	switch {
	case suspicion <= minObserved:
		normalized = 0.0
	case suspicion >= maxObserved:
		normalized = 1.0
	default:
		normalized = (suspicion - minObserved) / (maxObserved - minObserved)
	}
	return util.Clamp01(math.Pow(normalized, 0.15))
}

// ScoreFaces returns the fraction of faces whose suspicion saturates at
// the maximum. Zero faces scores 0.0: absence of faces is not evidence of
// synthetic content.
func ScoreFaces(faces []Face) float64 {
	if len(faces) == 0 {
		return 0.0
	}

	saturated := 0
	for _, face := range faces {
		s := faceSuspicionSafe(face)
		if s >= 1.0 {
			saturated++
		}
	}
	return float64(saturated) / float64(len(faces))
}

// faceSuspicionSafe scores a face, converting any panic from degenerate
// region data into a 0.0 suspicion so one bad face never aborts the batch.
func faceSuspicionSafe(face Face) (s float64) {
	defer func() {
		if r := recover(); r != nil {
			logging.Warn("face analysis failed", "region", face.Region, "panic", r)
			s = 0.0
		}
	}()
	return FaceSuspicion(face.Frame, face.Region)
}

// Face pairs a detected region with the frame it came from.
type Face struct {
	Frame  *decode.Frame
	Region image.Rectangle
}

// Scorer samples frames, detects faces and scores their noise residuals.
// It satisfies the pipeline Scorer interface.
type Scorer struct {
	Detector      facedetect.Detector
	MaxFaces      int
	FrameInterval float64
	MaxFrameWidth int
}

// NewScorer returns a Scorer using the given detector and the default
// sampling parameters. A nil detector yields a score of 0.0 for every
// video (no faces found).
func NewScorer(det facedetect.Detector) *Scorer {
	return &Scorer{
		Detector:      det,
		MaxFaces:      config.DefaultMaxFaces,
		FrameInterval: config.DefaultFaceFrameInterval,
		MaxFrameWidth: config.DefaultFaceFrameMaxWidth,
	}
}

// Name implements the pipeline Scorer interface.
func (s *Scorer) Name() string { return "authenticity" }

// Score samples frames from the source, detects up to MaxFaces faces and
// reports the saturated-suspicion fraction.
func (s *Scorer) Score(ctx context.Context, src decode.Source) (score.Report, error) {
	faces, err := s.CollectFaces(ctx, src)
	if err != nil {
		return score.Report{MetricAuthenticity: 0}, err
	}
	return score.Report{MetricAuthenticity: ScoreFaces(faces)}, nil
}

// CollectFaces samples frames at FrameInterval spacing and runs the
// detector over each, stopping once MaxFaces faces are gathered.
func (s *Scorer) CollectFaces(ctx context.Context, src decode.Source) ([]Face, error) {
	if s.Detector == nil {
		return nil, nil
	}

	// Sample generously; detection stops as soon as enough faces appear.
	frames, err := quality.SampleFrames(ctx, src, s.FrameInterval, 1<<30, s.MaxFrameWidth)
	if err != nil {
		return nil, err
	}

	var faces []Face
	for _, frame := range frames {
		if len(faces) >= s.MaxFaces {
			break
		}
		regions, err := s.Detector.Detect(frame)
		if err != nil {
			logging.Warn("face detection failed on frame", "timestamp", frame.Timestamp, "error", err)
			continue
		}
		for _, region := range regions {
			if len(faces) >= s.MaxFaces {
				break
			}
			faces = append(faces, Face{Frame: frame, Region: region})
		}
	}
	return faces, nil
}
