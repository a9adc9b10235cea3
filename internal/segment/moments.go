package segment

import (
	"context"

	"github.com/mpearce/vidvet/internal/config"
	"github.com/mpearce/vidvet/internal/decode"
	"github.com/mpearce/vidvet/internal/imaging"
	"github.com/mpearce/vidvet/internal/logging"
)

// KeyMoments picks up to count timestamps inside a scene that land on
// sharp frames. Candidate positions are sampled at twice the requested
// density and frames whose Laplacian variance falls below blurThreshold
// are skipped. If every candidate is blurry the evenly spaced positions
// are returned unfiltered so callers always get count moments.
func KeyMoments(ctx context.Context, src decode.Source, b Boundary, count int, blurThreshold float64) ([]float64, error) {
	if count <= 0 {
		return nil, nil
	}
	if blurThreshold <= 0 {
		blurThreshold = config.DefaultBlurThreshold
	}

	candidates := spacedTimestamps(b, 2*count)
	fallback := spacedTimestamps(b, count)

	moments := make([]float64, 0, count)
	for _, ts := range candidates {
		if len(moments) >= count {
			break
		}

		frame, err := src.FrameAt(ctx, ts)
		if err != nil {
			if ctx.Err() != nil {
				return nil, err
			}
			logging.Warn("skipping unreadable candidate frame", "timestamp", ts, "error", err)
			continue
		}

		gray := imaging.GrayFromRGB(frame.Pix, frame.Width, frame.Height)
		gray = imaging.ResizeGrayMaxWidth(gray, config.DefaultAnalysisWidth)
		if imaging.LaplacianVariance(gray) < blurThreshold {
			continue
		}
		moments = append(moments, ts)
	}

	if len(moments) == 0 {
		return fallback, nil
	}
	return moments, nil
}

// spacedTimestamps returns n timestamps evenly spaced across the interior
// of a boundary, avoiding the exact cut points at either end.
func spacedTimestamps(b Boundary, n int) []float64 {
	if n <= 0 {
		return nil
	}
	out := make([]float64, n)
	step := b.Duration() / float64(n+1)
	for i := 0; i < n; i++ {
		out[i] = b.Start + step*float64(i+1)
	}
	return out
}
