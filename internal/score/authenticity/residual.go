package authenticity

import (
	"image"
	"math"

	"gonum.org/v1/gonum/stat"
)

// Bilateral filter parameters for the denoising pass. Intensities are on
// a [0, 1] scale, so sigmaColor is a fraction of full range.
const (
	bilateralSigmaColor = 0.1
	bilateralSigmaSpace = 10.0
	bilateralRadius     = 5
)

// canvasSize is the side length every face region is resized to before
// residual analysis.
const canvasSize = 128

// residualStdFloor is the spread below which a residual counts as flat.
// A featureless region leaves only float rounding in the difference, and
// normalizing that would turn rounding crumbs into spectrum energy.
const residualStdFloor = 1e-12

// noiseResidual computes the z-scored difference between a grayscale face
// canvas and its edge-preserving denoised version. The residual isolates
// the sensor-noise signature from image content.
func noiseResidual(g *image.Gray) []float64 {
	w := g.Rect.Dx()
	h := g.Rect.Dy()

	img := make([]float64, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img[y*w+x] = float64(g.GrayAt(g.Rect.Min.X+x, g.Rect.Min.Y+y).Y) / 255.0
		}
	}

	denoised := bilateralDenoise(img, w, h)

	residual := make([]float64, len(img))
	for i := range img {
		residual[i] = img[i] - denoised[i]
	}

	mean := stat.Mean(residual, nil)
	std := stat.PopStdDev(residual, nil)
	if std < residualStdFloor {
		for i := range residual {
			residual[i] = 0
		}
		return residual
	}
	for i := range residual {
		residual[i] = (residual[i] - mean) / (std + 1e-8)
	}
	return residual
}

// bilateralDenoise applies an edge-preserving bilateral filter: each
// output pixel is a weighted mean of its neighborhood where weights decay
// with both spatial distance and intensity difference, so smooth areas
// blur while edges survive.
func bilateralDenoise(img []float64, w, h int) []float64 {
	spatial := make([]float64, (2*bilateralRadius+1)*(2*bilateralRadius+1))
	idx := 0
	for dy := -bilateralRadius; dy <= bilateralRadius; dy++ {
		for dx := -bilateralRadius; dx <= bilateralRadius; dx++ {
			d2 := float64(dx*dx + dy*dy)
			spatial[idx] = math.Exp(-d2 / (2 * bilateralSigmaSpace * bilateralSigmaSpace))
			idx++
		}
	}

	out := make([]float64, len(img))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			center := img[y*w+x]
			var sum, norm float64
			idx = 0
			for dy := -bilateralRadius; dy <= bilateralRadius; dy++ {
				for dx := -bilateralRadius; dx <= bilateralRadius; dx++ {
					sw := spatial[idx]
					idx++
					ny, nx := y+dy, x+dx
					if ny < 0 || ny >= h || nx < 0 || nx >= w {
						continue
					}
					v := img[ny*w+nx]
					diff := v - center
					wgt := sw * math.Exp(-(diff*diff)/(2*bilateralSigmaColor*bilateralSigmaColor))
					sum += v * wgt
					norm += wgt
				}
			}
			if norm > 0 {
				out[y*w+x] = sum / norm
			} else {
				out[y*w+x] = center
			}
		}
	}
	return out
}
