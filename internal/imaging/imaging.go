// Package imaging provides the grayscale and filter primitives shared by the
// segmenter and the frame scorers.
package imaging

import (
	"image"

	"github.com/nfnt/resize"
	"gonum.org/v1/gonum/stat"
)

// GrayFromRGB converts packed RGB24 pixel data to a grayscale image using
// BT.601 luma weights.
func GrayFromRGB(pix []byte, width, height int) *image.Gray {
	g := image.NewGray(image.Rect(0, 0, width, height))
	for i := 0; i < width*height; i++ {
		r := float64(pix[i*3])
		gr := float64(pix[i*3+1])
		b := float64(pix[i*3+2])
		g.Pix[i] = uint8(0.299*r + 0.587*gr + 0.114*b + 0.5)
	}
	return g
}

// ResizeGrayMaxWidth downscales g to at most maxWidth, preserving aspect
// ratio. Images already narrow enough are returned unchanged.
func ResizeGrayMaxWidth(g *image.Gray, maxWidth int) *image.Gray {
	w := g.Rect.Dx()
	h := g.Rect.Dy()
	if w <= maxWidth {
		return g
	}
	newH := h * maxWidth / w
	if newH < 1 {
		newH = 1
	}
	return ResizeGray(g, maxWidth, newH)
}

// ResizeGray resizes g to exactly width x height.
func ResizeGray(g *image.Gray, width, height int) *image.Gray {
	resized := resize.Resize(uint(width), uint(height), g, resize.Bilinear)
	if out, ok := resized.(*image.Gray); ok {
		return out
	}
	// resize returns *image.Gray for gray input; convert if it does not.
	out := image.NewGray(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			c := resized.At(x, y)
			r, gr, b, _ := c.RGBA()
			out.Pix[y*width+x] = uint8((0.299*float64(r>>8) + 0.587*float64(gr>>8) + 0.114*float64(b>>8)) + 0.5)
		}
	}
	return out
}

// LaplacianVariance computes the variance of the discrete Laplacian
// (2nd-derivative edge filter) response over a grayscale image. The border
// pixels are skipped. Zero on images smaller than 3x3.
func LaplacianVariance(g *image.Gray) float64 {
	w := g.Rect.Dx()
	h := g.Rect.Dy()
	if w < 3 || h < 3 {
		return 0
	}

	responses := make([]float64, 0, (w-2)*(h-2))
	for y := 1; y < h-1; y++ {
		for x := 1; x < w-1; x++ {
			c := float64(g.Pix[y*g.Stride+x])
			up := float64(g.Pix[(y-1)*g.Stride+x])
			down := float64(g.Pix[(y+1)*g.Stride+x])
			left := float64(g.Pix[y*g.Stride+x-1])
			right := float64(g.Pix[y*g.Stride+x+1])
			responses = append(responses, up+down+left+right-4*c)
		}
	}

	mean := stat.Mean(responses, nil)
	var sumSq float64
	for _, r := range responses {
		d := r - mean
		sumSq += d * d
	}
	return sumSq / float64(len(responses))
}

// EdgeDensity returns the fraction of pixels whose Sobel gradient magnitude
// exceeds threshold. Zero on images smaller than 3x3.
func EdgeDensity(g *image.Gray, threshold float64) float64 {
	w := g.Rect.Dx()
	h := g.Rect.Dy()
	if w < 3 || h < 3 {
		return 0
	}

	edges := 0
	total := (w - 2) * (h - 2)
	for y := 1; y < h-1; y++ {
		for x := 1; x < w-1; x++ {
			p := func(dx, dy int) float64 {
				return float64(g.Pix[(y+dy)*g.Stride+x+dx])
			}
			gx := p(1, -1) + 2*p(1, 0) + p(1, 1) - p(-1, -1) - 2*p(-1, 0) - p(-1, 1)
			gy := p(-1, 1) + 2*p(0, 1) + p(1, 1) - p(-1, -1) - 2*p(0, -1) - p(1, -1)
			if gx*gx+gy*gy > threshold*threshold {
				edges++
			}
		}
	}
	return float64(edges) / float64(total)
}

// Histogram256 computes a normalized 256-bin intensity histogram.
// The bins sum to 1 for any non-empty image.
func Histogram256(g *image.Gray) [256]float64 {
	var hist [256]float64
	w := g.Rect.Dx()
	h := g.Rect.Dy()
	if w == 0 || h == 0 {
		return hist
	}

	for y := 0; y < h; y++ {
		row := g.Pix[y*g.Stride : y*g.Stride+w]
		for _, v := range row {
			hist[v]++
		}
	}

	total := float64(w * h)
	for i := range hist {
		hist[i] /= total
	}
	return hist
}

// MeanLuma returns the mean pixel intensity of a grayscale image.
func MeanLuma(g *image.Gray) float64 {
	w := g.Rect.Dx()
	h := g.Rect.Dy()
	if w == 0 || h == 0 {
		return 0
	}

	var sum float64
	for y := 0; y < h; y++ {
		row := g.Pix[y*g.Stride : y*g.Stride+w]
		for _, v := range row {
			sum += float64(v)
		}
	}
	return sum / float64(w*h)
}

// MinMax returns the darkest and brightest pixel values.
func MinMax(g *image.Gray) (uint8, uint8) {
	w := g.Rect.Dx()
	h := g.Rect.Dy()
	if w == 0 || h == 0 {
		return 0, 0
	}

	lo, hi := uint8(255), uint8(0)
	for y := 0; y < h; y++ {
		row := g.Pix[y*g.Stride : y*g.Stride+w]
		for _, v := range row {
			if v < lo {
				lo = v
			}
			if v > hi {
				hi = v
			}
		}
	}
	return lo, hi
}

// MeanAbsDiff computes the mean absolute per-pixel difference between two
// grayscale images of identical dimensions. Returns 0 on mismatch.
func MeanAbsDiff(a, b *image.Gray) float64 {
	w := a.Rect.Dx()
	h := a.Rect.Dy()
	if w != b.Rect.Dx() || h != b.Rect.Dy() || w == 0 || h == 0 {
		return 0
	}

	var sum float64
	for y := 0; y < h; y++ {
		ra := a.Pix[y*a.Stride : y*a.Stride+w]
		rb := b.Pix[y*b.Stride : y*b.Stride+w]
		for x := 0; x < w; x++ {
			d := int(ra[x]) - int(rb[x])
			if d < 0 {
				d = -d
			}
			sum += float64(d)
		}
	}
	return sum / float64(w*h)
}
