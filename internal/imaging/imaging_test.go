package imaging

import (
	"image"
	"math"
	"testing"
)

func grayFill(w, h int, v uint8) *image.Gray {
	g := image.NewGray(image.Rect(0, 0, w, h))
	for i := range g.Pix {
		g.Pix[i] = v
	}
	return g
}

func grayCheckerboard(w, h int, a, b uint8) *image.Gray {
	g := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if (x+y)%2 == 0 {
				g.Pix[y*g.Stride+x] = a
			} else {
				g.Pix[y*g.Stride+x] = b
			}
		}
	}
	return g
}

func TestGrayFromRGB(t *testing.T) {
	// 2x1 image: pure white, pure red.
	pix := []byte{255, 255, 255, 255, 0, 0}
	g := GrayFromRGB(pix, 2, 1)

	if g.Pix[0] != 255 {
		t.Errorf("white pixel luma = %d, want 255", g.Pix[0])
	}
	// 0.299 * 255 = 76.245
	if g.Pix[1] != 76 {
		t.Errorf("red pixel luma = %d, want 76", g.Pix[1])
	}
}

func TestLaplacianVarianceFlat(t *testing.T) {
	if v := LaplacianVariance(grayFill(64, 64, 128)); v != 0 {
		t.Errorf("flat image Laplacian variance = %v, want 0", v)
	}
}

func TestLaplacianVarianceEdges(t *testing.T) {
	v := LaplacianVariance(grayCheckerboard(64, 64, 0, 255))
	if v <= 0 {
		t.Errorf("checkerboard Laplacian variance = %v, want > 0", v)
	}
}

func TestLaplacianVarianceTinyImage(t *testing.T) {
	if v := LaplacianVariance(grayFill(2, 2, 10)); v != 0 {
		t.Errorf("2x2 image variance = %v, want 0", v)
	}
}

func TestEdgeDensity(t *testing.T) {
	if d := EdgeDensity(grayFill(32, 32, 100), 60); d != 0 {
		t.Errorf("flat image edge density = %v, want 0", d)
	}

	// A hard vertical edge down the middle.
	g := image.NewGray(image.Rect(0, 0, 32, 32))
	for y := 0; y < 32; y++ {
		for x := 16; x < 32; x++ {
			g.Pix[y*g.Stride+x] = 255
		}
	}
	d := EdgeDensity(g, 60)
	if d <= 0 || d >= 0.5 {
		t.Errorf("vertical edge density = %v, want in (0, 0.5)", d)
	}
}

func TestHistogram256(t *testing.T) {
	hist := Histogram256(grayFill(10, 10, 42))

	var sum float64
	for _, v := range hist {
		sum += v
	}
	if math.Abs(sum-1) > 1e-9 {
		t.Errorf("histogram sum = %v, want 1", sum)
	}
	if hist[42] != 1 {
		t.Errorf("hist[42] = %v, want 1", hist[42])
	}
}

func TestMeanLumaAndMinMax(t *testing.T) {
	g := grayCheckerboard(10, 10, 0, 200)

	mean := MeanLuma(g)
	if math.Abs(mean-100) > 1e-9 {
		t.Errorf("MeanLuma = %v, want 100", mean)
	}

	lo, hi := MinMax(g)
	if lo != 0 || hi != 200 {
		t.Errorf("MinMax = (%d, %d), want (0, 200)", lo, hi)
	}
}

func TestMeanAbsDiff(t *testing.T) {
	a := grayFill(8, 8, 100)
	b := grayFill(8, 8, 130)

	if d := MeanAbsDiff(a, b); math.Abs(d-30) > 1e-9 {
		t.Errorf("MeanAbsDiff = %v, want 30", d)
	}
	if d := MeanAbsDiff(a, a); d != 0 {
		t.Errorf("identical images diff = %v, want 0", d)
	}
	if d := MeanAbsDiff(a, grayFill(4, 4, 0)); d != 0 {
		t.Errorf("mismatched dimensions diff = %v, want 0", d)
	}
}

func TestResizeGrayMaxWidth(t *testing.T) {
	g := grayFill(200, 100, 50)

	out := ResizeGrayMaxWidth(g, 100)
	if out.Rect.Dx() != 100 || out.Rect.Dy() != 50 {
		t.Errorf("resized to %dx%d, want 100x50", out.Rect.Dx(), out.Rect.Dy())
	}

	same := ResizeGrayMaxWidth(g, 400)
	if same != g {
		t.Error("narrow image should be returned unchanged")
	}
}
