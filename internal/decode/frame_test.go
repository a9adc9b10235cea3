package decode

import (
	"image"
	"image/color"
	"testing"
)

func TestFrameRoundTrip(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 3, 2))
	img.SetRGBA(0, 0, color.RGBA{R: 255, A: 255})
	img.SetRGBA(2, 1, color.RGBA{G: 128, B: 64, A: 255})

	frame := FrameFromImage(img, 1.25)
	if frame.Width != 3 || frame.Height != 2 {
		t.Fatalf("frame dims = %dx%d, want 3x2", frame.Width, frame.Height)
	}
	if frame.Timestamp != 1.25 {
		t.Errorf("timestamp = %v, want 1.25", frame.Timestamp)
	}

	r, g, b := frame.At(0, 0)
	if r != 255 || g != 0 || b != 0 {
		t.Errorf("At(0,0) = %d,%d,%d, want 255,0,0", r, g, b)
	}
	r, g, b = frame.At(2, 1)
	if r != 0 || g != 128 || b != 64 {
		t.Errorf("At(2,1) = %d,%d,%d, want 0,128,64", r, g, b)
	}

	back := frame.Image()
	if got := back.RGBAAt(0, 0); got.R != 255 {
		t.Errorf("Image() At(0,0).R = %d, want 255", got.R)
	}
}

func TestFrameChannelMeans(t *testing.T) {
	frame := NewFrame(2, 2, 0)
	frame.FillRGB(color.RGBA{R: 100, G: 150, B: 200, A: 255})

	r, g, b := frame.ChannelMeans()
	if !almostEqual(r, 100, 1e-9) || !almostEqual(g, 150, 1e-9) || !almostEqual(b, 200, 1e-9) {
		t.Errorf("ChannelMeans() = %v,%v,%v, want 100,150,200", r, g, b)
	}
}

func TestFrameMeanSaturation(t *testing.T) {
	gray := NewFrame(4, 4, 0)
	gray.FillRGB(color.RGBA{R: 128, G: 128, B: 128, A: 255})
	if s := gray.MeanSaturation(); !almostEqual(s, 0, 1e-9) {
		t.Errorf("gray saturation = %v, want 0", s)
	}

	pure := NewFrame(4, 4, 0)
	pure.FillRGB(color.RGBA{R: 255, A: 255})
	if s := pure.MeanSaturation(); !almostEqual(s, 1, 1e-9) {
		t.Errorf("pure red saturation = %v, want 1", s)
	}

	// max=200, min=100 gives S = 100/200 = 0.5
	half := NewFrame(4, 4, 0)
	half.FillRGB(color.RGBA{R: 200, G: 100, B: 150, A: 255})
	if s := half.MeanSaturation(); !almostEqual(s, 0.5, 1e-9) {
		t.Errorf("mixed saturation = %v, want 0.5", s)
	}
}

func TestFrameScaleToWidth(t *testing.T) {
	frame := NewFrame(640, 360, 2.0)
	frame.FillRGB(color.RGBA{R: 77, G: 77, B: 77, A: 255})

	scaled := frame.ScaleToWidth(320)
	if scaled.Width != 320 || scaled.Height != 180 {
		t.Errorf("scaled dims = %dx%d, want 320x180", scaled.Width, scaled.Height)
	}
	if scaled.Timestamp != 2.0 {
		t.Errorf("scaled timestamp = %v, want 2.0", scaled.Timestamp)
	}

	// Narrow frames pass through untouched.
	same := frame.ScaleToWidth(1280)
	if same.Width != 640 {
		t.Errorf("narrow frame was scaled to width %d", same.Width)
	}
}

func TestFrameClone(t *testing.T) {
	frame := NewFrame(2, 2, 0.5)
	frame.Pix[0] = 42

	clone := frame.Clone()
	clone.Pix[0] = 99
	if frame.Pix[0] != 42 {
		t.Error("Clone shares pixel storage with the original")
	}
	if clone.Timestamp != 0.5 {
		t.Errorf("clone timestamp = %v, want 0.5", clone.Timestamp)
	}
}
