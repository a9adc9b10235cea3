// Package decode provides video and audio decoding for the analysis core.
//
// The production implementation shells out to ffmpeg/ffprobe; the in-memory
// Source serves tests and library callers that already hold decoded frames.
package decode

import (
	"image"
	"image/color"

	"github.com/nfnt/resize"
)

// Frame is a single decoded video frame in packed RGB24 layout.
type Frame struct {
	Pix       []byte // 3 bytes per pixel, row-major
	Width     int
	Height    int
	Timestamp float64 // seconds from stream start
}

// NewFrame allocates a zeroed frame.
func NewFrame(width, height int, timestamp float64) *Frame {
	return &Frame{
		Pix:       make([]byte, width*height*3),
		Width:     width,
		Height:    height,
		Timestamp: timestamp,
	}
}

// FrameFromImage converts any image.Image into a Frame.
func FrameFromImage(img image.Image, timestamp float64) *Frame {
	b := img.Bounds()
	f := NewFrame(b.Dx(), b.Dy(), timestamp)
	i := 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bl, _ := img.At(x, y).RGBA()
			f.Pix[i] = uint8(r >> 8)
			f.Pix[i+1] = uint8(g >> 8)
			f.Pix[i+2] = uint8(bl >> 8)
			i += 3
		}
	}
	return f
}

// Clone returns a deep copy of the frame.
func (f *Frame) Clone() *Frame {
	out := &Frame{
		Pix:       make([]byte, len(f.Pix)),
		Width:     f.Width,
		Height:    f.Height,
		Timestamp: f.Timestamp,
	}
	copy(out.Pix, f.Pix)
	return out
}

// Image converts the frame to an image.RGBA.
func (f *Frame) Image() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, f.Width, f.Height))
	for i := 0; i < f.Width*f.Height; i++ {
		img.Pix[i*4] = f.Pix[i*3]
		img.Pix[i*4+1] = f.Pix[i*3+1]
		img.Pix[i*4+2] = f.Pix[i*3+2]
		img.Pix[i*4+3] = 255
	}
	return img
}

// At returns the RGB value of the pixel at (x, y).
func (f *Frame) At(x, y int) (uint8, uint8, uint8) {
	i := (y*f.Width + x) * 3
	return f.Pix[i], f.Pix[i+1], f.Pix[i+2]
}

// ChannelMeans returns the mean intensity of the R, G and B channels.
func (f *Frame) ChannelMeans() (float64, float64, float64) {
	n := f.Width * f.Height
	if n == 0 {
		return 0, 0, 0
	}

	var r, g, b float64
	for i := 0; i < n; i++ {
		r += float64(f.Pix[i*3])
		g += float64(f.Pix[i*3+1])
		b += float64(f.Pix[i*3+2])
	}
	return r / float64(n), g / float64(n), b / float64(n)
}

// MeanSaturation returns the mean HSV saturation over all pixels, in [0, 1].
func (f *Frame) MeanSaturation() float64 {
	n := f.Width * f.Height
	if n == 0 {
		return 0
	}

	var sum float64
	for i := 0; i < n; i++ {
		r := f.Pix[i*3]
		g := f.Pix[i*3+1]
		b := f.Pix[i*3+2]

		hi := r
		if g > hi {
			hi = g
		}
		if b > hi {
			hi = b
		}
		lo := r
		if g < lo {
			lo = g
		}
		if b < lo {
			lo = b
		}

		if hi > 0 {
			sum += float64(hi-lo) / float64(hi)
		}
	}
	return sum / float64(n)
}

// ScaleToWidth downscales the frame to at most maxWidth, preserving aspect
// ratio. Frames already narrow enough are returned unchanged.
func (f *Frame) ScaleToWidth(maxWidth int) *Frame {
	if f.Width <= maxWidth {
		return f
	}

	newH := f.Height * maxWidth / f.Width
	if newH < 1 {
		newH = 1
	}
	scaled := resize.Resize(uint(maxWidth), uint(newH), f.Image(), resize.Bilinear)
	return FrameFromImage(scaled, f.Timestamp)
}

// FillRGB sets every pixel to the given color. Used for synthetic frames.
func (f *Frame) FillRGB(c color.RGBA) {
	for i := 0; i < f.Width*f.Height; i++ {
		f.Pix[i*3] = c.R
		f.Pix[i*3+1] = c.G
		f.Pix[i*3+2] = c.B
	}
}
