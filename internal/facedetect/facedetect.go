// Package facedetect finds face regions in decoded frames. The default
// detector wraps the pigo cascade classifier; callers without a cascade
// file can derive face regions from person bounding boxes instead.
package facedetect

import (
	"fmt"
	"image"
	"os"

	pigo "github.com/esimov/pigo/core"

	"github.com/mpearce/vidvet/internal/config"
	"github.com/mpearce/vidvet/internal/decode"
	"github.com/mpearce/vidvet/internal/errors"
	"github.com/mpearce/vidvet/internal/imaging"
)

// minRegionSize rejects detections too small to carry a usable noise
// signature.
const minRegionSize = 20

// Detector locates face regions within a frame.
type Detector interface {
	Detect(frame *decode.Frame) ([]image.Rectangle, error)
}

// PigoDetector runs the pigo face cascade over frames.
type PigoDetector struct {
	classifier *pigo.Pigo
	minQuality float32
}

// NewPigoDetector loads a pigo cascade from disk. minQuality filters weak
// detections; values at or below zero use the default.
func NewPigoDetector(cascadePath string, minQuality float64) (*PigoDetector, error) {
	data, err := os.ReadFile(cascadePath)
	if err != nil {
		return nil, errors.NewIOError(fmt.Sprintf("failed to read cascade file %s", cascadePath), err)
	}

	classifier, err := pigo.NewPigo().Unpack(data)
	if err != nil {
		return nil, errors.NewConfigError(fmt.Sprintf("invalid cascade file %s: %v", cascadePath, err))
	}

	if minQuality <= 0 {
		minQuality = float64(config.DefaultFaceMinQuality)
	}
	return &PigoDetector{classifier: classifier, minQuality: float32(minQuality)}, nil
}

// Detect runs the cascade over the frame's luma plane and returns the
// clustered face rectangles that pass the quality threshold.
func (d *PigoDetector) Detect(frame *decode.Frame) ([]image.Rectangle, error) {
	if frame == nil || len(frame.Pix) == 0 {
		return nil, errors.NewScorerError("authenticity", "empty frame", nil)
	}

	gray := imaging.GrayFromRGB(frame.Pix, frame.Width, frame.Height)

	maxSize := frame.Width
	if frame.Height < maxSize {
		maxSize = frame.Height
	}

	params := pigo.CascadeParams{
		MinSize:     minRegionSize,
		MaxSize:     maxSize,
		ShiftFactor: 0.1,
		ScaleFactor: 1.1,
		ImageParams: pigo.ImageParams{
			Pixels: gray.Pix,
			Rows:   frame.Height,
			Cols:   frame.Width,
			Dim:    frame.Width,
		},
	}

	dets := d.classifier.RunCascade(params, 0.0)
	dets = d.classifier.ClusterDetections(dets, 0.2)

	var regions []image.Rectangle
	for _, det := range dets {
		if det.Q < d.minQuality {
			continue
		}
		half := det.Scale / 2
		rect := image.Rect(det.Col-half, det.Row-half, det.Col+half, det.Row+half)
		rect = rect.Intersect(image.Rect(0, 0, frame.Width, frame.Height))
		if rect.Dx() < minRegionSize || rect.Dy() < minRegionSize {
			continue
		}
		regions = append(regions, rect)
	}
	return regions, nil
}

// FaceFromPersonBox approximates a face region as the upper 40% of a
// person bounding box, for detectors that only localize whole people.
func FaceFromPersonBox(person image.Rectangle) image.Rectangle {
	h := person.Dy() * 40 / 100
	return image.Rect(person.Min.X, person.Min.Y, person.Max.X, person.Min.Y+h)
}

// RegionFunc adapts a plain function to the Detector interface. Tests and
// proxy-based callers use it to inject fixed regions.
type RegionFunc func(frame *decode.Frame) ([]image.Rectangle, error)

// Detect implements Detector.
func (f RegionFunc) Detect(frame *decode.Frame) ([]image.Rectangle, error) {
	return f(frame)
}
