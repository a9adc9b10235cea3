package decode

import (
	"context"
	"fmt"
	"io"
	"math"

	"github.com/mpearce/vidvet/internal/errors"
)

// MemorySource is a Source backed by frames already held in memory. It is
// used by tests and by callers that synthesize video programmatically.
type MemorySource struct {
	frames []*Frame
	fps    float64
	track  *Track
}

// NewMemorySource builds a source from frames sampled at a fixed rate.
// Timestamps on the frames are rewritten to index/fps. The track may be
// nil for silent sources.
func NewMemorySource(frames []*Frame, fps float64, track *Track) *MemorySource {
	for i, f := range frames {
		f.Timestamp = float64(i) / fps
	}
	return &MemorySource{frames: frames, fps: fps, track: track}
}

// Duration returns the source length in seconds.
func (m *MemorySource) Duration() float64 {
	if m.fps == 0 {
		return 0
	}
	return float64(len(m.frames)) / m.fps
}

// FrameRate returns the sample rate of the frame slice.
func (m *MemorySource) FrameRate() float64 { return m.fps }

// TotalFrames returns the number of frames held.
func (m *MemorySource) TotalFrames() int { return len(m.frames) }

// Bounds returns the dimensions of the first frame, or zeros if empty.
func (m *MemorySource) Bounds() (int, int) {
	if len(m.frames) == 0 {
		return 0, 0
	}
	return m.frames[0].Width, m.frames[0].Height
}

// FrameAt returns a copy of the frame whose interval contains timestamp.
func (m *MemorySource) FrameAt(ctx context.Context, timestamp float64) (*Frame, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.NewCancelledError()
	}
	if len(m.frames) == 0 {
		return nil, errors.NewDecodeError("source has no frames", nil)
	}

	idx := int(math.Floor(timestamp*m.fps + 1e-9))
	if idx < 0 {
		idx = 0
	}
	if idx >= len(m.frames) {
		return nil, errors.NewDecodeError(
			fmt.Sprintf("no frame data at %.3fs", timestamp), nil)
	}

	frame := m.frames[idx].Clone()
	frame.Timestamp = timestamp
	return frame, nil
}

// Reader iterates over all frames in order, scaled to at most maxWidth.
func (m *MemorySource) Reader(ctx context.Context, maxWidth int) (FrameReader, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.NewCancelledError()
	}
	return &memoryReader{src: m, maxWidth: maxWidth}, nil
}

// HasAudio reports whether a track is attached.
func (m *MemorySource) HasAudio() bool { return m.track != nil }

// Audio returns the attached track.
func (m *MemorySource) Audio(ctx context.Context) (*Track, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.NewCancelledError()
	}
	if m.track == nil {
		return nil, errors.NewDecodeError("file has no audio stream", nil)
	}
	return m.track, nil
}

// Close is a no-op for in-memory sources.
func (m *MemorySource) Close() error { return nil }

type memoryReader struct {
	src      *MemorySource
	maxWidth int
	index    int
}

func (r *memoryReader) Next() (*Frame, error) {
	if r.index >= len(r.src.frames) {
		return nil, io.EOF
	}
	frame := r.src.frames[r.index]
	r.index++
	if r.maxWidth > 0 && frame.Width > r.maxWidth {
		return frame.ScaleToWidth(r.maxWidth), nil
	}
	return frame.Clone(), nil
}

func (r *memoryReader) Close() error { return nil }
