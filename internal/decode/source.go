package decode

import "context"

// FrameReader yields frames of a sequential decode pass in presentation
// order. Next returns io.EOF when the stream ends.
type FrameReader interface {
	Next() (*Frame, error)
	Close() error
}

// Source is a decoded video resource. It is owned exclusively by a single
// analysis run; implementations must make Close idempotent so the resource
// is released exactly once on every exit path.
type Source interface {
	// Duration returns the stream duration in seconds.
	Duration() float64

	// FrameRate returns the nominal frames per second.
	FrameRate() float64

	// TotalFrames returns the total frame count.
	TotalFrames() int

	// Bounds returns the full-resolution frame dimensions.
	Bounds() (width, height int)

	// FrameAt decodes the frame at the given timestamp at full resolution.
	FrameAt(ctx context.Context, timestamp float64) (*Frame, error)

	// Reader starts a sequential decode pass with frames downscaled to at
	// most maxWidth. The caller must Close the reader.
	Reader(ctx context.Context, maxWidth int) (FrameReader, error)

	// HasAudio reports whether the source carries an audio stream.
	HasAudio() bool

	// Audio decodes the full audio track.
	Audio(ctx context.Context) (*Track, error)

	// Close releases the decode resource.
	Close() error
}
