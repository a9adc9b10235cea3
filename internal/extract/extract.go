// Package extract pulls per-scene artifacts out of a video: representative
// keyframes at fixed positions through each scene, and the scene's slice of
// the audio track.
package extract

import (
	"context"
	"fmt"

	"github.com/mpearce/vidvet/internal/decode"
	"github.com/mpearce/vidvet/internal/errors"
	"github.com/mpearce/vidvet/internal/logging"
	"github.com/mpearce/vidvet/internal/segment"
)

// Keyframe is a decoded frame pulled at a positional timestamp.
type Keyframe struct {
	Timestamp float64
	Frame     *decode.Frame
}

// Scene bundles everything extracted for one boundary.
type Scene struct {
	Index     int
	Start     float64
	End       float64
	Keyframes []Keyframe
	Audio     *decode.AudioSlice
	Warnings  []string
}

// Duration returns the scene length in seconds.
func (s *Scene) Duration() float64 { return s.End - s.Start }

// keyframeClampEpsilon keeps positional timestamps strictly inside the
// file so a seek to the very last instant still lands on a frame.
const keyframeClampEpsilon = 0.01

// Extract decodes keyframes and cuts audio for every boundary. Individual
// keyframe failures are recorded as warnings on the scene rather than
// failing the whole extraction. A missing or undecodable audio stream is
// fatal for the run.
func Extract(ctx context.Context, src decode.Source, boundaries []segment.Boundary, keyframesPerScene int) ([]Scene, error) {
	if len(boundaries) == 0 {
		return nil, errors.NewExtractionError("no scene boundaries to extract", nil)
	}

	track, err := src.Audio(ctx)
	if err != nil {
		return nil, err
	}

	scenes := make([]Scene, 0, len(boundaries))
	for i, b := range boundaries {
		if err := ctx.Err(); err != nil {
			return nil, errors.NewCancelledError()
		}

		scene := Scene{Index: i, Start: b.Start, End: b.End}

		for _, ts := range KeyframeTimestamps(b, keyframesPerScene, src.Duration()) {
			kf, err := decodeWithRetry(ctx, src, ts)
			if err != nil {
				if errors.IsCancelled(err) {
					return nil, err
				}
				scene.Warnings = append(scene.Warnings,
					fmt.Sprintf("keyframe at %.3fs could not be decoded: %v", ts, err))
				continue
			}
			scene.Keyframes = append(scene.Keyframes, kf)
		}

		slice := track.Slice(b.Start, b.End)
		scene.Audio = &slice

		scenes = append(scenes, scene)
	}

	return scenes, nil
}

// KeyframeTimestamps returns the positional timestamps for a scene: count
// points spread from the start to the end of the boundary, with the last
// clamped inside the file. A single keyframe lands on the scene midpoint.
func KeyframeTimestamps(b segment.Boundary, count int, fileDuration float64) []float64 {
	if count <= 0 {
		return nil
	}
	if count == 1 {
		return []float64{clampTimestamp(b.Start+b.Duration()/2, fileDuration)}
	}

	out := make([]float64, count)
	for i := 0; i < count; i++ {
		ts := b.Start + b.Duration()*float64(i)/float64(count-1)
		out[i] = clampTimestamp(ts, fileDuration)
	}
	return out
}

func clampTimestamp(ts, fileDuration float64) float64 {
	limit := fileDuration - keyframeClampEpsilon
	if ts > limit {
		ts = limit
	}
	if ts < 0 {
		ts = 0
	}
	return ts
}

// decodeWithRetry decodes the frame at ts, retrying once a frame period
// earlier when the first attempt fails. Seeks right at a cut point can
// land past the last packet of the scene, and backing off one frame
// usually recovers.
func decodeWithRetry(ctx context.Context, src decode.Source, ts float64) (Keyframe, error) {
	frame, err := src.FrameAt(ctx, ts)
	if err == nil {
		return Keyframe{Timestamp: ts, Frame: frame}, nil
	}
	if errors.IsCancelled(err) {
		return Keyframe{}, err
	}

	fps := src.FrameRate()
	if fps <= 0 {
		return Keyframe{}, err
	}
	retryTS := ts - 1.0/fps
	if retryTS < 0 {
		retryTS = 0
	}

	logging.Debug("retrying keyframe decode one frame earlier", "timestamp", ts, "retry", retryTS)
	frame, retryErr := src.FrameAt(ctx, retryTS)
	if retryErr != nil {
		return Keyframe{}, err
	}
	return Keyframe{Timestamp: retryTS, Frame: frame}, nil
}
