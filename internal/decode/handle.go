// Package decode reads video frames and audio samples out of media files.
// The production path shells out to ffmpeg and consumes raw RGB frames and
// WAV audio over stdout, so no cgo bindings are needed. Tests and callers
// that already hold frames in memory can use MemorySource instead.
package decode

import (
	"context"
	"fmt"
	"io"
	"os/exec"
	"sync"

	"github.com/mpearce/vidvet/internal/errors"
	"github.com/mpearce/vidvet/internal/ffprobe"
)

// Handle is an ffmpeg-backed Source for a video file on disk.
type Handle struct {
	path string
	info *ffprobe.MediaInfo

	closeOnce sync.Once
}

// Open probes a video file and returns a Handle for it. The returned
// Handle is safe for concurrent frame reads since every read spawns its
// own ffmpeg process.
func Open(path string) (*Handle, error) {
	info, err := ffprobe.GetMediaInfo(path)
	if err != nil {
		return nil, err
	}
	return &Handle{path: path, info: info}, nil
}

// Duration returns the container duration in seconds.
func (h *Handle) Duration() float64 { return h.info.Duration }

// FrameRate returns the average video frame rate.
func (h *Handle) FrameRate() float64 { return h.info.FrameRate }

// TotalFrames returns the frame count reported or estimated by the probe.
func (h *Handle) TotalFrames() int { return h.info.TotalFrames }

// Bounds returns the video dimensions in pixels.
func (h *Handle) Bounds() (int, int) { return h.info.Width, h.info.Height }

// FrameAt decodes the single frame nearest to timestamp.
func (h *Handle) FrameAt(ctx context.Context, timestamp float64) (*Frame, error) {
	if timestamp < 0 {
		timestamp = 0
	}

	cmd := exec.CommandContext(ctx, "ffmpeg",
		"-hide_banner", "-loglevel", "error",
		"-ss", fmt.Sprintf("%.6f", timestamp),
		"-i", h.path,
		"-frames:v", "1",
		"-f", "rawvideo",
		"-pix_fmt", "rgb24",
		"-",
	)

	output, err := cmd.Output()
	if err != nil {
		if ctx.Err() != nil {
			return nil, errors.NewCancelledError()
		}
		return nil, errors.NewDecodeError(
			fmt.Sprintf("failed to decode frame at %.3fs", timestamp), errors.WrapExecError("ffmpeg", err, exitStderr(err)))
	}

	want := h.info.Width * h.info.Height * 3
	if len(output) < want {
		return nil, errors.NewDecodeError(
			fmt.Sprintf("no frame data at %.3fs (got %d of %d bytes)", timestamp, len(output), want), nil)
	}

	frame := NewFrame(h.info.Width, h.info.Height, timestamp)
	copy(frame.Pix, output[:want])
	return frame, nil
}

// Reader streams every frame of the video, scaled down to at most maxWidth
// pixels wide (0 keeps the native size). Frames arrive in presentation
// order with timestamps derived from the frame rate.
func (h *Handle) Reader(ctx context.Context, maxWidth int) (FrameReader, error) {
	w, hgt := h.scaledDims(maxWidth)

	args := []string{
		"-hide_banner", "-loglevel", "error",
		"-i", h.path,
	}
	if w != h.info.Width || hgt != h.info.Height {
		args = append(args, "-vf", fmt.Sprintf("scale=%d:%d", w, hgt))
	}
	args = append(args,
		"-f", "rawvideo",
		"-pix_fmt", "rgb24",
		"-",
	)

	cmd := exec.CommandContext(ctx, "ffmpeg", args...)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, errors.NewDecodeError("failed to create ffmpeg stdout pipe", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, errors.NewDecodeError("failed to start ffmpeg", err)
	}

	return &streamReader{
		cmd:    cmd,
		stdout: stdout,
		width:  w,
		height: hgt,
		fps:    h.info.FrameRate,
	}, nil
}

// scaledDims computes output dimensions for a maxWidth constraint, keeping
// the aspect ratio and rounding both axes down to even values as required
// by most pixel formats.
func (h *Handle) scaledDims(maxWidth int) (int, int) {
	w, hgt := h.info.Width, h.info.Height
	if maxWidth <= 0 || w <= maxWidth {
		return w &^ 1, hgt &^ 1
	}
	sw := maxWidth
	sh := hgt * sw / w
	return sw &^ 1, sh &^ 1
}

// HasAudio reports whether the probe found an audio stream.
func (h *Handle) HasAudio() bool { return h.info.HasAudio }

// Audio extracts the full audio track as 16 kHz mono PCM.
func (h *Handle) Audio(ctx context.Context) (*Track, error) {
	if !h.info.HasAudio {
		return nil, errors.NewDecodeError("file has no audio stream", nil)
	}

	cmd := exec.CommandContext(ctx, "ffmpeg",
		"-hide_banner", "-loglevel", "error",
		"-i", h.path,
		"-vn",
		"-ac", "1",
		"-ar", "16000",
		"-f", "wav",
		"-",
	)

	output, err := cmd.Output()
	if err != nil {
		if ctx.Err() != nil {
			return nil, errors.NewCancelledError()
		}
		return nil, errors.NewDecodeError("failed to extract audio track", errors.WrapExecError("ffmpeg", err, exitStderr(err)))
	}

	return decodeWAV(output)
}

// Close releases the handle. Safe to call more than once.
func (h *Handle) Close() error {
	h.closeOnce.Do(func() {})
	return nil
}

// exitStderr pulls captured stderr out of an exec.ExitError, if any.
func exitStderr(err error) string {
	if exitErr, ok := err.(*exec.ExitError); ok {
		return string(exitErr.Stderr)
	}
	return ""
}

// streamReader reads raw RGB frames off a running ffmpeg process.
type streamReader struct {
	cmd    *exec.Cmd
	stdout io.ReadCloser
	width  int
	height int
	fps    float64
	index  int
	done   bool
}

// Next returns the next frame, or io.EOF once the stream is exhausted.
func (r *streamReader) Next() (*Frame, error) {
	if r.done {
		return nil, io.EOF
	}

	frame := NewFrame(r.width, r.height, 0)
	_, err := io.ReadFull(r.stdout, frame.Pix)
	if err == io.EOF || err == io.ErrUnexpectedEOF {
		r.done = true
		if werr := r.cmd.Wait(); werr != nil {
			return nil, errors.NewDecodeError("ffmpeg frame stream failed", errors.WrapExecError("ffmpeg", werr, ""))
		}
		return nil, io.EOF
	}
	if err != nil {
		r.done = true
		_ = r.cmd.Wait()
		return nil, errors.NewDecodeError("failed to read frame from ffmpeg", err)
	}

	if r.fps > 0 {
		frame.Timestamp = float64(r.index) / r.fps
	}
	r.index++
	return frame, nil
}

// Close stops the underlying ffmpeg process if it is still running.
func (r *streamReader) Close() error {
	if r.done {
		return nil
	}
	r.done = true
	_ = r.stdout.Close()
	if r.cmd.Process != nil {
		_ = r.cmd.Process.Kill()
	}
	_ = r.cmd.Wait()
	return nil
}
