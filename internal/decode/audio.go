package decode

import (
	"bytes"

	"github.com/go-audio/wav"

	"github.com/mpearce/vidvet/internal/errors"
)

// Track holds a decoded mono PCM audio track.
type Track struct {
	Samples []int // PCM sample values
	Rate    int   // samples per second
}

// AudioSlice is the audio spanning [Start, End) of a scene, cut from the
// full track with millisecond precision.
type AudioSlice struct {
	Samples []int
	Rate    int
	Start   float64
	End     float64
}

// Duration returns the track length in seconds.
func (t *Track) Duration() float64 {
	if t.Rate == 0 {
		return 0
	}
	return float64(len(t.Samples)) / float64(t.Rate)
}

// Slice cuts the half-open interval [start, end) out of the track.
// Boundaries are truncated to whole milliseconds to match the positional
// addressing used throughout the extractor; out-of-range boundaries are
// clamped to the track.
func (t *Track) Slice(start, end float64) AudioSlice {
	startMs := int(start * 1000)
	endMs := int(end * 1000)

	lo := startMs * t.Rate / 1000
	hi := endMs * t.Rate / 1000

	if lo < 0 {
		lo = 0
	}
	if hi > len(t.Samples) {
		hi = len(t.Samples)
	}
	if lo > hi {
		lo = hi
	}

	return AudioSlice{
		Samples: t.Samples[lo:hi],
		Rate:    t.Rate,
		Start:   start,
		End:     end,
	}
}

// Duration returns the slice length in seconds.
func (s AudioSlice) Duration() float64 {
	if s.Rate == 0 {
		return 0
	}
	return float64(len(s.Samples)) / float64(s.Rate)
}

// decodeWAV parses WAV bytes (as produced by the ffmpeg extraction) into a
// Track.
func decodeWAV(data []byte) (*Track, error) {
	dec := wav.NewDecoder(bytes.NewReader(data))
	if !dec.IsValidFile() {
		return nil, errors.NewDecodeError("invalid WAV data from audio extraction", nil)
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, errors.NewDecodeError("failed to decode PCM audio", err)
	}
	if buf.Format == nil || buf.Format.SampleRate <= 0 {
		return nil, errors.NewDecodeError("audio stream has no sample rate", nil)
	}

	samples := buf.Data
	// Mixdown in case the extraction produced more than one channel.
	if buf.Format.NumChannels > 1 {
		ch := buf.Format.NumChannels
		mono := make([]int, len(samples)/ch)
		for i := range mono {
			var sum int
			for c := 0; c < ch; c++ {
				sum += samples[i*ch+c]
			}
			mono[i] = sum / ch
		}
		samples = mono
	}

	return &Track{
		Samples: samples,
		Rate:    buf.Format.SampleRate,
	}, nil
}
