// Package ffprobe provides functions for extracting media information using ffprobe.
package ffprobe

import (
	"encoding/json"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/mpearce/vidvet/internal/errors"
)

// MediaInfo contains the stream properties the analysis core needs.
type MediaInfo struct {
	Duration    float64
	Width       int
	Height      int
	FrameRate   float64
	TotalFrames int
	HasAudio    bool
	AudioRate   int
}

// ffprobeOutput represents the JSON output from ffprobe.
type ffprobeOutput struct {
	Format  ffprobeFormat   `json:"format"`
	Streams []ffprobeStream `json:"streams"`
}

type ffprobeFormat struct {
	Duration string `json:"duration"`
}

type ffprobeStream struct {
	CodecType    string `json:"codec_type"`
	Width        int    `json:"width"`
	Height       int    `json:"height"`
	NbFrames     string `json:"nb_frames"`
	RFrameRate   string `json:"r_frame_rate"`
	AvgFrameRate string `json:"avg_frame_rate"`
	SampleRate   string `json:"sample_rate"`
	Channels     int    `json:"channels"`
}

// runFFprobe executes ffprobe and returns the parsed output.
func runFFprobe(inputPath string) (*ffprobeOutput, error) {
	cmd := exec.Command("ffprobe",
		"-v", "quiet",
		"-print_format", "json",
		"-show_format",
		"-show_streams",
		inputPath,
	)

	output, err := cmd.Output()
	if err != nil {
		return nil, errors.WrapExecError("ffprobe", err, "")
	}

	var result ffprobeOutput
	if err := json.Unmarshal(output, &result); err != nil {
		return nil, errors.NewProbeParseError("failed to parse ffprobe output", err)
	}

	return &result, nil
}

// GetMediaInfo probes a file and returns the information required to open a
// decode handle. A missing or dimensionless video stream, or a zero duration,
// is reported as a decode error.
func GetMediaInfo(inputPath string) (*MediaInfo, error) {
	probe, err := runFFprobe(inputPath)
	if err != nil {
		return nil, err
	}
	return parseMediaInfo(probe, inputPath)
}

func parseMediaInfo(probe *ffprobeOutput, inputPath string) (*MediaInfo, error) {
	info := &MediaInfo{}

	if probe.Format.Duration != "" {
		if d, err := strconv.ParseFloat(probe.Format.Duration, 64); err == nil {
			info.Duration = d
		}
	}

	var videoStream *ffprobeStream
	for i := range probe.Streams {
		s := &probe.Streams[i]
		switch s.CodecType {
		case "video":
			if videoStream == nil {
				videoStream = s
			}
		case "audio":
			if s.Channels > 0 {
				info.HasAudio = true
				if rate, err := strconv.Atoi(s.SampleRate); err == nil {
					info.AudioRate = rate
				}
			}
		}
	}

	if videoStream == nil {
		return nil, errors.NewDecodeError(fmt.Sprintf("no video stream found in %s", inputPath), nil)
	}
	if videoStream.Width <= 0 || videoStream.Height <= 0 {
		return nil, errors.NewDecodeError(
			fmt.Sprintf("invalid dimensions in %s: %dx%d", inputPath, videoStream.Width, videoStream.Height), nil)
	}
	if info.Duration <= 0 {
		return nil, errors.NewDecodeError(fmt.Sprintf("zero duration in %s", inputPath), nil)
	}

	info.Width = videoStream.Width
	info.Height = videoStream.Height

	info.FrameRate = parseFrameRate(videoStream.RFrameRate)
	if info.FrameRate <= 0 {
		info.FrameRate = parseFrameRate(videoStream.AvgFrameRate)
	}
	if info.FrameRate <= 0 {
		return nil, errors.NewDecodeError(fmt.Sprintf("cannot determine frame rate of %s", inputPath), nil)
	}

	if videoStream.NbFrames != "" {
		if frames, err := strconv.Atoi(videoStream.NbFrames); err == nil {
			info.TotalFrames = frames
		}
	}
	if info.TotalFrames <= 0 {
		// Containers without nb_frames metadata: derive from duration.
		info.TotalFrames = int(info.Duration * info.FrameRate)
	}

	return info, nil
}

// parseFrameRate parses ffprobe's "num/den" rational frame rate notation.
// Returns 0 if the rate cannot be parsed.
func parseFrameRate(s string) float64 {
	if s == "" || s == "0/0" {
		return 0
	}

	parts := strings.SplitN(s, "/", 2)
	if len(parts) == 1 {
		rate, err := strconv.ParseFloat(parts[0], 64)
		if err != nil {
			return 0
		}
		return rate
	}

	num, err := strconv.ParseFloat(parts[0], 64)
	if err != nil {
		return 0
	}
	den, err := strconv.ParseFloat(parts[1], 64)
	if err != nil || den == 0 {
		return 0
	}
	return num / den
}
