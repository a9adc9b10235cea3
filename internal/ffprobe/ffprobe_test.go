package ffprobe

import (
	"testing"

	"github.com/mpearce/vidvet/internal/errors"
)

func TestParseFrameRate(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected float64
	}{
		{"ntsc", "30000/1001", 29.97002997002997},
		{"pal", "25/1", 25},
		{"integer", "30", 30},
		{"zero rational", "0/0", 0},
		{"zero denominator", "30/0", 0},
		{"empty", "", 0},
		{"garbage", "abc", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseFrameRate(tt.input)
			if diff := got - tt.expected; diff > 1e-9 || diff < -1e-9 {
				t.Errorf("parseFrameRate(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestParseMediaInfo(t *testing.T) {
	probe := &ffprobeOutput{
		Format: ffprobeFormat{Duration: "10.5"},
		Streams: []ffprobeStream{
			{CodecType: "video", Width: 1920, Height: 1080, RFrameRate: "30/1", NbFrames: "315"},
			{CodecType: "audio", Channels: 2, SampleRate: "48000"},
		},
	}

	info, err := parseMediaInfo(probe, "test.mp4")
	if err != nil {
		t.Fatalf("parseMediaInfo() error = %v", err)
	}

	if info.Duration != 10.5 {
		t.Errorf("Duration = %v, want 10.5", info.Duration)
	}
	if info.Width != 1920 || info.Height != 1080 {
		t.Errorf("dimensions = %dx%d, want 1920x1080", info.Width, info.Height)
	}
	if info.FrameRate != 30 {
		t.Errorf("FrameRate = %v, want 30", info.FrameRate)
	}
	if info.TotalFrames != 315 {
		t.Errorf("TotalFrames = %d, want 315", info.TotalFrames)
	}
	if !info.HasAudio || info.AudioRate != 48000 {
		t.Errorf("audio = (%v, %d), want (true, 48000)", info.HasAudio, info.AudioRate)
	}
}

func TestParseMediaInfoFrameCountFallback(t *testing.T) {
	probe := &ffprobeOutput{
		Format: ffprobeFormat{Duration: "4"},
		Streams: []ffprobeStream{
			{CodecType: "video", Width: 640, Height: 480, RFrameRate: "25/1"},
		},
	}

	info, err := parseMediaInfo(probe, "test.webm")
	if err != nil {
		t.Fatalf("parseMediaInfo() error = %v", err)
	}
	if info.TotalFrames != 100 {
		t.Errorf("TotalFrames = %d, want 100 (duration * fps)", info.TotalFrames)
	}
	if info.HasAudio {
		t.Error("HasAudio should be false without audio streams")
	}
}

func TestParseMediaInfoDecodeErrors(t *testing.T) {
	tests := []struct {
		name  string
		probe *ffprobeOutput
	}{
		{
			name: "no video stream",
			probe: &ffprobeOutput{
				Format:  ffprobeFormat{Duration: "10"},
				Streams: []ffprobeStream{{CodecType: "audio", Channels: 2}},
			},
		},
		{
			name: "zero duration",
			probe: &ffprobeOutput{
				Streams: []ffprobeStream{{CodecType: "video", Width: 640, Height: 480, RFrameRate: "25/1"}},
			},
		},
		{
			name: "invalid dimensions",
			probe: &ffprobeOutput{
				Format:  ffprobeFormat{Duration: "10"},
				Streams: []ffprobeStream{{CodecType: "video", RFrameRate: "25/1"}},
			},
		},
		{
			name: "no frame rate",
			probe: &ffprobeOutput{
				Format:  ffprobeFormat{Duration: "10"},
				Streams: []ffprobeStream{{CodecType: "video", Width: 640, Height: 480}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseMediaInfo(tt.probe, "bad.mp4")
			if err == nil {
				t.Fatal("parseMediaInfo() = nil, want decode error")
			}
			if !errors.IsDecode(err) {
				t.Errorf("error kind = %v, want decode", err)
			}
		})
	}
}
