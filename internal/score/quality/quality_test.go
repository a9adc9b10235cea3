package quality

import (
	"context"
	"image/color"
	"math"
	"testing"

	"github.com/mpearce/vidvet/internal/decode"
)

func almostEqual(a, b, tolerance float64) bool {
	return math.Abs(a-b) <= tolerance
}

func solidFrame(width, height int, c color.RGBA) *decode.Frame {
	f := decode.NewFrame(width, height, 0)
	f.FillRGB(c)
	return f
}

func TestResolutionScoreTiers(t *testing.T) {
	tests := []struct {
		name          string
		width, height int
		want          float64
	}{
		{"4K saturates", 3840, 2160, 1.0},
		{"above 8MP", 5000, 3000, 1.0},
		{"1080p", 1920, 1080, 0.7 + (2073600.0-2000000.0)/6000000.0*0.3},
		{"720p", 1280, 720, 0.3 + (921600.0-900000.0)/1100000.0*0.4},
		{"480p", 640, 480, 0.1 + (307200.0-300000.0)/600000.0*0.2},
		{"tiny", 320, 240, 76800.0 / 300000.0 * 0.1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolutionScore(tt.width, tt.height)
			if err != nil {
				t.Fatalf("ResolutionScore(%d, %d) error: %v", tt.width, tt.height, err)
			}
			if !almostEqual(got, tt.want, 1e-9) {
				t.Errorf("ResolutionScore(%d, %d) = %v, want %v", tt.width, tt.height, got, tt.want)
			}
		})
	}
}

func TestResolutionScore480pBand(t *testing.T) {
	got, err := ResolutionScore(640, 480)
	if err != nil {
		t.Fatal(err)
	}
	if got <= 0.1 || got >= 0.5 {
		t.Errorf("640x480 score = %v, want strictly inside (0.1, 0.5)", got)
	}
}

func TestResolutionScoreInvalid(t *testing.T) {
	if _, err := ResolutionScore(0, 1080); err == nil {
		t.Error("ResolutionScore(0, 1080) returned nil error")
	}
}

func TestSharpnessScoreSolidFrameIsZero(t *testing.T) {
	frame := solidFrame(1920, 1080, color.RGBA{R: 128, G: 128, B: 128, A: 255})
	got, err := SharpnessScore(frame)
	if err != nil {
		t.Fatalf("SharpnessScore() error: %v", err)
	}
	if !almostEqual(got, 0, 1e-3) {
		t.Errorf("solid frame sharpness = %v, want ~0", got)
	}
}

func TestSharpnessScoreCheckerboardIsHigh(t *testing.T) {
	frame := decode.NewFrame(320, 180, 0)
	for y := 0; y < 180; y++ {
		for x := 0; x < 320; x++ {
			if (x+y)%2 == 0 {
				off := (y*320 + x) * 3
				frame.Pix[off], frame.Pix[off+1], frame.Pix[off+2] = 255, 255, 255
			}
		}
	}
	got, err := SharpnessScore(frame)
	if err != nil {
		t.Fatalf("SharpnessScore() error: %v", err)
	}
	if got < 0.9 {
		t.Errorf("checkerboard sharpness = %v, want >= 0.9", got)
	}
}

func TestColorScoreGrayFrame(t *testing.T) {
	// Equal channel means give perfect balance; zero saturation falls
	// outside the optimal band and scores 0.
	frame := solidFrame(64, 36, color.RGBA{R: 128, G: 128, B: 128, A: 255})
	got, err := ColorScore(frame)
	if err != nil {
		t.Fatalf("ColorScore() error: %v", err)
	}
	if !almostEqual(got, 0.65, 1e-3) {
		t.Errorf("gray frame color = %v, want 0.65 (balance only)", got)
	}
}

func TestColorScoreBalancedMidSaturation(t *testing.T) {
	// max=200, min=100 gives saturation 0.5 (inside the band) but the
	// channel means are unbalanced, so the score sits below 1.
	frame := solidFrame(64, 36, color.RGBA{R: 200, G: 100, B: 150, A: 255})
	got, err := ColorScore(frame)
	if err != nil {
		t.Fatalf("ColorScore() error: %v", err)
	}
	if got <= 0.35 || got >= 1.0 {
		t.Errorf("unbalanced mid-saturation color = %v, want in (0.35, 1.0)", got)
	}
}

func TestLightingScoreMidGray(t *testing.T) {
	// Mid-gray: brightness 128/255 ≈ 0.502 is inside [0.42, 0.58] so the
	// brightness term is 1.0. Dynamic range is 0 so that term is 0, and
	// there is no clipping.
	frame := solidFrame(64, 36, color.RGBA{R: 128, G: 128, B: 128, A: 255})
	got, err := LightingScore(frame)
	if err != nil {
		t.Fatalf("LightingScore() error: %v", err)
	}
	want := math.Pow(1.0*0.45+0*0.45+1.0*0.1, 0.9)
	if !almostEqual(got, want, 1e-3) {
		t.Errorf("mid-gray lighting = %v, want %v", got, want)
	}
}

func TestLightingScoreClippedFrame(t *testing.T) {
	// All-white frame clips completely: over ratio 1.0 means the clipping
	// term contributes (1 - 0.8) * 0.1.
	frame := solidFrame(64, 36, color.RGBA{R: 255, G: 255, B: 255, A: 255})
	got, err := LightingScore(frame)
	if err != nil {
		t.Fatalf("LightingScore() error: %v", err)
	}
	// brightness 1.0: (1 - (1.0-0.58)/0.42)^1.5 = 0; dynamic range 0: 0.
	want := math.Pow(0*0.45+0*0.45+(1.0-0.8)*0.1, 0.9)
	if !almostEqual(got, want, 1e-3) {
		t.Errorf("white frame lighting = %v, want %v", got, want)
	}
}

func TestScoreFramesGraySynthetic(t *testing.T) {
	// The canonical synthetic check: a 1920x1080 solid mid-gray frame has
	// ~0 sharpness and a near-optimal brightness sub-score.
	frame := solidFrame(1920, 1080, color.RGBA{R: 128, G: 128, B: 128, A: 255})
	report := ScoreFrames([]*decode.Frame{frame})

	if report[MetricSharpness] > 1e-3 {
		t.Errorf("sharpness = %v, want ~0", report[MetricSharpness])
	}
	for name, v := range report {
		if v < 0 || v > 1 {
			t.Errorf("%s = %v, outside [0, 1]", name, v)
		}
	}

	wantRes, _ := ResolutionScore(1920, 1080)
	if !almostEqual(report[MetricResolution], wantRes, 1e-9) {
		t.Errorf("resolution = %v, want %v", report[MetricResolution], wantRes)
	}
}

func TestScoreFramesEmpty(t *testing.T) {
	report := ScoreFrames(nil)
	for _, name := range []string{MetricResolution, MetricSharpness, MetricColor, MetricLighting, MetricOverall} {
		if report[name] != 0 {
			t.Errorf("%s = %v, want 0 for empty input", name, report[name])
		}
	}
}

func TestScoreFramesOverallFormula(t *testing.T) {
	frame := solidFrame(1920, 1080, color.RGBA{R: 128, G: 128, B: 128, A: 255})
	report := ScoreFrames([]*decode.Frame{frame})

	want := math.Pow(
		report[MetricResolution]*0.15+
			report[MetricSharpness]*0.35+
			report[MetricColor]*0.20+
			report[MetricLighting]*0.30, 0.85)
	if !almostEqual(report[MetricOverall], want, 1e-9) {
		t.Errorf("overall = %v, want %v", report[MetricOverall], want)
	}
}

func TestScorerSamplesAndScores(t *testing.T) {
	frames := make([]*decode.Frame, 300)
	for i := range frames {
		frames[i] = solidFrame(640, 360, color.RGBA{R: 128, G: 128, B: 128, A: 255})
	}
	src := decode.NewMemorySource(frames, 30.0, nil)

	scorer := NewScorer()
	report, err := scorer.Score(context.Background(), src)
	if err != nil {
		t.Fatalf("Score() error: %v", err)
	}
	if _, ok := report[MetricOverall]; !ok {
		t.Fatal("report missing overall metric")
	}
	if report[MetricSharpness] > 1e-3 {
		t.Errorf("sharpness = %v, want ~0 for solid frames", report[MetricSharpness])
	}
}

func TestSampleFramesInterval(t *testing.T) {
	frames := make([]*decode.Frame, 300)
	for i := range frames {
		frames[i] = solidFrame(64, 36, color.RGBA{R: 100, G: 100, B: 100, A: 255})
	}
	src := decode.NewMemorySource(frames, 30.0, nil)

	// 10 seconds at one frame per 2 s gives 5 samples.
	got, err := SampleFrames(context.Background(), src, 2.0, 15, 0)
	if err != nil {
		t.Fatalf("SampleFrames() error: %v", err)
	}
	if len(got) != 5 {
		t.Errorf("SampleFrames() returned %d frames, want 5", len(got))
	}

	// MaxFrames caps the sample count.
	capped, err := SampleFrames(context.Background(), src, 0.1, 3, 0)
	if err != nil {
		t.Fatalf("SampleFrames() error: %v", err)
	}
	if len(capped) != 3 {
		t.Errorf("capped SampleFrames() returned %d frames, want 3", len(capped))
	}
}

func TestSampleFramesLowFPSUsesThirtyFloor(t *testing.T) {
	// A 24 fps source steps as if it ran at 30: every 60 frames at a 2 s
	// interval, not every 48.
	frames := make([]*decode.Frame, 240)
	for i := range frames {
		frames[i] = solidFrame(64, 36, color.RGBA{R: 100, G: 100, B: 100, A: 255})
	}
	src := decode.NewMemorySource(frames, 24.0, nil)

	got, err := SampleFrames(context.Background(), src, 2.0, 15, 0)
	if err != nil {
		t.Fatalf("SampleFrames() error: %v", err)
	}
	if len(got) != 4 {
		t.Errorf("SampleFrames() returned %d frames, want 4 (indices 0, 60, 120, 180)", len(got))
	}
}
