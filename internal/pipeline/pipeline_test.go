package pipeline

import (
	"context"
	"image/color"
	"testing"

	"github.com/google/uuid"

	"github.com/mpearce/vidvet/internal/config"
	"github.com/mpearce/vidvet/internal/decode"
	"github.com/mpearce/vidvet/internal/score"
)

type stubScorer struct {
	name   string
	report score.Report
	err    error
	panics bool
}

func (s *stubScorer) Name() string { return s.name }

func (s *stubScorer) Score(ctx context.Context, src decode.Source) (score.Report, error) {
	if s.panics {
		panic("scorer exploded")
	}
	return s.report, s.err
}

type closeCountingSource struct {
	*decode.MemorySource
	closes int
}

func (c *closeCountingSource) Close() error {
	c.closes++
	return nil
}

func testVideo(seconds float64, fps float64) *decode.MemorySource {
	n := int(seconds * fps)
	frames := make([]*decode.Frame, n)
	for i := range frames {
		f := decode.NewFrame(64, 36, 0)
		c := color.RGBA{R: 100, G: 100, B: 100, A: 255}
		if float64(i)/fps >= seconds/2 {
			c = color.RGBA{R: 240, G: 240, B: 240, A: 255}
		}
		f.FillRGB(c)
		frames[i] = f
	}
	track := &decode.Track{Samples: make([]int, int(seconds*16000)), Rate: 16000}
	return decode.NewMemorySource(frames, fps, track)
}

func TestRunFullPipeline(t *testing.T) {
	src := &closeCountingSource{MemorySource: testVideo(4.0, 30.0)}
	cfg := config.NewConfig()

	scorers := []Scorer{
		&stubScorer{name: "first", report: score.Report{"a": 0.5}},
		&stubScorer{name: "second", report: score.Report{"b": 0.9}},
	}

	p := New(cfg, scorers, nil)
	result, err := p.Run(context.Background(), src)
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	if result.RunID == uuid.Nil {
		t.Error("result has zero RunID")
	}
	if len(result.Scenes) != 2 {
		t.Errorf("got %d scenes, want 2 (hard cut at midpoint)", len(result.Scenes))
	}
	if len(result.Scorers) != 2 {
		t.Fatalf("got %d scorer results, want 2", len(result.Scorers))
	}
	if result.Scorers[0].Name != "first" || result.Scorers[1].Name != "second" {
		t.Errorf("scorer order = %s, %s; want registration order first, second",
			result.Scorers[0].Name, result.Scorers[1].Name)
	}
	if src.closes != 1 {
		t.Errorf("source closed %d times, want exactly 1", src.closes)
	}
}

func TestRunScorerPanicIsIsolated(t *testing.T) {
	src := &closeCountingSource{MemorySource: testVideo(2.0, 30.0)}
	cfg := config.NewConfig()

	scorers := []Scorer{
		&stubScorer{name: "panicky", panics: true},
		&stubScorer{name: "steady", report: score.Report{"ok": 1.0}},
	}

	p := New(cfg, scorers, nil)
	result, err := p.Run(context.Background(), src)
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	if result.Scorers[0].Err == nil {
		t.Error("panicking scorer has no error marker")
	}
	if result.Scorers[1].Err != nil {
		t.Errorf("sibling scorer errored: %v", result.Scorers[1].Err)
	}
	if result.Scorers[1].Report["ok"] != 1.0 {
		t.Error("sibling scorer report was lost")
	}
	if src.closes != 1 {
		t.Errorf("source closed %d times, want exactly 1", src.closes)
	}
}

func TestRunClosesSourceOnSegmentationFailure(t *testing.T) {
	// An empty source cannot be segmented; the run must fail fatally and
	// still close the source.
	src := &closeCountingSource{MemorySource: decode.NewMemorySource(nil, 30.0, nil)}
	cfg := config.NewConfig()

	p := New(cfg, DefaultScorers(nil), nil)
	if _, err := p.Run(context.Background(), src); err == nil {
		t.Error("Run() on empty source returned nil error")
	}
	if src.closes != 1 {
		t.Errorf("source closed %d times, want exactly 1", src.closes)
	}
}

func TestDefaultScorersOrder(t *testing.T) {
	scorers := DefaultScorers(nil)
	if len(scorers) != 2 {
		t.Fatalf("got %d default scorers, want 2", len(scorers))
	}
	if scorers[0].Name() != "quality" || scorers[1].Name() != "authenticity" {
		t.Errorf("default order = %s, %s; want quality, authenticity",
			scorers[0].Name(), scorers[1].Name())
	}
}

func TestRunErroredScorerRecorded(t *testing.T) {
	src := &closeCountingSource{MemorySource: testVideo(2.0, 30.0)}
	cfg := config.NewConfig()

	wantErr := context.DeadlineExceeded
	scorers := []Scorer{&stubScorer{name: "failing", err: wantErr}}

	p := New(cfg, scorers, nil)
	result, err := p.Run(context.Background(), src)
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if result.Scorers[0].Err != wantErr {
		t.Errorf("scorer error = %v, want %v", result.Scorers[0].Err, wantErr)
	}
}
