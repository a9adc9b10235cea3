package reporter

import (
	"fmt"
	"os"
	"sync"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"

	"github.com/mpearce/vidvet/internal/util"
)

// TerminalReporter outputs human-friendly text to the terminal.
type TerminalReporter struct {
	mu         sync.Mutex
	progress   *progressbar.ProgressBar
	maxPercent float32
	cyan       *color.Color
	green      *color.Color
	yellow     *color.Color
	red        *color.Color
	bold       *color.Color
}

// NewTerminalReporter creates a new terminal reporter.
func NewTerminalReporter() *TerminalReporter {
	return &TerminalReporter{
		cyan:   color.New(color.FgCyan, color.Bold),
		green:  color.New(color.FgGreen),
		yellow: color.New(color.FgYellow, color.Bold),
		red:    color.New(color.FgRed, color.Bold),
		bold:   color.New(color.Bold),
	}
}

// printLabel prints a bold label with fixed width padding followed by a value.
// Width is applied to the plain text before styling to ensure proper alignment.
func (r *TerminalReporter) printLabel(width int, label, value string) {
	paddedLabel := fmt.Sprintf("%-*s", width, label)
	fmt.Printf("  %s %s\n", r.bold.Sprint(paddedLabel), value)
}

func (r *TerminalReporter) finishProgress() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.progress != nil {
		_ = r.progress.Finish()
		r.progress = nil
	}
	r.maxPercent = 0
}

func (r *TerminalReporter) Initialization(summary MediaSummary) {
	fmt.Println()
	_, _ = r.cyan.Println("VIDEO")
	r.printLabel(12, "File:", summary.InputFile)
	r.printLabel(12, "Duration:", summary.Duration)
	r.printLabel(12, "Resolution:", summary.Resolution)
	r.printLabel(12, "Frame rate:", summary.FrameRate)
	r.printLabel(12, "Audio:", summary.AudioDescription)
}

func (r *TerminalReporter) SegmentationStarted(totalFrames int) {
	r.finishProgress()

	fmt.Println()
	_, _ = r.cyan.Println("SEGMENTATION")

	r.mu.Lock()
	defer r.mu.Unlock()
	r.progress = progressbar.NewOptions64(
		100,
		progressbar.OptionSetDescription(""),
		progressbar.OptionSetWidth(40),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetPredictTime(false),
		progressbar.OptionShowDescriptionAtLineEnd(),
		progressbar.OptionSetElapsedTime(false),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "=",
			SaucerHead:    ">",
			SaucerPadding: " ",
			BarStart:      "Scanning [",
			BarEnd:        "]",
		}),
	)
}

func (r *TerminalReporter) SegmentationProgress(progress ProgressSnapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.progress == nil {
		return
	}

	clamped := progress.Percent
	if clamped > 100 {
		clamped = 100
	}
	if clamped < 0 {
		clamped = 0
	}

	if clamped >= r.maxPercent {
		r.maxPercent = clamped
		_ = r.progress.Set64(int64(clamped))
	}

	r.progress.Describe(fmt.Sprintf("frame %d of %d", progress.CurrentFrame, progress.TotalFrames))
}

func (r *TerminalReporter) ScenesDetected(count int) {
	r.finishProgress()
	fmt.Printf("  %s %d\n", r.bold.Sprint("Scenes:"), count)
}

func (r *TerminalReporter) SceneSummary(summary SceneSummary) {
	audio := "audio"
	if !summary.HasAudio {
		audio = "no audio"
	}
	fmt.Printf("  %3d. %s -> %s (%s, %d keyframes, %s)\n",
		summary.Index,
		util.FormatTimestamp(summary.Start),
		util.FormatTimestamp(summary.End),
		util.FormatDuration(summary.Duration),
		summary.KeyframeCount,
		audio)
	for _, warning := range summary.Warnings {
		fmt.Printf("       %s\n", r.yellow.Sprint(warning))
	}
}

func (r *TerminalReporter) ScorerComplete(outcome ScorerOutcome) {
	fmt.Println()
	_, _ = r.cyan.Printf("SCORER %s\n", outcome.Name)
	if outcome.Failed {
		fmt.Printf("  %s %s\n", r.red.Sprint("failed:"), outcome.Err)
		return
	}

	maxLen := 0
	for name := range outcome.Metrics {
		if len(name) > maxLen {
			maxLen = len(name)
		}
	}
	for _, name := range sortedMetricNames(outcome.Metrics) {
		paddedName := fmt.Sprintf("%-*s", maxLen, name)
		fmt.Printf("  %s %.3f\n", r.bold.Sprint(paddedName), outcome.Metrics[name])
	}
}

func (r *TerminalReporter) AnalysisComplete(outcome AnalysisOutcome) {
	r.finishProgress()

	fmt.Println()
	_, _ = r.cyan.Println("RESULTS")
	r.printLabel(8, "Run:", outcome.RunID)
	r.printLabel(8, "File:", outcome.InputFile)
	r.printLabel(8, "Scenes:", fmt.Sprintf("%d", outcome.SceneCount))
	r.printLabel(8, "Time:", util.FormatDuration(outcome.TotalTime.Seconds()))
}

func (r *TerminalReporter) Warning(message string) {
	fmt.Println()
	_, _ = r.yellow.Printf("WARN: %s\n", message)
}

func (r *TerminalReporter) Error(err ReporterError) {
	_, _ = fmt.Fprintln(os.Stderr)
	_, _ = r.red.Fprintf(os.Stderr, "ERROR %s\n", err.Title)
	_, _ = fmt.Fprintf(os.Stderr, "  %s\n", err.Message)
	if err.Context != "" {
		_, _ = fmt.Fprintf(os.Stderr, "  Context: %s\n", err.Context)
	}
	if err.Suggestion != "" {
		_, _ = fmt.Fprintf(os.Stderr, "  Suggestion: %s\n", err.Suggestion)
	}
}

func (r *TerminalReporter) OperationComplete(message string) {
	fmt.Println()
	fmt.Printf("%s %s\n", r.green.Add(color.Bold).Sprint("✓"), r.bold.Sprint(message))
}

func (r *TerminalReporter) BatchStarted(info BatchStartInfo) {
	fmt.Println()
	_, _ = r.cyan.Println("BATCH")
	fmt.Printf("  Processing %d files\n", info.TotalFiles)
	for i, name := range info.FileList {
		fmt.Printf("  %d. %s\n", i+1, name)
	}
}

func (r *TerminalReporter) FileProgress(context FileProgressContext) {
	fmt.Printf("\nFile %s of %d\n",
		r.bold.Sprint(context.CurrentFile),
		context.TotalFiles)
}

func (r *TerminalReporter) BatchComplete(summary BatchSummary) {
	fmt.Println()
	_, _ = r.cyan.Println("BATCH SUMMARY")
	fmt.Printf("  %s\n", r.bold.Sprintf("%d of %d succeeded", summary.SuccessfulCount, summary.TotalFiles))
	fmt.Printf("  Time: %s\n", util.FormatDuration(summary.TotalDuration.Seconds()))
}

func (r *TerminalReporter) Verbose(message string) {
	fmt.Printf("  %s\n", message)
}
