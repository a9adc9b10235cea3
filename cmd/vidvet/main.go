// Package main provides the CLI entry point for vidvet.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/mpearce/vidvet"
	"github.com/mpearce/vidvet/internal/config"
	"github.com/mpearce/vidvet/internal/discovery"
	"github.com/mpearce/vidvet/internal/logging"
	"github.com/mpearce/vidvet/internal/reporter"
	"github.com/mpearce/vidvet/internal/util"
)

const (
	appName    = "vidvet"
	appVersion = "0.1.0"
)

type cliFlags struct {
	input       string
	configFile  string
	threshold   float64
	keyframes   int
	maxFaces    int
	cascade     string
	artifactDir string
	jsonOutput  bool
	verbose     bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           appName,
		Short:         "Scene decomposition and scoring for video files",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newAnalyzeCmd(), newScenesCmd(), newVersionCmd())
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("%s version %s\n", appName, appVersion)
		},
	}
}

func addCommonFlags(cmd *cobra.Command, flags *cliFlags) {
	cmd.Flags().StringVarP(&flags.input, "input", "i", "", "input video file or directory")
	cmd.Flags().StringVarP(&flags.configFile, "config", "c", "", "YAML config file")
	cmd.Flags().Float64VarP(&flags.threshold, "threshold", "t", config.DefaultSceneThreshold,
		"scene detection threshold (lower = more scenes)")
	cmd.Flags().IntVarP(&flags.keyframes, "keyframes", "k", config.DefaultKeyframesPerScene,
		"keyframes extracted per scene")
	cmd.Flags().BoolVar(&flags.jsonOutput, "json", false, "emit NDJSON events instead of terminal output")
	cmd.Flags().BoolVarP(&flags.verbose, "verbose", "v", false, "enable verbose logging")
	_ = cmd.MarkFlagRequired("input")
}

func newAnalyzeCmd() *cobra.Command {
	var flags cliFlags

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Segment a video and score it for quality and authenticity",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd.Context(), &flags)
		},
	}
	addCommonFlags(cmd, &flags)
	cmd.Flags().IntVar(&flags.maxFaces, "max-faces", config.DefaultMaxFaces,
		"maximum faces analyzed by the authenticity scorer")
	cmd.Flags().StringVar(&flags.cascade, "cascade", "", "pigo face cascade file (enables face detection)")
	cmd.Flags().StringVar(&flags.artifactDir, "artifacts", "", "write keyframes and audio slices under this directory")
	return cmd
}

func newScenesCmd() *cobra.Command {
	var flags cliFlags

	cmd := &cobra.Command{
		Use:   "scenes",
		Short: "Detect scenes and print boundaries, keyframes and key moments",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScenes(cmd.Context(), &flags)
		},
	}
	addCommonFlags(cmd, &flags)
	return cmd
}

// buildAnalyzer assembles an Analyzer from config file and flags. Flags
// set explicitly on the command line win over the config file.
func buildAnalyzer(flags *cliFlags) (*vidvet.Analyzer, error) {
	opts := []vidvet.Option{}

	if flags.configFile != "" {
		cfg, err := config.LoadFile(flags.configFile)
		if err != nil {
			return nil, err
		}
		opts = append(opts, vidvet.WithConfig(cfg))
	}

	opts = append(opts,
		vidvet.WithSceneThreshold(flags.threshold),
		vidvet.WithKeyframesPerScene(flags.keyframes),
	)
	if flags.maxFaces > 0 {
		opts = append(opts, vidvet.WithMaxFaces(flags.maxFaces))
	}
	if flags.cascade != "" {
		opts = append(opts, vidvet.WithFaceCascade(flags.cascade))
	}
	if flags.artifactDir != "" {
		opts = append(opts, vidvet.WithArtifactDir(flags.artifactDir))
	}

	return vidvet.New(opts...)
}

func buildReporter(flags *cliFlags) vidvet.Reporter {
	if flags.jsonOutput {
		return reporter.NewJSONReporter()
	}
	return reporter.NewTerminalReporter()
}

func initLogging(verbose bool) {
	if !verbose {
		logging.Disable()
		return
	}
	logging.Init(logging.LevelDebug, os.Stderr)
}

// resolveInputs expands a file or directory argument into the list of
// videos to process.
func resolveInputs(input string) ([]string, error) {
	if util.DirectoryExists(input) {
		return discovery.FindVideoFiles(input)
	}
	if !util.FileExists(input) {
		return nil, fmt.Errorf("input does not exist: %s", input)
	}
	return []string{input}, nil
}

func runAnalyze(ctx context.Context, flags *cliFlags) error {
	initLogging(flags.verbose)

	analyzer, err := buildAnalyzer(flags)
	if err != nil {
		return err
	}
	rep := buildReporter(flags)

	inputs, err := resolveInputs(flags.input)
	if err != nil {
		return err
	}

	ctx = withSignalHandling(ctx)

	batch := len(inputs) > 1
	if batch {
		names := make([]string, len(inputs))
		for i, path := range inputs {
			names[i] = util.GetFilename(path)
		}
		rep.BatchStarted(reporter.BatchStartInfo{TotalFiles: len(inputs), FileList: names})
	}

	started := time.Now()
	succeeded := 0
	var firstErr error
	for i, input := range inputs {
		if batch {
			rep.FileProgress(reporter.FileProgressContext{CurrentFile: i + 1, TotalFiles: len(inputs)})
		}
		if _, err := analyzer.Analyze(ctx, input, rep); err != nil {
			rep.Error(reporter.ReporterError{
				Title:   "analysis failed",
				Message: err.Error(),
				Context: input,
			})
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		succeeded++
	}

	if batch {
		rep.BatchComplete(reporter.BatchSummary{
			SuccessfulCount: succeeded,
			TotalFiles:      len(inputs),
			TotalDuration:   time.Since(started),
		})
	}
	if succeeded == 0 && firstErr != nil {
		return firstErr
	}
	rep.OperationComplete(fmt.Sprintf("analyzed %d of %d file(s)", succeeded, len(inputs)))
	return nil
}

func runScenes(ctx context.Context, flags *cliFlags) error {
	initLogging(flags.verbose)

	analyzer, err := buildAnalyzer(flags)
	if err != nil {
		return err
	}
	rep := buildReporter(flags)

	inputs, err := resolveInputs(flags.input)
	if err != nil {
		return err
	}

	ctx = withSignalHandling(ctx)

	for _, input := range inputs {
		scenes, err := analyzer.SegmentAndExtract(ctx, input)
		if err != nil {
			return err
		}
		moments, err := analyzer.KeyMoments(ctx, input)
		if err != nil {
			return err
		}

		rep.ScenesDetected(len(scenes))
		for _, scene := range scenes {
			rep.SceneSummary(reporter.SceneSummary{
				Index:         scene.Index,
				Start:         scene.Start,
				End:           scene.End,
				Duration:      scene.Duration(),
				KeyframeCount: len(scene.Keyframes),
				HasAudio:      scene.Audio != nil,
				Warnings:      scene.Warnings,
			})
			if scene.Index < len(moments) {
				rep.Verbose(fmt.Sprintf("key moment: %s", util.FormatTimestamp(moments[scene.Index])))
			}
		}
	}
	return nil
}

// withSignalHandling cancels the context on SIGINT or SIGTERM.
func withSignalHandling(ctx context.Context) context.Context {
	ctx, cancel := context.WithCancel(ctx)
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigs
		cancel()
	}()
	return ctx
}
