// Package config provides configuration types and defaults for vidvet.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Default constants
const (
	// DefaultSceneThreshold is the content-difference threshold for scene cuts.
	// Lower values produce more scenes.
	DefaultSceneThreshold float64 = 27.0

	// DefaultKeyframesPerScene is the number of keyframes sampled per scene,
	// at fractional positions 0%, 25%, 50%, 75% and 100%.
	DefaultKeyframesPerScene int = 5

	// DefaultMaxFaces is the maximum number of face regions the authenticity
	// scorer analyzes per run.
	DefaultMaxFaces int = 10

	// DefaultFaceMinQuality is the minimum pigo cascade quality for a
	// detection to count as a face.
	DefaultFaceMinQuality float32 = 5.0

	// DefaultQualityFrameInterval is the sample spacing (seconds) for
	// quality-metric frames.
	DefaultQualityFrameInterval float64 = 2.0

	// DefaultQualityMaxFrames caps the number of frames the quality scorer
	// samples from one video.
	DefaultQualityMaxFrames int = 15

	// DefaultFaceFrameInterval is the sample spacing (seconds) for face
	// detection frames.
	DefaultFaceFrameInterval float64 = 3.0

	// DefaultFaceFrameMaxWidth is the maximum width of frames fed to the
	// face detector. Wider frames are downscaled first.
	DefaultFaceFrameMaxWidth int = 640

	// DefaultAnalysisWidth is the width of the downscaled sequential stream
	// used for scene segmentation.
	DefaultAnalysisWidth int = 320

	// DefaultBlurThreshold is the Laplacian-variance threshold below which a
	// frame is considered blurry for key-moment sampling.
	DefaultBlurThreshold float64 = 100.0

	// KeyframeClampEpsilon keeps keyframe timestamps strictly inside the
	// video so the last sample never decodes out of range.
	KeyframeClampEpsilon float64 = 0.01

	// MaxSceneThreshold bounds the configurable detection threshold.
	MaxSceneThreshold float64 = 255.0
)

// Config holds all configuration for video analysis.
type Config struct {
	// Scene segmentation
	SceneThreshold float64 `yaml:"scene_threshold"`
	AnalysisWidth  int     `yaml:"analysis_width"`

	// Artifact extraction
	KeyframesPerScene int    `yaml:"keyframes_per_scene"`
	ArtifactDir       string `yaml:"artifact_dir"` // empty disables persistence

	// Quality scoring
	QualityFrameInterval float64 `yaml:"quality_frame_interval"`
	QualityMaxFrames     int     `yaml:"quality_max_frames"`

	// Authenticity scoring
	MaxFaces          int     `yaml:"max_faces"`
	FaceCascadePath   string  `yaml:"face_cascade"` // empty falls back to region proposals
	FaceMinQuality    float32 `yaml:"face_min_quality"`
	FaceFrameInterval float64 `yaml:"face_frame_interval"`
	FaceFrameMaxWidth int     `yaml:"face_frame_max_width"`

	// Key-moment sampling
	BlurThreshold float64 `yaml:"blur_threshold"`
}

// NewConfig creates a new Config with default values.
func NewConfig() *Config {
	return &Config{
		SceneThreshold:       DefaultSceneThreshold,
		AnalysisWidth:        DefaultAnalysisWidth,
		KeyframesPerScene:    DefaultKeyframesPerScene,
		QualityFrameInterval: DefaultQualityFrameInterval,
		QualityMaxFrames:     DefaultQualityMaxFrames,
		MaxFaces:             DefaultMaxFaces,
		FaceMinQuality:       DefaultFaceMinQuality,
		FaceFrameInterval:    DefaultFaceFrameInterval,
		FaceFrameMaxWidth:    DefaultFaceFrameMaxWidth,
		BlurThreshold:        DefaultBlurThreshold,
	}
}

// LoadFile reads a YAML config file and applies it over the defaults.
func LoadFile(path string) (*Config, error) {
	cfg := NewConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidConfigFile, path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.SceneThreshold <= 0 || c.SceneThreshold > MaxSceneThreshold {
		return fmt.Errorf("%w: must be in (0, %g], got %g", ErrInvalidThreshold, MaxSceneThreshold, c.SceneThreshold)
	}

	if c.KeyframesPerScene < 1 {
		return fmt.Errorf("%w: keyframes_per_scene must be >= 1, got %d", ErrInvalidKeyframes, c.KeyframesPerScene)
	}

	if c.MaxFaces < 1 {
		return fmt.Errorf("%w: max_faces must be >= 1, got %d", ErrInvalidMaxFaces, c.MaxFaces)
	}

	if c.QualityFrameInterval <= 0 {
		return fmt.Errorf("%w: quality_frame_interval must be > 0, got %g", ErrInvalidInterval, c.QualityFrameInterval)
	}

	if c.FaceFrameInterval <= 0 {
		return fmt.Errorf("%w: face_frame_interval must be > 0, got %g", ErrInvalidInterval, c.FaceFrameInterval)
	}

	if c.AnalysisWidth < 16 {
		return fmt.Errorf("%w: analysis_width must be >= 16, got %d", ErrInvalidAnalysisWidth, c.AnalysisWidth)
	}

	return nil
}
