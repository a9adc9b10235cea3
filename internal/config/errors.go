// Package config provides configuration types and defaults for vidvet.
package config

import "errors"

// Sentinel errors for configuration validation.
var (
	// ErrInvalidThreshold indicates a scene threshold outside the valid range.
	ErrInvalidThreshold = errors.New("scene threshold out of range")

	// ErrInvalidKeyframes indicates a non-positive keyframes-per-scene count.
	ErrInvalidKeyframes = errors.New("keyframe count invalid")

	// ErrInvalidMaxFaces indicates a non-positive face analysis cap.
	ErrInvalidMaxFaces = errors.New("max faces invalid")

	// ErrInvalidInterval indicates a non-positive frame sampling interval.
	ErrInvalidInterval = errors.New("sampling interval invalid")

	// ErrInvalidAnalysisWidth indicates an unusably small analysis stream width.
	ErrInvalidAnalysisWidth = errors.New("analysis width invalid")

	// ErrInvalidConfigFile indicates a config file that could not be parsed.
	ErrInvalidConfigFile = errors.New("config file invalid")
)
