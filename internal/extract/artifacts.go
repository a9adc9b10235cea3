package extract

import (
	"fmt"
	"image/jpeg"
	"os"
	"path/filepath"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/mpearce/vidvet/internal/decode"
	"github.com/mpearce/vidvet/internal/errors"
	"github.com/mpearce/vidvet/internal/util"
)

// jpegQuality is the encoder quality for written keyframes.
const jpegQuality = 90

// WriteArtifacts writes every scene's keyframes and audio under dir, one
// subdirectory per scene:
//
//	dir/scene_0000/keyframe_0.jpg
//	dir/scene_0000/audio.wav
func WriteArtifacts(dir string, scenes []Scene) error {
	if err := util.EnsureDirectory(dir); err != nil {
		return err
	}

	for i := range scenes {
		if err := writeScene(dir, &scenes[i]); err != nil {
			return err
		}
	}
	return nil
}

func writeScene(dir string, scene *Scene) error {
	sceneDir := filepath.Join(dir, fmt.Sprintf("scene_%04d", scene.Index))
	if err := util.EnsureDirectory(sceneDir); err != nil {
		return err
	}

	for i, kf := range scene.Keyframes {
		path := filepath.Join(sceneDir, fmt.Sprintf("keyframe_%d.jpg", i))
		if err := writeJPEG(path, kf); err != nil {
			return err
		}
	}

	if scene.Audio != nil && len(scene.Audio.Samples) > 0 {
		path := filepath.Join(sceneDir, "audio.wav")
		if err := writeWAV(path, scene.Audio); err != nil {
			return err
		}
	}
	return nil
}

func writeJPEG(path string, kf Keyframe) error {
	file, err := os.Create(path)
	if err != nil {
		return errors.NewIOError(fmt.Sprintf("failed to create %s", path), err)
	}
	defer func() { _ = file.Close() }()

	if err := jpeg.Encode(file, kf.Frame.Image(), &jpeg.Options{Quality: jpegQuality}); err != nil {
		return errors.NewIOError(fmt.Sprintf("failed to encode %s", path), err)
	}
	return nil
}

func writeWAV(path string, slice *decode.AudioSlice) error {
	file, err := os.Create(path)
	if err != nil {
		return errors.NewIOError(fmt.Sprintf("failed to create %s", path), err)
	}
	defer func() { _ = file.Close() }()

	enc := wav.NewEncoder(file, slice.Rate, 16, 1, 1)
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 1, SampleRate: slice.Rate},
		Data:           slice.Samples,
		SourceBitDepth: 16,
	}
	if err := enc.Write(buf); err != nil {
		_ = enc.Close()
		return errors.NewIOError(fmt.Sprintf("failed to write %s", path), err)
	}
	if err := enc.Close(); err != nil {
		return errors.NewIOError(fmt.Sprintf("failed to finalize %s", path), err)
	}
	return nil
}
