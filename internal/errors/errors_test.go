package errors

import (
	"errors"
	"testing"
)

func TestErrorKindString(t *testing.T) {
	tests := []struct {
		kind     ErrorKind
		expected string
	}{
		{KindIO, "I/O error"},
		{KindPath, "Path error"},
		{KindCommand, "Command error"},
		{KindDecode, "Decode error"},
		{KindProbeParse, "Probe parse error"},
		{KindConfig, "Configuration error"},
		{KindNoFilesFound, "No files found"},
		{KindExtraction, "Extraction warning"},
		{KindScorer, "Scorer failure"},
		{KindCancelled, "Operation cancelled"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			if got := tt.kind.String(); got != tt.expected {
				t.Errorf("ErrorKind.String() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestCoreErrorError(t *testing.T) {
	underlying := errors.New("underlying error")
	err := &CoreError{
		Kind:       KindDecode,
		Message:    "cannot read stream",
		Underlying: underlying,
	}

	got := err.Error()
	expected := "Decode error: cannot read stream: underlying error"
	if got != expected {
		t.Errorf("CoreError.Error() = %v, want %v", got, expected)
	}

	err2 := &CoreError{
		Kind:    KindConfig,
		Message: "config issue",
	}

	got2 := err2.Error()
	expected2 := "Configuration error: config issue"
	if got2 != expected2 {
		t.Errorf("CoreError.Error() = %v, want %v", got2, expected2)
	}
}

func TestCoreErrorUnwrap(t *testing.T) {
	underlying := errors.New("underlying error")
	err := &CoreError{
		Kind:       KindIO,
		Message:    "test",
		Underlying: underlying,
	}

	if err.Unwrap() != underlying {
		t.Error("Unwrap() should return underlying error")
	}
}

func TestCoreErrorIs(t *testing.T) {
	err1 := &CoreError{Kind: KindDecode, Message: "test1"}
	err2 := &CoreError{Kind: KindDecode, Message: "test2"}
	err3 := &CoreError{Kind: KindScorer, Message: "test3"}

	if !err1.Is(err2) {
		t.Error("Same kind errors should match")
	}

	if err1.Is(err3) {
		t.Error("Different kind errors should not match")
	}
}

func TestIsKindHelpers(t *testing.T) {
	decodeErr := NewDecodeError("unreadable stream", nil)
	if !IsDecode(decodeErr) {
		t.Error("IsDecode() should match decode errors")
	}
	if IsDecode(NewConfigError("bad threshold")) {
		t.Error("IsDecode() should not match config errors")
	}

	wrapped := NewIOError("outer", decodeErr)
	if !IsKind(wrapped, KindIO) {
		t.Error("IsKind() should match outermost CoreError kind")
	}

	if !IsCancelled(NewCancelledError()) {
		t.Error("IsCancelled() should match cancellation errors")
	}
}

func TestScorerError(t *testing.T) {
	err := NewScorerError("quality", "metric computation failed", errors.New("boom"))
	if !IsKind(err, KindScorer) {
		t.Error("expected scorer kind")
	}
	want := "Scorer failure: quality: metric computation failed: boom"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestCommandError(t *testing.T) {
	startErr := &CommandError{
		Command:    "ffmpeg",
		Kind:       CommandStart,
		Underlying: errors.New("not found"),
	}
	if got := startErr.Error(); got != "failed to execute ffmpeg: not found" {
		t.Errorf("CommandStart error = %v", got)
	}

	failedErr := &CommandError{
		Command:  "ffprobe",
		Kind:     CommandFailed,
		ExitCode: 1,
		Stderr:   "bad input",
	}
	if got := failedErr.Error(); got != "command ffprobe failed with exit code 1: bad input" {
		t.Errorf("CommandFailed error = %v", got)
	}
}
