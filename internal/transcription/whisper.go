// Package transcription runs the openai-whisper command line tool.
package transcription

import (
	"context"
	"fmt"
	"os/exec"

	"github.com/devbydaniel/whisperclip/internal/domain/dictation"
	"github.com/devbydaniel/whisperclip/internal/process"
)

const (
	DefaultBinary       = "whisper"
	DefaultModel        = "base"
	DefaultLanguage     = "English"
	DefaultOutputFormat = "txt"
)

// Whisper transcribes audio files with the whisper CLI. The CLI writes
// <audio base name>.<format> into the output directory.
type Whisper struct {
	Binary       string
	Model        string
	Language     string
	OutputFormat string
	// ExtraArgs are appended after the standard options.
	ExtraArgs []string
}

var _ dictation.Transcriber = (*Whisper)(nil)

// NewWhisper fills in defaults for empty fields.
func NewWhisper(w Whisper) *Whisper {
	if w.Binary == "" {
		w.Binary = DefaultBinary
	}
	if w.Model == "" {
		w.Model = DefaultModel
	}
	if w.Language == "" {
		w.Language = DefaultLanguage
	}
	if w.OutputFormat == "" {
		w.OutputFormat = DefaultOutputFormat
	}
	return &w
}

// Args returns the command line used for audioPath.
func (w *Whisper) Args(audioPath, outputDir string) []string {
	args := []string{
		audioPath,
		"--model", w.Model,
		"--language", w.Language,
		"--output_format", w.OutputFormat,
		"--output_dir", outputDir,
	}
	return append(args, w.ExtraArgs...)
}

// Transcribe runs whisper to completion. No timeout is applied.
func (w *Whisper) Transcribe(ctx context.Context, audioPath, outputDir string) error {
	_, err := process.Run(ctx, process.Command{
		Binary: w.Binary,
		Args:   w.Args(audioPath, outputDir),
	})
	if err != nil {
		return fmt.Errorf("whisper: %w", err)
	}
	return nil
}

// Check reports whether the whisper binary can be found.
func (w *Whisper) Check() error {
	if _, err := exec.LookPath(w.Binary); err != nil {
		return fmt.Errorf("%s not found. Install with: pip install -U openai-whisper", w.Binary)
	}
	return nil
}
