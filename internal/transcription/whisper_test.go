package transcription_test

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/devbydaniel/whisperclip/internal/transcription"
)

func TestNewWhisper_Defaults(t *testing.T) {
	w := transcription.NewWhisper(transcription.Whisper{})
	got := w.Args("/data/recording.wav", "/data")
	want := []string{
		"/data/recording.wav",
		"--model", "base",
		"--language", "English",
		"--output_format", "txt",
		"--output_dir", "/data",
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Args = %v, want %v", got, want)
	}
	if w.Binary != "whisper" {
		t.Errorf("expected default binary whisper, got %s", w.Binary)
	}
}

func TestArgs_OverridesAndExtras(t *testing.T) {
	w := transcription.NewWhisper(transcription.Whisper{
		Model:     "small",
		Language:  "German",
		ExtraArgs: []string{"--fp16", "False"},
	})
	got := strings.Join(w.Args("a.wav", "out"), " ")
	want := "a.wav --model small --language German --output_format txt --output_dir out --fp16 False"
	if got != want {
		t.Fatalf("Args = %q, want %q", got, want)
	}
}

// fakeWhisper is a shell script that behaves like the whisper CLI: it writes
// <base>.txt into the --output_dir.
const fakeWhisper = `#!/bin/sh
audio="$1"; shift
while [ $# -gt 0 ]; do
  case "$1" in
    --output_dir) dir="$2"; shift 2;;
    *) shift;;
  esac
done
base=$(basename "$audio" .wav)
printf 'hello from whisper' > "$dir/$base.txt"
`

func TestTranscribe_RunsBinary(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
	dir := t.TempDir()
	script := filepath.Join(dir, "fake-whisper")
	if err := os.WriteFile(script, []byte(fakeWhisper), 0o755); err != nil {
		t.Fatal(err)
	}

	w := transcription.NewWhisper(transcription.Whisper{Binary: script})
	if err := w.Check(); err != nil {
		t.Fatalf("check: %v", err)
	}
	if err := w.Transcribe(context.Background(), filepath.Join(dir, "recording.wav"), dir); err != nil {
		t.Fatalf("transcribe: %v", err)
	}

	got, err := os.ReadFile(filepath.Join(dir, "recording.txt"))
	if err != nil {
		t.Fatalf("expected transcript: %v", err)
	}
	if string(got) != "hello from whisper" {
		t.Errorf("unexpected transcript %q", got)
	}
}

func TestTranscribe_NonZeroExit(t *testing.T) {
	if _, err := exec.LookPath("false"); err != nil {
		t.Skip("false not available")
	}
	w := transcription.NewWhisper(transcription.Whisper{Binary: "false"})
	if err := w.Transcribe(context.Background(), "recording.wav", t.TempDir()); err == nil {
		t.Fatal("expected error for non-zero exit")
	}
}
