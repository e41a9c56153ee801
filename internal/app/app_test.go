package app

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/devbydaniel/whisperclip/config"
	"github.com/devbydaniel/whisperclip/internal/clipboard"
	"github.com/devbydaniel/whisperclip/internal/domain/dictation"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.StorageDir = t.TempDir()
	cfg.Notifications.Desktop = false
	cfg.Log.Level = "error"
	return cfg
}

func TestNew_WiresAdapters(t *testing.T) {
	cfg := testConfig(t)
	cfg.Clipboard.Command = "cat"

	a, err := New(cfg, &bytes.Buffer{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if a.Storage.Path() != cfg.StorageDir {
		t.Errorf("storage path %q", a.Storage.Path())
	}
	if a.Recorder.Binary() != "sox" {
		t.Errorf("recorder binary %q", a.Recorder.Binary())
	}
	if cmd, ok := a.Clipboard.(*clipboard.Command); !ok || cmd.Binary != "cat" {
		t.Errorf("expected clipboard command cat, got %#v", a.Clipboard)
	}
}

func TestNew_InvalidLogLevel(t *testing.T) {
	cfg := testConfig(t)
	cfg.Log.Level = "loud"
	if _, err := New(cfg, &bytes.Buffer{}); err == nil {
		t.Fatal("expected an error for an unknown log level")
	}
}

func TestChecks(t *testing.T) {
	cfg := testConfig(t)
	cfg.Recorder.Binary = "sh"
	cfg.Transcriber.Binary = "whisperclip-missing-binary"
	cfg.Clipboard.Command = "cat"

	a, err := New(cfg, &bytes.Buffer{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	got := map[string]Check{}
	for _, c := range a.Checks() {
		got[c.Name] = c
	}

	if got["Recorder"].Err != nil {
		t.Errorf("recorder check failed: %v", got["Recorder"].Err)
	}
	if got["Transcriber"].Err == nil {
		t.Error("missing transcriber should fail the check")
	}
	if c := got["Clipboard"]; c.Err != nil || c.Detail != "cat" {
		t.Errorf("unexpected clipboard check %+v", c)
	}
	if c := got["Storage directory"]; c.Err != nil || c.Detail != cfg.StorageDir {
		t.Errorf("unexpected storage check %+v", c)
	}
}

func TestNewSession_RejectsStopWhenIdle(t *testing.T) {
	out := &bytes.Buffer{}
	a, err := New(testConfig(t), out)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	session := a.NewSession(a.Hub)
	defer session.Shutdown()

	if session.State() != dictation.StateIdle {
		t.Fatalf("expected idle, got %s", session.State())
	}
	if _, err := session.Stop(context.Background()); err != dictation.ErrNothingToStop {
		t.Fatalf("expected ErrNothingToStop, got %v", err)
	}
	if !bytes.Contains(out.Bytes(), []byte("No recording in progress!")) {
		t.Errorf("formatter did not receive the notification: %q", out.String())
	}
	if entries, _ := os.ReadDir(filepath.Clean(a.Storage.Path())); len(entries) != 0 {
		t.Errorf("idle stop left files behind: %v", entries)
	}
}

func TestSessionOptions_TranscriptExtFollowsOutputFormat(t *testing.T) {
	cfg := testConfig(t)
	cfg.Transcriber.OutputFormat = "srt"

	a, err := New(cfg, &bytes.Buffer{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	opts := a.sessionOptions(a.Hub)
	if opts.TranscriptExt != ".srt" {
		t.Fatalf("expected .srt, got %q", opts.TranscriptExt)
	}
	if !dictation.MatchByExtension(opts.TranscriptExt)("recording-1a2b3c4d.srt", "recording-1a2b3c4d") {
		t.Error("whisper's srt output would not be found")
	}
}
