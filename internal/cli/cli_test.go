package cli

import (
	"bytes"
	"context"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/devbydaniel/whisperclip/config"
	"github.com/devbydaniel/whisperclip/internal/app"
	"github.com/devbydaniel/whisperclip/internal/control"
	"github.com/devbydaniel/whisperclip/internal/domain/dictation"
	"github.com/devbydaniel/whisperclip/pkg/logger"
)

type stubSession struct {
	state   dictation.State
	stopErr error
}

func (s *stubSession) Start(context.Context) error {
	s.state = dictation.StateRecording
	return nil
}

func (s *stubSession) Stop(context.Context) (*dictation.StopResult, error) {
	if s.stopErr != nil {
		return nil, s.stopErr
	}
	s.state = dictation.StateIdle
	return &dictation.StopResult{Transcript: "hello there"}, nil
}

func (s *stubSession) State() dictation.State {
	if s.state == "" {
		return dictation.StateIdle
	}
	return s.state
}

func newDeps(t *testing.T) (*Dependencies, *bytes.Buffer) {
	t.Helper()
	cfg := config.Default()
	cfg.StorageDir = t.TempDir()
	cfg.Notifications.Desktop = false
	cfg.Log.Level = "error"

	out := &bytes.Buffer{}
	a, err := app.New(cfg, out)
	if err != nil {
		t.Fatalf("app.New: %v", err)
	}
	return &Dependencies{App: a, Config: cfg}, out
}

func withDaemon(t *testing.T, deps *Dependencies, session control.Session) {
	t.Helper()
	log := logger.NewNop()
	srv := httptest.NewServer(control.NewServer(session, control.NewHub(log), log).Routes())
	t.Cleanup(srv.Close)
	deps.Config.ListenAddr = srv.Listener.Addr().String()
}

func execute(t *testing.T, deps *Dependencies, args ...string) error {
	t.Helper()
	cmd := NewRootCmd(deps)
	cmd.SetArgs(args)
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	return cmd.Execute()
}

func TestStartStop_ThroughDaemon(t *testing.T) {
	deps, out := newDeps(t)
	withDaemon(t, deps, &stubSession{})

	if err := execute(t, deps, "start"); err != nil {
		t.Fatalf("start: %v", err)
	}
	if !strings.Contains(out.String(), "Session: recording") {
		t.Errorf("start output %q", out.String())
	}

	if err := execute(t, deps, "stop"); err != nil {
		t.Fatalf("stop: %v", err)
	}
	if !strings.Contains(out.String(), "hello there") {
		t.Errorf("transcript not printed: %q", out.String())
	}
}

func TestStop_NothingToStopIsNotAnError(t *testing.T) {
	deps, out := newDeps(t)
	withDaemon(t, deps, &stubSession{stopErr: dictation.ErrNothingToStop})

	if err := execute(t, deps, "stop"); err != nil {
		t.Fatalf("stop: %v", err)
	}
	if !strings.Contains(out.String(), "No recording in progress!") {
		t.Errorf("expected info message, got %q", out.String())
	}
}

func TestStop_FailureIsReturned(t *testing.T) {
	deps, _ := newDeps(t)
	withDaemon(t, deps, &stubSession{stopErr: dictation.ErrNoAudio})

	if err := execute(t, deps, "stop"); err == nil {
		t.Fatal("expected an error")
	}
}

func TestClean(t *testing.T) {
	deps, out := newDeps(t)
	dir := deps.Config.StorageDir
	for _, name := range []string{"recording-1a2b3c4d.wav", "recording-1a2b3c4d.txt", "notes.md"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	if err := execute(t, deps, "clean", "--dry-run"); err != nil {
		t.Fatalf("clean --dry-run: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "recording-1a2b3c4d.wav")); err != nil {
		t.Fatal("dry run removed a file")
	}

	if err := execute(t, deps, "clean"); err != nil {
		t.Fatalf("clean: %v", err)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 || entries[0].Name() != "notes.md" {
		t.Errorf("unexpected files left: %v", entries)
	}
	if !strings.Contains(out.String(), "recording-1a2b3c4d.txt") {
		t.Errorf("removed files not listed: %q", out.String())
	}
}
