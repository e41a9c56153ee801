package audio

import (
	"context"
	"fmt"
	"os/exec"
	"time"

	"github.com/devbydaniel/whisperclip/internal/domain/dictation"
	"github.com/devbydaniel/whisperclip/internal/process"
)

const (
	DefaultBinary        = "sox"
	DefaultProbeInterval = 100 * time.Millisecond
	DefaultStopGrace     = 3 * time.Second
)

// RecorderConfig describes how the external recorder is invoked.
// The output path is appended to CaptureArgs.
type RecorderConfig struct {
	Binary        string
	CaptureArgs   []string
	ProbeArgs     []string
	ProbeInterval time.Duration
	StopGrace     time.Duration
}

// Recorder manages sox-style recording processes.
type Recorder struct {
	cfg RecorderConfig
}

var _ dictation.Recorder = (*Recorder)(nil)

func NewRecorder(cfg RecorderConfig) *Recorder {
	if cfg.Binary == "" {
		cfg.Binary = DefaultBinary
	}
	if cfg.CaptureArgs == nil {
		cfg.CaptureArgs = []string{"-d"}
	}
	if cfg.ProbeArgs == nil {
		cfg.ProbeArgs = []string{"-d", "-n", "rec"}
	}
	if cfg.ProbeInterval == 0 {
		cfg.ProbeInterval = DefaultProbeInterval
	}
	if cfg.StopGrace == 0 {
		cfg.StopGrace = DefaultStopGrace
	}
	return &Recorder{cfg: cfg}
}

// Check reports whether the recorder binary can be found.
func (r *Recorder) Check() error {
	if _, err := exec.LookPath(r.cfg.Binary); err != nil {
		return fmt.Errorf("%s not found. Install with: brew install %s", r.cfg.Binary, r.cfg.Binary)
	}
	return nil
}

// Binary returns the configured recorder executable.
func (r *Recorder) Binary() string {
	return r.cfg.Binary
}

// Probe runs the recorder in discard mode for the probe interval and then
// kills it. Only a failure to launch is reported.
func (r *Recorder) Probe(ctx context.Context) error {
	h, err := process.Start(process.Command{
		Binary: r.cfg.Binary,
		Args:   r.cfg.ProbeArgs,
	})
	if err != nil {
		return err
	}

	timer := time.NewTimer(r.cfg.ProbeInterval)
	defer timer.Stop()

	select {
	case <-timer.C:
	case <-ctx.Done():
	}

	_ = h.Kill()
	<-h.Done()
	return ctx.Err()
}

// Start launches continuous capture into outputPath. The recorder runs until
// stopped; Stop interrupts it so the WAV header gets finalized.
func (r *Recorder) Start(_ context.Context, outputPath string) (dictation.RecorderProcess, error) {
	args := append(append([]string{}, r.cfg.CaptureArgs...), outputPath)
	h, err := process.Start(process.Command{
		Binary:      r.cfg.Binary,
		Args:        args,
		GracePeriod: r.cfg.StopGrace,
	})
	if err != nil {
		return nil, fmt.Errorf("starting recording: %w", err)
	}
	return h, nil
}
