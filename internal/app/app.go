package app

import (
	"io"

	"github.com/devbydaniel/whisperclip/config"
	"github.com/devbydaniel/whisperclip/internal/audio"
	"github.com/devbydaniel/whisperclip/internal/clipboard"
	"github.com/devbydaniel/whisperclip/internal/control"
	"github.com/devbydaniel/whisperclip/internal/domain/dictation"
	"github.com/devbydaniel/whisperclip/internal/output"
	"github.com/devbydaniel/whisperclip/internal/storage"
	"github.com/devbydaniel/whisperclip/internal/transcription"
	"github.com/devbydaniel/whisperclip/pkg/logger"
)

// checker is implemented by adapters that can verify their external tool.
type checker interface {
	Check() error
}

type App struct {
	Config      *config.Config
	Logger      *logger.Logger
	Storage     *storage.Dir
	Recorder    *audio.Recorder
	Transcriber *transcription.Whisper
	Clipboard   dictation.Clipboard
	Hub         *control.Hub
	Formatter   *output.Formatter
}

// New builds the adapters. Sessions are created per command because the
// daemon and the foreground recorder report progress differently.
func New(cfg *config.Config, stdout io.Writer) (*App, error) {
	log, err := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})
	if err != nil {
		return nil, err
	}

	dir, err := storage.Open(cfg.StorageDir)
	if err != nil {
		return nil, err
	}

	recorder := audio.NewRecorder(audio.RecorderConfig{
		Binary:        cfg.Recorder.Binary,
		CaptureArgs:   cfg.Recorder.CaptureArgs,
		ProbeArgs:     cfg.Recorder.ProbeArgs,
		ProbeInterval: cfg.Recorder.ProbeInterval,
		StopGrace:     cfg.Recorder.StopGrace,
	})

	whisper := transcription.NewWhisper(transcription.Whisper{
		Binary:       cfg.Transcriber.Binary,
		Model:        cfg.Transcriber.Model,
		Language:     cfg.Transcriber.Language,
		OutputFormat: cfg.Transcriber.OutputFormat,
		ExtraArgs:    cfg.Transcriber.ExtraArgs,
	})

	return &App{
		Config:      cfg,
		Logger:      log,
		Storage:     dir,
		Recorder:    recorder,
		Transcriber: whisper,
		Clipboard:   clipboard.New(cfg.Clipboard.Command, cfg.Clipboard.Args),
		Hub:         control.NewHub(log),
		Formatter:   output.NewFormatter(stdout),
	}, nil
}

// NewSession wires a session that reports through the formatter, desktop
// notifications when enabled, and the given indicator.
func (a *App) NewSession(indicator dictation.Indicator) *dictation.Session {
	return dictation.NewSession(a.sessionOptions(indicator))
}

func (a *App) sessionOptions(indicator dictation.Indicator) dictation.Options {
	notifiers := output.Multi{a.Formatter}
	if a.Config.Notifications.Desktop {
		notifiers = append(notifiers, output.NewDesktop("whisperclip", a.Logger))
	}

	return dictation.Options{
		Recorder:          a.Recorder,
		Transcriber:       a.Transcriber,
		Clipboard:         a.Clipboard,
		Storage:           a.Storage,
		Notifier:          notifiers,
		Indicator:         indicator,
		Logger:            a.Logger,
		ArtifactName:      a.Config.ArtifactName,
		FixedArtifactName: a.Config.FixedArtifactName,
		TranscriptExt:     "." + a.Transcriber.OutputFormat,
		LaunchGrace:       a.Config.LaunchGrace,
		AudioLength:       audio.WAVDuration,
	}
}

// Check is one prerequisite reported by doctor.
type Check struct {
	Name   string
	Detail string
	Err    error
}

// Checks verifies the external tools and the storage directory.
func (a *App) Checks() []Check {
	checks := []Check{
		check("Recorder", a.Recorder.Binary(), a.Recorder),
		check("Transcriber", a.Transcriber.Binary, a.Transcriber),
	}

	clip := Check{Name: "Clipboard", Detail: "system clipboard"}
	if cmd, ok := a.Clipboard.(*clipboard.Command); ok {
		clip.Detail = cmd.Binary
	}
	if c, ok := a.Clipboard.(checker); ok {
		clip.Err = c.Check()
	}
	checks = append(checks, clip)

	checks = append(checks, Check{
		Name:   "Storage directory",
		Detail: a.Storage.Path(),
		Err:    a.Storage.CheckWritable(),
	})
	return checks
}

func check(name, detail string, c checker) Check {
	return Check{Name: name, Detail: detail, Err: c.Check()}
}
