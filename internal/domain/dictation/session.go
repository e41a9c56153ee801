package dictation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/devbydaniel/whisperclip/pkg/logger"
)

const (
	DefaultArtifactName  = "recording"
	DefaultAudioExt      = ".wav"
	DefaultTranscriptExt = ".txt"
	DefaultLaunchGrace   = 300 * time.Millisecond
)

// Options configures a Session. Recorder, Transcriber, Clipboard and Storage
// are required; everything else has a default.
type Options struct {
	Recorder    Recorder
	Transcriber Transcriber
	Clipboard   Clipboard
	Storage     Storage
	Notifier    Notifier
	Indicator   Indicator
	Logger      *logger.Logger

	// ArtifactName is the base name of the audio artifact.
	ArtifactName  string
	AudioExt      string
	TranscriptExt string

	// FixedArtifactName reuses ArtifactName for every session instead of
	// appending a per-session id.
	FixedArtifactName bool
	// NewID returns the per-session id appended to ArtifactName.
	NewID func() string

	// MatchTranscript reports whether a storage entry is the transcript
	// produced for the artifact base name.
	MatchTranscript func(name, base string) bool

	// LaunchGrace is how long Start waits for the recorder to fail before
	// reporting the recording as started.
	LaunchGrace time.Duration

	// AudioLength reads the duration of the audio artifact. Optional.
	AudioLength func(path string) (time.Duration, error)

	Now func() time.Time
}

// Session is the single recording-to-clipboard workflow. At most one
// recorder process is held at a time.
type Session struct {
	opts      Options
	notifier  Notifier
	indicator Indicator
	log       *logger.Logger

	mu      sync.Mutex
	state   State
	current *recording
	closed  bool
}

type recording struct {
	proc      RecorderProcess
	base      string
	audioPath string
	startedAt time.Time
}

// NewSession creates an idle session.
func NewSession(opts Options) *Session {
	if opts.ArtifactName == "" {
		opts.ArtifactName = DefaultArtifactName
	}
	if opts.AudioExt == "" {
		opts.AudioExt = DefaultAudioExt
	}
	if opts.TranscriptExt == "" {
		opts.TranscriptExt = DefaultTranscriptExt
	}
	if opts.NewID == nil {
		opts.NewID = func() string { return uuid.NewString()[:8] }
	}
	if opts.MatchTranscript == nil {
		opts.MatchTranscript = MatchByExtension(opts.TranscriptExt)
	}
	if opts.LaunchGrace == 0 {
		opts.LaunchGrace = DefaultLaunchGrace
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	s := &Session{
		opts:      opts,
		notifier:  opts.Notifier,
		indicator: opts.Indicator,
		log:       opts.Logger,
		state:     StateIdle,
	}
	if s.notifier == nil {
		s.notifier = nopNotifier{}
	}
	if s.indicator == nil {
		s.indicator = nopIndicator{}
	}
	if s.log == nil {
		s.log = logger.NewNop()
	}
	s.log = s.log.Named("session")
	return s
}

// MatchByExtension matches names that contain the artifact base and end in ext.
func MatchByExtension(ext string) func(name, base string) bool {
	return func(name, base string) bool {
		return strings.Contains(name, base) && strings.HasSuffix(name, ext)
	}
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Start probes the microphone, launches the recorder and waits out the
// launch grace window.
func (s *Session) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	if s.state != StateIdle {
		state := s.state
		s.mu.Unlock()
		s.log.Info("recording already in progress", logger.String("state", string(state)))
		s.notifier.Info("Recording already in progress!")
		return ErrAlreadyInProgress
	}
	s.state = StateStarting
	s.mu.Unlock()

	s.log.Debug("checking microphone permission")
	if err := s.opts.Recorder.Probe(ctx); err != nil {
		s.setState(StateIdle)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		s.log.Error("microphone probe failed", logger.Error(err))
		s.notifier.Error("Microphone access denied. Please grant permission in System Preferences.")
		return fmt.Errorf("%w: microphone probe: %w", ErrLaunch, err)
	}

	base := s.artifactBase()
	audioPath := s.opts.Storage.Join(base + s.opts.AudioExt)

	s.log.Info("starting recorder", logger.String("path", audioPath))
	proc, err := s.opts.Recorder.Start(ctx, audioPath)
	if err != nil {
		s.setState(StateIdle)
		return s.fail(fmt.Errorf("%w: %w", ErrLaunch, err), "Recording error")
	}

	rec := &recording{
		proc:      proc,
		base:      base,
		audioPath: audioPath,
		startedAt: s.opts.Now(),
	}

	s.mu.Lock()
	if s.closed {
		s.state = StateIdle
		s.mu.Unlock()
		_ = proc.Kill()
		return ErrClosed
	}
	s.current = rec
	s.mu.Unlock()

	if err := s.awaitLaunch(ctx, proc); err != nil {
		s.mu.Lock()
		closed := s.closed
		if s.current == rec {
			s.current = nil
		}
		s.state = StateIdle
		s.mu.Unlock()

		if closed {
			return ErrClosed
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return s.fail(err, "Recording error")
	}

	s.mu.Lock()
	if s.current != rec {
		s.state = StateIdle
		s.mu.Unlock()
		return ErrClosed
	}
	s.state = StateRecording
	s.mu.Unlock()

	s.indicator.Show("Recording...")
	s.notifier.Info("Recording started - run stop to finish")
	go s.watch(rec)
	return nil
}

// awaitLaunch treats a recorder exit inside the grace window as a launch error.
func (s *Session) awaitLaunch(ctx context.Context, proc RecorderProcess) error {
	timer := time.NewTimer(s.opts.LaunchGrace)
	defer timer.Stop()

	select {
	case <-proc.Done():
		err := proc.Err()
		if err == nil {
			err = errors.New("recorder exited during startup")
		}
		return fmt.Errorf("%w: %w", ErrLaunch, err)
	case <-timer.C:
		return nil
	case <-ctx.Done():
		if err := proc.Stop(); err != nil {
			s.log.Warn("could not stop recorder", logger.Error(err))
		}
		return ctx.Err()
	}
}

// watch resets the session when the recorder dies while still held: the
// handle is dropped, the partial recording removed and the user told.
func (s *Session) watch(rec *recording) {
	<-rec.proc.Done()

	s.mu.Lock()
	held := s.current == rec
	if held {
		s.current = nil
		s.state = StateIdle
	}
	s.mu.Unlock()

	if !held {
		return
	}

	err := rec.proc.Err()
	if err == nil {
		err = errors.New("recorder exited before stop")
	}
	s.indicator.Hide()
	s.sweep(rec.base)
	_ = s.fail(err, "Recording error")
}

// Stop ends the recording and runs the pipeline: verify artifact,
// transcribe, locate transcript, copy to clipboard, clean up. It blocks until
// the pipeline is done. Cancelling ctx does not abort the transcriber or the
// clipboard utility.
func (s *Session) Stop(ctx context.Context) (*StopResult, error) {
	s.mu.Lock()
	switch s.state {
	case StateRecording:
	case StateIdle:
		s.mu.Unlock()
		s.log.Info("no recording in progress")
		s.notifier.Info("No recording in progress!")
		return nil, ErrNothingToStop
	default:
		state := s.state
		s.mu.Unlock()
		s.log.Info("stop rejected", logger.String("state", string(state)))
		s.notifier.Info(fmt.Sprintf("Already %s!", state))
		return nil, fmt.Errorf("%w: session is %s", ErrAlreadyInProgress, state)
	}
	rec := s.current
	s.current = nil
	s.state = StateStopping
	s.mu.Unlock()

	defer s.setState(StateIdle)
	return s.finish(context.WithoutCancel(ctx), rec)
}

func (s *Session) finish(ctx context.Context, rec *recording) (*StopResult, error) {
	s.log.Info("stopping recorder")
	if err := rec.proc.Stop(); err != nil {
		s.log.Warn("could not stop recorder", logger.Error(err))
	}
	s.indicator.Hide()

	result := &StopResult{Recorded: s.opts.Now().Sub(rec.startedAt)}

	if err := s.opts.Storage.CheckWritable(); err != nil {
		return nil, s.fail(fmt.Errorf("%w: %s: %w", ErrStorageInaccessible, s.opts.Storage.Path(), err), "Cannot access storage directory")
	}

	audioName := rec.base + s.opts.AudioExt
	if ok, err := s.opts.Storage.Exists(audioName); err != nil || !ok {
		if err == nil {
			err = fmt.Errorf("%s not found", rec.audioPath)
		}
		return nil, s.fail(fmt.Errorf("%w: %w", ErrNoAudio, err), "Recording failed - no audio file created")
	}

	if s.opts.AudioLength != nil {
		if d, err := s.opts.AudioLength(rec.audioPath); err != nil {
			s.log.Warn("could not read audio length", logger.Error(err))
		} else {
			result.AudioLength = d
		}
	}

	s.setState(StateTranscribing)
	s.notifier.Info("Stopped recording. Now transcribing...")
	s.log.Info("transcribing",
		logger.String("path", rec.audioPath),
		logger.Duration("recorded", result.Recorded),
		logger.Duration("audio_length", result.AudioLength),
	)

	if err := s.opts.Transcriber.Transcribe(ctx, rec.audioPath, s.opts.Storage.Path()); err != nil {
		s.sweep(rec.base)
		return nil, s.fail(fmt.Errorf("%w: %w", ErrTranscription, err), "Error during transcription")
	}

	matches, err := s.opts.Storage.Find(func(name string) bool {
		return s.opts.MatchTranscript(name, rec.base)
	})
	if err != nil {
		s.sweep(rec.base)
		return nil, s.fail(fmt.Errorf("%w: %w", ErrNoTranscript, err), "Error during transcription")
	}
	switch len(matches) {
	case 0:
		s.sweep(rec.base)
		return nil, s.fail(ErrNoTranscript, "Error during transcription")
	case 1:
	default:
		s.sweep(rec.base)
		return nil, s.fail(fmt.Errorf("%w: %s", ErrAmbiguousTranscript, strings.Join(matches, ", ")), "Error during transcription")
	}

	result.TranscriptFile = matches[0]
	transcriptPath := s.opts.Storage.Join(result.TranscriptFile)

	s.log.Info("copying to clipboard", logger.String("path", transcriptPath))
	if err := s.opts.Clipboard.CopyFile(ctx, transcriptPath); err != nil {
		// Artifacts stay on disk so the transcript can be recovered by hand.
		return nil, s.fail(fmt.Errorf("%w: transcript kept at %s: %w", ErrClipboard, transcriptPath, err), "Error copying transcription to clipboard")
	}

	if text, err := s.opts.Storage.Read(result.TranscriptFile); err != nil {
		s.log.Warn("could not read transcript", logger.Error(err))
	} else {
		result.Transcript = strings.TrimSpace(string(text))
	}

	s.log.Info("transcription copied to clipboard", logger.Int("chars", len(result.Transcript)))
	s.notifier.Info("Transcription copied to clipboard!")
	s.sweep(rec.base)
	return result, nil
}

// Shutdown kills a held recorder. It does not wait for an in-flight
// transcription, and Start fails with ErrClosed afterwards.
func (s *Session) Shutdown() {
	s.mu.Lock()
	s.closed = true
	rec := s.current
	s.current = nil
	if s.state == StateRecording {
		s.state = StateIdle
	}
	s.mu.Unlock()

	if rec == nil {
		return
	}
	s.log.Info("killing recorder on shutdown")
	if err := rec.proc.Kill(); err != nil {
		s.log.Warn("could not kill recorder", logger.Error(err))
	}
	s.indicator.Hide()
}

// sweep removes every artifact of a session. Delete errors are logged only.
func (s *Session) sweep(base string) {
	removed, err := s.opts.Storage.Remove(func(name string) bool {
		return strings.Contains(name, base)
	})
	if err != nil {
		s.log.Warn("error cleaning up artifacts", logger.Error(err))
	}
	s.log.Debug("cleaned up artifacts", logger.Strings("files", removed))
}

func (s *Session) fail(err error, msg string) error {
	s.log.Error(msg, logger.Error(err))
	s.notifier.Error(msg + ": " + err.Error())
	return err
}

func (s *Session) setState(state State) {
	s.mu.Lock()
	s.state = state
	s.mu.Unlock()
}

func (s *Session) artifactBase() string {
	if s.opts.FixedArtifactName {
		return s.opts.ArtifactName
	}
	return s.opts.ArtifactName + "-" + s.opts.NewID()
}
