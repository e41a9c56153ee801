package dictation

import "context"

// RecorderProcess is a running recorder.
type RecorderProcess interface {
	// Done is closed when the recorder exits.
	Done() <-chan struct{}
	// Err reports why the recorder exited, once Done is closed.
	Err() error
	// Stop asks the recorder to finish writing and waits for it to exit.
	Stop() error
	// Kill terminates the recorder without waiting.
	Kill() error
}

// Recorder launches the external audio recorder.
type Recorder interface {
	// Probe launches the recorder briefly in discard mode to detect a missing
	// binary or denied microphone access. Success does not guarantee Start works.
	Probe(ctx context.Context) error
	// Start begins continuous capture into outputPath.
	Start(ctx context.Context, outputPath string) (RecorderProcess, error)
}

// Transcriber runs the external speech-to-text tool. On success it has
// written a transcript for audioPath somewhere inside outputDir.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath, outputDir string) error
}

// Clipboard replaces the system clipboard with the contents of a file.
type Clipboard interface {
	CopyFile(ctx context.Context, path string) error
}

// Storage is the directory shared by the recorder and the transcriber.
type Storage interface {
	Path() string
	Join(name string) string
	CheckWritable() error
	Exists(name string) (bool, error)
	Read(name string) ([]byte, error)
	Find(match func(name string) bool) ([]string, error)
	Remove(match func(name string) bool) ([]string, error)
}

// Notifier shows messages to the user.
type Notifier interface {
	Info(msg string)
	Error(msg string)
}

// Indicator is the persistent "recording active" status display.
type Indicator interface {
	Show(text string)
	Hide()
}

type nopIndicator struct{}

func (nopIndicator) Show(string) {}
func (nopIndicator) Hide()       {}

type nopNotifier struct{}

func (nopNotifier) Info(string)  {}
func (nopNotifier) Error(string) {}
