package dictation

import "errors"

var (
	// ErrAlreadyInProgress is returned by Start (and by Stop while stopping or
	// transcribing) when another session owns the recorder.
	ErrAlreadyInProgress = errors.New("recording already in progress")

	// ErrNothingToStop is returned by Stop when no recording is active.
	ErrNothingToStop = errors.New("no recording in progress")

	// ErrClosed is returned by Start after Shutdown.
	ErrClosed = errors.New("session is shut down")

	// ErrLaunch indicates the recorder could not be launched or died during startup.
	ErrLaunch = errors.New("recorder launch failed")

	// ErrStorageInaccessible indicates the storage directory is not writable.
	ErrStorageInaccessible = errors.New("cannot access storage directory")

	// ErrNoAudio indicates the recorder exited without producing an audio file.
	ErrNoAudio = errors.New("recording failed: no audio file created")

	// ErrTranscription indicates the transcriber failed to run or exited non-zero.
	ErrTranscription = errors.New("transcription failed")

	// ErrNoTranscript indicates the transcriber succeeded but left no output file.
	ErrNoTranscript = errors.New("could not find transcription output file")

	// ErrAmbiguousTranscript indicates more than one file matched the transcript predicate.
	ErrAmbiguousTranscript = errors.New("multiple transcription output files match")

	// ErrClipboard indicates the clipboard utility failed.
	ErrClipboard = errors.New("clipboard write failed")
)

// IsBenign reports whether err is a rejected request rather than a failure.
// Benign errors are shown to the user but not logged as errors.
func IsBenign(err error) bool {
	return errors.Is(err, ErrAlreadyInProgress) || errors.Is(err, ErrNothingToStop)
}
