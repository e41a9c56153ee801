package dictation

import "time"

// State is the lifecycle position of a Session.
type State string

const (
	StateIdle         State = "idle"
	StateStarting     State = "starting"
	StateRecording    State = "recording"
	StateStopping     State = "stopping"
	StateTranscribing State = "transcribing"
)

// StopResult describes a recording that made it all the way to the clipboard.
type StopResult struct {
	// Transcript is the text that was copied.
	Transcript string
	// TranscriptFile is the name of the transcript artifact (already removed).
	TranscriptFile string
	// Recorded is the wall-clock time between start and stop.
	Recorded time.Duration
	// AudioLength is read from the audio header; zero when it could not be decoded.
	AudioLength time.Duration
}
