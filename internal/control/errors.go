package control

import (
	"errors"
	"net/http"

	"github.com/devbydaniel/whisperclip/internal/domain/dictation"
)

// ErrorResponse is the JSON body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

var errorCodes = []struct {
	err    error
	code   string
	status int
}{
	{dictation.ErrAlreadyInProgress, "already_in_progress", http.StatusConflict},
	{dictation.ErrNothingToStop, "nothing_to_stop", http.StatusConflict},
	{dictation.ErrClosed, "closed", http.StatusServiceUnavailable},
	{dictation.ErrLaunch, "launch_failed", http.StatusInternalServerError},
	{dictation.ErrStorageInaccessible, "storage_inaccessible", http.StatusInternalServerError},
	{dictation.ErrNoAudio, "no_audio", http.StatusInternalServerError},
	{dictation.ErrTranscription, "transcription_failed", http.StatusInternalServerError},
	{dictation.ErrNoTranscript, "no_transcript", http.StatusInternalServerError},
	{dictation.ErrAmbiguousTranscript, "ambiguous_transcript", http.StatusInternalServerError},
	{dictation.ErrClipboard, "clipboard_failed", http.StatusInternalServerError},
}

const codeInternal = "internal"

func classify(err error) (string, int) {
	for _, ec := range errorCodes {
		if errors.Is(err, ec.err) {
			return ec.code, ec.status
		}
	}
	return codeInternal, http.StatusInternalServerError
}

// APIError is a failure reported by the daemon. It unwraps to the matching
// dictation error so callers can use errors.Is across the process boundary.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	return e.Message
}

func (e *APIError) Unwrap() error {
	for _, ec := range errorCodes {
		if ec.code == e.Code {
			return ec.err
		}
	}
	return nil
}
