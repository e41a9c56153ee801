package audio

import (
	"fmt"
	"os"
	"time"

	"github.com/go-audio/wav"
)

// WAVDuration returns the playback length of the PCM data in a WAV file.
func WAVDuration(path string) (time.Duration, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return 0, fmt.Errorf("%s is not a valid WAV file", path)
	}
	if err := dec.FwdToPCM(); err != nil {
		return 0, fmt.Errorf("reading %s: %w", path, err)
	}
	if dec.AvgBytesPerSec == 0 {
		return 0, fmt.Errorf("%s has no byte rate", path)
	}
	return time.Duration(dec.PCMLen()) * time.Second / time.Duration(dec.AvgBytesPerSec), nil
}
