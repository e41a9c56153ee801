package output

import (
	"fmt"
	"io"
	"sync"
	"time"
)

// Formatter prints user-facing messages. It also serves as the session's
// notifier and status indicator when running in the terminal.
type Formatter struct {
	mu sync.Mutex
	w  io.Writer
}

func NewFormatter(w io.Writer) *Formatter {
	return &Formatter{w: w}
}

func (f *Formatter) printf(format string, args ...any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	fmt.Fprintf(f.w, format, args...)
}

func (f *Formatter) RecordingStopped(recorded, audio time.Duration) {
	if audio > 0 {
		f.printf("⏹️  Recording stopped (%s, %s of audio)\n", formatDuration(recorded), formatDuration(audio))
		return
	}
	f.printf("⏹️  Recording stopped (%s)\n", formatDuration(recorded))
}

func (f *Formatter) Transcript(text string) {
	f.printf("\n%s\n\n", text)
}

func (f *Formatter) State(state string) {
	f.printf("🎙️  Session: %s\n", state)
}

// Show implements the status indicator.
func (f *Formatter) Show(text string) {
	f.printf("🔴 %s\n", text)
}

// Hide implements the status indicator. Terminal output cannot be retracted.
func (f *Formatter) Hide() {}

func (f *Formatter) Error(msg string) {
	f.printf("❌ %s\n", msg)
}

func (f *Formatter) Info(msg string) {
	f.printf("ℹ️  %s\n", msg)
}

func (f *Formatter) Success(msg string) {
	f.printf("✅ %s\n", msg)
}

func (f *Formatter) Warning(msg string) {
	f.printf("⚠️  %s\n", msg)
}

func (f *Formatter) ArtifactListHeader(dir string) {
	f.printf("📁 Leftover artifacts in %s:\n\n", dir)
}

func (f *Formatter) ArtifactListItem(name string, removed bool) {
	status := ""
	if removed {
		status = " 🗑️"
	}
	f.printf("  %s%s\n", name, status)
}

func (f *Formatter) SetupCheck(name string, ok bool, detail string) {
	if ok {
		f.printf("  ✅ %s: %s\n", name, detail)
	} else {
		f.printf("  ❌ %s: %s\n", name, detail)
	}
}

func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second

	if h > 0 {
		return fmt.Sprintf("%dh%02dm%02ds", h, m, s)
	}
	if m > 0 {
		return fmt.Sprintf("%dm%02ds", m, s)
	}
	return fmt.Sprintf("%ds", s)
}
