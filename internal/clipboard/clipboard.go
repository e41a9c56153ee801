// Package clipboard replaces the system clipboard with a transcript.
package clipboard

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"runtime"

	"github.com/atotto/clipboard"

	"github.com/devbydaniel/whisperclip/internal/domain/dictation"
	"github.com/devbydaniel/whisperclip/internal/process"
)

// Command pipes a file into a clipboard utility such as pbcopy or wl-copy.
type Command struct {
	Binary string
	Args   []string
}

// System writes through github.com/atotto/clipboard, which picks
// pbcopy, xclip, xsel or wl-copy for the current platform.
type System struct{}

var (
	_ dictation.Clipboard = (*Command)(nil)
	_ dictation.Clipboard = System{}
)

// DefaultCommand returns the clipboard utility used when none is configured.
// An empty result means the System writer should be used.
func DefaultCommand(goos string) string {
	if goos == "darwin" {
		return "pbcopy"
	}
	return ""
}

// New returns a Command for binary, or System when binary is empty.
func New(binary string, args []string) dictation.Clipboard {
	if binary == "" {
		binary = DefaultCommand(runtime.GOOS)
	}
	if binary == "" {
		return System{}
	}
	return &Command{Binary: binary, Args: args}
}

// CopyFile runs the utility with the file as stdin.
func (c *Command) CopyFile(ctx context.Context, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening transcript: %w", err)
	}
	defer f.Close()

	if _, err := process.Run(ctx, process.Command{
		Binary: c.Binary,
		Args:   c.Args,
		Stdin:  f,
	}); err != nil {
		return fmt.Errorf("%s: %w", c.Binary, err)
	}
	return nil
}

// Check reports whether the utility can be found.
func (c *Command) Check() error {
	if _, err := exec.LookPath(c.Binary); err != nil {
		return fmt.Errorf("%s not found", c.Binary)
	}
	return nil
}

// CopyFile reads the file and writes it to the clipboard.
func (System) CopyFile(_ context.Context, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading transcript: %w", err)
	}
	if err := clipboard.WriteAll(string(data)); err != nil {
		return fmt.Errorf("system clipboard: %w", err)
	}
	return nil
}

// Check reports whether a clipboard utility is available.
func (System) Check() error {
	if clipboard.Unsupported {
		return fmt.Errorf("no clipboard utility found. Install wl-clipboard, xclip or xsel")
	}
	return nil
}
