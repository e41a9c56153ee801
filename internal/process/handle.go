package process

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"time"
)

// Handle is a long-running subprocess started with Start.
// It runs until it exits on its own or is stopped.
type Handle struct {
	cmd    *exec.Cmd
	binary string
	grace  time.Duration
	stderr bytes.Buffer

	done chan struct{}
	err  error // set before done is closed
}

// Start launches a subprocess without waiting for it.
// Launch failures (binary missing, permission denied) are returned directly;
// anything that happens after the spawn is reported through Done and Err.
func Start(cmd Command) (*Handle, error) {
	if cmd.Binary == "" {
		return nil, fmt.Errorf("process: binary is required")
	}

	c := exec.Command(cmd.Binary, cmd.Args...) //nolint:gosec // dynamic args are the purpose of this package
	c.Dir = cmd.Dir
	c.Env = mergeEnv(cmd.Env)
	if cmd.Stdin != nil {
		c.Stdin = cmd.Stdin
	}

	h := &Handle{
		cmd:    c,
		binary: cmd.Binary,
		grace:  cmd.gracePeriod(),
		done:   make(chan struct{}),
	}
	c.Stderr = &h.stderr

	if err := c.Start(); err != nil {
		return nil, fmt.Errorf("process: start %s: %w", cmd.Binary, err)
	}

	go h.wait()
	return h, nil
}

func (h *Handle) wait() {
	err := h.cmd.Wait()
	if err != nil {
		err = fmt.Errorf("process: %s exited: %w%s", h.binary, err, StderrTail(h.stderr.Bytes()))
	}
	h.err = err
	close(h.done)
}

// Pid returns the operating system process id.
func (h *Handle) Pid() int {
	return h.cmd.Process.Pid
}

// Done is closed once the process has exited.
func (h *Handle) Done() <-chan struct{} {
	return h.done
}

// Err reports how the process exited. It is only meaningful after Done is closed.
func (h *Handle) Err() error {
	select {
	case <-h.done:
		return h.err
	default:
		return nil
	}
}

// Exited reports whether the process has already exited.
func (h *Handle) Exited() bool {
	select {
	case <-h.done:
		return true
	default:
		return false
	}
}

// Stop interrupts the process so it can flush its output, then kills it
// if it is still running after the grace period. It waits for the exit.
// Stopping an exited process is a no-op.
func (h *Handle) Stop() error {
	if h.Exited() {
		return nil
	}

	if err := h.cmd.Process.Signal(os.Interrupt); err != nil && !errors.Is(err, os.ErrProcessDone) {
		return h.killAndWait()
	}

	timer := time.NewTimer(h.grace)
	defer timer.Stop()

	select {
	case <-h.done:
		return nil
	case <-timer.C:
		return h.killAndWait()
	}
}

// Kill terminates the process immediately without waiting for it to exit.
func (h *Handle) Kill() error {
	if h.Exited() {
		return nil
	}
	if err := h.cmd.Process.Kill(); err != nil && !errors.Is(err, os.ErrProcessDone) {
		return fmt.Errorf("process: kill %s: %w", h.binary, err)
	}
	return nil
}

func (h *Handle) killAndWait() error {
	if err := h.Kill(); err != nil {
		return err
	}
	<-h.done
	return nil
}
