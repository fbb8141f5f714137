package compiler

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"strings"
	"sync"

	"github.com/creack/pty"
	"go.trai.ch/zerr"
	"golang.org/x/term"

	"go.trai.ch/gourmet/internal/core/ports"
)

// tailLines is the number of trailing output lines kept for error reports.
const tailLines = 20

// Size of the PTY when gourmet itself does not run in a terminal.
const (
	defaultCols = 120
	defaultRows = 40
)

// runCommand runs command in dir with env, in a PTY when one is available
// and with plain pipes otherwise. Output is written to out. A non-zero exit
// is returned as *exec.ExitError.
func runCommand(ctx context.Context, dir string, command, env []string, out io.Writer) error {
	newCmd := func() *exec.Cmd {
		cmd := exec.CommandContext(ctx, command[0], command[1:]...) //nolint:gosec // user configured build command
		cmd.Dir = dir
		cmd.Env = env
		return cmd
	}

	cmd := newCmd()
	ptmx, err := pty.StartWithSize(cmd, ptySize())
	if err != nil {
		var execErr *exec.Error
		if errors.As(err, &execErr) || errors.Is(err, os.ErrNotExist) {
			return err
		}
		// no PTY support, fall back to pipes
		cmd = newCmd()
		cmd.Stdout = out
		cmd.Stderr = out
		return cmd.Run()
	}

	ioDone := make(chan struct{})
	go func() {
		defer close(ioDone)
		// reading the PTY after the child exited fails with EIO
		_, _ = io.Copy(out, ptmx)
	}()

	waitErr := cmd.Wait()
	_ = ptmx.Close()
	<-ioDone
	return waitErr
}

// ptySize matches the PTY to the terminal gourmet runs in, so build tools
// wrap their progress output at the real width.
func ptySize() *pty.Winsize {
	size := &pty.Winsize{Cols: defaultCols, Rows: defaultRows}
	fd := int(os.Stdout.Fd()) //nolint:gosec // file descriptors fit in int
	if !term.IsTerminal(fd) {
		return size
	}
	if cols, rows, err := term.GetSize(fd); err == nil && cols > 0 && rows > 0 {
		size.Cols = uint16(cols) //nolint:gosec // terminal sizes fit in uint16
		size.Rows = uint16(rows) //nolint:gosec // terminal sizes fit in uint16
	}
	return size
}

// lineWriter splits output into lines, logs them and keeps the last ones.
type lineWriter struct {
	mu     sync.Mutex
	logger ports.Logger
	buf    []byte
	tail   []string
}

func (w *lineWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.buf = append(w.buf, p...)
	for {
		i := bytes.IndexByte(w.buf, '\n')
		if i < 0 {
			break
		}
		w.line(w.buf[:i])
		w.buf = w.buf[i+1:]
	}
	return len(p), nil
}

// Close flushes a trailing partial line.
func (w *lineWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if len(w.buf) > 0 {
		w.line(w.buf)
		w.buf = nil
	}
	return nil
}

func (w *lineWriter) line(raw []byte) {
	msg := strings.TrimRight(string(raw), "\r")
	if strings.TrimSpace(msg) == "" {
		return
	}
	if w.logger != nil {
		w.logger.Debug(msg)
	}
	w.tail = append(w.tail, msg)
	if len(w.tail) > tailLines {
		w.tail = w.tail[len(w.tail)-tailLines:]
	}
}

// Lines returns the kept lines.
func (w *lineWriter) Lines() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]string(nil), w.tail...)
}

// warnings picks the lines that report warnings.
func warnings(lines []string) []string {
	var out []string
	for _, l := range lines {
		lower := strings.ToLower(strings.TrimSpace(l))
		if strings.HasPrefix(lower, "warning") || strings.HasPrefix(lower, "warn ") {
			out = append(out, l)
		}
	}
	return out
}

// startFailure wraps errors that prevented the command from running.
func startFailure(err error, command []string) error {
	return zerr.With(zerr.Wrap(err, "failed to start build command"), "command", strings.Join(command, " "))
}
