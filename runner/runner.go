// Package runner executes the open file in a pseudo terminal and streams
// its output back to the event loop.
package runner

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"sync"

	"github.com/creack/pty"
	"github.com/gdamore/tcell/v2"
)

var ErrRunning = errors.New("a program is already running")

// OutputEvent carries process output to the main event loop.
type OutputEvent struct {
	tcell.EventTime
	Data []byte
}

// ExitEvent is posted once after the process has exited and all output
// was delivered.
type ExitEvent struct {
	tcell.EventTime
	Command string
	Err     error
}

// EventPoster is satisfied by tcell.Screen.
type EventPoster interface {
	PostEventWait(ev tcell.Event)
}

type Runner struct {
	poster EventPoster

	mu   sync.Mutex
	cmd  *exec.Cmd
	ptmx *os.File
}

func New(poster EventPoster) *Runner {
	return &Runner{poster: poster}
}

// Start runs argv in dir. Output and the final exit status arrive as
// events; Start itself does not block.
func (r *Runner) Start(argv []string, dir string, rows, cols int) error {
	if len(argv) == 0 {
		return errors.New("empty command")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cmd != nil {
		return ErrRunning
	}

	cmd := exec.Command(argv[0], argv[1:]...)
	cmd.Dir = dir
	cmd.Env = append(os.Environ(), "TERM=dumb", "PYTHONUNBUFFERED=1")
	if rows <= 0 {
		rows = 24
	}
	if cols <= 0 {
		cols = 80
	}
	ptmx, err := pty.StartWithSize(cmd, &pty.Winsize{Rows: uint16(rows), Cols: uint16(cols)})
	if err != nil {
		return fmt.Errorf("start %s: %w", argv[0], err)
	}
	r.cmd = cmd
	r.ptmx = ptmx

	go r.pump(cmd, ptmx)
	return nil
}

func (r *Runner) pump(cmd *exec.Cmd, ptmx *os.File) {
	buf := make([]byte, 4096)
	for {
		n, err := ptmx.Read(buf)
		if n > 0 {
			data := make([]byte, n)
			copy(data, buf[:n])
			ev := &OutputEvent{Data: data}
			ev.SetEventNow()
			r.poster.PostEventWait(ev)
		}
		if err != nil {
			break
		}
	}
	werr := cmd.Wait()
	ptmx.Close()

	r.mu.Lock()
	if r.cmd == cmd {
		r.cmd = nil
		r.ptmx = nil
	}
	r.mu.Unlock()

	ev := &ExitEvent{Command: cmd.String(), Err: werr}
	ev.SetEventNow()
	r.poster.PostEventWait(ev)
}

func (r *Runner) Running() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cmd != nil
}

// Stop kills the running process. The exit event still follows.
func (r *Runner) Stop() {
	r.mu.Lock()
	cmd := r.cmd
	r.mu.Unlock()
	if cmd != nil && cmd.Process != nil {
		cmd.Process.Kill()
	}
}
