// Package clipboardx copies text to the system clipboard when one is
// reachable and always keeps an in-process copy for paste.
package clipboardx

import (
	"encoding/base64"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"sync"

	"github.com/atotto/clipboard"
)

// Clipboard tries the system clipboard first and falls back to the last
// text written through it.
type Clipboard struct {
	mu       sync.Mutex
	internal string
	// System is false in tests and headless runs.
	System bool
}

var std = &Clipboard{System: true}

func Write(text string) bool { return std.Write(text) }

func Read() string { return std.Read() }

// Write stores text and reports whether any system clipboard accepted it.
func (c *Clipboard) Write(text string) bool {
	c.mu.Lock()
	c.internal = text
	c.mu.Unlock()
	if !c.System {
		return false
	}

	ok := clipboard.WriteAll(text) == nil
	if !ok {
		ok = pipeTo(text)
	}
	if osc52(text) {
		ok = true
	}
	return ok
}

func (c *Clipboard) Read() string {
	if c.System {
		if text, err := clipboard.ReadAll(); err == nil && text != "" {
			return text
		}
		if text := pipeFrom(); text != "" {
			return text
		}
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.internal
}

type tool struct {
	name string
	args []string
}

var (
	copyTools = []tool{
		{"wl-copy", nil},
		{"xclip", []string{"-selection", "clipboard"}},
		{"xsel", []string{"--clipboard", "--input"}},
		{"pbcopy", nil},
	}
	pasteTools = []tool{
		{"wl-paste", []string{"--no-newline"}},
		{"xclip", []string{"-o", "-selection", "clipboard"}},
		{"xsel", []string{"--clipboard", "--output"}},
		{"pbpaste", nil},
	}
)

func pipeTo(text string) bool {
	for _, t := range copyTools {
		if _, err := exec.LookPath(t.name); err != nil {
			continue
		}
		cmd := exec.Command(t.name, t.args...)
		cmd.Stdin = strings.NewReader(text)
		if cmd.Run() == nil {
			return true
		}
	}
	return false
}

func pipeFrom() string {
	for _, t := range pasteTools {
		if _, err := exec.LookPath(t.name); err != nil {
			continue
		}
		if out, err := exec.Command(t.name, t.args...).Output(); err == nil && len(out) > 0 {
			return string(out)
		}
	}
	return ""
}

// osc52 asks the terminal to set its clipboard. It only works when stdout
// is a tty.
func osc52(text string) bool {
	if text == "" {
		return false
	}
	if fi, err := os.Stdout.Stat(); err != nil || fi.Mode()&os.ModeCharDevice == 0 {
		return false
	}
	_, err := fmt.Fprintf(os.Stdout, "\x1b]52;c;%s\x07", base64.StdEncoding.EncodeToString([]byte(text)))
	return err == nil
}
