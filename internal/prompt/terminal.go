package prompt

import (
	"io"
	"os"
	"sync"

	"golang.org/x/term"
)

// Terminal switches the input device in and out of raw mode.
type Terminal interface {
	// MakeRaw enters raw mode, remembering the mode it replaced.
	MakeRaw() error
	// Restore puts back the remembered mode. It is a no-op when raw mode
	// is not active, and safe to call from another goroutine.
	Restore() error
}

// TerminalFor returns a raw-mode controller for in when it is a terminal,
// and a no-op controller otherwise (pipes, tests).
func TerminalFor(in io.Reader) Terminal {
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return &fdTerminal{fd: int(f.Fd())}
	}
	return nopTerminal{}
}

// IsInteractive reports whether in is attached to a terminal.
func IsInteractive(in io.Reader) bool {
	f, ok := in.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

type fdTerminal struct {
	mu    sync.Mutex
	fd    int
	saved *term.State
}

func (t *fdTerminal) MakeRaw() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.saved != nil {
		return nil
	}
	state, err := term.MakeRaw(t.fd)
	if err != nil {
		return err
	}
	t.saved = state
	return nil
}

func (t *fdTerminal) Restore() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.saved == nil {
		return nil
	}
	err := term.Restore(t.fd, t.saved)
	t.saved = nil
	return err
}

type nopTerminal struct{}

func (nopTerminal) MakeRaw() error { return nil }
func (nopTerminal) Restore() error { return nil }
