// Package interrupt restores terminal state when the process is interrupted
// while a spinner or prompt owns the terminal.
package interrupt

import (
	"os"
	"os/signal"
	"sync"
	"syscall"
)

// ExitCode is the status used after an interrupt (128 + SIGINT).
const ExitCode = 130

// Exit terminates the process. Tests swap it out.
var Exit = os.Exit

// Watcher runs a cleanup function and exits when SIGINT or SIGTERM arrives.
type Watcher struct {
	signals chan os.Signal
	done    chan struct{}
	once    sync.Once
}

// Watch starts observing interrupt signals until Stop is called. On a signal
// cleanup runs first, then Exit(ExitCode).
func Watch(cleanup func()) *Watcher {
	w := &Watcher{
		signals: make(chan os.Signal, 1),
		done:    make(chan struct{}),
	}
	signal.Notify(w.signals, os.Interrupt, syscall.SIGTERM)

	go func() {
		select {
		case <-w.signals:
			if cleanup != nil {
				cleanup()
			}
			Exit(ExitCode)
		case <-w.done:
		}
	}()

	return w
}

// Stop removes the signal handler. Safe to call more than once.
func (w *Watcher) Stop() {
	w.once.Do(func() {
		signal.Stop(w.signals)
		close(w.done)
	})
}
