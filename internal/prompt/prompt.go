package prompt

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/elliotbe/gitinit/internal/ansi"
	"github.com/elliotbe/gitinit/internal/errors"
	"github.com/elliotbe/gitinit/internal/interrupt"
	"github.com/elliotbe/gitinit/internal/logger"
)

// lineReset moves the cursor back to column 0 whatever the line width.
const lineReset = 2000

// newline is explicit because raw mode disables output post-processing.
const newline = "\r\n"

// ErrInterrupted is returned by Ask after ctrl-C when the exit function
// returns (only in tests).
var ErrInterrupted = stderrors.New("prompt interrupted")

type writeKind int

const (
	renderWrite writeKind = iota
	echoWrite
)

// Prompter asks questions on a terminal. It owns a single key reader on its
// input; only one prompt is active at a time.
type Prompter struct {
	in   io.Reader
	out  io.Writer
	term Terminal
	log  logger.Logger

	exit         func(int)
	watchSignals bool

	startKeys sync.Once
	keys      <-chan keyEvent

	mu      sync.Mutex
	session session
	history []string
}

// Option configures a Prompter.
type Option func(*Prompter)

// WithTerminal overrides raw-mode handling. By default it is derived from
// the input with TerminalFor.
func WithTerminal(t Terminal) Option {
	return func(p *Prompter) { p.term = t }
}

// WithExit replaces the function called after ctrl-C.
func WithExit(fn func(int)) Option {
	return func(p *Prompter) { p.exit = fn }
}

// WithSignalHandling controls whether Ask restores the terminal on SIGINT.
func WithSignalHandling(enabled bool) Option {
	return func(p *Prompter) { p.watchSignals = enabled }
}

// WithLogger sets the logger used for debug output.
func WithLogger(l logger.Logger) Option {
	return func(p *Prompter) { p.log = l }
}

// New creates a Prompter reading keys from in and rendering to out.
func New(in io.Reader, out io.Writer, opts ...Option) *Prompter {
	p := &Prompter{
		in:           in,
		out:          out,
		log:          logger.Noop(),
		exit:         func(code int) { interrupt.Exit(code) },
		watchSignals: true,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.term == nil {
		p.term = TerminalFor(in)
	}
	return p
}

// Ask renders the questions one after the other and returns their answers
// keyed by question ID, in question order. Invalid question definitions are
// reported before anything is drawn.
func (p *Prompter) Ask(ctx context.Context, questions ...Question) (*Answers, error) {
	validators, err := resolveQuestions(questions)
	if err != nil {
		return nil, err
	}

	if err := p.term.MakeRaw(); err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrPrompt,
			"Couldn't switch the terminal to raw mode",
			"Run gitinit from an interactive terminal")
	}
	defer p.restoreTerminal()

	if p.watchSignals {
		w := interrupt.Watch(p.cleanupDisplay)
		defer w.Stop()
	}

	answers := newAnswers(len(questions))
	for i, q := range questions {
		var answer Answer
		switch q.Kind {
		case Text, Masked:
			answer.Value, err = p.askText(ctx, q, validators[i])
		default:
			answer, err = p.askSelect(ctx, q)
		}
		if err != nil {
			return nil, err
		}
		p.log.Debug("answered %q (%s)", q.ID, q.Kind)
		answers.set(q.ID, answer)
	}

	return answers, nil
}

// History returns the text answers given so far, oldest first. Masked
// answers are never recorded.
func (p *Prompter) History() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.history...)
}

// Close restores the terminal mode if a prompt left it raw.
func (p *Prompter) Close() error {
	return p.term.Restore()
}

func resolveQuestions(questions []Question) ([]ValidateFunc, error) {
	seen := make(map[string]bool, len(questions))
	validators := make([]ValidateFunc, len(questions))

	for i, q := range questions {
		if seen[q.ID] {
			return nil, errors.New(errors.ErrConfig,
				fmt.Sprintf("Duplicate question id %q", q.ID),
				"Give every question a unique ID")
		}
		seen[q.ID] = true

		switch q.Kind {
		case Text, Masked:
		case SingleSelect, MultiSelect:
			if len(q.Options) == 0 {
				return nil, errors.New(errors.ErrConfig,
					fmt.Sprintf("Question %q has no options", q.ID),
					"Select questions need at least one option")
			}
		default:
			return nil, errors.New(errors.ErrConfig,
				fmt.Sprintf("Question %q has unknown kind %s", q.ID, q.Kind),
				"Use Text, Masked, SingleSelect or MultiSelect")
		}

		fn, err := q.Validate.Resolve()
		if err != nil {
			return nil, err
		}
		validators[i] = fn
	}
	return validators, nil
}

func (p *Prompter) keyEvents() <-chan keyEvent {
	p.startKeys.Do(func() {
		p.keys = readKeys(p.in)
	})
	return p.keys
}

// begin installs a fresh session for a prompt.
func (p *Prompter) begin(s session) {
	p.mu.Lock()
	defer p.mu.Unlock()
	s.state = awaitingInput
	p.session = s
}

// end drops the session; no prompt is active afterwards.
func (p *Prompter) end() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.session = session{state: noPrompt}
}

// listen attaches h as the only key listener and feeds it keys until it
// reports completion. The listener is detached on every return path.
func (p *Prompter) listen(ctx context.Context, h keyHandler) error {
	p.attach(h)
	defer p.detach()

	keys := p.keyEvents()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-keys:
			if !ok {
				return errors.New(errors.ErrPrompt, "Input closed before the question was answered", "")
			}
			if ev.err != nil {
				return errors.WrapWithCode(ev.err, errors.ErrPrompt,
					"Input closed before the question was answered", "")
			}
			if ev.key.isCtrl("c") {
				return p.interrupted()
			}
			if p.dispatch(ev.key) {
				return nil
			}
		}
	}
}

func (p *Prompter) attach(h keyHandler) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.session.listener != nil {
		panic("prompt: a key listener is already attached")
	}
	p.session.listener = h
}

func (p *Prompter) detach() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.session.listener = nil
}

func (p *Prompter) dispatch(k Keypress) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.session.listener == nil {
		return false
	}
	return p.session.listener(k)
}

// write is the single output path. Callers hold p.mu.
func (p *Prompter) write(kind writeKind, parts ...string) {
	if kind == echoWrite && p.session.suppressEcho {
		return
	}
	_, _ = io.WriteString(p.out, ansi.Join(parts...))
}

// cleanupDisplay leaves the screen usable: below any option block, with a
// visible cursor and the original terminal mode.
func (p *Prompter) cleanupDisplay() {
	p.mu.Lock()
	var b strings.Builder
	if p.session.state == awaitingInput && p.session.kind.isSelect() {
		b.WriteString(ansi.CursorDown(len(p.session.options)))
	}
	b.WriteString(newline)
	b.WriteString(ansi.ShowCursor)
	p.write(renderWrite, b.String())
	p.mu.Unlock()

	p.restoreTerminal()
}

func (p *Prompter) restoreTerminal() {
	if err := p.term.Restore(); err != nil {
		p.log.Warn("failed to restore terminal mode: %v", err)
	}
}

// interrupted handles ctrl-C: clean the display, restore the terminal and
// exit. It only returns when the exit function does.
func (p *Prompter) interrupted() error {
	p.cleanupDisplay()
	p.exit(interrupt.ExitCode)
	return ErrInterrupted
}
