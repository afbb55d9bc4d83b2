package prompt

import (
	"context"
	"strings"

	"github.com/elliotbe/gitinit/internal/ansi"
)

// askText runs a text or masked question until its validator accepts the
// answer. A rejected answer re-asks with the error in place of the message.
func (p *Prompter) askText(ctx context.Context, q Question, validate ValidateFunc) (string, error) {
	prefill := q.prefill()
	line := hinted(q.Message, prefill, ansi.Join) + " "

	for {
		answer, err := p.readLine(ctx, q.Kind, line)
		if err != nil {
			return "", err
		}
		if answer == "" {
			answer = prefill
		}

		if err := validate(answer); err != nil {
			p.log.Debug("question %q rejected answer: %v", q.ID, err)
			line = hinted(err.Error(), prefill, ansi.Red) + " "
			continue
		}

		if q.Kind == Text {
			p.mu.Lock()
			p.history = append(p.history, answer)
			p.mu.Unlock()
		}
		return answer, nil
	}
}

// readLine shows line and collects keys until return, enter or ctrl-D.
func (p *Prompter) readLine(ctx context.Context, kind Kind, line string) (string, error) {
	p.mu.Lock()
	recall := len(p.history)
	p.mu.Unlock()

	p.begin(session{kind: kind, line: line, recall: recall})
	defer p.end()

	p.mu.Lock()
	p.write(renderWrite, line)
	p.mu.Unlock()

	var answer string
	err := p.listen(ctx, func(k Keypress) bool {
		s := &p.session
		switch {
		case k.is("return"), k.is("enter"), k.isCtrl("d"):
			answer = string(s.buffer)
			p.write(renderWrite, newline)
			return true
		case k.is("backspace"):
			if len(s.buffer) > 0 {
				s.buffer = s.buffer[:len(s.buffer)-1]
			}
		case k.isCtrl("u"):
			s.buffer = s.buffer[:0]
		case k.is("up") && s.kind == Text:
			p.recallPrevious()
		case k.is("down") && s.kind == Text:
			p.recallNext()
		case k.Printable():
			s.buffer = append(s.buffer, k.Rune)
		default:
			return false
		}
		p.echoLine()
		return false
	})
	return answer, err
}

// echoLine repaints the current line. Callers hold p.mu.
func (p *Prompter) echoLine() {
	s := &p.session
	shown := string(s.buffer)
	if s.kind == Masked {
		shown = strings.Repeat("*", len(s.buffer))
	}
	if shown != "" {
		shown = ansi.BrightBlue(shown)
	}
	p.write(echoWrite, ansi.ClearLine(), ansi.CursorLeft(lineReset), s.line, shown)
}

func (p *Prompter) recallPrevious() {
	s := &p.session
	if s.recall == 0 {
		return
	}
	if s.recall == len(p.history) {
		s.pending = string(s.buffer)
	}
	s.recall--
	s.buffer = []rune(p.history[s.recall])
}

func (p *Prompter) recallNext() {
	s := &p.session
	if s.recall >= len(p.history) {
		return
	}
	s.recall++
	if s.recall == len(p.history) {
		s.buffer = []rune(s.pending)
		return
	}
	s.buffer = []rune(p.history[s.recall])
}

// hinted renders message with the prefill shown in parentheses before its
// last character, so "Name:" becomes "Name (x):". Each message segment gets
// its own style so the hint keeps its color.
func hinted(message, prefill string, style ansi.Style) string {
	if prefill == "" {
		return style(message)
	}
	hint := " " + ansi.DarkWhite("("+prefill+")")

	runes := []rune(message)
	if len(runes) == 0 {
		return hint
	}
	head, last := string(runes[:len(runes)-1]), string(runes[len(runes)-1])
	if head == "" {
		return hint + style(last)
	}
	return style(head) + hint + style(last)
}
