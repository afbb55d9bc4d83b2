package prompt

import (
	"context"
	"strings"

	"github.com/elliotbe/gitinit/internal/ansi"
)

const selectHint = " <space to select>"

type glyphs struct {
	on, off string
}

var (
	radioGlyphs    = glyphs{on: "◉ ", off: "○ "}
	checkboxGlyphs = glyphs{on: "☑ ", off: "☐ "}
)

func glyphsFor(kind Kind) glyphs {
	if kind == MultiSelect {
		return checkboxGlyphs
	}
	return radioGlyphs
}

// askSelect draws the option block and moves through it until return.
func (p *Prompter) askSelect(ctx context.Context, q Question) (Answer, error) {
	p.begin(session{
		kind:         q.Kind,
		options:      q.Options,
		ticked:       prefillTicks(q.Kind, q.Options, q.Default),
		suppressEcho: true,
	})
	defer p.end()

	p.mu.Lock()
	p.write(renderWrite,
		ansi.InsertBeforeLast(q.Message, ansi.DarkWhite(selectHint)), newline,
		ansi.HideCursor)
	p.renderOptions()
	p.mu.Unlock()

	var answer Answer
	err := p.listen(ctx, func(k Keypress) bool {
		s := &p.session
		switch {
		case k.is("up"), k.is("k"):
			s.highlight = move(s.highlight, -1, len(s.options))
		case k.is("down"), k.is("j"):
			s.highlight = move(s.highlight, 1, len(s.options))
		case k.is("space"):
			if s.kind == SingleSelect {
				s.ticked = []int{s.highlight}
			} else {
				s.ticked = toggle(s.ticked, s.highlight)
			}
		case k.is("return"), k.is("enter"):
			answer = selection(s.kind, s.options, s.ticked)
			p.leaveBlock()
			return true
		default:
			return false
		}
		p.renderOptions()
		return false
	})
	if err != nil && err != ErrInterrupted {
		p.mu.Lock()
		p.leaveBlock()
		p.mu.Unlock()
	}
	return answer, err
}

// leaveBlock moves below the option block and shows the cursor again.
// Callers hold p.mu.
func (p *Prompter) leaveBlock() {
	p.write(renderWrite, ansi.CursorDown(len(p.session.options)), newline, ansi.ShowCursor)
}

// renderOptions repaints the whole block in one write and leaves the cursor
// on its first line. Callers hold p.mu.
func (p *Prompter) renderOptions() {
	s := &p.session
	g := glyphsFor(s.kind)

	var b strings.Builder
	for i, option := range s.options {
		if i == s.highlight {
			b.WriteString(ansi.Green(">") + " ")
		} else {
			b.WriteString("  ")
		}
		if isTicked(s.ticked, i) {
			b.WriteString(ansi.Green(g.on + option))
		} else {
			b.WriteString(g.off + option)
		}
		b.WriteString(newline)
	}
	b.WriteString(ansi.CursorUp(len(s.options)))

	p.write(renderWrite, b.String())
}
