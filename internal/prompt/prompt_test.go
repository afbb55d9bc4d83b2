package prompt

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/elliotbe/gitinit/internal/ansi"
	"github.com/elliotbe/gitinit/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	keyUp    = "\x1b[A"
	keyDown  = "\x1b[B"
	keySpace = " "
	keyEnter = "\r"
	keyCtrlC = "\x03"
)

type fakeTerminal struct {
	raw      bool
	makeRaw  int
	restores int
}

func (f *fakeTerminal) MakeRaw() error {
	f.raw = true
	f.makeRaw++
	return nil
}

func (f *fakeTerminal) Restore() error {
	if f.raw {
		f.restores++
	}
	f.raw = false
	return nil
}

// newTestPrompter feeds keys as the whole input stream.
func newTestPrompter(keys ...string) (*Prompter, *bytes.Buffer, *fakeTerminal) {
	out := &bytes.Buffer{}
	term := &fakeTerminal{}
	p := New(strings.NewReader(strings.Join(keys, "")), out,
		WithTerminal(term),
		WithSignalHandling(false))
	return p, out, term
}

func TestAskSelectEndToEnd(t *testing.T) {
	p, _, _ := newTestPrompter(keyDown, keySpace, keyEnter)

	answers, err := p.Ask(context.Background(), Question{
		ID:      "visibility",
		Message: "Visibility:",
		Kind:    SingleSelect,
		Options: []string{"private", "public"},
		Default: []string{"private"},
	})

	require.NoError(t, err)
	assert.Equal(t, "public", answers.String("visibility"))
}

func TestAskSelectKeepsPrefillOnReturn(t *testing.T) {
	p, _, _ := newTestPrompter(keyEnter)

	answers, err := p.Ask(context.Background(), Question{
		ID:      "visibility",
		Message: "Visibility:",
		Kind:    SingleSelect,
		Options: []string{"private", "public"},
		Default: []string{"private"},
	})

	require.NoError(t, err)
	assert.Equal(t, "private", answers.String("visibility"))
}

func TestAskMultiSelectAnswerOrder(t *testing.T) {
	// highlight c, tick it, wrap around to a, tick it
	p, _, _ := newTestPrompter(keyUp, keySpace, keyDown, keySpace, keyEnter)

	answers, err := p.Ask(context.Background(), Question{
		ID:      "ignore",
		Message: "Ignore:",
		Kind:    MultiSelect,
		Options: []string{"a", "b", "c"},
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"a", "c"}, answers.Strings("ignore"))
}

func TestAskMultiSelectPrefill(t *testing.T) {
	p, _, _ := newTestPrompter(keyEnter)

	answers, err := p.Ask(context.Background(), Question{
		ID:      "ignore",
		Message: "Ignore:",
		Kind:    MultiSelect,
		Options: []string{"main.go", "node_modules/", "vendor/"},
		Default: []string{"vendor/", "missing/", "node_modules/"},
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"node_modules/", "vendor/"}, answers.Strings("ignore"))
}

func TestAskMultiSelectToggleTwiceUnticks(t *testing.T) {
	p, _, _ := newTestPrompter(keySpace, keySpace, keyEnter)

	answers, err := p.Ask(context.Background(), Question{
		ID:      "ignore",
		Message: "Ignore:",
		Kind:    MultiSelect,
		Options: []string{"a", "b"},
	})

	require.NoError(t, err)
	assert.Empty(t, answers.Strings("ignore"))
}

func TestAskSelectVimKeys(t *testing.T) {
	p, _, _ := newTestPrompter("j", "j", "k", keySpace, keyEnter)

	answers, err := p.Ask(context.Background(), Question{
		ID:      "pick",
		Message: "Pick:",
		Kind:    SingleSelect,
		Options: []string{"a", "b", "c"},
	})

	require.NoError(t, err)
	assert.Equal(t, "b", answers.String("pick"))
}

func TestAskSelectNothingTicked(t *testing.T) {
	p, _, _ := newTestPrompter(keyDown, keyEnter)

	answers, err := p.Ask(context.Background(), Question{
		ID:      "pick",
		Message: "Pick:",
		Kind:    SingleSelect,
		Options: []string{"a", "b"},
	})

	require.NoError(t, err)
	assert.Equal(t, "", answers.String("pick"))
}

func TestAskSelectRendering(t *testing.T) {
	p, out, _ := newTestPrompter(keyEnter)

	_, err := p.Ask(context.Background(), Question{
		ID:      "visibility",
		Message: "Visibility:",
		Kind:    SingleSelect,
		Options: []string{"private", "public"},
		Default: []string{"private"},
	})
	require.NoError(t, err)

	want := ansi.Join(
		"Visibility", ansi.DarkWhite(" <space to select>"), ":", "\r\n",
		ansi.HideCursor,
		ansi.Green(">"), " ", ansi.Green("◉ private"), "\r\n",
		"  ", "○ public", "\r\n",
		ansi.CursorUp(2),
		ansi.CursorDown(2), "\r\n", ansi.ShowCursor,
	)
	assert.Equal(t, want, out.String())
}

func TestAskSelectDoesNotEchoTyping(t *testing.T) {
	p, out, _ := newTestPrompter("xyz", keyEnter)

	answers, err := p.Ask(context.Background(), Question{
		ID:      "pick",
		Message: "Pick:",
		Kind:    SingleSelect,
		Options: []string{"a", "b"},
	})

	require.NoError(t, err)
	assert.Equal(t, "", answers.String("pick"))
	assert.NotContains(t, out.String(), "xyz")
}

func TestAskTextPrefill(t *testing.T) {
	p, out, _ := newTestPrompter(keyEnter)

	answers, err := p.Ask(context.Background(), Question{
		ID:      "ignore",
		Message: "Ignore:",
		Kind:    Text,
		Default: []string{"node_modules/"},
	})

	require.NoError(t, err)
	assert.Equal(t, "node_modules/", answers.String("ignore"))
	assert.True(t, strings.HasPrefix(out.String(),
		"Ignore "+ansi.DarkWhite("(node_modules/)")+": "))
}

func TestAskTextTyping(t *testing.T) {
	p, out, _ := newTestPrompter("h", "e", "y", "\x7f", "!", keyEnter)

	answers, err := p.Ask(context.Background(), Question{
		ID:      "name",
		Message: "Name:",
		Kind:    Text,
	})

	require.NoError(t, err)
	assert.Equal(t, "he!", answers.String("name"))
	assert.Contains(t, out.String(),
		ansi.ClearLine()+ansi.CursorLeft(2000)+"Name: "+ansi.BrightBlue("he!"))
	assert.True(t, strings.HasSuffix(out.String(), "\r\n"))
}

func TestAskTextCtrlUClears(t *testing.T) {
	p, _, _ := newTestPrompter("a", "b", "\x15", "c", keyEnter)

	answers, err := p.Ask(context.Background(), Question{ID: "name", Message: "Name:"})

	require.NoError(t, err)
	assert.Equal(t, "c", answers.String("name"))
}

func TestAskTextCtrlDTerminates(t *testing.T) {
	p, _, _ := newTestPrompter("o", "k", "\x04")

	answers, err := p.Ask(context.Background(), Question{ID: "name", Message: "Name:"})

	require.NoError(t, err)
	assert.Equal(t, "ok", answers.String("name"))
}

func TestAskMaskedEchoesStars(t *testing.T) {
	p, out, _ := newTestPrompter("s", "3", "c", keyEnter)

	answers, err := p.Ask(context.Background(), Question{
		ID:      "secret",
		Message: "Password:",
		Kind:    Masked,
	})

	require.NoError(t, err)
	assert.Equal(t, "s3c", answers.String("secret"))
	assert.Contains(t, out.String(), ansi.BrightBlue("***"))
	assert.NotContains(t, out.String(), "s3c")
	assert.Empty(t, p.History())
}

func TestAskTextHistory(t *testing.T) {
	p, _, _ := newTestPrompter(
		"o", "n", "e", keyEnter,
		keyUp, keyEnter,
		"x", keyUp, keyDown, keyEnter,
	)

	answers, err := p.Ask(context.Background(),
		Question{ID: "first", Message: "First:"},
		Question{ID: "second", Message: "Second:"},
		Question{ID: "third", Message: "Third:"},
	)

	require.NoError(t, err)
	assert.Equal(t, "one", answers.String("first"))
	assert.Equal(t, "one", answers.String("second"))
	assert.Equal(t, "x", answers.String("third"))
	assert.Equal(t, []string{"one", "one", "x"}, p.History())
}

func TestAskValidationRetries(t *testing.T) {
	p, out, _ := newTestPrompter(keyEnter, "m", "e", "@", "x", ".", "i", "o", keyEnter)

	answers, err := p.Ask(context.Background(), Question{
		ID:       "email",
		Message:  "Email:",
		Validate: Rule(RuleNotEmpty),
	})

	require.NoError(t, err)
	assert.Equal(t, "me@x.io", answers.String("email"))
	assert.Contains(t, out.String(), ansi.Red("You need to enter something:"))
}

func TestAskValidationKeepsPrefillHint(t *testing.T) {
	calls := 0
	check := Check(func(answer string) error {
		calls++
		if calls == 1 {
			return ValidationError("Try again:")
		}
		return nil
	})
	p, out, _ := newTestPrompter(keyEnter, keyEnter)

	answers, err := p.Ask(context.Background(), Question{
		ID:       "name",
		Message:  "Name:",
		Default:  []string{"demo"},
		Validate: check,
	})

	require.NoError(t, err)
	assert.Equal(t, "demo", answers.String("name"))
	assert.Equal(t, 2, calls)
	assert.Contains(t, out.String(),
		ansi.Red("Try again")+" "+ansi.DarkWhite("(demo)")+ansi.Red(":"))
}

func TestAskUnknownValidatorFailsFast(t *testing.T) {
	p, out, term := newTestPrompter(keyEnter)

	_, err := p.Ask(context.Background(),
		Question{ID: "ok", Message: "Fine:"},
		Question{ID: "bad", Message: "Bad:", Validate: Rule("phone")},
	)

	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrConfig))
	assert.Empty(t, out.String())
	assert.Zero(t, term.makeRaw)
}

func TestAskRejectsBadQuestions(t *testing.T) {
	tests := []struct {
		name      string
		questions []Question
	}{
		{
			name:      "select without options",
			questions: []Question{{ID: "pick", Message: "Pick:", Kind: SingleSelect}},
		},
		{
			name: "duplicate ids",
			questions: []Question{
				{ID: "name", Message: "Name:"},
				{ID: "name", Message: "Again:"},
			},
		},
		{
			name:      "unknown kind",
			questions: []Question{{ID: "x", Message: "X:", Kind: Kind(42)}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, _, _ := newTestPrompter(keyEnter)
			_, err := p.Ask(context.Background(), tt.questions...)
			require.Error(t, err)
			assert.True(t, errors.IsCode(err, errors.ErrConfig))
		})
	}
}

func TestAskAnswersInQuestionOrder(t *testing.T) {
	p, _, _ := newTestPrompter("z", keyEnter, keyEnter, "a", keyEnter)

	answers, err := p.Ask(context.Background(),
		Question{ID: "zeta", Message: "Z:"},
		Question{ID: "mode", Message: "Mode:", Kind: SingleSelect, Options: []string{"x"}, Default: []string{"x"}},
		Question{ID: "alpha", Message: "A:"},
	)

	require.NoError(t, err)
	assert.Equal(t, []string{"zeta", "mode", "alpha"}, answers.Keys())
	assert.Equal(t, 3, answers.Len())
	assert.Equal(t, "x", answers.String("mode"))
}

func TestAskRestoresTerminalAndDetaches(t *testing.T) {
	p, _, term := newTestPrompter("a", keyEnter)

	_, err := p.Ask(context.Background(), Question{ID: "name", Message: "Name:"})

	require.NoError(t, err)
	assert.Equal(t, 1, term.makeRaw)
	assert.Equal(t, 1, term.restores)
	assert.False(t, term.raw)
	assert.Nil(t, p.session.listener)
	assert.Equal(t, noPrompt, p.session.state)
}

func TestAskInputClosed(t *testing.T) {
	p, _, term := newTestPrompter("ab")

	_, err := p.Ask(context.Background(), Question{ID: "name", Message: "Name:"})

	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrPrompt))
	assert.False(t, term.raw)
	assert.Nil(t, p.session.listener)
}

func TestAskCancelled(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	block := blockingReader{}
	term := &fakeTerminal{}
	p := New(block, &bytes.Buffer{}, WithTerminal(term), WithSignalHandling(false))

	_, err := p.Ask(ctx, Question{ID: "name", Message: "Name:"})

	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.False(t, term.raw)
	assert.Nil(t, p.session.listener)
}

func TestAskSelectInputClosedShowsCursor(t *testing.T) {
	p, out, term := newTestPrompter(keyDown)

	_, err := p.Ask(context.Background(), Question{
		ID:      "pick",
		Message: "Pick:",
		Kind:    SingleSelect,
		Options: []string{"a", "b", "c"},
	})

	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrPrompt))
	assert.False(t, term.raw)
	assert.True(t, strings.HasSuffix(out.String(),
		ansi.CursorDown(3)+"\r\n"+ansi.ShowCursor))
}

func TestAskMultiSelectCancelledShowsCursor(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	out := &bytes.Buffer{}
	term := &fakeTerminal{}
	p := New(blockingReader{}, out, WithTerminal(term), WithSignalHandling(false))

	_, err := p.Ask(ctx, Question{
		ID:      "pick",
		Message: "Pick:",
		Kind:    MultiSelect,
		Options: []string{"a", "b"},
	})

	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.False(t, term.raw)
	assert.True(t, strings.HasSuffix(out.String(),
		ansi.CursorDown(2)+"\r\n"+ansi.ShowCursor))
}

func TestAskCtrlCInTextPrompt(t *testing.T) {
	var code int
	out := &bytes.Buffer{}
	term := &fakeTerminal{}
	p := New(strings.NewReader("a"+keyCtrlC), out,
		WithTerminal(term),
		WithSignalHandling(false),
		WithExit(func(c int) { code = c }))

	_, err := p.Ask(context.Background(), Question{ID: "name", Message: "Name:"})

	assert.ErrorIs(t, err, ErrInterrupted)
	assert.Equal(t, 130, code)
	assert.False(t, term.raw)
	assert.True(t, strings.HasSuffix(out.String(), "\r\n"+ansi.ShowCursor))
}

func TestAskCtrlCInSelectMovesBelowBlock(t *testing.T) {
	var code int
	out := &bytes.Buffer{}
	p := New(strings.NewReader(keyDown+keyCtrlC), out,
		WithTerminal(&fakeTerminal{}),
		WithSignalHandling(false),
		WithExit(func(c int) { code = c }))

	_, err := p.Ask(context.Background(), Question{
		ID:      "pick",
		Message: "Pick:",
		Kind:    SingleSelect,
		Options: []string{"a", "b", "c"},
	})

	assert.ErrorIs(t, err, ErrInterrupted)
	assert.Equal(t, 130, code)
	assert.True(t, strings.HasSuffix(out.String(),
		ansi.CursorDown(3)+"\r\n"+ansi.ShowCursor))
}

type blockingReader struct{}

func (blockingReader) Read([]byte) (int, error) {
	select {}
}
