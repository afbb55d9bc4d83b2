package ui

import (
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/elliotbe/gitinit/internal/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capture struct {
	mu     sync.Mutex
	writes []string
}

func (c *capture) write(s string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.writes = append(c.writes, s)
}

func (c *capture) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.writes)
}

func (c *capture) last() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.writes) == 0 {
		return ""
	}
	return c.writes[len(c.writes)-1]
}

func newTestSpinner(message string) (*Spinner, *clock.Mock, *capture) {
	out := &capture{}
	mock := clock.NewMock()
	s := NewSpinner(message)
	s.SetOutput(out.write)
	s.SetClock(mock)
	s.SetInterruptHandling(false)
	return s, mock, out
}

func TestNewSpinner(t *testing.T) {
	s := NewSpinner("")
	assert.Equal(t, DefaultSpinnerMessage, s.Message())
	assert.Equal(t, SpinnerIdle, s.State())
	assert.Equal(t, 0, s.Frame())
}

func TestSpinnerStartWritesFirstFrame(t *testing.T) {
	s, _, out := newTestSpinner("Pushing")

	s.Start()
	defer s.Stop()

	require.Equal(t, 1, out.count())
	first := out.last()
	assert.True(t, strings.HasPrefix(first, ansi.HideCursor+ansi.CursorLeft(2000)))
	assert.Contains(t, first, ansi.BrightBlue("⣾"))
	assert.Contains(t, first, ansi.DarkWhite("Pushing"))
	assert.Equal(t, SpinnerRunning, s.State())
}

func TestSpinnerAdvancesEveryInterval(t *testing.T) {
	s, mock, out := newTestSpinner("Pushing")

	s.Start()

	mock.Add(SpinnerInterval)
	require.Eventually(t, func() bool { return out.count() == 2 }, time.Second, time.Millisecond)

	frame := out.last()
	assert.True(t, strings.HasPrefix(frame, ansi.ClearLine()+ansi.CursorLeft(2000)))
	assert.Contains(t, frame, ansi.BrightBlue("⣽"))
	assert.Equal(t, 1, s.Frame())

	mock.Add(SpinnerInterval - time.Millisecond)
	assert.Equal(t, 2, out.count(), "no frame before the interval elapses")

	s.Stop()
}

func TestSpinnerFrameWrapsAround(t *testing.T) {
	s, mock, out := newTestSpinner("x")

	s.Start()
	for i := 1; i <= len(spinnerFrames); i++ {
		mock.Add(SpinnerInterval)
		want := i + 1
		require.Eventually(t, func() bool { return out.count() == want }, time.Second, time.Millisecond)
	}
	assert.Equal(t, 0, s.Frame())
	assert.Contains(t, out.last(), ansi.BrightBlue(spinnerFrames[0]))

	s.Stop()
}

func TestSpinnerStopRestoresCursor(t *testing.T) {
	s, _, out := newTestSpinner("x")

	s.Start()
	s.Stop()

	assert.Equal(t, SpinnerIdle, s.State())
	assert.Equal(t, ansi.ShowCursor+ansi.ClearLine()+ansi.CursorLeft(2000), out.last())
}

func TestSpinnerStopWithoutStartPanics(t *testing.T) {
	s, _, _ := newTestSpinner("x")
	assert.Panics(t, func() { s.Stop() })
}

func TestSpinnerDoubleStopPanics(t *testing.T) {
	s, _, _ := newTestSpinner("x")
	s.Start()
	s.Stop()
	assert.Panics(t, func() { s.Stop() })
}

func TestSpinnerDoubleStart(t *testing.T) {
	s, _, out := newTestSpinner("x")

	s.Start()
	s.Start() // second start should be a no-op

	assert.Equal(t, 1, out.count())
	assert.Equal(t, SpinnerRunning, s.State())
	s.Stop()
}

func TestSpinnerRestartResetsFrame(t *testing.T) {
	s, mock, out := newTestSpinner("x")

	s.Start()
	mock.Add(SpinnerInterval)
	require.Eventually(t, func() bool { return s.Frame() == 1 }, time.Second, time.Millisecond)
	s.Stop()

	s.Start()
	assert.Equal(t, 0, s.Frame())
	assert.Contains(t, out.last(), ansi.BrightBlue(spinnerFrames[0]))
	s.Stop()
}

func TestSpinnerSetMessage(t *testing.T) {
	s, mock, out := newTestSpinner("Initial")

	s.Start()
	s.SetMessage("Updated")
	mock.Add(SpinnerInterval)
	require.Eventually(t, func() bool { return out.count() == 2 }, time.Second, time.Millisecond)

	assert.Contains(t, out.last(), ansi.DarkWhite("Updated"))
	s.Stop()
}

func TestSpinnerCustomFrames(t *testing.T) {
	out := &capture{}
	s := NewSpinner("x", "-", "+")
	s.SetOutput(out.write)
	s.SetClock(clock.NewMock())
	s.SetInterruptHandling(false)

	s.Start()
	assert.Contains(t, out.last(), ansi.BrightBlue("-"))
	s.Stop()
}

func TestSpinnerFrames(t *testing.T) {
	expected := []string{"⣾", "⣽", "⣻", "⢿", "⡿", "⣟", "⣯", "⣷"}
	assert.Equal(t, expected, spinnerFrames)
}
