// Package ansi produces raw terminal control sequences.
//
// Everything here is a pure string builder: colors and text styles wrap the
// joined input between an SGR sequence and a reset, cursor movement and line
// clearing return bare CSI sequences. Nothing is written to the terminal.
package ansi

import (
	"strconv"
	"strings"
	"sync/atomic"
)

const esc = "\x1b["

// Bare control sequences.
const (
	Reset         = "\x1b[0m"
	HideCursor    = "\x1b[?25l"
	ShowCursor    = "\x1b[?25h"
	SaveCursor    = "\x1b[s"
	RestoreCursor = "\x1b[u"
)

// Erase-in-line modes for EraseLine.
const (
	EraseToEnd   = 0
	EraseToStart = 1
	EraseAll     = 2
)

// Color is one of the eight base terminal colors.
type Color int

const (
	Black Color = iota
	RedColor
	GreenColor
	YellowColor
	BlueColor
	MagentaColor
	CyanColor
	WhiteColor
)

// Shade selects the intensity attribute combined with a color.
type Shade int

const (
	Normal Shade = iota
	Bright       // ;1
	Dark         // ;2
)

// Style wraps its arguments in an SGR sequence followed by Reset.
type Style func(parts ...string) string

var colorEnabled atomic.Bool

func init() {
	colorEnabled.Store(true)
}

// SetColorEnabled toggles SGR output. When disabled, every Style returns the
// joined text unchanged. Cursor and erase sequences are never affected.
func SetColorEnabled(enabled bool) {
	colorEnabled.Store(enabled)
}

// ColorEnabled reports whether styles currently emit SGR sequences.
func ColorEnabled() bool {
	return colorEnabled.Load()
}

func sgr(code string) Style {
	return func(parts ...string) string {
		text := Join(parts...)
		if !colorEnabled.Load() {
			return text
		}
		return esc + code + "m" + text + Reset
	}
}

func colorCode(layer int, c Color, s Shade) string {
	code := strconv.Itoa(layer) + strconv.Itoa(int(c))
	switch s {
	case Bright:
		code += ";1"
	case Dark:
		code += ";2"
	}
	return code
}

// Fg returns a foreground color style.
func Fg(c Color, s Shade) Style {
	return sgr(colorCode(3, c, s))
}

// Bg returns a background color style.
func Bg(c Color, s Shade) Style {
	return sgr(colorCode(4, c, s))
}

// Foreground styles used across the CLI.
var (
	Red        = Fg(RedColor, Normal)
	Green      = Fg(GreenColor, Normal)
	Yellow     = Fg(YellowColor, Normal)
	Blue       = Fg(BlueColor, Normal)
	Cyan       = Fg(CyanColor, Normal)
	BrightBlue = Fg(BlueColor, Bright)
	DarkWhite  = Fg(WhiteColor, Dark)
)

// Text attributes, SGR 1 through 9.
var (
	Bold       = sgr("01")
	Faint      = sgr("02")
	Italic     = sgr("03")
	Underline  = sgr("04")
	Blink      = sgr("05")
	FastBlink  = sgr("06")
	Reverse    = sgr("07")
	Conceal    = sgr("08")
	CrossedOut = sgr("09")
)

// EraseLine returns the erase-in-line sequence for mode (see EraseToEnd,
// EraseToStart, EraseAll).
func EraseLine(mode int) string {
	return esc + strconv.Itoa(mode) + "K"
}

// ClearLine erases the whole current line without moving the cursor.
func ClearLine() string {
	return EraseLine(EraseAll)
}

func cursor(n int, dir byte) string {
	if n <= 0 {
		return ""
	}
	return esc + strconv.Itoa(n) + string(dir)
}

// CursorUp moves the cursor up n rows. n <= 0 is a no-op.
func CursorUp(n int) string { return cursor(n, 'A') }

// CursorDown moves the cursor down n rows. n <= 0 is a no-op.
func CursorDown(n int) string { return cursor(n, 'B') }

// CursorRight moves the cursor right n columns. n <= 0 is a no-op.
func CursorRight(n int) string { return cursor(n, 'C') }

// CursorLeft moves the cursor left n columns. n <= 0 is a no-op.
func CursorLeft(n int) string { return cursor(n, 'D') }

// Join concatenates parts so a multi-styled line can go out in one write.
func Join(parts ...string) string {
	switch len(parts) {
	case 0:
		return ""
	case 1:
		return parts[0]
	}
	return strings.Join(parts, "")
}

// InsertBeforeLast places insert in front of the final rune of s, so trailing
// punctuation such as ":" stays at the end. An empty s yields insert.
func InsertBeforeLast(s, insert string) string {
	r := []rune(s)
	if len(r) == 0 {
		return insert
	}
	return string(r[:len(r)-1]) + insert + string(r[len(r)-1:])
}
