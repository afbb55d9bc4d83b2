// Package ui provides terminal output components for gitinit.
//
// # Spinner
//
// Spinner is a braille status indicator drawn with raw escape sequences from
// package ansi. Each frame is one write of "clear line, cursor to column 0,
// glyph, message", repeated every SpinnerInterval:
//
//	s := ui.NewSpinner("Pushing to GitHub…")
//	s.Start()
//	// ... long running work ...
//	s.Stop()
//
// Stop must be paired with a Start; calling it on an idle spinner panics.
// While running, a SIGINT shows the cursor again before the process exits.
// A spinner and a prompt must never be active at the same time since both
// own the current terminal line.
//
// # Styled output
//
// Banner and result lines use Lip Gloss with ANSI color codes:
//
//	ColorSuccess (green)  - success messages
//	ColorError   (red)    - errors
//	ColorWarning (yellow) - warnings
//	ColorMuted   (gray)   - secondary text such as URLs
//
// DisableColors (or NO_COLOR) switches both Lip Gloss and package ansi to
// monochrome output.
package ui
