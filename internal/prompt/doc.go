// Package prompt asks interactive questions on a raw-mode terminal.
//
// Four kinds of question are supported: free text, masked text, single-select
// and multi-select. Questions are asked one after the other by Ask, which
// returns the answers keyed by question ID in question order.
//
// Text prompts render as a single line that is repainted on every keystroke.
// Select prompts draw an option block below the message and repaint it in
// place while the user moves with the arrow keys (or j/k) and ticks options
// with space. Return confirms.
//
// Ctrl-C, SIGINT and SIGTERM leave the terminal in its original mode with the
// cursor visible before the process exits with status 130.
package prompt
