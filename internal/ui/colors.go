package ui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/elliotbe/gitinit/internal/ansi"
	"github.com/muesli/termenv"
)

// Semantic colors for status indication (ANSI codes for broad compatibility).
const (
	ColorSuccess lipgloss.Color = "2" // Green
	ColorError   lipgloss.Color = "1" // Red
	ColorWarning lipgloss.Color = "3" // Yellow
	ColorInfo    lipgloss.Color = "6" // Cyan
)

// Text colors for content hierarchy
const (
	ColorPrimary   lipgloss.Color = "7" // White/default
	ColorSecondary lipgloss.Color = "4" // Blue
	ColorMuted     lipgloss.Color = "8" // Gray (bright black)
)

// SuccessStyle returns the style for successful outcomes.
func SuccessStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(ColorSuccess)
}

// ErrorStyle returns the style for failures.
func ErrorStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(ColorError)
}

// WarningStyle returns the style for warnings.
func WarningStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(ColorWarning)
}

// MutedStyle returns the style for secondary text such as URLs.
func MutedStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(ColorMuted)
}

// DisableColors switches lipgloss and the raw escape helpers to monochrome.
func DisableColors() {
	lipgloss.SetColorProfile(termenv.Ascii)
	ansi.SetColorEnabled(false)
}

// ConfigureColors disables colors when noColor is set or NO_COLOR is in the
// environment.
func ConfigureColors(noColor bool) {
	if noColor || termenv.EnvNoColor() {
		DisableColors()
	}
}

// PrintSuccess prints a green success line to w.
func PrintSuccess(w io.Writer, msg string) {
	fmt.Fprintf(w, "%s %s\n", SuccessStyle().Render(SymbolSuccess), SuccessStyle().Render(msg))
}

// PrintError prints an error in red to w.
func PrintError(w io.Writer, err error) {
	fmt.Fprintln(w, ErrorStyle().Render(err.Error()))
}
