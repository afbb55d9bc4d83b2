package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// HeaderInfo contains information to display in the header.
type HeaderInfo struct {
	Version string // Version string (e.g., "v1.2.0")
	WorkDir string // Optional working directory to display
}

// HeaderWidth is the default width of the header divider
const HeaderWidth = 44

var logo = []string{
	`       _ _   _       _ _   `,
	`  __ _(_) |_(_)_ __ (_) |_ `,
	` / _' | | __| | '_ \| | __|`,
	`| (_| | | |_| | | | | | |_ `,
	` \__, |_|\__|_|_| |_|_|\__|`,
	` |___/                     `,
}

// RenderHeader renders the gitinit logo, version and working directory.
func RenderHeader(info HeaderInfo) string {
	logoStyle := lipgloss.NewStyle().Foreground(ColorSecondary).Bold(true)
	versionStyle := lipgloss.NewStyle().Foreground(ColorInfo)
	dividerStyle := lipgloss.NewStyle().Foreground(ColorMuted)

	var output strings.Builder

	for _, line := range logo {
		output.WriteString(logoStyle.Render(line))
		output.WriteString("\n")
	}

	if info.Version != "" {
		output.WriteString(versionStyle.Render(info.Version))
		output.WriteString("\n")
	}

	if info.WorkDir != "" {
		output.WriteString(MutedStyle().Render(info.WorkDir))
		output.WriteString("\n")
	}

	output.WriteString(dividerStyle.Render(strings.Repeat("━", HeaderWidth)))
	output.WriteString("\n")

	return output.String()
}

// PrintHeader writes the styled header to w.
func PrintHeader(w io.Writer, info HeaderInfo) {
	fmt.Fprint(w, RenderHeader(info))
}
