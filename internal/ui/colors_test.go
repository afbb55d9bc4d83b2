package ui

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/elliotbe/gitinit/internal/ansi"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
)

func TestStylesAreFunctional(t *testing.T) {
	styles := []struct {
		name  string
		style lipgloss.Style
	}{
		{"success", SuccessStyle()},
		{"error", ErrorStyle()},
		{"warning", WarningStyle()},
		{"muted", MutedStyle()},
	}

	for _, s := range styles {
		t.Run(s.name, func(t *testing.T) {
			assert.Contains(t, s.style.Render("text"), "text")
		})
	}
}

func TestDisableColors(t *testing.T) {
	t.Cleanup(func() {
		ansi.SetColorEnabled(true)
		lipgloss.SetColorProfile(termenv.ANSI)
	})

	assert.NotPanics(t, DisableColors)
	assert.False(t, ansi.ColorEnabled())
	assert.Equal(t, "test", SuccessStyle().Render("test"))
}

func TestConfigureColorsHonoursNoColorEnv(t *testing.T) {
	t.Cleanup(func() { ansi.SetColorEnabled(true) })

	t.Setenv("NO_COLOR", "1")
	ConfigureColors(false)
	assert.False(t, ansi.ColorEnabled())
}

func TestPrintSuccess(t *testing.T) {
	var buf bytes.Buffer
	PrintSuccess(&buf, "Pushed")

	assert.Contains(t, buf.String(), SymbolSuccess)
	assert.Contains(t, buf.String(), "Pushed")
	assert.True(t, strings.HasSuffix(buf.String(), "\n"))
}

func TestPrintError(t *testing.T) {
	var buf bytes.Buffer
	PrintError(&buf, errors.New("boom"))
	assert.Contains(t, buf.String(), "boom")
}

func TestRenderHeader(t *testing.T) {
	out := RenderHeader(HeaderInfo{Version: "v1.0.0", WorkDir: "/tmp/project"})

	assert.Contains(t, out, "v1.0.0")
	assert.Contains(t, out, "/tmp/project")
	assert.Contains(t, out, strings.Repeat("━", HeaderWidth))
	assert.Equal(t, len(logo)+3, strings.Count(out, "\n"))
}
