package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/elliotbe/gitinit/internal/config"
	"github.com/elliotbe/gitinit/internal/doctor"
	"github.com/elliotbe/gitinit/internal/errors"
	"github.com/elliotbe/gitinit/internal/exec"
	"github.com/elliotbe/gitinit/internal/logger"
	"github.com/elliotbe/gitinit/internal/setup"
	"github.com/elliotbe/gitinit/internal/ui"
	"github.com/spf13/cobra"
)

// doctorCmd checks that gitinit can run in this environment
var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check git, config, GitHub token and SSH key",
	Long: `Run diagnostic checks before publishing a repository.

Checks:
  - git is installed
  - the config file is valid
  - a GitHub token is stored
  - an SSH key is available for github.com

Examples:
  gitinit doctor`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := config.Resolve(Config())
		if err != nil {
			return err
		}
		checks := doctor.DefaultChecks(exec.NewLocal(logger.NewEnvLogger("gitinit")), path, setup.SSHDir())
		return runDoctor(cmd.Context(), cmd.OutOrStdout(), checks)
	},
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}

// categoryOrder is the display order of check categories.
var categoryOrder = []string{"GIT", "CONFIG", "GITHUB", "SSH"}

func runDoctor(ctx context.Context, out io.Writer, checks []doctor.Check) error {
	results := doctor.RunAll(ctx, checks)
	renderDoctor(out, results)
	if doctor.HasFailures(results) {
		return errors.NewExitError(1)
	}
	return nil
}

func renderDoctor(out io.Writer, results []doctor.CheckResult) {
	headerStyle := lipgloss.NewStyle().Bold(true)

	fmt.Fprintln(out)
	fmt.Fprintln(out, headerStyle.Render("gitinit Diagnostic Report"))
	fmt.Fprintln(out)

	grouped := make(map[string][]doctor.CheckResult)
	for _, r := range results {
		grouped[r.Category] = append(grouped[r.Category], r)
	}

	for _, category := range categoryOrder {
		rs := grouped[category]
		if len(rs) == 0 {
			continue
		}
		fmt.Fprintln(out, headerStyle.Render(category))
		for _, r := range rs {
			renderCheckResult(out, r)
		}
		fmt.Fprintln(out)
	}

	fmt.Fprintln(out, strings.Repeat("━", ui.HeaderWidth))
	symbol := ui.SuccessStyle().Render(ui.SymbolSuccess)
	if doctor.HasFailures(results) || doctor.CountByStatus(results)[doctor.StatusWarn] > 0 {
		symbol = ui.ErrorStyle().Render(ui.SymbolFail)
	}
	fmt.Fprintf(out, "%s %s\n", symbol, doctor.Summary(results))
}

func renderCheckResult(out io.Writer, r doctor.CheckResult) {
	var symbol string
	switch r.Status {
	case doctor.StatusPass:
		symbol = ui.SuccessStyle().Render(ui.SymbolSuccess)
	case doctor.StatusWarn:
		symbol = ui.WarningStyle().Render(ui.SymbolWarning)
	default:
		symbol = ui.ErrorStyle().Render(ui.SymbolFail)
	}
	fmt.Fprintf(out, "  %s %s\n", symbol, r.Message)
	if r.Suggestion != "" && r.Status != doctor.StatusPass {
		fmt.Fprintf(out, "    %s\n", ui.MutedStyle().Render(r.Suggestion))
	}
}
