package cli

import (
	"path/filepath"
	"strings"

	"github.com/elliotbe/gitinit/internal/ansi"
	"github.com/elliotbe/gitinit/internal/prompt"
)

// Question IDs.
const (
	qUsername    = "username"
	qName        = "name"
	qDescription = "description"
	qVisibility  = "visibility"
	qGitignore   = "gitignore"
)

// Visibility options.
const (
	visibilityPrivate = "private"
	visibilityPublic  = "public"
)

// DefaultIgnore is pre-ticked in the .gitignore question when present.
const DefaultIgnore = "node_modules/"

func usernameQuestion() prompt.Question {
	return prompt.Question{
		ID:       qUsername,
		Message:  "Enter your Github username or email address:",
		Kind:     prompt.Text,
		Validate: prompt.RuleWithMessage("notEmpty", "Please enter your username or email address:"),
	}
}

// repoQuestions builds the repository batch. name and description come from
// the command line and only prefill the answers.
func repoQuestions(dir, name, description string, listing []string) []prompt.Question {
	if name == "" {
		name = filepath.Base(dir)
	}

	descMessage := "Enter a short description of your repository:"
	if description == "" {
		descMessage = "Enter a short description of your repository" + ansi.DarkWhite(" (optional)") + ":"
	}

	return []prompt.Question{
		{
			ID:       qName,
			Message:  "Enter the name of your repository:",
			Kind:     prompt.Text,
			Default:  nonEmpty(name),
			Validate: prompt.Rule("notEmpty"),
		},
		{
			ID:      qDescription,
			Message: descMessage,
			Kind:    prompt.Text,
			Default: nonEmpty(description),
		},
		{
			ID:      qVisibility,
			Message: "Public or private:",
			Kind:    prompt.SingleSelect,
			Options: []string{visibilityPrivate, visibilityPublic},
			Default: []string{visibilityPrivate},
		},
		{
			ID:      qGitignore,
			Message: "What should be added to .gitignore?:",
			Kind:    prompt.MultiSelect,
			Options: listing,
			Default: []string{DefaultIgnore},
		},
	}
}

func nonEmpty(s string) []string {
	if s = strings.TrimSpace(s); s == "" {
		return nil
	}
	return []string{s}
}

// repoAnswers is the typed result of the repository batch.
type repoAnswers struct {
	Name        string
	Description string
	Private     bool
	Ignore      []string
}

func parseRepoAnswers(a *prompt.Answers) repoAnswers {
	return repoAnswers{
		Name:        strings.TrimSpace(a.String(qName)),
		Description: strings.TrimSpace(a.String(qDescription)),
		Private:     a.String(qVisibility) != visibilityPublic,
		Ignore:      a.Strings(qGitignore),
	}
}
