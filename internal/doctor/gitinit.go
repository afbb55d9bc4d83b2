package doctor

import (
	"context"
	"fmt"
	"strings"

	"github.com/elliotbe/gitinit/internal/config"
	"github.com/elliotbe/gitinit/internal/exec"
	"github.com/elliotbe/gitinit/internal/setup"
)

// GitCheck verifies git can be run.
type GitCheck struct {
	Runner exec.Runner
}

func (c *GitCheck) Name() string     { return "git_binary" }
func (c *GitCheck) Category() string { return "GIT" }

func (c *GitCheck) Run(ctx context.Context) CheckResult {
	res, err := c.Runner.Run(ctx, "", "git", "--version")
	if err != nil {
		return CheckResult{
			Status:     StatusFail,
			Message:    "git is not available",
			Suggestion: "Install git and make sure it is on your PATH",
		}
	}
	return CheckResult{
		Status:  StatusPass,
		Message: strings.TrimSpace(string(res.Stdout)),
	}
}

// ConfigCheck verifies the config file loads and validates.
type ConfigCheck struct {
	Path string
}

func (c *ConfigCheck) Name() string     { return "config" }
func (c *ConfigCheck) Category() string { return "CONFIG" }

func (c *ConfigCheck) Run(context.Context) CheckResult {
	cfg, err := config.Load(c.Path)
	if err == nil {
		err = config.Validate(cfg)
	}
	if err != nil {
		return CheckResult{
			Status:     StatusFail,
			Message:    "Config is invalid: " + firstLine(err.Error()),
			Suggestion: "Fix or delete " + c.Path,
		}
	}
	return CheckResult{
		Status:  StatusPass,
		Message: "Config OK: " + c.Path,
	}
}

// TokenCheck reports whether a GitHub token is stored. A missing token is
// only a warning: the next run signs in.
type TokenCheck struct {
	Path string
}

func (c *TokenCheck) Name() string     { return "github_token" }
func (c *TokenCheck) Category() string { return "GITHUB" }

func (c *TokenCheck) Run(context.Context) CheckResult {
	cfg, err := config.Load(c.Path)
	if err != nil || !cfg.HasToken() {
		return CheckResult{
			Status:     StatusWarn,
			Message:    "Not signed in to GitHub",
			Suggestion: "The next gitinit run opens your browser to sign in",
		}
	}
	return CheckResult{
		Status:  StatusPass,
		Message: "GitHub token stored",
	}
}

// SSHKeyCheck looks for the key git would use for github.com.
type SSHKeyCheck struct {
	SSHDir string
}

func (c *SSHKeyCheck) Name() string     { return "ssh_key" }
func (c *SSHKeyCheck) Category() string { return "SSH" }

func (c *SSHKeyCheck) Run(context.Context) CheckResult {
	key, err := setup.GitHubKey(c.SSHDir)
	if err != nil || key == nil {
		return CheckResult{
			Status:     StatusWarn,
			Message:    "No SSH key found for github.com, pushing over HTTPS",
			Suggestion: "Generate a key with: ssh-keygen -t ed25519",
		}
	}
	if !key.HasPublic {
		return CheckResult{
			Status:     StatusWarn,
			Message:    fmt.Sprintf("SSH key %s has no public half", key.Path),
			Suggestion: "Recreate it with: ssh-keygen -y -f " + key.Path + " > " + key.PublicPath,
		}
	}

	fp, err := setup.Fingerprint(key.PublicPath)
	if err != nil {
		return CheckResult{
			Status:     StatusWarn,
			Message:    fmt.Sprintf("SSH key %s can't be read", key.PublicPath),
			Suggestion: "Check the file is a valid public key",
		}
	}
	return CheckResult{
		Status:  StatusPass,
		Message: fmt.Sprintf("SSH key %s (%s %s)", key.Path, key.Type, fp),
	}
}

// DefaultChecks returns the checks run by "gitinit doctor".
func DefaultChecks(runner exec.Runner, configPath, sshDir string) []Check {
	return []Check{
		&GitCheck{Runner: runner},
		&ConfigCheck{Path: configPath},
		&TokenCheck{Path: configPath},
		&SSHKeyCheck{SSHDir: sshDir},
	}
}

func firstLine(s string) string {
	s = strings.TrimPrefix(strings.TrimSpace(s), "✗ ")
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
