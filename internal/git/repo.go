// Package git drives the git CLI for a freshly created repository and can
// undo its own work when a later step fails.
package git

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/elliotbe/gitinit/internal/errors"
	"github.com/elliotbe/gitinit/internal/exec"
)

// InitialCommitMessage is the message of the first commit.
const InitialCommitMessage = "Initial commit"

// Repo is a working directory being turned into a git repository.
type Repo struct {
	Dir string
	run exec.Runner

	// gitignore content before this run touched it; nil when the file did
	// not exist.
	gitignoreBefore []byte
	touchedIgnore   bool
}

// NewRepo returns a Repo for dir that runs git through runner.
func NewRepo(dir string, runner exec.Runner) *Repo {
	return &Repo{Dir: dir, run: runner}
}

func (r *Repo) git(ctx context.Context, what string, args ...string) error {
	if _, err := r.run.Run(ctx, r.Dir, "git", args...); err != nil {
		if errors.IsCode(err, errors.ErrExec) {
			return err
		}
		return errors.WrapWithCode(err, errors.ErrGit,
			fmt.Sprintf("git %s failed", what),
			"Run the same git command by hand to see what went wrong")
	}
	return nil
}

// Init runs git init.
func (r *Repo) Init(ctx context.Context) error {
	return r.git(ctx, "init", "init")
}

// AddAll stages every file in the working directory.
func (r *Repo) AddAll(ctx context.Context) error {
	return r.git(ctx, "add", "add", ".")
}

// Commit records the staged files.
func (r *Repo) Commit(ctx context.Context, message string) error {
	return r.git(ctx, "commit", "commit", "-m", message)
}

// AddRemote registers url under name.
func (r *Repo) AddRemote(ctx context.Context, name, url string) error {
	return r.git(ctx, "remote add", "remote", "add", name, url)
}

// Push pushes ref to remote and sets it as upstream.
func (r *Repo) Push(ctx context.Context, remote, ref string) error {
	return r.git(ctx, "push", "push", "-u", remote, ref)
}

// WriteGitignore appends entries to .gitignore, remembering the previous
// content so Rollback can restore it.
func (r *Repo) WriteGitignore(entries []string) error {
	if len(entries) == 0 {
		return nil
	}
	if !r.touchedIgnore {
		before, err := os.ReadFile(filepath.Join(r.Dir, GitignoreFile))
		if err != nil && !os.IsNotExist(err) {
			return errors.WrapWithCode(err, errors.ErrWorkspace,
				"Couldn't read .gitignore", "Check the file permissions")
		}
		if err == nil && before == nil {
			before = []byte{}
		}
		r.gitignoreBefore = before
		r.touchedIgnore = true
	}
	return AppendGitignore(r.Dir, entries)
}

// Rollback removes the .git directory and puts .gitignore back the way it
// was before this run.
func (r *Repo) Rollback() error {
	if err := os.RemoveAll(filepath.Join(r.Dir, ".git")); err != nil {
		return errors.WrapWithCode(err, errors.ErrWorkspace,
			"Couldn't remove .git", "Delete it by hand before trying again")
	}

	if !r.touchedIgnore {
		return nil
	}
	path := filepath.Join(r.Dir, GitignoreFile)
	var err error
	if r.gitignoreBefore == nil {
		err = os.Remove(path)
		if os.IsNotExist(err) {
			err = nil
		}
	} else {
		err = os.WriteFile(path, r.gitignoreBefore, 0o644)
	}
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrWorkspace,
			"Couldn't restore .gitignore", "Check the file by hand")
	}
	r.touchedIgnore = false
	return nil
}
