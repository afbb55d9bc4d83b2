package exec

import (
	"context"
	stderrors "errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/elliotbe/gitinit/internal/errors"
	"github.com/elliotbe/gitinit/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalRun_CapturesStdout(t *testing.T) {
	res, err := NewLocal(nil).Run(context.Background(), "", "sh", "-c", "echo hello")

	require.NoError(t, err)
	assert.Equal(t, 0, res.ExitCode)
	assert.Equal(t, "hello\n", string(res.Stdout))
	assert.Empty(t, res.Stderr)
}

func TestLocalRun_WorkingDirectory(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "marker"), nil, 0o644))

	res, err := NewLocal(nil).Run(context.Background(), dir, "ls")

	require.NoError(t, err)
	assert.Contains(t, string(res.Stdout), "marker")
}

func TestLocalRun_NonZeroExit(t *testing.T) {
	res, err := NewLocal(nil).Run(context.Background(), "", "sh", "-c", "echo broken >&2; exit 3")

	require.Error(t, err)
	assert.Equal(t, 3, res.ExitCode)

	var cmdErr *CommandError
	require.True(t, stderrors.As(err, &cmdErr))
	assert.Equal(t, 3, cmdErr.ExitCode)
	assert.Equal(t, "broken", cmdErr.Stderr)
	assert.Contains(t, err.Error(), "exited with status 3: broken")
}

func TestLocalRun_CommandNotFound(t *testing.T) {
	res, err := NewLocal(nil).Run(context.Background(), "", "gitinit-definitely-not-a-command")

	require.Error(t, err)
	assert.Equal(t, -1, res.ExitCode)
	assert.True(t, errors.IsCode(err, errors.ErrExec))
	assert.Contains(t, err.Error(), "Install gitinit-definitely-not-a-command")
}

func TestLocalRun_Cancelled(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := NewLocal(nil).Run(ctx, "", "sleep", "5")
	require.Error(t, err)
}

func TestLocalRun_LogsCommand(t *testing.T) {
	log := logger.NewBufferLogger()

	_, err := NewLocal(log).Run(context.Background(), "/tmp", "sh", "-c", "true")

	require.NoError(t, err)
	require.NotEmpty(t, log.Messages)
	assert.Equal(t, "debug", log.Messages[0].Level)
	assert.True(t, strings.HasPrefix(log.Messages[0].Message, `run sh -c true`))
}

func TestCommandLine(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"git", []string{"init"}, "git init"},
		{"git", []string{"commit", "-m", "Initial commit"}, `git commit -m "Initial commit"`},
		{"git", []string{"add", ""}, `git add ""`},
		{"ls", nil, "ls"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, CommandLine(tt.name, tt.args...))
	}
}
