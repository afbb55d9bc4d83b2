//go:build unix

package interrupt

import (
	"os"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stubExit(t *testing.T) chan int {
	t.Helper()
	codes := make(chan int, 1)
	Exit = func(code int) { codes <- code }
	t.Cleanup(func() { Exit = os.Exit })
	return codes
}

func TestWatchRunsCleanupBeforeExit(t *testing.T) {
	codes := stubExit(t)

	cleaned := make(chan struct{})
	w := Watch(func() { close(cleaned) })
	defer w.Stop()

	require.NoError(t, syscall.Kill(os.Getpid(), syscall.SIGINT))

	select {
	case code := <-codes:
		assert.Equal(t, ExitCode, code)
	case <-time.After(2 * time.Second):
		t.Fatal("exit was not called after SIGINT")
	}

	select {
	case <-cleaned:
	default:
		t.Fatal("cleanup did not run before exit")
	}
}

func TestStopIsIdempotent(t *testing.T) {
	w := Watch(nil)
	assert.NotPanics(t, func() {
		w.Stop()
		w.Stop()
	})
}
