package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MimeLyc/modified-in/internal/config"
	"github.com/MimeLyc/modified-in/pkg/clock"
	"github.com/MimeLyc/modified-in/pkg/log"
)

// spyReader records whether the program touched stdin.
type spyReader struct {
	r    io.Reader
	read bool
}

func (s *spyReader) Read(p []byte) (int, error) {
	s.read = true
	return s.r.Read(p)
}

type harness struct {
	stdin  *spyReader
	stdout bytes.Buffer
	stderr bytes.Buffer
}

func newHarness(t *testing.T, input string) *harness {
	t.Helper()
	t.Setenv(config.EnvFileVar, "")
	t.Setenv(config.LogLevelVar, "")
	t.Setenv(config.DefaultWindowVar, "")
	t.Cleanup(func() { log.SetLogger(nil) })
	return &harness{stdin: &spyReader{r: strings.NewReader(input)}}
}

func (h *harness) run(args []string, opts ...Option) int {
	return Run(context.Background(), args, Streams{
		Stdin:  h.stdin,
		Stdout: &h.stdout,
		Stderr: &h.stderr,
	}, opts...)
}

func fakeStat(mtimes map[string]int64) func(string) (int64, error) {
	return func(path string) (int64, error) {
		mtime, ok := mtimes[path]
		if !ok {
			return 0, fmt.Errorf("stat %q: %w", path, os.ErrNotExist)
		}
		return mtime, nil
	}
}

func frozenAt(now int64) Option {
	return WithClock(clock.Fixed(time.Unix(now, 0)))
}

func TestRun_Help(t *testing.T) {
	h := newHarness(t, "a\n")

	code := h.run([]string{"--help"})

	assert.Equal(t, ExitOK, code)
	assert.Contains(t, h.stdout.String(), "Usage: modified-in [SECONDS]")
	assert.False(t, h.stdin.read)
}

func TestRun_Version(t *testing.T) {
	h := newHarness(t, "a\n")

	code := h.run([]string{"--version"})

	assert.Equal(t, ExitOK, code)
	assert.True(t, strings.HasPrefix(h.stdout.String(), "modified-in dev"))
	assert.False(t, h.stdin.read)
}

func TestRun_InvalidWindow(t *testing.T) {
	h := newHarness(t, "a\n")

	code := h.run([]string{"abc"}, frozenAt(1000), WithStat(fakeStat(map[string]int64{"a": 1000})))

	assert.Equal(t, ExitConfig, code)
	assert.Empty(t, h.stdout.String())
	assert.Contains(t, h.stderr.String(), `modified-in: invalid window "abc"`)
	assert.False(t, h.stdin.read)
}

func TestRun_BareWordsAreWindows(t *testing.T) {
	for _, arg := range []string{"help", "version"} {
		t.Run(arg, func(t *testing.T) {
			h := newHarness(t, "a\n")

			code := h.run([]string{arg})

			assert.Equal(t, ExitConfig, code)
			assert.Empty(t, h.stdout.String())
			assert.Contains(t, h.stderr.String(), `invalid window "`+arg+`"`)
			assert.False(t, h.stdin.read)
		})
	}
}

func TestRun_ShortFlags(t *testing.T) {
	h := newHarness(t, "a\n")
	assert.Equal(t, ExitOK, h.run([]string{"-h"}))
	assert.Contains(t, h.stdout.String(), "Usage:")

	h = newHarness(t, "a\n")
	assert.Equal(t, ExitOK, h.run([]string{"-v"}))
	assert.True(t, strings.HasPrefix(h.stdout.String(), "modified-in "))
	assert.False(t, h.stdin.read)
}

func TestRun_TooManyArgs(t *testing.T) {
	h := newHarness(t, "a\n")

	code := h.run([]string{"10", "20"})

	assert.Equal(t, ExitConfig, code)
	assert.False(t, h.stdin.read)
}

func TestRun_InvalidEnvWindow(t *testing.T) {
	h := newHarness(t, "a\n")
	t.Setenv(config.DefaultWindowVar, "-3")

	code := h.run(nil)

	assert.Equal(t, ExitConfig, code)
	assert.Contains(t, h.stderr.String(), config.DefaultWindowVar)
	assert.False(t, h.stdin.read)
}

func TestRun_FiltersByWindow(t *testing.T) {
	h := newHarness(t, "fresh\nold\n\nmissing\nboundary\n")
	stat := fakeStat(map[string]int64{"fresh": 995, "old": 990, "boundary": 991})

	code := h.run([]string{"10"}, frozenAt(1000), WithStat(stat))

	require.Equal(t, ExitOK, code)
	assert.Equal(t, "fresh\nboundary\n", h.stdout.String())
	assert.Empty(t, h.stderr.String())
}

func TestRun_DefaultWindow(t *testing.T) {
	h := newHarness(t, "now\nsecond-ago\n")
	stat := fakeStat(map[string]int64{"now": 1000, "second-ago": 999})

	code := h.run(nil, frozenAt(1000), WithStat(stat))

	require.Equal(t, ExitOK, code)
	assert.Equal(t, "now\n", h.stdout.String())
}

func TestRun_DefaultWindowFromEnv(t *testing.T) {
	h := newHarness(t, "now\nsecond-ago\n")
	t.Setenv(config.DefaultWindowVar, "2")
	stat := fakeStat(map[string]int64{"now": 1000, "second-ago": 999})

	code := h.run(nil, frozenAt(1000), WithStat(stat))

	require.Equal(t, ExitOK, code)
	assert.Equal(t, "now\nsecond-ago\n", h.stdout.String())
}

func TestRun_ClockFailure(t *testing.T) {
	h := newHarness(t, "a\n")
	broken := WithClock(clock.Func(func() (time.Time, error) {
		return time.Time{}, errors.New("clock unavailable")
	}))

	code := h.run([]string{"10"}, broken)

	assert.Equal(t, ExitFailed, code)
	assert.Contains(t, h.stderr.String(), "clock unavailable")
	assert.Empty(t, h.stdout.String())
	assert.False(t, h.stdin.read)
}

type brokenStdin struct {
	data string
	done bool
}

func (b *brokenStdin) Read(p []byte) (int, error) {
	if b.done {
		return 0, errors.New("input/output error")
	}
	b.done = true
	return copy(p, b.data), nil
}

func TestRun_ReadFailureKeepsEarlierOutput(t *testing.T) {
	t.Setenv(config.EnvFileVar, "")
	t.Setenv(config.LogLevelVar, "")
	t.Setenv(config.DefaultWindowVar, "")
	t.Cleanup(func() { log.SetLogger(nil) })

	var stdout, stderr bytes.Buffer
	code := Run(context.Background(), []string{"10"}, Streams{
		Stdin:  &brokenStdin{data: "a\n"},
		Stdout: &stdout,
		Stderr: &stderr,
	}, frozenAt(1000), WithStat(fakeStat(map[string]int64{"a": 1000})))

	assert.Equal(t, ExitFailed, code)
	assert.Equal(t, "a\n", stdout.String())
	assert.Contains(t, stderr.String(), "input/output error")
}

func TestRun_InfoSummary(t *testing.T) {
	input := strings.Repeat("missing\n", 1500)
	h := newHarness(t, input)
	t.Setenv(config.LogLevelVar, "info")

	code := h.run([]string{"10"}, frozenAt(1000), WithStat(fakeStat(nil)))

	require.Equal(t, ExitOK, code)
	assert.Empty(t, h.stdout.String())
	assert.Contains(t, h.stderr.String(), "read 1,500 lines: 0 emitted, 0 stale, 1,500 lookup failures, 0 blank (threshold 991)")
}

func TestRun_DebugExplainsDecisions(t *testing.T) {
	h := newHarness(t, "fresh\nold\n")
	t.Setenv(config.LogLevelVar, "debug")
	stat := fakeStat(map[string]int64{"fresh": 995, "old": 900})

	code := h.run([]string{"10"}, frozenAt(1000), WithStat(stat))

	require.Equal(t, ExitOK, code)
	assert.Equal(t, "fresh\n", h.stdout.String())
	stderr := h.stderr.String()
	assert.Contains(t, stderr, `emit "fresh": modified 5 seconds ago`)
	assert.Contains(t, stderr, `exclude "old": modified 1 minute ago`)
}

func TestIsTerminal_NonFile(t *testing.T) {
	assert.False(t, isTerminal(strings.NewReader("")))
}
