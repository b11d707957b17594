// Package cli wires argument parsing, environment configuration and the
// recency filter into a process with conventional exit codes.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/MimeLyc/modified-in/internal/config"
	"github.com/MimeLyc/modified-in/internal/recency"
	"github.com/MimeLyc/modified-in/pkg/clock"
	"github.com/MimeLyc/modified-in/pkg/file"
	"github.com/MimeLyc/modified-in/pkg/log"
)

const programName = "modified-in"

const (
	ExitOK     = 0
	ExitFailed = 1
	ExitConfig = 2
)

// Streams are the process's standard streams.
type Streams struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// StdStreams returns os.Stdin, os.Stdout and os.Stderr.
func StdStreams() Streams {
	return Streams{Stdin: os.Stdin, Stdout: os.Stdout, Stderr: os.Stderr}
}

type runOptions struct {
	clock clock.Clock
	stat  file.StatFunc
}

type Option func(*runOptions)

// WithClock replaces the system clock.
func WithClock(c clock.Clock) Option {
	return func(o *runOptions) {
		o.clock = c
	}
}

// WithStat replaces the filesystem mtime lookup.
func WithStat(stat file.StatFunc) Option {
	return func(o *runOptions) {
		o.stat = stat
	}
}

// Run executes the program with args (without the program name) and returns its exit code.
// Configuration errors exit with ExitConfig before stdin is touched; clock, read and
// write failures exit with ExitFailed.
func Run(ctx context.Context, args []string, streams Streams, opts ...Option) int {
	options := runOptions{
		clock: clock.System{},
		stat:  file.ModTimeUnix,
	}
	for _, opt := range opts {
		opt(&options)
	}

	parsed, err := config.ParseArgs(args)
	if err != nil {
		return configFailure(streams.Stderr, err)
	}

	switch parsed.Mode {
	case config.ModeHelp:
		printUsage(streams.Stdout)
		return ExitOK
	case config.ModeVersion:
		printVersion(streams.Stdout)
		return ExitOK
	}

	cfg, err := config.NewFromEnv(config.WithArgs(parsed))
	if err != nil {
		return configFailure(streams.Stderr, err)
	}

	log.SetLogger(log.NewLoggerTo(streams.Stderr, cfg.LogLevel))
	log.Debug("config: window=%ds level=%s env_file=%q", cfg.Window, cfg.LogLevel, cfg.EnvFile)

	if isTerminal(streams.Stdin) {
		log.Info("reading paths from the terminal, one per line; end input with Ctrl-D")
	}

	filter := recency.NewFilter(cfg.Window,
		recency.WithClock(options.clock),
		recency.WithStat(options.stat),
	)

	stats, err := filter.Run(ctx, streams.Stdin, streams.Stdout)
	logSummary(stats)
	if err != nil {
		fmt.Fprintf(streams.Stderr, "%s: %v\n", programName, err)
		return ExitFailed
	}
	return ExitOK
}

func configFailure(w io.Writer, err error) int {
	fmt.Fprintf(w, "%s: %v\n", programName, err)
	fmt.Fprintf(w, "Try '%s --help' for more information.\n", programName)
	return ExitConfig
}

func printUsage(w io.Writer) {
	fmt.Fprintf(w, `Usage: %[1]s [SECONDS]

Read paths from standard input, one per line, and print those modified
within the last SECONDS seconds (default 1). A path modified exactly
SECONDS seconds ago is not printed. Blank lines and paths that cannot be
stat'ed are skipped.

Options:
  -h, --help     show this help and exit
  -v, --version  show version and exit

Environment:
  %[2]s     dotenv file to load first
  %[3]s    debug|info|warn|error (default warn)
  %[4]s  window used when SECONDS is omitted

Examples:
  echo go.mod | %[1]s 600
  locate report | %[1]s 60
`, programName, config.EnvFileVar, config.LogLevelVar, config.DefaultWindowVar)
}

func logSummary(stats recency.Stats) {
	if !log.GetLogger().Enabled(log.LevelInfo) {
		return
	}
	p := message.NewPrinter(language.English)
	log.Info("%s (threshold %d)", p.Sprintf("read %d lines: %d emitted, %d stale, %d lookup failures, %d blank",
		stats.Lines, stats.Emitted, stats.Stale, stats.LookupFailures, stats.Blank), stats.Threshold)
}

func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}
