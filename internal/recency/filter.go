// Package recency decides which paths were modified within a trailing window of seconds.
//
// A path is recent when its mtime lies in the half-open interval (now-window, now],
// i.e. mtime >= now-window+1. A window of 0 admits nothing; a window larger than
// now admits every file that can be stat'ed, including ones with pre-epoch mtimes.
package recency

import (
	"bufio"
	"context"
	"errors"
	"io"
	"math"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/MimeLyc/modified-in/pkg/clock"
	"github.com/MimeLyc/modified-in/pkg/file"
	"github.com/MimeLyc/modified-in/pkg/log"
)

// DefaultWindow is used when the caller gives no window.
const DefaultWindow uint64 = 1

// Stats counts what a single Run did with its input.
type Stats struct {
	Lines          int // lines read, blank ones included
	Blank          int
	Emitted        int
	Stale          int // looked up, older than the threshold
	LookupFailures int
	Now            int64
	Threshold      int64
}

type filterOptions struct {
	stat  file.StatFunc
	clock clock.Clock
}

type Option func(*filterOptions)

// WithStat replaces the mtime lookup.
func WithStat(stat file.StatFunc) Option {
	return func(o *filterOptions) {
		o.stat = stat
	}
}

// WithClock replaces the clock sampled at the start of Run.
func WithClock(c clock.Clock) Option {
	return func(o *filterOptions) {
		o.clock = c
	}
}

type Filter struct {
	window uint64
	stat   file.StatFunc
	clock  clock.Clock
}

func NewFilter(window uint64, opts ...Option) *Filter {
	options := filterOptions{
		stat:  file.ModTimeUnix,
		clock: clock.System{},
	}
	for _, opt := range opts {
		opt(&options)
	}

	return &Filter{
		window: window,
		stat:   options.stat,
		clock:  options.clock,
	}
}

// Threshold returns the smallest mtime, in Unix seconds, that counts as recent.
// It is now-window+1, clamped at 0 when window exceeds now. Run treats the
// clamped case as admitting every mtime.
func Threshold(now int64, window uint64) int64 {
	if now < 0 {
		now = 0
	}
	if window > uint64(now) {
		return 0
	}
	return now - int64(window) + 1
}

// IsRecent reports whether mtime is at or after threshold.
func IsRecent(mtime, threshold int64) bool {
	return mtime >= threshold
}

// Run samples the clock once, then reads newline-delimited paths from r and
// writes each recent one to w, trimmed and newline-terminated, in input order.
// Every emitted line is a single Write call so it is visible before the next
// line is read.
//
// Blank lines and paths whose lookup fails are skipped. Clock, read, write and
// context errors stop the run; lines already written stay written.
func (f *Filter) Run(ctx context.Context, r io.Reader, w io.Writer) (Stats, error) {
	var stats Stats

	nowTime, err := f.clock.Now()
	if err != nil {
		return stats, WrapError(err, ErrClock, "read current time")
	}
	now := nowTime.Unix()
	threshold := Threshold(now, f.window)
	stats.Now = now
	stats.Threshold = threshold

	cutoff := threshold
	if now >= 0 && f.window > uint64(now) {
		cutoff = math.MinInt64
	}

	log.Debug("now=%d window=%ds threshold=%d", now, f.window, threshold)

	reader := bufio.NewReader(r)
	for {
		if err := ctx.Err(); err != nil {
			return stats, WrapError(err, ErrCanceled, "filter canceled")
		}

		line, readErr := reader.ReadString('\n')
		if readErr != nil && !errors.Is(readErr, io.EOF) {
			return stats, WrapError(readErr, ErrRead, "read input")
		}

		if line != "" {
			stats.Lines++
			path := strings.TrimSpace(line)
			if path == "" {
				stats.Blank++
			} else if f.decide(path, now, cutoff, &stats) {
				if _, err := io.WriteString(w, path+"\n"); err != nil {
					return stats, WrapError(err, ErrWrite, "write output")
				}
				stats.Emitted++
			}
		}

		if readErr != nil {
			return stats, nil
		}
	}
}

// decide looks up path and reports whether it should be emitted. A failed
// lookup excludes the path and never escapes this function.
func (f *Filter) decide(path string, now, cutoff int64, stats *Stats) bool {
	mtime, err := f.stat(path)
	if err != nil {
		stats.LookupFailures++
		log.Debug("exclude %q: %v", path, err)
		return false
	}

	if !IsRecent(mtime, cutoff) {
		stats.Stale++
		if log.DebugEnabled() {
			log.Debug("exclude %q: modified %s", path, age(mtime, now))
		}
		return false
	}

	if log.DebugEnabled() {
		log.Debug("emit %q: modified %s", path, age(mtime, now))
	}
	return true
}

func age(mtime, now int64) string {
	return humanize.RelTime(time.Unix(mtime, 0), time.Unix(now, 0), "ago", "from now")
}
