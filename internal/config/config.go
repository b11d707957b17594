package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/MimeLyc/modified-in/internal/recency"
	"github.com/MimeLyc/modified-in/pkg/log"
)

// Config holds the effective settings for one run.
// Command-line arguments override environment variables, which override defaults.
//
// Environment Variables:
// - MODIFIED_IN_ENV_FILE: dotenv file loaded before the others are read (optional)
// - MODIFIED_IN_LOG_LEVEL: debug|info|warn|error (default: warn)
// - MODIFIED_IN_DEFAULT_WINDOW: window in seconds when no argument is given (default: 1)
type Config struct {
	Window   uint64
	LogLevel log.LogLevel
	EnvFile  string
}

const (
	EnvFileVar       = "MODIFIED_IN_ENV_FILE"
	LogLevelVar      = "MODIFIED_IN_LOG_LEVEL"
	DefaultWindowVar = "MODIFIED_IN_DEFAULT_WINDOW"
)

const (
	// ErrCodeInvalidWindow means the window is not a non-negative integer.
	ErrCodeInvalidWindow = "invalid_window"
	// ErrCodeTooManyArgs means more than one positional argument was given.
	ErrCodeTooManyArgs = "too_many_args"
	// ErrCodeInvalidEnv means the env file or an environment variable is unusable.
	ErrCodeInvalidEnv = "invalid_env"
)

// Error is a configuration failure. It is always reported before any input is read.
type Error struct {
	Code  string
	Value string
	Err   error
}

func (e *Error) Error() string {
	switch e.Code {
	case ErrCodeInvalidWindow:
		return fmt.Sprintf("invalid window %q: must be a non-negative integer number of seconds", e.Value)
	case ErrCodeTooManyArgs:
		return fmt.Sprintf("unexpected argument %q: only one window may be given", e.Value)
	default:
		if e.Err != nil {
			return fmt.Sprintf("%s: %s: %v", e.Code, e.Value, e.Err)
		}
		return fmt.Sprintf("%s: %s", e.Code, e.Value)
	}
}

func (e *Error) Unwrap() error { return e.Err }

// Code extracts the error code, or "" when err is not a *Error.
func Code(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// Option is a function type for configuring Config
type Option func(*Config)

// WithArgs applies the window given on the command line, if any.
func WithArgs(args Args) Option {
	return func(c *Config) {
		if args.WindowSet {
			c.Window = args.Window
		}
	}
}

// NewFromEnv creates a Config from environment variables and options
func NewFromEnv(opts ...Option) (*Config, error) {
	envFile := getEnvString(EnvFileVar, "")
	if envFile != "" {
		// Load never overrides variables that are already set.
		if err := godotenv.Load(envFile); err != nil {
			return nil, &Error{Code: ErrCodeInvalidEnv, Value: envFile, Err: err}
		}
	}

	config := &Config{
		Window:   recency.DefaultWindow,
		LogLevel: log.ParseLevel(getEnvString(LogLevelVar, "warn")),
		EnvFile:  envFile,
	}

	if raw := getEnvString(DefaultWindowVar, ""); raw != "" {
		window, err := ParseWindow(raw)
		if err != nil {
			return nil, &Error{Code: ErrCodeInvalidEnv, Value: DefaultWindowVar, Err: err}
		}
		config.Window = window
	}

	for _, opt := range opts {
		opt(config)
	}

	return config, nil
}

// ParseWindow parses a window in seconds. Values beyond uint64 saturate,
// which admits every file just as any window larger than now does.
func ParseWindow(s string) (uint64, error) {
	window, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		var numErr *strconv.NumError
		if errors.As(err, &numErr) && errors.Is(numErr.Err, strconv.ErrRange) {
			return math.MaxUint64, nil
		}
		return 0, &Error{Code: ErrCodeInvalidWindow, Value: s, Err: err}
	}
	return window, nil
}

// getEnvString gets a string value from environment variables with default
func getEnvString(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}
