package config

// Mode selects what the process does with its arguments.
type Mode int

const (
	ModeRun Mode = iota
	ModeHelp
	ModeVersion
)

// Args is the parsed command line.
type Args struct {
	Mode      Mode
	Window    uint64
	WindowSet bool
}

// ParseArgs interprets argv without the program name. --help and --version
// win when they come first; anything else in that position is the window.
func ParseArgs(args []string) (Args, error) {
	if len(args) == 0 {
		return Args{Mode: ModeRun}, nil
	}

	switch args[0] {
	case "-h", "--help":
		return Args{Mode: ModeHelp}, nil
	case "-v", "--version":
		return Args{Mode: ModeVersion}, nil
	}

	window, err := ParseWindow(args[0])
	if err != nil {
		return Args{}, err
	}
	if len(args) > 1 {
		return Args{}, &Error{Code: ErrCodeTooManyArgs, Value: args[1]}
	}

	return Args{Mode: ModeRun, Window: window, WindowSet: true}, nil
}
