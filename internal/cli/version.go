package cli

import (
	"fmt"
	"io"
)

var (
	buildVersion = "dev"
	buildCommit  = "unknown"
	buildDate    = "unknown"
)

// SetBuildInfo configures build metadata for the CLI.
func SetBuildInfo(version, commit, date string) {
	if version != "" {
		buildVersion = version
	}
	if commit != "" {
		buildCommit = commit
	}
	if date != "" {
		buildDate = date
	}
}

func printVersion(w io.Writer) {
	fmt.Fprintf(w, "%s %s (commit %s, built %s)\n", programName, buildVersion, buildCommit, buildDate)
}
