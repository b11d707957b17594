package main

import (
	"context"
	"os"

	"github.com/MimeLyc/modified-in/internal/cli"
)

// Set with -ldflags "-X main.version=... -X main.commit=... -X main.date=...".
var (
	version string
	commit  string
	date    string
)

func main() {
	cli.SetBuildInfo(version, commit, date)
	os.Exit(cli.Run(context.Background(), os.Args[1:], cli.StdStreams()))
}
