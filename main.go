package main

import "github.com/kernel/devtools-installer/cmd"

// Set by goreleaser.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	cmd.Execute(cmd.Metadata{
		Version: version,
		Commit:  commit,
		Date:    date,
	})
}
