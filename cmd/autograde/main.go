// cmd/autograde/main.go
package main

import (
	autograde "github.com/mwiater/autograde/internal/commands"
)

// Build-time variables set with -ldflags.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	setVersionInfo = autograde.SetVersionInfo
	executeCmd     = autograde.Execute
)

// main starts the autograde CLI by delegating to the cobra root command.
func main() {
	setVersionInfo(version, commit, date)
	executeCmd()
}
