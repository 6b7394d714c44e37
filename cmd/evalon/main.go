// cmd/evalon/main.go
package main

import (
	cmd "github.com/mwiater/evalon/internal/commands"
)

// Build-time variables injected via -ldflags.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// main starts the evalon CLI application by delegating to the
// cobra root command defined in the evalon package. It does not
// take any arguments and does not return a value.
func main() {
	cmd.SetVersionInfo(version, commit, date)
	cmd.Execute()
}
