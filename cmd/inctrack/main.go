package main

import (
	"fmt"
	"os"

	"github.com/balkashynov/inctrack/internal/commands"
	"github.com/balkashynov/inctrack/internal/tracker"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	commands.SetVersion(version, commit, date)
	if err := commands.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		// distinct code so scripts can retry when the workbook is busy
		if tracker.IsStorageError(err) {
			os.Exit(3)
		}
		os.Exit(1)
	}
}
