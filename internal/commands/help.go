package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

var helpCmd = &cobra.Command{
	Use:   "help [command]",
	Short: "Show comprehensive help for inctrack",
	Long:  `Display detailed help for all inctrack commands and flags.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) > 0 {
			target, _, err := cmd.Root().Find(args)
			if err != nil {
				return err
			}
			return target.Help()
		}
		showCustomHelp(cmd.OutOrStdout())
		return nil
	},
}

func showCustomHelp(w io.Writer) {
	fmt.Fprint(w, `
 ___ _   _  ____ _____ ____      _    ____ _  __
|_ _| \ | |/ ___|_   _|  _ \    / \  / ___| |/ /
 | ||  \| | |     | | | |_) |  / _ \| |   | ' /
 | || |\  | |___  | | |  _ <  / ___ \ |___| . \
|___|_| \_|\____| |_| |_| \_\/_/   \_\____|_|\_\

inctrack - incident ticket log + activity timer

COMMANDS:

  add [description]       Log an incident (form when run without arguments)
    -d, --date            today|yesterday|N days ago|yyyy-mm-dd|dd/mm/yyyy
    -t, --ticket          Ticket ID (default next free THyymmddNN)
    -i, --interactive     Open the form with the given values
    --no-ui               Never open the form
    -                     Read the description from stdin

  next                    Print the next free ticket ID
    -d, --date            Day to suggest for

  ls                      List incidents with interactive UI
    -l, --latest          Newest first
    -n, --limit           Limit results
    --json                JSON output
    --no-ui               Simple text output

    Quick actions:
      ↑/↓           Navigate incidents
      enter         Show activity of the selected ticket
      s             Start/stop timer
      o             Sort oldest/newest first
      r             Reload from file
      esc/q         Quit

  search <query>          Search ticket IDs and descriptions
    -n, --limit           Limit results
    --json                JSON output

  start <ticket>          Start a timer on a ticket
    --no-ui               Start without interactive timer
  stop <ticket>           Stop the running timer on a ticket
  status                  Show running timers
  activity <ticket>       Show every session of a ticket

  report                  Weekly timesheet of tracked time
    -w, --week-of         Any day of the week to report

  export [dir]            Copy the data file into a directory
    --force               Replace an existing copy
  open                    Open the data file in its default application
  path                    Print the data file location
  version                 Print version information
  help [command]          Show this help, or help for one command

GLOBAL FLAGS:

  -f, --file              Data file (default <data dir>/incident_numbers.xlsx)
  --backend               xlsx (default) or sqlite
  --config                Config file (default <data dir>/config.yaml)
  -v, --verbose           Log every operation to stderr

`)
}
