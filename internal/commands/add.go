package commands

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/balkashynov/inctrack/internal/parser"
	"github.com/balkashynov/inctrack/internal/tracker"
	"github.com/balkashynov/inctrack/internal/tui"
)

func (a *app) addCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add [description]",
		Short: "Log a new incident ticket",
		Long: `Log a new incident ticket.

Modes:
  Interactive: inctrack add (or inctrack add -i) opens a form
  Quick:       inctrack add "Printer on floor 3 offline"
  Piped:       cat notes.txt | inctrack add -

The ticket ID defaults to the next free THyymmddNN for the incident date.
Multi-line descriptions are joined into one line.

Dates (--date): today, yesterday, N days ago, yyyy-mm-dd, dd/mm/yyyy`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dateFlag, _ := cmd.Flags().GetString("date")
			ticket, _ := cmd.Flags().GetString("ticket")
			interactive, _ := cmd.Flags().GetBool("interactive")

			createdOn, err := parser.ParseCreatedOn(dateFlag, a.svc.Now())
			if err != nil {
				return err
			}

			description, err := readDescription(cmd.InOrStdin(), args)
			if err != nil {
				return err
			}

			if (interactive || len(args) == 0) && a.useUI(cmd) {
				return tui.RunAddIncidentTUI(a.svc, tui.AddPrefill{
					CreatedOn:   createdOn,
					TicketID:    ticket,
					Description: description,
				})
			}
			if len(args) == 0 {
				return errors.New("description required (pass it as arguments, '-' for stdin, or run in a terminal)")
			}

			res, err := a.svc.AddIncident(tracker.AddIncidentRequest{
				CreatedOn:   createdOn,
				TicketID:    ticket,
				Description: description,
			})
			if err != nil {
				return err
			}
			printAdded(cmd.OutOrStdout(), res)
			return nil
		},
	}

	cmd.Flags().StringP("date", "d", "", "Incident date (default today)")
	cmd.Flags().StringP("ticket", "t", "", "Ticket ID (default next free THyymmddNN)")
	cmd.Flags().BoolP("interactive", "i", false, "Open the form even when a description is given")
	cmd.Flags().Bool("no-ui", false, "Never open the form")
	return cmd
}

func (a *app) nextCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "next",
		Short: "Print the next free ticket ID",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dateFlag, _ := cmd.Flags().GetString("date")
			day, err := parser.ParseCreatedOn(dateFlag, a.svc.Now())
			if err != nil {
				return err
			}
			id, err := a.svc.SuggestTicketID(day)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), id)
			return nil
		},
	}
	cmd.Flags().StringP("date", "d", "", "Day to suggest for (default today)")
	return cmd
}

// readDescription joins args, or reads stdin when the only arg is "-"
func readDescription(in io.Reader, args []string) (string, error) {
	if len(args) == 1 && args[0] == "-" {
		data, err := io.ReadAll(in)
		if err != nil {
			return "", fmt.Errorf("failed to read description: %w", err)
		}
		return string(data), nil
	}
	return strings.Join(args, " "), nil
}

func printAdded(w io.Writer, res *tracker.AddIncidentResult) {
	inc := res.Incident
	fmt.Fprintf(w, "Added %s (%s): %s\n", inc.TicketID, inc.CreatedOn.Format(time.DateOnly), inc.Description)
	if res.Duplicate {
		fmt.Fprintf(w, "warning: ticket ID %s was already used by another incident\n", inc.TicketID)
	}
}
