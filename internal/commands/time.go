package commands

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/balkashynov/inctrack/internal/models"
	"github.com/balkashynov/inctrack/internal/parser"
	"github.com/balkashynov/inctrack/internal/tracker"
	"github.com/balkashynov/inctrack/internal/tui"
)

func (a *app) startCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "start <ticket-id>",
		Short: "Start an activity timer on a ticket",
		Long: `Start an activity timer on a ticket. Opens the interactive timer by default, use --no-ui for a plain start.

Examples:
  inctrack start TH24031501         # Start with the interactive timer
  inctrack start TH24031501 --no-ui # Start and return`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := a.svc.Start(tracker.StartSessionRequest{TicketID: args[0]})
			if err != nil {
				if errors.Is(err, tracker.ErrSessionAlreadyRunning) {
					return fmt.Errorf("%w (use 'inctrack stop %s')", err, args[0])
				}
				return err
			}

			if a.useUI(cmd) {
				return tui.RunTimerTUI(a.svc, session)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Started timer for %s\n", session.TicketID)
			fmt.Fprintf(out, "Started at: %s\n", session.StartTime.Format(time.TimeOnly))
			return nil
		},
	}
	cmd.Flags().Bool("no-ui", false, "Start timer without interactive UI")
	return cmd
}

func (a *app) stopCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stop <ticket-id>",
		Short: "Stop the running timer on a ticket",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := a.svc.Stop(tracker.StopSessionRequest{TicketID: args[0]})
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Stopped timer for %s\n", session.TicketID)
			fmt.Fprintf(out, "Session duration: %s\n", parser.FormatDuration(session.Duration(a.svc.Now())))
			return nil
		},
	}
}

func (a *app) statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show running timers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			open, err := a.svc.OpenSessions()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(open) == 0 {
				fmt.Fprintln(out, "No running timers")
				return nil
			}
			now := a.svc.Now()
			for _, s := range open {
				fmt.Fprintf(out, "%-12s started %s  elapsed %s\n",
					s.TicketID, s.StartTime.Format(models.DateTimeLayout), parser.FormatDuration(s.Duration(now)))
			}
			return nil
		},
	}
}

func (a *app) activityCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "activity <ticket-id>",
		Short: "Show the activity sessions of a ticket",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sessions, err := a.svc.Sessions(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(sessions) == 0 {
				fmt.Fprintf(out, "No activity recorded for %s\n", args[0])
				return nil
			}

			now := a.svc.Now()
			var total time.Duration
			fmt.Fprintf(out, "%-19s %-19s %s\n", "START", "END", "DURATION")
			for _, s := range sessions {
				end := "running"
				if s.EndTime != nil {
					end = s.EndTime.Format(models.DateTimeLayout)
				}
				d := s.Duration(now)
				total += d
				fmt.Fprintf(out, "%-19s %-19s %s\n", s.StartTime.Format(models.DateTimeLayout), end, parser.FormatDuration(d))
			}
			fmt.Fprintf(out, "Total: %s across %d sessions\n", parser.FormatDuration(total), len(sessions))
			return nil
		},
	}
}
