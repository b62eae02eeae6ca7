package commands

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/balkashynov/inctrack/internal/models"
	"github.com/balkashynov/inctrack/internal/parser"
	"github.com/balkashynov/inctrack/internal/tracker"
)

func (a *app) reportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Show a weekly timesheet of tracked time",
		Long: `Show a weekly timesheet of tracked time grouped by ticket and day.

Sessions count on the day they started; running timers count up to now.
Hours are shown with one decimal.

Example output:
  Ticket                     Mon   Tue   Wed   Thu   Fri  Total
  TH24031501 VPN outage      2.0   0.5     -     -     -    2.5
  TH24031502 Printer jam       -   1.0   1.5     -     -    2.5
  Total                      2.0   1.5   1.5   0.0   0.0    5.0`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			weekOf, _ := cmd.Flags().GetString("week-of")
			now := a.svc.Now()
			day, err := parser.ParseCreatedOn(weekOf, now)
			if err != nil {
				return err
			}

			sessions, err := a.svc.AllSessions()
			if err != nil {
				return fmt.Errorf("failed to get sessions: %w", err)
			}
			incidents, err := a.svc.Incidents(tracker.ListOptions{})
			if err != nil {
				return fmt.Errorf("failed to get incidents: %w", err)
			}

			sheet := buildTimesheet(sessions, incidents, parser.StartOfWeek(day), now)
			out := cmd.OutOrStdout()
			if len(sheet.rows) == 0 {
				fmt.Fprintln(out, "No time tracked this week.")
				return nil
			}
			renderTimesheet(out, sheet)
			return nil
		},
	}
	cmd.Flags().StringP("week-of", "w", "", "Any day of the week to report (default this week)")
	return cmd
}

type timesheetRow struct {
	label string
	hours [7]float64 // Monday first
	total float64
}

type timesheet struct {
	weekStart time.Time
	rows      []timesheetRow
	days      []int // column indexes to show, Monday = 0
	totals    [7]float64
	total     float64
}

// buildTimesheet groups session hours by ticket and weekday
func buildTimesheet(sessions []models.Session, incidents []models.Incident, weekStart, now time.Time) timesheet {
	weekEnd := weekStart.AddDate(0, 0, 7)

	labels := make(map[string]string)
	for _, inc := range incidents {
		if _, ok := labels[inc.TicketID]; !ok {
			labels[inc.TicketID] = inc.TicketID + " " + inc.Description
		}
	}

	byTicket := make(map[string]*timesheetRow)
	var order []string
	sheet := timesheet{weekStart: weekStart}
	for _, s := range sessions {
		if s.StartTime.Before(weekStart) || !s.StartTime.Before(weekEnd) {
			continue
		}
		row, ok := byTicket[s.TicketID]
		if !ok {
			label, known := labels[s.TicketID]
			if !known {
				label = s.TicketID
			}
			row = &timesheetRow{label: label}
			byTicket[s.TicketID] = row
			order = append(order, s.TicketID)
		}
		day := (int(s.StartTime.Weekday()) + 6) % 7
		hours := s.Duration(now).Hours()
		row.hours[day] += hours
		row.total += hours
		sheet.totals[day] += hours
		sheet.total += hours
	}

	sort.Strings(order)
	for _, id := range order {
		sheet.rows = append(sheet.rows, *byTicket[id])
	}

	// Weekdays always show once there is work; weekend days only when used
	for day := 0; day < 7; day++ {
		if day < 5 || sheet.totals[day] > 0 {
			sheet.days = append(sheet.days, day)
		}
	}
	return sheet
}

// renderTimesheet outputs the formatted timesheet table
func renderTimesheet(w io.Writer, sheet timesheet) {
	dayNames := []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

	labelWidth := 20
	for _, row := range sheet.rows {
		labelWidth = max(labelWidth, len([]rune(row.label)))
	}
	labelWidth = min(labelWidth, 40)

	separator := func() {
		fmt.Fprint(w, strings.Repeat("-", labelWidth))
		for range sheet.days {
			fmt.Fprint(w, "  "+strings.Repeat("-", 4))
		}
		fmt.Fprintln(w, "  "+strings.Repeat("-", 5))
	}

	fmt.Fprintf(w, "%-*s", labelWidth, "Ticket")
	for _, day := range sheet.days {
		fmt.Fprintf(w, "  %4s", dayNames[day])
	}
	fmt.Fprintf(w, "  %5s\n", "Total")
	separator()

	for _, row := range sheet.rows {
		fmt.Fprintf(w, "%-*s", labelWidth, truncate(row.label, labelWidth))
		for _, day := range sheet.days {
			if row.hours[day] > 0 {
				fmt.Fprintf(w, "  %4.1f", row.hours[day])
			} else {
				fmt.Fprintf(w, "  %4s", "-")
			}
		}
		fmt.Fprintf(w, "  %5.1f\n", row.total)
	}
	separator()

	fmt.Fprintf(w, "%-*s", labelWidth, "Total")
	for _, day := range sheet.days {
		fmt.Fprintf(w, "  %4.1f", sheet.totals[day])
	}
	fmt.Fprintf(w, "  %5.1f\n", sheet.total)

	fmt.Fprintf(w, "\nWeek of %s to %s\n",
		sheet.weekStart.Format("Jan 2"),
		sheet.weekStart.AddDate(0, 0, 6).Format("Jan 2, 2006"))
}
