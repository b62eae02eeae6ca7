package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/balkashynov/inctrack/internal/models"
	"github.com/balkashynov/inctrack/internal/tracker"
	"github.com/balkashynov/inctrack/internal/tui"
)

func (a *app) listCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List incidents",
		Long: `List logged incidents with the time of their last activity.

In a terminal this opens an interactive table where timers can be started
and stopped; --no-ui prints a plain table instead.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := tracker.ListOptions{LatestFirst: a.cfg.LatestFirst}
			if cmd.Flags().Changed("latest") {
				opts.LatestFirst, _ = cmd.Flags().GetBool("latest")
			}
			jsonOutput, _ := cmd.Flags().GetBool("json")
			limit, _ := cmd.Flags().GetInt("limit")

			if !jsonOutput && a.useUI(cmd) {
				return tui.RunListTUI(a.svc, opts)
			}

			incidents, err := a.svc.Incidents(opts)
			if err != nil {
				return fmt.Errorf("failed to list incidents: %w", err)
			}
			if limit > 0 && len(incidents) > limit {
				incidents = incidents[:limit]
			}

			out := cmd.OutOrStdout()
			if jsonOutput {
				return renderIncidentsJSON(out, "", incidents)
			}
			if len(incidents) == 0 {
				fmt.Fprintln(out, "No incidents found. Use 'inctrack add \"description\"' to log your first one.")
				return nil
			}
			renderIncidentTable(out, incidents)
			return nil
		},
	}

	cmd.Flags().BoolP("latest", "l", false, "Newest incidents first (default from config)")
	cmd.Flags().IntP("limit", "n", 0, "Limit number of results")
	cmd.Flags().Bool("json", false, "Output as JSON")
	cmd.Flags().Bool("no-ui", false, "Plain text output")
	return cmd
}

// renderIncidentTable prints incidents as a fixed-width table
func renderIncidentTable(w io.Writer, incidents []models.Incident) {
	fmt.Fprintf(w, "%-10s %-12s %-19s %s\n", "CREATED", "TICKET", "LAST ACTIVITY", "DESCRIPTION")
	fmt.Fprintln(w, strings.Repeat("-", 80))
	for _, inc := range incidents {
		fmt.Fprintf(w, "%-10s %-12s %-19s %s\n",
			inc.CreatedOnString(),
			inc.TicketID,
			inc.LastActivity.Format(models.DateTimeLayout),
			truncate(inc.Description, 36))
	}
}

func renderIncidentsJSON(w io.Writer, query string, incidents []models.Incident) error {
	type jsonIncident struct {
		CreatedOn    string    `json:"created_on"`
		TicketID     string    `json:"ticket_id"`
		Description  string    `json:"description"`
		LastActivity time.Time `json:"last_activity"`
	}
	type result struct {
		Query     string         `json:"query,omitempty"`
		Count     int            `json:"count"`
		Incidents []jsonIncident `json:"incidents"`
	}

	res := result{Query: query, Count: len(incidents), Incidents: []jsonIncident{}}
	for _, inc := range incidents {
		res.Incidents = append(res.Incidents, jsonIncident{
			CreatedOn:    inc.CreatedOnString(),
			TicketID:     inc.TicketID,
			Description:  inc.Description,
			LastActivity: inc.LastActivity,
		})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(res); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}
