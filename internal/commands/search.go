package commands

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/balkashynov/inctrack/internal/models"
	"github.com/balkashynov/inctrack/internal/tracker"
)

// match ranks, best first
const (
	matchExact = iota
	matchPrefix
	matchSuffix
	matchContains
	noMatch
)

func (a *app) searchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search incidents by ticket ID or description",
		Long: `Search incidents with ranked matching:
- Exact match (highest priority)
- Prefix match
- Suffix match
- Contains (lowest priority)

Search is case insensitive and looks at the ticket ID and the description.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := strings.Join(args, " ")
			limit, _ := cmd.Flags().GetInt("limit")
			jsonOutput, _ := cmd.Flags().GetBool("json")

			incidents, err := a.svc.Incidents(tracker.ListOptions{LatestFirst: true})
			if err != nil {
				return fmt.Errorf("failed to search incidents: %w", err)
			}
			found := searchIncidents(incidents, query)
			if limit > 0 && len(found) > limit {
				found = found[:limit]
			}

			out := cmd.OutOrStdout()
			if jsonOutput {
				return renderIncidentsJSON(out, query, found)
			}
			fmt.Fprintf(out, "Search results for '%s' (%d found):\n", query, len(found))
			if len(found) == 0 {
				fmt.Fprintln(out, "No incidents found matching your search.")
				return nil
			}
			fmt.Fprintln(out)
			renderIncidentTable(out, found)
			return nil
		},
	}

	cmd.Flags().IntP("limit", "n", 0, "Limit number of results")
	cmd.Flags().Bool("json", false, "Output as JSON")
	return cmd
}

// searchIncidents returns the incidents matching query, best rank first.
// Incidents of equal rank keep their input order.
func searchIncidents(incidents []models.Incident, query string) []models.Incident {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil
	}

	type hit struct {
		incident models.Incident
		rank     int
	}
	var hits []hit
	for _, inc := range incidents {
		rank := min(rankField(inc.TicketID, q), rankField(inc.Description, q))
		if rank != noMatch {
			hits = append(hits, hit{inc, rank})
		}
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].rank < hits[j].rank })

	found := make([]models.Incident, 0, len(hits))
	for _, h := range hits {
		found = append(found, h.incident)
	}
	return found
}

func rankField(field, q string) int {
	f := strings.ToLower(field)
	switch {
	case f == q:
		return matchExact
	case strings.HasPrefix(f, q):
		return matchPrefix
	case strings.HasSuffix(f, q):
		return matchSuffix
	case strings.Contains(f, q):
		return matchContains
	}
	return noMatch
}
