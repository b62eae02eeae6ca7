package parser

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
)

// TicketPrefix starts every generated ticket ID
const TicketPrefix = "TH"

// MaxDailySequence is the last sequence number available for one day
const MaxDailySequence = 99

// ErrSequenceExhausted is returned when all daily sequence numbers are taken
var ErrSequenceExhausted = errors.New("all ticket sequence numbers for the day are taken")

var generatedIDRegex = regexp.MustCompile(`^TH\d{6}\d{2}$`)

// TicketPrefixFor returns the THyymmdd prefix for a day
func TicketPrefixFor(day time.Time) string {
	return fmt.Sprintf("%s%02d%02d%02d", TicketPrefix, day.Year()%100, int(day.Month()), day.Day())
}

// SuggestTicketID returns the first free THyymmddNN ID for the given day.
// It has no side effects, so it is safe to call for previews.
func SuggestTicketID(day time.Time, existing map[string]struct{}) (string, error) {
	prefix := TicketPrefixFor(day)
	for seq := 1; seq <= MaxDailySequence; seq++ {
		candidate := fmt.Sprintf("%s%02d", prefix, seq)
		if _, taken := existing[candidate]; !taken {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("%s: %w", prefix, ErrSequenceExhausted)
}

// TicketSet builds the lookup set used by SuggestTicketID
func TicketSet(ids []string) map[string]struct{} {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		set[id] = struct{}{}
	}
	return set
}

// IsGeneratedTicketID checks if an ID has the THyymmddNN shape.
// User supplied IDs never have to match it.
func IsGeneratedTicketID(id string) bool {
	return generatedIDRegex.MatchString(strings.TrimSpace(id))
}
