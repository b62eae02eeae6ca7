package parser

import "strings"

// NormalizeDescription flattens multi-line input into a single line.
// Each line is trimmed, blank lines are dropped and the rest are joined with a space.
func NormalizeDescription(input string) string {
	if input == "" {
		return ""
	}

	input = strings.ReplaceAll(input, "\r\n", "\n")
	input = strings.ReplaceAll(input, "\r", "\n")

	var parts []string
	for _, line := range strings.Split(input, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			parts = append(parts, line)
		}
	}
	return strings.Join(parts, " ")
}
