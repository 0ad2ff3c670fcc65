package knowledge

import (
	"regexp"
	"strings"
)

var emailPattern = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)

// firstEmail returns the first email-shaped substring of the query, or
// "" when none is present.
func firstEmail(query string) string {
	return emailPattern.FindString(query)
}

// classifyOutcome decides whether an "emailed ..." query reports a
// successful or failed contact attempt. The keyword checks overlap
// ("fail" matches "failed"); "unsuccessful" is tested before the
// success keywords so it is not shadowed by "successfully". Returns
// false when no outcome keyword is present.
func classifyOutcome(query string) (string, bool) {
	q := strings.ToLower(query)

	switch {
	case strings.Contains(q, "unsuccessful"):
		return "false", true
	case strings.Contains(q, "successfully"),
		strings.Contains(q, "delivered"),
		strings.Contains(q, "completed"):
		return "true", true
	case strings.Contains(q, "failed"), strings.Contains(q, "fail"):
		return "false", true
	case strings.Contains(q, "connected_already") && strings.Contains(q, "true"):
		return "true", true
	case strings.Contains(q, "connected_already") && strings.Contains(q, "false"):
		return "false", true
	}

	return "", false
}
