package model

import (
	"fmt"
	"regexp"
	"strings"
)

var statusToken = regexp.MustCompile(`\{(\w+):([^}]*)\}`)

// FormatStatus expands a status-line template against per-state counts.
// Each {state:icon} token becomes "icon count" when the count is positive
// and disappears otherwise; runs of whitespace collapse to single spaces
// so an all-zero line renders empty.
func FormatStatus(format string, counts map[HopState]int) string {
	expanded := statusToken.ReplaceAllStringFunc(format, func(tok string) string {
		m := statusToken.FindStringSubmatch(tok)
		if n := counts[HopState(m[1])]; n > 0 {
			return fmt.Sprintf("%s %d", m[2], n)
		}
		return ""
	})
	return strings.Join(strings.Fields(expanded), " ")
}

// FormatTimeAgo renders the age of a unix timestamp as a compact single
// unit ("45s", "12m", "3h", "2d", "1w"). Zero and future timestamps render
// as "?".
func FormatTimeAgo(timestamp, now int64) string {
	if timestamp <= 0 {
		return "?"
	}
	diff := now - timestamp
	if diff < 0 {
		return "?"
	}
	switch {
	case diff < 60:
		return fmt.Sprintf("%ds", diff)
	case diff < 3600:
		return fmt.Sprintf("%dm", diff/60)
	case diff < 86400:
		return fmt.Sprintf("%dh", diff/3600)
	case diff < 604800:
		return fmt.Sprintf("%dd", diff/86400)
	default:
		return fmt.Sprintf("%dw", diff/604800)
	}
}
