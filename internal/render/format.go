package render

import (
	"fmt"
	"time"
)

// FormatRelativeTime renders a compact age for list rows: "now", "12m",
// "3h", "5d", then "Jan 2" beyond a week. Zero times render as "-".
func FormatRelativeTime(date time.Time) string {
	if date.IsZero() {
		return "-"
	}
	diff := time.Since(date)

	switch {
	case diff < time.Minute:
		return "now"
	case diff < time.Hour:
		return fmt.Sprintf("%dm", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%dh", int(diff.Hours()))
	case diff < 7*24*time.Hour:
		return fmt.Sprintf("%dd", int(diff.Hours()/24))
	default:
		return date.Format("Jan 2")
	}
}
