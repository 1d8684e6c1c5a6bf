package render

import "fmt"

// FormatDuration renders seconds as H:MM:SS when an hour or more is present,
// M:SS otherwise. A nil duration renders as "duration unknown".
func FormatDuration(secs *int) string {
	if secs == nil || *secs < 0 {
		return "duration unknown"
	}
	total := *secs
	h := total / 3600
	m := (total % 3600) / 60
	s := total % 60

	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}
