// pattern: Functional Core

package dashboard

import (
	"fmt"
	"time"
)

// FormatAgo humanizes how long ago t was, using the single coarsest unit:
// years, months, days, hours, minutes, or "just now". A nil time renders as
// "never".
func FormatAgo(t *time.Time, now time.Time) string {
	if t == nil {
		return "never"
	}
	d := now.Sub(*t)
	if d < 0 {
		d = 0
	}
	if unit := coarseUnit(d); unit != "" {
		return unit + " ago"
	}
	return "just now"
}

// FormatUptime humanizes a process age, e.g. "up 2h". Unknown start times
// render as "up ?".
func FormatUptime(startedAt time.Time, now time.Time) string {
	if startedAt.IsZero() {
		return "up ?"
	}
	d := now.Sub(startedAt)
	if d < 0 {
		d = 0
	}
	if unit := coarseUnit(d); unit != "" {
		return "up " + unit
	}
	return "up <1m"
}

func coarseUnit(d time.Duration) string {
	const (
		day   = 24 * time.Hour
		month = 30 * day
		year  = 365 * day
	)
	switch {
	case d >= year:
		return fmt.Sprintf("%dy", int(d/year))
	case d >= month:
		return fmt.Sprintf("%dmo", int(d/month))
	case d >= day:
		return fmt.Sprintf("%dd", int(d/day))
	case d >= time.Hour:
		return fmt.Sprintf("%dh", int(d/time.Hour))
	case d >= time.Minute:
		return fmt.Sprintf("%dm", int(d/time.Minute))
	default:
		return ""
	}
}

// FormatBytes renders a byte count with binary units, one decimal from MB up.
func FormatBytes(n int64) string {
	const (
		kb = 1 << 10
		mb = 1 << 20
		gb = 1 << 30
	)
	switch {
	case n >= gb:
		return fmt.Sprintf("%.1fGB", float64(n)/gb)
	case n >= mb:
		return fmt.Sprintf("%.1fMB", float64(n)/mb)
	case n >= kb:
		return fmt.Sprintf("%dKB", n/kb)
	default:
		return fmt.Sprintf("%dB", n)
	}
}
