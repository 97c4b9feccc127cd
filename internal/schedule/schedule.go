// Package schedule holds the date arithmetic for action items and meetings.
package schedule

import (
	"fmt"
	"time"
)

// DateLayout is the wire format for due dates and meeting dates.
const DateLayout = "2006-01-02"

// Tier classifies an action item's due date relative to today.
type Tier string

// Due-date tiers, from most to least urgent.
const (
	TierOverdue  Tier = "overdue"
	TierToday    Tier = "today"
	TierUpcoming Tier = "upcoming"
	TierOnTrack  Tier = "on-track"
	TierUnknown  Tier = "unknown"
)

// Label returns the display text for a tier.
func (t Tier) Label() string {
	switch t {
	case TierOverdue:
		return "Overdue"
	case TierToday:
		return "Today"
	case TierUpcoming:
		return "Upcoming"
	case TierOnTrack:
		return "On track"
	default:
		return "No due date"
	}
}

// Bucket classifies a due date against today: overdue when strictly in the
// past, today on exact match, upcoming when 1-3 days ahead, on-track beyond
// that. Unparsable input fails soft to TierUnknown.
//
// The distance is counted in whole calendar days. Both dates are anchored to
// UTC midnight before subtracting so a DST transition inside the span cannot
// shift the count.
func Bucket(due string, today time.Time) Tier {
	d, err := time.ParseInLocation(DateLayout, due, time.UTC)
	if err != nil {
		return TierUnknown
	}
	t := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	days := int(d.Sub(t).Hours() / 24)
	switch {
	case days < 0:
		return TierOverdue
	case days == 0:
		return TierToday
	case days <= 3:
		return TierUpcoming
	default:
		return TierOnTrack
	}
}

// MeetingDuration renders the span between two clock times as "2h 15min" or
// "45min". Accepts "15:04" or "15:04:05"; returns "N/A" when either value is
// missing or unparsable, or when end precedes start.
func MeetingDuration(start, end string) string {
	s, err := parseClock(start)
	if err != nil {
		return "N/A"
	}
	e, err := parseClock(end)
	if err != nil {
		return "N/A"
	}
	d := e.Sub(s)
	if d < 0 {
		return "N/A"
	}
	hours := int(d.Hours())
	mins := int(d.Minutes()) % 60
	if hours > 0 {
		return fmt.Sprintf("%dh %dmin", hours, mins)
	}
	return fmt.Sprintf("%dmin", mins)
}

func parseClock(v string) (time.Time, error) {
	layout := "15:04"
	if len(v) > 5 {
		layout = "15:04:05"
	}
	return time.Parse(layout, v)
}

// FormatTimestamp renders a stored timestamp for display as
// "02/01/2006 15:04". Zero times render as the empty string.
func FormatTimestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("02/01/2006 15:04")
}
