package domain

import (
	"fmt"
	"time"
)

// Location is the fixed +05:30 offset used for display, date filters and chart buckets.
var Location = time.FixedZone("IST", 5*60*60+30*60)

// DayLayout formats calendar days in filters and chart labels.
const DayLayout = "2006-01-02"

// DayRange returns [day 00:00, next day 00:00) in Location for the calendar date of day.
func DayRange(day time.Time) (time.Time, time.Time) {
	y, m, d := day.Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, Location)
	return start, start.AddDate(0, 0, 1)
}

// ParseDay reads a YYYY-MM-DD date in Location.
func ParseDay(raw string) (time.Time, error) {
	return time.ParseInLocation(DayLayout, raw, Location)
}

// DayLabel returns the calendar date of t in Location.
func DayLabel(t time.Time) string {
	return t.In(Location).Format(DayLayout)
}

// NewCODOrderID builds "HH" plus the last six digits of the unix millisecond clock.
func NewCODOrderID(now time.Time) string {
	return fmt.Sprintf("HH%06d", now.UnixMilli()%1_000_000)
}
