package utils

import (
	"time"
)

// Eastern is the US Eastern time zone, which EDGAR timestamps are quoted in.
var Eastern *time.Location

func init() {
	var err error
	Eastern, err = time.LoadLocation("America/New_York")
	if err != nil {
		// Fallback: fixed EST offset if the tz database is not available.
		Eastern = time.FixedZone("EST", -5*60*60)
	}
}

// CutoffDate returns the "2006-01-02" date string daysBack days before now.
// Congressional feeds are filtered on disclosure_date >= this cutoff.
func CutoffDate(now time.Time, daysBack int) string {
	return now.AddDate(0, 0, -daysBack).Format("2006-01-02")
}

// EdgarDateStamp formats a time as the compact YYYYMMDD stamp EDGAR's
// getcurrent endpoint expects in its dateb parameter.
func EdgarDateStamp(t time.Time) string {
	return t.In(Eastern).Format("20060102")
}

// ISODate truncates a timestamp string to its date portion.
// EDGAR Atom "updated" values look like "2024-02-14T17:32:11-05:00".
func ISODate(ts string) string {
	if len(ts) >= 10 {
		return ts[:10]
	}
	return ts
}

// ParseDate parses a "2006-01-02" date string.
func ParseDate(s string) (time.Time, error) {
	return time.Parse("2006-01-02", s)
}

// FormatDate formats a time.Time to "2006-01-02".
func FormatDate(t time.Time) string {
	return t.Format("2006-01-02")
}
