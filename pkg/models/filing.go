package models

import "strings"

// --- SEC Filings ---

// Filing represents one entry from an EDGAR "getcurrent" feed.
type Filing struct {
	Title    string `json:"title"`
	Link     string `json:"link"`
	Date     string `json:"date"`      // filing date, "2006-01-02"
	FormType string `json:"form_type"` // "3", "4", "5", "SC13D", "SC13G", "SC13G/A", "13F-HR"
}

// FilerName extracts the filer portion of an EDGAR feed title.
// Titles look like "13F-HR - BERKSHIRE HATHAWAY INC (0001067983) (Filer)".
// Falls back to the full title when the separator is absent.
func (f Filing) FilerName() string {
	name := f.Title
	if _, after, ok := strings.Cut(name, " - "); ok {
		name = after
	}
	// Strip trailing parenthesized qualifiers like "(0001067983) (Filer)".
	if i := strings.Index(name, "("); i > 0 {
		name = name[:i]
	}
	return strings.TrimSpace(name)
}
