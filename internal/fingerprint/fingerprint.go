// Package fingerprint derives stable identity strings for ingested records.
// A fingerprint is the dedup key for the seen-set store: the same logical
// event must map to the same string on every run, so only identity-bearing
// fields participate (never free-text comments or fetch timestamps).
package fingerprint

import (
	"strings"

	"github.com/seenimoa/filingwatch/pkg/models"
)

// missing substitutes for an absent identity field. Malformed upstream
// records still get a fingerprint; a collision is preferable to a crash.
const missing = "N/A"

// New joins a feed category and identity-bearing field values into a
// fingerprint. Empty fields are replaced with "N/A".
func New(category string, fields ...string) string {
	parts := make([]string, 0, len(fields)+1)
	parts = append(parts, category)
	for _, f := range fields {
		if f == "" {
			f = missing
		}
		parts = append(parts, f)
	}
	return strings.Join(parts, "_")
}

// ForTrade fingerprints a congressional trade by chamber, member, ticker
// and transaction date. The amount, type and comment fields are excluded:
// they are routinely amended between re-fetches of the same disclosure.
func ForTrade(category string, t models.CongressTrade) string {
	return New(category, t.Member(), t.Ticker, t.TransactionDate)
}

// ForFiling fingerprints an SEC filing by its EDGAR link, which is unique
// per accession and stable across feed refreshes.
func ForFiling(category string, f models.Filing) string {
	return New(category, f.Link)
}
