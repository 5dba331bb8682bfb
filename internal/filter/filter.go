// Package filter holds the pure classification predicates: the
// notable-entity watchlist match and the tax-withholding suppression check.
package filter

import (
	"strings"

	"github.com/seenimoa/filingwatch/pkg/models"
)

// Watchlist matches text against curated lowercase keyword lists.
// Matching is plain substring containment: a watchlist entry appearing
// anywhere in the text is a match, with no word-boundary requirement.
// Short entries can therefore fire inside unrelated longer words; that
// false-positive rate is a known, accepted property of the list.
type Watchlist struct {
	entities []string
	vips     []string
	taxWords []string
}

// New creates a watchlist from pre-lowercased keyword lists.
func New(entities, vips, taxWords []string) *Watchlist {
	return &Watchlist{entities: entities, vips: vips, taxWords: taxWords}
}

// Notable reports whether the text mentions any watched entity.
func (w *Watchlist) Notable(text string) bool {
	return matchesAny(text, w.entities)
}

// VIP reports whether the text mentions a high-profile politician.
// Decoration only: it never gates whether an alert is sent.
func (w *Watchlist) VIP(text string) bool {
	return matchesAny(text, w.vips)
}

// Suppressed reports whether a congressional trade is a routine
// tax-withholding transaction. Suppressed trades are still fingerprinted
// and marked seen so they are never re-evaluated, but no alert is sent.
func (w *Watchlist) Suppressed(t models.CongressTrade) bool {
	return matchesAny(t.Comment, w.taxWords) || matchesAny(t.Type, w.taxWords)
}

// matchesAny checks if text contains any of the keywords (case-insensitive).
func matchesAny(text string, keywords []string) bool {
	lower := strings.ToLower(text)
	for _, kw := range keywords {
		if kw != "" && strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
