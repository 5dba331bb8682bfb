// Package report renders alert messages. Output is Telegram HTML: bold
// tags, anchor links, emoji prefixes per filing type.
package report

import (
	"fmt"
	"html"
	"sort"
	"strings"

	"github.com/seenimoa/filingwatch/pkg/models"
)

// formDescriptions maps EDGAR form types to their alert emoji and label.
var formDescriptions = map[string]struct {
	emoji string
	label string
}{
	"3":       {"🆕", "NEW INSIDER"},
	"4":       {"📋", "INSIDER TRADING"},
	"5":       {"📅", "INSIDER ANNUAL"},
	"SC13D":   {"🚨", "ACTIVIST STAKE (&gt;5%)"},
	"SC13G":   {"📊", "13G - PASSIVE STAKE"},
	"SC13G/A": {"📊", "13G - STAKE AMENDMENT"},
	"13F-HR":  {"💼", "13F - QUARTERLY HOLDINGS"},
}

// CongressTrade renders a congressional disclosure alert. VIP politicians
// get a louder prefix; the chamber is the feed's display name ("House" or
// "Senate").
func CongressTrade(t models.CongressTrade, chamber string, vip bool) string {
	prefix := "🏛 <b>CONGRESS</b>"
	if vip {
		prefix = "🔥🔥 <b>VIP POLITICIAN</b> 🔥🔥"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s\n\n", prefix)
	fmt.Fprintf(&b, "👤 <b>%s</b>\n", esc(orNA(t.Member())))
	fmt.Fprintf(&b, "📊 Ticker: <b>%s</b>\n", esc(orNA(t.Ticker)))
	fmt.Fprintf(&b, "💰 Amount: %s\n", esc(orNA(t.Amount)))
	fmt.Fprintf(&b, "📈 Type: %s\n", esc(orNA(t.Type)))
	fmt.Fprintf(&b, "📅 Transaction date: %s\n", esc(orNA(t.Date())))
	fmt.Fprintf(&b, "🏢 Chamber: %s", chamber)

	if t.Comment != "" {
		fmt.Fprintf(&b, "\n\n%s", esc(t.Comment))
	}
	return b.String()
}

// Filing renders a generic SEC filing alert. Notable filers get a starred
// prefix line above the form-type banner.
func Filing(f models.Filing, notable bool) string {
	desc, ok := formDescriptions[f.FormType]
	if !ok {
		desc.emoji, desc.label = "📄", "SEC FILING"
	}

	prefix := fmt.Sprintf("%s <b>%s</b>", desc.emoji, desc.label)
	if notable {
		prefix = fmt.Sprintf("⭐️⭐️ <b>NOTABLE INVESTOR</b> ⭐️⭐️\n%s", prefix)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s\n\n", prefix)
	fmt.Fprintf(&b, "📄 %s\n", esc(f.Title))
	fmt.Fprintf(&b, "📅 Filing date: %s\n", esc(f.Date))
	fmt.Fprintf(&b, "🔗 <a href=\"%s\">View full SEC filing</a>", f.Link)
	return b.String()
}

// HoldingsChanges renders the quarterly position-change report for one
// filer. Categories are ordered new, increased, decreased, closed;
// new/closed sort by value, increased/decreased by move size; each
// category is truncated to topN entries with an explicit remainder count.
func HoldingsChanges(f models.Filing, snap models.HoldingsSnapshot, cs models.ChangeSet, topN int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "💼 <b>13F HOLDINGS CHANGES</b>\n\n")
	fmt.Fprintf(&b, "🏦 <b>%s</b>\n", esc(snap.Filer))
	fmt.Fprintf(&b, "📅 Filed: %s\n", esc(f.Date))
	fmt.Fprintf(&b, "💰 Portfolio: %s across %d positions\n", money(snap.TotalValueUSD()), len(snap.Positions))

	if cs.Empty() {
		b.WriteString("\n✅ No material changes since the previous filing")
	} else {
		writePositions(&b, "🆕 New positions", cs.New, topN)
		writeChanges(&b, "📈 Increased", cs.Increased, topN)
		writeChanges(&b, "📉 Decreased", cs.Decreased, topN)
		writePositions(&b, "❌ Closed", cs.Closed, topN)
	}

	fmt.Fprintf(&b, "\n\n🔗 <a href=\"%s\">View full SEC filing</a>", f.Link)
	return b.String()
}

// HoldingsFallback renders the summary alert used when a 13F's information
// table could not be parsed. The alert still fires; only the detail is lost.
func HoldingsFallback(f models.Filing) string {
	var b strings.Builder
	fmt.Fprintf(&b, "💼 <b>13F - QUARTERLY HOLDINGS</b>\n\n")
	fmt.Fprintf(&b, "📄 %s\n", esc(f.Title))
	fmt.Fprintf(&b, "📅 Filing date: %s\n", esc(f.Date))
	b.WriteString("⚠️ Holdings detail unavailable for this filing\n")
	fmt.Fprintf(&b, "🔗 <a href=\"%s\">View full SEC filing</a>", f.Link)
	return b.String()
}

// CycleSummary renders the end-of-cycle log line sent at debug level and
// printed by the run command.
func CycleSummary(sent, tracked int) string {
	return fmt.Sprintf("✅ Done: %d alerts sent, %d filings tracked", sent, tracked)
}

func writePositions(b *strings.Builder, header string, positions []models.HoldingsPosition, topN int) {
	if len(positions) == 0 {
		return
	}
	sorted := make([]models.HoldingsPosition, len(positions))
	copy(sorted, positions)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ValueUSD > sorted[j].ValueUSD })

	fmt.Fprintf(b, "\n<b>%s (%d)</b>\n", header, len(sorted))
	shown := sorted
	if len(shown) > topN {
		shown = shown[:topN]
	}
	for _, p := range shown {
		fmt.Fprintf(b, "  • %s — %s\n", esc(p.IssuerName), money(p.ValueUSD))
	}
	if rest := len(sorted) - len(shown); rest > 0 {
		fmt.Fprintf(b, "  … +%d more\n", rest)
	}
}

func writeChanges(b *strings.Builder, header string, changes []models.PositionChange, topN int) {
	if len(changes) == 0 {
		return
	}
	sorted := make([]models.PositionChange, len(changes))
	copy(sorted, changes)
	sort.Slice(sorted, func(i, j int) bool { return abs(sorted[i].ChangePct) > abs(sorted[j].ChangePct) })

	fmt.Fprintf(b, "\n<b>%s (%d)</b>\n", header, len(sorted))
	shown := sorted
	if len(shown) > topN {
		shown = shown[:topN]
	}
	for _, c := range shown {
		fmt.Fprintf(b, "  • %s — %s (%+.0f%%)\n", esc(c.Position.IssuerName), money(c.Position.ValueUSD), c.ChangePct)
	}
	if rest := len(sorted) - len(shown); rest > 0 {
		fmt.Fprintf(b, "  … +%d more\n", rest)
	}
}

// money renders a dollar value in compact form: $174.3B, $23.6M, $950K.
func money(v int64) string {
	f := float64(v)
	switch {
	case f >= 1e9:
		return fmt.Sprintf("$%.1fB", f/1e9)
	case f >= 1e6:
		return fmt.Sprintf("$%.1fM", f/1e6)
	case f >= 1e3:
		return fmt.Sprintf("$%.1fK", f/1e3)
	default:
		return fmt.Sprintf("$%.0f", f)
	}
}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

// esc escapes feed-supplied text for Telegram HTML parse mode.
func esc(s string) string {
	return html.EscapeString(s)
}
