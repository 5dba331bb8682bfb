package report

import (
	"fmt"
	"strings"
	"testing"

	"github.com/seenimoa/filingwatch/pkg/models"
)

func TestCongressTrade(t *testing.T) {
	tr := models.CongressTrade{
		Representative:  "Jane Doe",
		Ticker:          "AAPL",
		Amount:          "$1,001 - $15,000",
		Type:            "purchase",
		TransactionDate: "2024-02-01",
		Comment:         "spouse account",
	}

	msg := CongressTrade(tr, "House", false)

	for _, want := range []string{
		"🏛 <b>CONGRESS</b>",
		"<b>Jane Doe</b>",
		"Ticker: <b>AAPL</b>",
		"Amount: $1,001 - $15,000",
		"Transaction date: 2024-02-01",
		"Chamber: House",
		"spouse account",
	} {
		if !strings.Contains(msg, want) {
			t.Errorf("message missing %q:\n%s", want, msg)
		}
	}
}

func TestCongressTradeVIPAndMissingFields(t *testing.T) {
	msg := CongressTrade(models.CongressTrade{Senator: "Famous Senator"}, "Senate", true)

	if !strings.Contains(msg, "VIP POLITICIAN") {
		t.Error("VIP prefix missing")
	}
	if strings.Contains(msg, "CONGRESS</b>") {
		t.Error("VIP message still carries the default prefix")
	}
	if !strings.Contains(msg, "Ticker: <b>N/A</b>") {
		t.Errorf("missing ticker should render as N/A:\n%s", msg)
	}
}

func TestCongressTradeEscapesHTML(t *testing.T) {
	tr := models.CongressTrade{Representative: "A <script> B", Ticker: "X&Y"}
	msg := CongressTrade(tr, "House", false)
	if strings.Contains(msg, "<script>") {
		t.Error("feed text not escaped")
	}
	if !strings.Contains(msg, "X&amp;Y") {
		t.Error("ampersand not escaped")
	}
}

func TestFilingEmojiPerForm(t *testing.T) {
	tests := []struct {
		formType string
		want     string
	}{
		{"3", "🆕 <b>NEW INSIDER</b>"},
		{"4", "📋 <b>INSIDER TRADING</b>"},
		{"5", "📅 <b>INSIDER ANNUAL</b>"},
		{"SC13D", "🚨 <b>ACTIVIST STAKE"},
		{"SC13G", "📊 <b>13G"},
		{"SC13G/A", "📊 <b>13G"},
		{"13F-HR", "💼 <b>13F"},
		{"8-K", "📄 <b>SEC FILING</b>"},
	}
	for _, tt := range tests {
		msg := Filing(models.Filing{Title: "t", Link: "https://x", Date: "2024-02-14", FormType: tt.formType}, false)
		if !strings.Contains(msg, tt.want) {
			t.Errorf("form %s: missing %q in:\n%s", tt.formType, tt.want, msg)
		}
	}
}

func TestFilingNotablePrefix(t *testing.T) {
	f := models.Filing{Title: "SC 13D - Icahn Carl C", Link: "https://x", Date: "2024-02-14", FormType: "SC13D"}

	msg := Filing(f, true)
	if !strings.HasPrefix(msg, "⭐️⭐️ <b>NOTABLE INVESTOR</b> ⭐️⭐️") {
		t.Errorf("notable prefix missing:\n%s", msg)
	}
	if !strings.Contains(msg, `<a href="https://x">`) {
		t.Error("filing link missing")
	}
}

func changeSet() models.ChangeSet {
	return models.ChangeSet{
		New: []models.HoldingsPosition{
			{IssuerName: "SMALL CO", ValueUSD: 1_000_000},
			{IssuerName: "BIG CO", ValueUSD: 2_000_000_000},
		},
		Increased: []models.PositionChange{
			{Position: models.HoldingsPosition{IssuerName: "UP CO", ValueUSD: 500_000_000}, PrevValue: 100_000_000, ChangePct: 400},
		},
		Decreased: []models.PositionChange{
			{Position: models.HoldingsPosition{IssuerName: "DOWN CO", ValueUSD: 60_000_000}, PrevValue: 100_000_000, ChangePct: -40},
		},
		Closed: []models.HoldingsPosition{
			{IssuerName: "GONE CO", ValueUSD: 75_000_000},
		},
	}
}

func TestHoldingsChanges(t *testing.T) {
	f := models.Filing{Link: "https://sec.gov/x", Date: "2024-02-14", FormType: "13F-HR"}
	snap := models.HoldingsSnapshot{
		Filer: "TEST CAPITAL LP",
		Positions: map[string]models.HoldingsPosition{
			"A": {ValueUSD: 2_001_000_000},
		},
	}

	msg := HoldingsChanges(f, snap, changeSet(), 8)

	for _, want := range []string{
		"<b>TEST CAPITAL LP</b>",
		"🆕 New positions (2)",
		"📈 Increased (1)",
		"📉 Decreased (1)",
		"❌ Closed (1)",
		"UP CO — $500.0M (+400%)",
		"DOWN CO — $60.0M (-40%)",
		`<a href="https://sec.gov/x">`,
	} {
		if !strings.Contains(msg, want) {
			t.Errorf("report missing %q:\n%s", want, msg)
		}
	}

	// New positions sorted by value descending.
	if strings.Index(msg, "BIG CO") > strings.Index(msg, "SMALL CO") {
		t.Error("new positions not sorted by value desc")
	}
}

func TestHoldingsChangesTopNTruncation(t *testing.T) {
	var cs models.ChangeSet
	for i := 0; i < 12; i++ {
		cs.New = append(cs.New, models.HoldingsPosition{
			IssuerName: fmt.Sprintf("CO %02d", i),
			ValueUSD:   int64(1000 * (i + 1)),
		})
	}

	msg := HoldingsChanges(models.Filing{}, models.HoldingsSnapshot{Filer: "F"}, cs, 8)

	if !strings.Contains(msg, "+4 more") {
		t.Errorf("remainder count missing:\n%s", msg)
	}
	if got := strings.Count(msg, "  • "); got != 8 {
		t.Errorf("rendered %d entries, want topN=8", got)
	}
}

func TestHoldingsChangesNoMaterialChanges(t *testing.T) {
	msg := HoldingsChanges(models.Filing{}, models.HoldingsSnapshot{Filer: "F"}, models.ChangeSet{}, 8)
	if !strings.Contains(msg, "No material changes") {
		t.Errorf("empty changeset should render the no-changes line:\n%s", msg)
	}
}

func TestHoldingsFallback(t *testing.T) {
	f := models.Filing{Title: "13F-HR - ODD FILER", Link: "https://sec.gov/y", Date: "2024-02-14", FormType: "13F-HR"}
	msg := HoldingsFallback(f)
	if !strings.Contains(msg, "Holdings detail unavailable") {
		t.Errorf("fallback notice missing:\n%s", msg)
	}
	if !strings.Contains(msg, "ODD FILER") {
		t.Error("title missing from fallback")
	}
}

func TestMoney(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{174_347_000_000, "$174.3B"},
		{23_571_000, "$23.6M"},
		{950_000, "$950.0K"},
		{420, "$420"},
	}
	for _, tt := range tests {
		if got := money(tt.in); got != tt.want {
			t.Errorf("money(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
