package models

// --- 13F institutional holdings ---

// HoldingsPosition is one line of a 13F information table.
// ValueUSD is in actual dollars; filings report values in thousands and the
// parser scales them before constructing a position.
type HoldingsPosition struct {
	PositionKey string `json:"position_key"` // first 6 chars of the CUSIP, upper-cased
	IssuerName  string `json:"issuer_name"`
	Shares      int64  `json:"shares"`
	ValueUSD    int64  `json:"value_usd"`
}

// HoldingsSnapshot is the full set of positions reported by one filer in one
// quarterly filing, keyed by PositionKey. Immutable once produced by the
// parser.
type HoldingsSnapshot struct {
	Filer      string                      `json:"filer"`
	ReportDate string                      `json:"report_date"`
	Positions  map[string]HoldingsPosition `json:"positions"`
}

// TotalValueUSD sums the reported value of every position.
func (s HoldingsSnapshot) TotalValueUSD() int64 {
	var total int64
	for _, p := range s.Positions {
		total += p.ValueUSD
	}
	return total
}

// PositionChange pairs a kept position with its signed percentage change
// against the previous snapshot.
type PositionChange struct {
	Position  HoldingsPosition `json:"position"`
	PrevValue int64            `json:"prev_value,omitempty"`
	ChangePct float64          `json:"change_pct,omitempty"`
}

// ChangeSet is the result of diffing two snapshots. Ephemeral: produced per
// diff and consumed by the formatter, never persisted.
type ChangeSet struct {
	New       []HoldingsPosition `json:"new"`
	Increased []PositionChange   `json:"increased"`
	Decreased []PositionChange   `json:"decreased"`
	Closed    []HoldingsPosition `json:"closed"`
}

// Empty reports whether the diff produced no material changes at all.
func (c ChangeSet) Empty() bool {
	return len(c.New) == 0 && len(c.Increased) == 0 &&
		len(c.Decreased) == 0 && len(c.Closed) == 0
}
