package models

// --- Congressional stock disclosures ---

// CongressTrade represents one disclosed transaction from the House or
// Senate stock-watcher feeds. Field names follow the upstream JSON schema;
// House records carry "representative", Senate records carry "senator".
type CongressTrade struct {
	Representative  string `json:"representative,omitempty"`
	Senator         string `json:"senator,omitempty"`
	Ticker          string `json:"ticker"`
	AssetDescription string `json:"asset_description,omitempty"`
	Amount          string `json:"amount"`
	Type            string `json:"type"`
	TransactionDate string `json:"transaction_date"`
	DisclosureDate  string `json:"disclosure_date"`
	Comment         string `json:"comment,omitempty"`
}

// Member returns whichever chamber-specific name field is populated.
func (t CongressTrade) Member() string {
	if t.Representative != "" {
		return t.Representative
	}
	return t.Senator
}

// Date returns the transaction date, falling back to the disclosure date.
func (t CongressTrade) Date() string {
	if t.TransactionDate != "" {
		return t.TransactionDate
	}
	return t.DisclosureDate
}
