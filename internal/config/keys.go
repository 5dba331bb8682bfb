package config

import "os"

// CredentialSource represents where a credential comes from.
type CredentialSource string

const (
	CredSourceEnv    CredentialSource = "env"
	CredSourceConfig CredentialSource = "config"
	CredSourceNone   CredentialSource = "none"
)

// CredentialStatus represents the status of a delivery credential.
type CredentialStatus struct {
	Name   string           `json:"name"`
	Source CredentialSource `json:"source"`
	IsSet  bool             `json:"is_set"`
	Masked string           `json:"masked,omitempty"` // e.g., "123...abc"
}

// CheckCredentials returns the status of the Telegram delivery credentials.
func CheckCredentials(cfg *Config) []CredentialStatus {
	return []CredentialStatus{
		checkCred("Telegram Bot Token", cfg.Notify.TelegramToken,
			"FILINGWATCH_NOTIFY_TELEGRAM_TOKEN", "TELEGRAM_TOKEN"),
		checkCred("Telegram Chat ID", cfg.Notify.ChatID,
			"FILINGWATCH_NOTIFY_CHAT_ID", "CHAT_ID"),
	}
}

// checkCred checks if a credential is set and where it came from.
func checkCred(name, value string, envVars ...string) CredentialStatus {
	status := CredentialStatus{
		Name:  name,
		IsSet: value != "",
	}

	if value == "" {
		status.Source = CredSourceNone
		return status
	}

	status.Source = CredSourceConfig
	for _, e := range envVars {
		if os.Getenv(e) != "" {
			status.Source = CredSourceEnv
			break
		}
	}
	status.Masked = maskCred(value)
	return status
}

// maskCred masks a credential for display, showing only first 3 and last 3 chars.
func maskCred(value string) string {
	if len(value) <= 8 {
		return "***"
	}
	return value[:3] + "..." + value[len(value)-3:]
}

// --- Built-in watchlist defaults ---

// DefaultNotableEntities is the built-in watchlist of funds and investors
// whose filings are always worth surfacing. All entries are lowercase;
// matching is substring-based, so short entries can over-match (accepted).
var DefaultNotableEntities = []string{
	"berkshire hathaway",
	"warren buffett",
	"scion",
	"michael burry",
	"burry",
	"bill ackman",
	"pershing square",
	"carl icahn",
	"icahn enterprises",
	"bridgewater",
	"ray dalio",
	"renaissance technologies",
	"citadel",
	"ken griffin",
	"tiger global",
	"coatue",
	"greenlight",
	"david einhorn",
	"baupost",
	"seth klarman",
	"third point",
	"dan loeb",
	"elliott management",
	"paul singer",
	"appaloosa",
	"david tepper",
	"lone pine",
	"viking global",
	"millennium",
	"point72",
	"steve cohen",
	"two sigma",
	"de shaw",
	"aqr",
	"paulson",
	"john paulson",
	"soros",
	"george soros",
	"stanley druckenmiller",
	"duquesne",
	"bill miller",
	"bill gates",
	"cascade investment",
	"jeff bezos",
	"mark zuckerberg",
	"elon musk",
	"larry ellison",
	"jim simons",
	"chase coleman",
	"tiger cub",
	"sequoia",
	"a16z",
	"andreessen horowitz",
}

// DefaultVIPs highlights high-profile politicians in congressional alerts.
var DefaultVIPs = []string{
	"pelosi", "trump", "mcconnell", "schumer", "biden",
	"warren", "cruz", "ocasio-cortez", "aoc",
}

// DefaultTaxKeywords suppress routine tax-withholding transactions.
var DefaultTaxKeywords = []string{
	"tax", "withholding", "tax obligation", "tax liability", "tax withholding",
}
