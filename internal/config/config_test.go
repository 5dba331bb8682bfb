package config

import (
	"os"
	"path/filepath"
	"testing"
)

// ── Load / Defaults ──

func TestLoadReturnsDefaults(t *testing.T) {
	envVars := []string{
		"FILINGWATCH_NOTIFY_TELEGRAM_TOKEN", "FILINGWATCH_NOTIFY_CHAT_ID",
		"TELEGRAM_TOKEN", "CHAT_ID",
	}
	for _, e := range envVars {
		os.Unsetenv(e)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	// Congressional defaults
	if cfg.Congress.DaysBack != 7 {
		t.Errorf("Congress.DaysBack: got %d, want 7", cfg.Congress.DaysBack)
	}
	if cfg.Congress.HouseURL == "" || cfg.Congress.SenateURL == "" {
		t.Error("congressional feed URLs should have defaults")
	}

	// EDGAR defaults
	if cfg.Edgar.RatePerSecond != 8 {
		t.Errorf("Edgar.RatePerSecond: got %d, want 8", cfg.Edgar.RatePerSecond)
	}
	if cfg.Edgar.UserAgent == "" {
		t.Error("Edgar.UserAgent must never be empty (SEC policy)")
	}
	if cfg.Edgar.Form4.DaysBack != 2 || cfg.Edgar.Form4.Count != 100 {
		t.Errorf("Edgar.Form4: got %+v, want {2 100}", cfg.Edgar.Form4)
	}
	if cfg.Edgar.Form13F.DaysBack != 7 || cfg.Edgar.Form13F.Count != 200 {
		t.Errorf("Edgar.Form13F: got %+v, want {7 200}", cfg.Edgar.Form13F)
	}

	// Watchlist defaults
	if len(cfg.Watchlist.Entities) == 0 {
		t.Error("Watchlist.Entities should default to the built-in list")
	}
	if len(cfg.Watchlist.TaxKeywords) == 0 {
		t.Error("Watchlist.TaxKeywords should default to the built-in list")
	}

	// Holdings defaults
	if cfg.Holdings.MaterialityPct != 25.0 {
		t.Errorf("Holdings.MaterialityPct: got %f, want 25.0", cfg.Holdings.MaterialityPct)
	}
	if cfg.Holdings.TopN != 8 {
		t.Errorf("Holdings.TopN: got %d, want 8", cfg.Holdings.TopN)
	}

	// Notify defaults
	if cfg.Notify.MaxMessageLen != 4096 {
		t.Errorf("Notify.MaxMessageLen: got %d, want 4096", cfg.Notify.MaxMessageLen)
	}
	if cfg.Notify.ChunkSize != 4000 {
		t.Errorf("Notify.ChunkSize: got %d, want 4000", cfg.Notify.ChunkSize)
	}
	if cfg.Notify.SendDelayMs != 1000 {
		t.Errorf("Notify.SendDelayMs: got %d, want 1000", cfg.Notify.SendDelayMs)
	}

	// Store defaults
	if cfg.Store.SeenFile == "" || cfg.Store.SnapshotsFile == "" {
		t.Error("store file paths should have defaults")
	}

	// Logging defaults
	if cfg.Logging.Level != "info" {
		t.Errorf("Logging.Level: got %q, want %q", cfg.Logging.Level, "info")
	}
	if cfg.Logging.Format != "text" {
		t.Errorf("Logging.Format: got %q, want %q", cfg.Logging.Format, "text")
	}
}

// ── LoadFromFile ──

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	cfgPath := filepath.Join(tmpDir, "test_config.yaml")
	content := []byte(`
congress:
  days_back: 14
edgar:
  rate_per_second: 5
  form4:
    days_back: 1
    count: 25
holdings:
  materiality_pct: 10.0
  top_n: 5
notify:
  chat_id: "-100123456"
logging:
  level: "debug"
  format: "json"
`)
	if err := os.WriteFile(cfgPath, content, 0644); err != nil {
		t.Fatalf("write temp config: %v", err)
	}

	os.Unsetenv("FILINGWATCH_NOTIFY_CHAT_ID")
	os.Unsetenv("CHAT_ID")

	cfg, err := LoadFromFile(cfgPath)
	if err != nil {
		t.Fatalf("LoadFromFile() error: %v", err)
	}
	if cfg.Congress.DaysBack != 14 {
		t.Errorf("Congress.DaysBack: got %d, want 14", cfg.Congress.DaysBack)
	}
	if cfg.Edgar.RatePerSecond != 5 {
		t.Errorf("Edgar.RatePerSecond: got %d, want 5", cfg.Edgar.RatePerSecond)
	}
	if cfg.Edgar.Form4.DaysBack != 1 || cfg.Edgar.Form4.Count != 25 {
		t.Errorf("Edgar.Form4: got %+v, want {1 25}", cfg.Edgar.Form4)
	}
	// Untouched sections keep their defaults.
	if cfg.Edgar.Form3.Count != 50 {
		t.Errorf("Edgar.Form3.Count: got %d, want default 50", cfg.Edgar.Form3.Count)
	}
	if cfg.Holdings.MaterialityPct != 10.0 {
		t.Errorf("Holdings.MaterialityPct: got %f, want 10.0", cfg.Holdings.MaterialityPct)
	}
	if cfg.Holdings.TopN != 5 {
		t.Errorf("Holdings.TopN: got %d, want 5", cfg.Holdings.TopN)
	}
	if cfg.Notify.ChatID != "-100123456" {
		t.Errorf("Notify.ChatID: got %q", cfg.Notify.ChatID)
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.Format != "json" {
		t.Errorf("Logging: got %+v", cfg.Logging)
	}
}

func TestLoadFromFileNotFound(t *testing.T) {
	_, err := LoadFromFile("/nonexistent/path/config.yaml")
	if err == nil {
		t.Error("LoadFromFile() with nonexistent path should return error")
	}
}

// ── overrideFromEnv ──

func TestOverrideFromEnv(t *testing.T) {
	cfg := &Config{}

	os.Setenv("FILINGWATCH_NOTIFY_TELEGRAM_TOKEN", "123456:prefixed-token-value")
	os.Setenv("CHAT_ID", "-10042")
	defer func() {
		os.Unsetenv("FILINGWATCH_NOTIFY_TELEGRAM_TOKEN")
		os.Unsetenv("CHAT_ID")
	}()

	overrideFromEnv(cfg)

	if cfg.Notify.TelegramToken != "123456:prefixed-token-value" {
		t.Errorf("TelegramToken: got %q", cfg.Notify.TelegramToken)
	}
	if cfg.Notify.ChatID != "-10042" {
		t.Errorf("ChatID: got %q", cfg.Notify.ChatID)
	}
}

func TestOverrideFromEnvPrefixedWins(t *testing.T) {
	cfg := &Config{}

	os.Setenv("FILINGWATCH_NOTIFY_TELEGRAM_TOKEN", "prefixed-token-long")
	os.Setenv("TELEGRAM_TOKEN", "bare-token-long")
	defer func() {
		os.Unsetenv("FILINGWATCH_NOTIFY_TELEGRAM_TOKEN")
		os.Unsetenv("TELEGRAM_TOKEN")
	}()

	overrideFromEnv(cfg)

	if cfg.Notify.TelegramToken != "prefixed-token-long" {
		t.Errorf("prefixed env var should win, got %q", cfg.Notify.TelegramToken)
	}
}

func TestOverrideFromEnvNoEnvSet(t *testing.T) {
	os.Unsetenv("FILINGWATCH_NOTIFY_TELEGRAM_TOKEN")
	os.Unsetenv("TELEGRAM_TOKEN")

	cfg := &Config{
		Notify: NotifyConfig{TelegramToken: "from-config"},
	}
	overrideFromEnv(cfg)

	if cfg.Notify.TelegramToken != "from-config" {
		t.Errorf("TelegramToken should stay as 'from-config' when env is unset, got %q", cfg.Notify.TelegramToken)
	}
}

// ── maskCred ──

func TestMaskCredShort(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"", "***"},
		{"a", "***"},
		{"abcd", "***"},
		{"12345678", "***"},
	}
	for _, tc := range tests {
		got := maskCred(tc.input)
		if got != tc.want {
			t.Errorf("maskCred(%q): got %q, want %q", tc.input, got, tc.want)
		}
	}
}

func TestMaskCredLong(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"123456789", "123...789"},
		{"123456:AAbbCCddEEffGG", "123...fGG"},
	}
	for _, tc := range tests {
		got := maskCred(tc.input)
		if got != tc.want {
			t.Errorf("maskCred(%q): got %q, want %q", tc.input, got, tc.want)
		}
	}
}

// ── CheckCredentials ──

func TestCheckCredentialsAllEmpty(t *testing.T) {
	for _, e := range []string{
		"FILINGWATCH_NOTIFY_TELEGRAM_TOKEN", "FILINGWATCH_NOTIFY_CHAT_ID",
		"TELEGRAM_TOKEN", "CHAT_ID",
	} {
		os.Unsetenv(e)
	}

	cfg := &Config{}
	statuses := CheckCredentials(cfg)

	if len(statuses) != 2 {
		t.Fatalf("CheckCredentials: got %d statuses, want 2", len(statuses))
	}
	for _, s := range statuses {
		if s.IsSet {
			t.Errorf("credential %q should not be set", s.Name)
		}
		if s.Source != CredSourceNone {
			t.Errorf("credential %q source: got %q, want %q", s.Name, s.Source, CredSourceNone)
		}
	}
}

func TestCheckCredentialsFromEnv(t *testing.T) {
	os.Setenv("TELEGRAM_TOKEN", "123456:env-token-value")
	defer os.Unsetenv("TELEGRAM_TOKEN")

	cfg := &Config{
		Notify: NotifyConfig{TelegramToken: "123456:env-token-value"},
	}
	statuses := CheckCredentials(cfg)

	for _, s := range statuses {
		if s.Name == "Telegram Bot Token" {
			if s.Source != CredSourceEnv {
				t.Errorf("Source: got %q, want %q", s.Source, CredSourceEnv)
			}
			if !s.IsSet {
				t.Error("token should be set")
			}
		}
	}
}

// ── Built-in defaults ──

func TestDefaultListsAreLowercase(t *testing.T) {
	for _, list := range [][]string{DefaultNotableEntities, DefaultVIPs, DefaultTaxKeywords} {
		for _, entry := range list {
			for _, r := range entry {
				if r >= 'A' && r <= 'Z' {
					t.Errorf("entry %q contains uppercase; matching assumes lowercase lists", entry)
				}
			}
		}
	}
}

// ── homeDir ──

func TestHomeDirReturnsNonEmpty(t *testing.T) {
	if homeDir() == "" {
		t.Error("homeDir() should not return empty string")
	}
}
