// FilingWatch — congressional trade and SEC filing alert pipeline.
//
// Main CLI entrypoint using cobra command framework.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/seenimoa/filingwatch/internal/config"
	"github.com/seenimoa/filingwatch/internal/pipeline"
	"github.com/seenimoa/filingwatch/internal/report"
)

// Build-time variables (set via -ldflags).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// Global config
var cfg *config.Config

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "filingwatch",
	Short: "FilingWatch — congressional trade and SEC filing alerts",
	Long: `FilingWatch polls congressional stock-trade disclosures and SEC EDGAR
filing feeds, deduplicates what it has already alerted, diffs quarterly 13F
holdings for notable investors, and pushes alerts to a Telegram chat.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Local .env is optional; real deployments set env vars directly.
		_ = godotenv.Load()

		var err error
		configFile, _ := cmd.Flags().GetString("config")
		if configFile != "" {
			cfg, err = config.LoadFromFile(configFile)
		} else {
			cfg, err = config.Load()
		}
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		if lvl, _ := cmd.Flags().GetString("log-level"); lvl != "" {
			cfg.Logging.Level = lvl
		}
		setupLogging(cfg.Logging)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file path (default: ./config/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "log level override (debug, info, warn, error)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(statusCmd)
}

func setupLogging(lc config.LoggingConfig) {
	lvl, err := log.ParseLevel(lc.Level)
	if err != nil {
		lvl = log.InfoLevel
	}
	log.SetLevel(lvl)

	if lc.Format == "json" {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
}

// --- Version Command ---

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("FilingWatch %s\n", version)
		fmt.Printf("  commit:  %s\n", commit)
		fmt.Printf("  built:   %s\n", date)
	},
}

// --- Run Command ---

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one polling cycle and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signalContext()
		defer stop()

		stats, err := pipeline.Build(cfg).RunCycle(ctx)
		if err != nil {
			return err
		}
		fmt.Println(report.CycleSummary(stats.Sent, stats.Tracked))
		return nil
	},
}

// --- Watch Command ---

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Poll continuously at the configured interval",
	Long: `Runs polling cycles strictly serially: a cycle finishes (or fails)
before the next interval starts. Stop with SIGINT/SIGTERM.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signalContext()
		defer stop()

		interval := time.Duration(cfg.Watch.IntervalMinutes) * time.Minute
		p := pipeline.Build(cfg)

		log.WithField("interval", interval.String()).Info("watch started")
		for {
			if _, err := p.RunCycle(ctx); err != nil {
				log.WithError(err).Info("watch stopping")
				return nil
			}

			select {
			case <-ctx.Done():
				log.Info("watch stopping")
				return nil
			case <-time.After(interval):
			}
		}
	},
}

// --- Status Command ---

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show configuration, credentials, and upstream reachability",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println("═══════════════════════════════════════")
		fmt.Println("  FilingWatch — System Status")
		fmt.Println("═══════════════════════════════════════")
		fmt.Printf("  Version:  %s (%s)\n", version, commit)
		fmt.Println()

		fmt.Println("  Configuration:")
		fmt.Printf("    EDGAR base:    %s (%d req/s)\n", cfg.Edgar.BaseURL, cfg.Edgar.RatePerSecond)
		fmt.Printf("    Watch every:   %d min\n", cfg.Watch.IntervalMinutes)
		fmt.Printf("    Watchlist:     %d entities, %d VIPs\n", len(cfg.Watchlist.Entities), len(cfg.Watchlist.VIPs))
		fmt.Printf("    Seen file:     %s\n", cfg.Store.SeenFile)
		fmt.Printf("    Snapshots:     %s\n", cfg.Store.SnapshotsFile)
		fmt.Println()

		fmt.Println("  Credentials:")
		for _, c := range config.CheckCredentials(cfg) {
			status := "❌ not set"
			if c.IsSet {
				status = fmt.Sprintf("✅ set (%s: %s)", c.Source, c.Masked)
			}
			fmt.Printf("    %-22s %s\n", c.Name+":", status)
		}
		fmt.Println()

		fmt.Println("  Upstream feeds:")
		for _, r := range pingUpstreams(cmd.Context()) {
			fmt.Printf("    %-22s %s\n", r.name+":", r.status)
		}

		fmt.Println("═══════════════════════════════════════")
		return nil
	},
}

type pingResult struct {
	name   string
	status string
}

// pingUpstreams checks every feed host concurrently. Status output only;
// the polling cycle itself never fans out.
func pingUpstreams(ctx context.Context) []pingResult {
	targets := []struct {
		name string
		url  string
	}{
		{"House feed", cfg.Congress.HouseURL},
		{"Senate feed", cfg.Congress.SenateURL},
		{"SEC EDGAR", cfg.Edgar.BaseURL + "?action=getcurrent&count=1&output=atom"},
		{"Telegram API", "https://api.telegram.org"},
	}

	results := make([]pingResult, len(targets))
	g, gctx := errgroup.WithContext(ctx)
	for i, target := range targets {
		g.Go(func() error {
			results[i] = pingResult{name: target.name, status: ping(gctx, target.url)}
			return nil
		})
	}
	_ = g.Wait()
	return results
}

func ping(ctx context.Context, url string) string {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return "❌ " + err.Error()
	}
	req.Header.Set("User-Agent", cfg.Edgar.UserAgent)

	started := time.Now()
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "❌ unreachable"
	}
	resp.Body.Close()
	return fmt.Sprintf("✅ %d (%s)", resp.StatusCode, time.Since(started).Round(time.Millisecond))
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}
