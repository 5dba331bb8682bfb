package pipeline

import (
	"time"

	"github.com/seenimoa/filingwatch/internal/config"
	"github.com/seenimoa/filingwatch/internal/feed"
	"github.com/seenimoa/filingwatch/internal/filter"
	"github.com/seenimoa/filingwatch/internal/holdings"
	"github.com/seenimoa/filingwatch/internal/infra"
	"github.com/seenimoa/filingwatch/internal/notify"
	"github.com/seenimoa/filingwatch/internal/store"
)

// Build assembles the full pipeline from configuration: loads the state
// stores, constructs every feed from the declarative table below, and wires
// a single shared EDGAR rate limiter through the fetchers and the 13F
// parser.
func Build(cfg *config.Config) *Pipeline {
	limiter := infra.NewRateLimiter(cfg.Edgar.RatePerSecond, time.Second)

	edgarFeed := func(category, formType string, fc config.FormFeedConfig) *feed.Edgar {
		return feed.NewEdgar(category, cfg.Edgar.BaseURL, cfg.Edgar.UserAgent, formType,
			feed.FormWindow{DaysBack: fc.DaysBack, Count: fc.Count}, limiter)
	}

	return &Pipeline{
		Congress: []CongressFeed{
			{
				Category: "house",
				Chamber:  "House",
				Fetcher:  feed.NewCongress("house", cfg.Congress.HouseURL, cfg.Congress.DaysBack),
				Policy:   PolicySuppressTax,
			},
			{
				Category: "senate",
				Chamber:  "Senate",
				Fetcher:  feed.NewCongress("senate", cfg.Congress.SenateURL, cfg.Congress.DaysBack),
				Policy:   PolicySuppressTax,
			},
		},
		Filings: []FilingFeed{
			{Category: "form3", Fetcher: edgarFeed("form3", "3", cfg.Edgar.Form3), Policy: PolicyAlways},
			{Category: "form4", Fetcher: edgarFeed("form4", "4", cfg.Edgar.Form4), Policy: PolicyAlways},
			{Category: "form5", Fetcher: edgarFeed("form5", "5", cfg.Edgar.Form5), Policy: PolicyAlways},
			{Category: "form13d", Fetcher: edgarFeed("form13d", "SC13D", cfg.Edgar.Form13D), Policy: PolicyAlways},
			{
				Category: "form13g",
				Fetcher: feed.NewMulti("form13g",
					edgarFeed("form13g", "SC13G", cfg.Edgar.Form13G),
					edgarFeed("form13g", "SC13G/A", cfg.Edgar.Form13GA),
				),
				Policy: PolicyAlways,
			},
			{
				Category: "form13f",
				Fetcher:  edgarFeed("form13f", "13F-HR", cfg.Edgar.Form13F),
				Policy:   PolicyNotableOnly,
				Holdings: true,
			},
		},

		Watchlist: filter.New(cfg.Watchlist.Entities, cfg.Watchlist.VIPs, cfg.Watchlist.TaxKeywords),
		Notifier: notify.NewTelegram(notify.Options{
			Token:         cfg.Notify.TelegramToken,
			ChatID:        cfg.Notify.ChatID,
			SendDelay:     time.Duration(cfg.Notify.SendDelayMs) * time.Millisecond,
			MaxMessageLen: cfg.Notify.MaxMessageLen,
			ChunkSize:     cfg.Notify.ChunkSize,
		}),
		Seen:      store.LoadSeen(cfg.Store.SeenFile),
		Snapshots: store.LoadSnapshots(cfg.Store.SnapshotsFile),
		Parser:    holdings.NewParser(cfg.Edgar.UserAgent, limiter),

		MaterialityPct: cfg.Holdings.MaterialityPct,
		TopN:           cfg.Holdings.TopN,
	}
}
