// Package feed implements the inbound fetchers: congressional stock-trade
// disclosures and SEC EDGAR filing feeds. Fetchers return whatever the
// upstream currently publishes; deduplication against prior cycles is the
// pipeline's job.
package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/seenimoa/filingwatch/internal/infra"
	"github.com/seenimoa/filingwatch/pkg/models"
	"github.com/seenimoa/filingwatch/pkg/utils"
)

// Congress fetches one chamber's stock-watcher transaction dump and keeps
// only trades disclosed within the lookback window. The upstream files are
// full historical dumps, so the cutoff does the bulk of the filtering.
type Congress struct {
	name     string
	url      string
	daysBack int
	now      func() time.Time
}

// NewCongress creates a fetcher for one chamber's feed.
func NewCongress(name, url string, daysBack int) *Congress {
	return &Congress{name: name, url: url, daysBack: daysBack, now: time.Now}
}

// Name returns the feed name used in logs.
func (c *Congress) Name() string { return c.name }

// Fetch downloads the full transaction dump and returns trades with a
// disclosure date on or after the cutoff.
func (c *Congress) Fetch(ctx context.Context) ([]models.CongressTrade, error) {
	data, err := infra.FetchBytes(ctx, c.url, map[string]string{
		"Accept": "application/json",
	})
	if err != nil {
		return nil, fmt.Errorf("fetch %s feed: %w", c.name, err)
	}

	var trades []models.CongressTrade
	if err := json.Unmarshal(data, &trades); err != nil {
		return nil, fmt.Errorf("decode %s feed: %w", c.name, err)
	}

	cutoff := utils.CutoffDate(c.now(), c.daysBack)
	recent := trades[:0]
	for _, t := range trades {
		if t.DisclosureDate >= cutoff {
			recent = append(recent, t)
		}
	}
	return recent, nil
}
