// Package pipeline orchestrates one polling cycle: fetch every feed,
// fingerprint every record, gate it through the feed's policy, deliver the
// alert, and persist state.
//
// A record is marked seen only after the notifier accepts every chunk of
// its alert. A crash between send and save therefore re-sends rather than
// silently drops: delivery is at-least-once, never at-most-once.
package pipeline

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/seenimoa/filingwatch/internal/filter"
	"github.com/seenimoa/filingwatch/internal/fingerprint"
	"github.com/seenimoa/filingwatch/internal/holdings"
	"github.com/seenimoa/filingwatch/internal/report"
	"github.com/seenimoa/filingwatch/internal/store"
	"github.com/seenimoa/filingwatch/pkg/models"
)

// TradeFetcher supplies congressional disclosures.
type TradeFetcher interface {
	Name() string
	Fetch(ctx context.Context) ([]models.CongressTrade, error)
}

// FilingFetcher supplies SEC filing feed entries.
type FilingFetcher interface {
	Name() string
	Fetch(ctx context.Context) ([]models.Filing, error)
}

// Notifier delivers one rendered alert. An error means the alert may not
// have reached the chat and the record must stay unseen.
type Notifier interface {
	Send(ctx context.Context, text string) error
}

// HoldingsParser extracts a position snapshot from a 13F filing.
type HoldingsParser interface {
	Fetch(ctx context.Context, indexURL, filer, reportDate string) (models.HoldingsSnapshot, error)
}

// Policy decides what happens to an unseen record.
type Policy int

const (
	// PolicyAlways alerts every unseen record.
	PolicyAlways Policy = iota
	// PolicySuppressTax drops tax-withholding trades; dropped records are
	// marked seen so they are never re-evaluated.
	PolicySuppressTax
	// PolicyNotableOnly alerts only records matching the notable-entity
	// watchlist; the rest are marked seen silently.
	PolicyNotableOnly
)

// CongressFeed binds one chamber's fetcher to its category and policy.
type CongressFeed struct {
	Category string // fingerprint prefix: "house", "senate"
	Chamber  string // display name in alerts
	Fetcher  TradeFetcher
	Policy   Policy
}

// FilingFeed binds one EDGAR fetcher to its category and policy.
// Holdings enables the 13F diff sub-pipeline for notable filers.
type FilingFeed struct {
	Category string
	Fetcher  FilingFetcher
	Policy   Policy
	Holdings bool
}

// Pipeline holds the feed table and the shared collaborators for a cycle.
type Pipeline struct {
	Congress []CongressFeed
	Filings  []FilingFeed

	Watchlist *filter.Watchlist
	Notifier  Notifier
	Seen      *store.SeenSet
	Snapshots *store.SnapshotStore
	Parser    HoldingsParser

	MaterialityPct float64
	TopN           int
}

// Stats counts what happened during one cycle.
type Stats struct {
	Fetched     int
	Sent        int
	AlreadySeen int
	Suppressed  int
	NotNotable  int
	Errors      int
	Tracked     int // total fingerprints after the cycle
}

// RunCycle processes every feed once, sequentially, and saves the seen set
// at the end. Feed and record failures are counted and logged, never fatal:
// a cycle always runs to completion.
func (p *Pipeline) RunCycle(ctx context.Context) (Stats, error) {
	var stats Stats
	logger := log.WithField("cycle", uuid.NewString()[:8])
	started := time.Now()

	for _, feed := range p.Congress {
		p.runCongressFeed(ctx, logger, feed, &stats)
		if ctx.Err() != nil {
			break
		}
	}
	for _, feed := range p.Filings {
		p.runFilingFeed(ctx, logger, feed, &stats)
		if ctx.Err() != nil {
			break
		}
	}

	stats.Tracked = p.Seen.Len()
	if err := p.Seen.Save(); err != nil {
		logger.WithError(err).Error("seen-set save failed, next cycle may re-alert")
		stats.Errors++
	}

	logger.WithFields(log.Fields{
		"sent":     stats.Sent,
		"fetched":  stats.Fetched,
		"tracked":  stats.Tracked,
		"errors":   stats.Errors,
		"duration": time.Since(started).Round(time.Millisecond).String(),
	}).Info("cycle complete")

	return stats, ctx.Err()
}

func (p *Pipeline) runCongressFeed(ctx context.Context, logger *log.Entry, feed CongressFeed, stats *Stats) {
	flog := logger.WithField("feed", feed.Category)

	trades, err := feed.Fetcher.Fetch(ctx)
	if err != nil {
		flog.WithError(err).Warn("feed fetch failed, zero records this cycle")
		stats.Errors++
		return
	}
	flog.WithField("records", len(trades)).Debug("feed fetched")
	stats.Fetched += len(trades)

	for _, trade := range trades {
		if ctx.Err() != nil {
			return
		}

		fp := fingerprint.ForTrade(feed.Category, trade)
		rlog := flog.WithField("fingerprint", fp)

		if p.Seen.Contains(fp) {
			stats.AlreadySeen++
			continue
		}
		if feed.Policy == PolicySuppressTax && p.Watchlist.Suppressed(trade) {
			p.Seen.Add(fp)
			stats.Suppressed++
			rlog.Debug("tax-withholding trade suppressed")
			continue
		}

		msg := report.CongressTrade(trade, feed.Chamber, p.Watchlist.VIP(trade.Member()))
		if err := p.Notifier.Send(ctx, msg); err != nil {
			rlog.WithError(err).Warn("delivery failed, will retry next cycle")
			stats.Errors++
			continue
		}
		p.Seen.Add(fp)
		stats.Sent++
		rlog.Info("alert sent")
	}
}

func (p *Pipeline) runFilingFeed(ctx context.Context, logger *log.Entry, feed FilingFeed, stats *Stats) {
	flog := logger.WithField("feed", feed.Category)

	filings, err := feed.Fetcher.Fetch(ctx)
	if err != nil {
		flog.WithError(err).Warn("feed fetch failed, zero records this cycle")
		stats.Errors++
		return
	}
	flog.WithField("records", len(filings)).Debug("feed fetched")
	stats.Fetched += len(filings)

	for _, filing := range filings {
		if ctx.Err() != nil {
			return
		}

		fp := fingerprint.ForFiling(feed.Category, filing)
		rlog := flog.WithField("fingerprint", fp)

		if p.Seen.Contains(fp) {
			stats.AlreadySeen++
			continue
		}

		notable := p.Watchlist.Notable(filing.Title)
		if feed.Policy == PolicyNotableOnly && !notable {
			p.Seen.Add(fp)
			stats.NotNotable++
			continue
		}

		if feed.Holdings {
			p.runHoldings(ctx, rlog, filing, fp, stats)
			continue
		}

		if err := p.Notifier.Send(ctx, report.Filing(filing, notable)); err != nil {
			rlog.WithError(err).Warn("delivery failed, will retry next cycle")
			stats.Errors++
			continue
		}
		p.Seen.Add(fp)
		stats.Sent++
		rlog.Info("alert sent")
	}
}

// runHoldings is the 13F sub-pipeline: parse the information table, diff it
// against the filer's stored snapshot, alert, then persist the snapshot.
// An unparseable filing still alerts via the fallback summary.
func (p *Pipeline) runHoldings(ctx context.Context, rlog *log.Entry, filing models.Filing, fp string, stats *Stats) {
	filer := filing.FilerName()
	hlog := rlog.WithField("filer", filer)

	snap, err := p.Parser.Fetch(ctx, filing.Link, filer, filing.Date)
	if errors.Is(err, holdings.ErrUnparseable) {
		hlog.WithError(err).Warn("holdings unparseable, sending fallback summary")
		if err := p.Notifier.Send(ctx, report.HoldingsFallback(filing)); err != nil {
			hlog.WithError(err).Warn("delivery failed, will retry next cycle")
			stats.Errors++
			return
		}
		p.Seen.Add(fp)
		stats.Sent++
		return
	}
	if err != nil {
		// Transient (cancellation, limiter): leave unseen and retry.
		hlog.WithError(err).Warn("holdings fetch failed, will retry next cycle")
		stats.Errors++
		return
	}

	prev, _ := p.Snapshots.Get(filer)
	changes := holdings.Compare(snap, prev, p.MaterialityPct)

	msg := report.HoldingsChanges(filing, snap, changes, p.TopN)
	if err := p.Notifier.Send(ctx, msg); err != nil {
		hlog.WithError(err).Warn("delivery failed, will retry next cycle")
		stats.Errors++
		return
	}
	p.Seen.Add(fp)
	stats.Sent++

	p.Snapshots.Upsert(filer, snap)
	if err := p.Snapshots.Save(); err != nil {
		hlog.WithError(err).Error("snapshot save failed, next diff may repeat changes")
		stats.Errors++
	}
	hlog.WithField("positions", len(snap.Positions)).Info("holdings alert sent")
}
