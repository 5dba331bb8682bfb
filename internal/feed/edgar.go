package feed

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/mmcdole/gofeed"
	log "github.com/sirupsen/logrus"

	"github.com/seenimoa/filingwatch/internal/infra"
	"github.com/seenimoa/filingwatch/pkg/models"
	"github.com/seenimoa/filingwatch/pkg/utils"
)

// Edgar fetches one form type from the SEC EDGAR "getcurrent" Atom feed.
// The feed is queried once per lookback day with a dateb stamp; entries
// repeat across pages and days, which is fine because the pipeline
// deduplicates on fingerprint anyway.
//
// All EDGAR fetchers share one rate limiter: the SEC caps clients at
// 10 req/s and expects a descriptive User-Agent on every request.
type Edgar struct {
	name     string
	baseURL  string
	formType string
	daysBack int
	count    int
	limiter  *infra.RateLimiter
	parser   *gofeed.Parser
	now      func() time.Time
}

// NewEdgar creates a fetcher for one EDGAR form-type query.
func NewEdgar(name, baseURL, userAgent, formType string, cfg FormWindow, limiter *infra.RateLimiter) *Edgar {
	parser := gofeed.NewParser()
	parser.UserAgent = userAgent
	return &Edgar{
		name:     name,
		baseURL:  baseURL,
		formType: formType,
		daysBack: cfg.DaysBack,
		count:    cfg.Count,
		limiter:  limiter,
		parser:   parser,
		now:      time.Now,
	}
}

// FormWindow sets the lookback depth and page size for one form query.
type FormWindow struct {
	DaysBack int
	Count    int
}

// Name returns the feed name used in logs.
func (e *Edgar) Name() string { return e.name }

// Fetch queries the getcurrent feed once per lookback day and aggregates
// the entries. A failed day is logged and skipped; only a fully failed
// fetch returns an error.
func (e *Edgar) Fetch(ctx context.Context) ([]models.Filing, error) {
	var filings []models.Filing
	var lastErr error
	failed := 0

	now := e.now()
	for daysAgo := 0; daysAgo < e.daysBack; daysAgo++ {
		stamp := utils.EdgarDateStamp(now.AddDate(0, 0, -daysAgo))

		if err := e.limiter.Wait(ctx); err != nil {
			return nil, err
		}
		feed, err := e.parser.ParseURLWithContext(e.queryURL(stamp), ctx)
		if err != nil {
			log.WithError(err).WithFields(log.Fields{
				"feed":  e.name,
				"dateb": stamp,
			}).Warn("EDGAR day query failed, skipping")
			lastErr = err
			failed++
			continue
		}

		for _, item := range feed.Items {
			if item.Link == "" {
				continue
			}
			filings = append(filings, models.Filing{
				Title:    item.Title,
				Link:     item.Link,
				Date:     utils.ISODate(item.Updated),
				FormType: e.formType,
			})
		}
	}

	if failed == e.daysBack && lastErr != nil {
		return nil, fmt.Errorf("EDGAR %s feed: %w", e.formType, lastErr)
	}
	return filings, nil
}

func (e *Edgar) queryURL(dateStamp string) string {
	q := url.Values{}
	q.Set("action", "getcurrent")
	q.Set("type", e.formType)
	q.Set("company", "")
	q.Set("dateb", dateStamp)
	q.Set("owner", "include")
	q.Set("start", "0")
	q.Set("count", strconv.Itoa(e.count))
	q.Set("output", "atom")
	return e.baseURL + "?" + q.Encode()
}

// Multi aggregates several Edgar fetchers under one feed name. Used for
// the 13G category, which queries both SC 13G and its amendments.
type Multi struct {
	name     string
	fetchers []*Edgar
}

// NewMulti combines fetchers into one feed.
func NewMulti(name string, fetchers ...*Edgar) *Multi {
	return &Multi{name: name, fetchers: fetchers}
}

// Name returns the feed name used in logs.
func (m *Multi) Name() string { return m.name }

// Fetch runs each underlying fetcher in order and concatenates results.
// One failing sub-feed does not discard the others' entries.
func (m *Multi) Fetch(ctx context.Context) ([]models.Filing, error) {
	var filings []models.Filing
	var lastErr error
	failed := 0

	for _, f := range m.fetchers {
		got, err := f.Fetch(ctx)
		if err != nil {
			lastErr = err
			failed++
			continue
		}
		filings = append(filings, got...)
	}

	if failed == len(m.fetchers) && lastErr != nil {
		return nil, lastErr
	}
	return filings, nil
}
