// Package holdings extracts position tables from 13F filings and diffs
// consecutive quarterly snapshots.
package holdings

import (
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/seenimoa/filingwatch/internal/infra"
	"github.com/seenimoa/filingwatch/pkg/models"
)

// ErrUnparseable reports that a filing's holdings could not be extracted:
// the index page had no information table, the XML did not decode, or the
// table decoded to zero positions. Callers fall back to a plain filing
// alert; a partial snapshot is never returned.
var ErrUnparseable = errors.New("holdings: filing not parseable")

// Parser downloads a 13F filing index and extracts its information table.
type Parser struct {
	userAgent string
	limiter   *infra.RateLimiter
}

// NewParser creates a 13F parser. The limiter is shared with the filing
// fetchers so all EDGAR traffic counts against one budget.
func NewParser(userAgent string, limiter *infra.RateLimiter) *Parser {
	return &Parser{userAgent: userAgent, limiter: limiter}
}

// Fetch downloads the filing index at indexURL, locates the information
// table XML and parses it into a snapshot. filer and reportDate carry the
// filing metadata through unchanged.
func (p *Parser) Fetch(ctx context.Context, indexURL, filer, reportDate string) (models.HoldingsSnapshot, error) {
	var snap models.HoldingsSnapshot

	tableURL, err := p.findInfoTableURL(ctx, indexURL)
	if err != nil {
		return snap, fmt.Errorf("%w: %v", ErrUnparseable, err)
	}

	if err := p.limiter.Wait(ctx); err != nil {
		return snap, err
	}
	data, err := infra.FetchBytes(ctx, tableURL, map[string]string{
		"User-Agent": p.userAgent,
	})
	if err != nil {
		return snap, fmt.Errorf("%w: fetch info table: %v", ErrUnparseable, err)
	}

	positions, err := parseInfoTable(data)
	if err != nil {
		return snap, fmt.Errorf("%w: %v", ErrUnparseable, err)
	}
	if len(positions) == 0 {
		return snap, fmt.Errorf("%w: info table has no positions", ErrUnparseable)
	}

	return models.HoldingsSnapshot{
		Filer:      filer,
		ReportDate: reportDate,
		Positions:  positions,
	}, nil
}

// findInfoTableURL scrapes the filing index page for the information table
// document. Hrefs containing "infotable" win; otherwise any .xml that is
// not the primary document cover page.
func (p *Parser) findInfoTableURL(ctx context.Context, indexURL string) (string, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return "", err
	}
	body, _, err := infra.DoGet(ctx, indexURL, map[string]string{
		"User-Agent": p.userAgent,
		"Accept":     "text/html",
	})
	if err != nil {
		return "", fmt.Errorf("fetch filing index: %w", err)
	}
	defer body.Close()

	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return "", fmt.Errorf("parse filing index HTML: %w", err)
	}

	var preferred, fallback string
	doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		lower := strings.ToLower(href)
		if !strings.HasSuffix(lower, ".xml") {
			return
		}
		if strings.Contains(lower, "infotable") {
			if preferred == "" {
				preferred = href
			}
			return
		}
		if fallback == "" && !strings.Contains(lower, "primary_doc") {
			fallback = href
		}
	})

	href := preferred
	if href == "" {
		href = fallback
	}
	if href == "" {
		return "", errors.New("no information table link on index page")
	}
	return resolveURL(indexURL, href)
}

func resolveURL(base, href string) (string, error) {
	baseURL, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("parse base URL %s: %w", base, err)
	}
	ref, err := url.Parse(href)
	if err != nil {
		return "", fmt.Errorf("parse href %s: %w", href, err)
	}
	return baseURL.ResolveReference(ref).String(), nil
}

// parseInfoTable decodes a 13F information table. Filers emit the table
// under varying namespaces and tag casing, so matching is on lowercased
// local names only. Positions missing issuer, shares or value are skipped;
// a missing CUSIP is tolerated and yields an empty identifier.
func parseInfoTable(data []byte) (map[string]models.HoldingsPosition, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	positions := make(map[string]models.HoldingsPosition)

	var cur *rawPosition
	var field string
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("decode info table XML: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			name := strings.ToLower(t.Name.Local)
			switch name {
			case "infotable":
				cur = &rawPosition{}
			case "nameofissuer", "cusip", "value", "sshprnamt":
				field = name
			default:
				field = ""
			}
		case xml.CharData:
			if cur == nil || field == "" {
				continue
			}
			text := strings.TrimSpace(string(t))
			if text == "" {
				continue
			}
			switch field {
			case "nameofissuer":
				cur.issuer += text
			case "cusip":
				cur.cusip += text
			case "value":
				cur.value += text
			case "sshprnamt":
				cur.shares += text
			}
		case xml.EndElement:
			name := strings.ToLower(t.Name.Local)
			if name == "infotable" && cur != nil {
				if pos, ok := cur.toPosition(); ok {
					positions[pos.PositionKey] = pos
				}
				cur = nil
			}
			field = ""
		}
	}

	return positions, nil
}

type rawPosition struct {
	issuer string
	cusip  string
	value  string
	shares string
}

// toPosition validates and converts one decoded entry. Reported values are
// in thousands of dollars, scaled here to whole dollars. The position key
// is the 6-char CUSIP issuer prefix, so share classes of one issuer
// collapse into a single position (last write wins).
func (r *rawPosition) toPosition() (models.HoldingsPosition, bool) {
	var pos models.HoldingsPosition

	if r.issuer == "" || r.shares == "" || r.value == "" {
		return pos, false
	}
	shares, err := parseAmount(r.shares)
	if err != nil {
		return pos, false
	}
	value, err := parseAmount(r.value)
	if err != nil {
		return pos, false
	}

	key := strings.ToUpper(r.cusip)
	if len(key) > 6 {
		key = key[:6]
	}

	return models.HoldingsPosition{
		PositionKey: key,
		IssuerName:  r.issuer,
		Shares:      shares,
		ValueUSD:    value * 1000,
	}, true
}

// parseAmount handles the integer fields, tolerating comma separators and
// the fractional share counts some filers report.
func parseAmount(s string) (int64, error) {
	s = strings.ReplaceAll(s, ",", "")
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	return int64(f), nil
}
