// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package bib queries the DBLP bibliographic index and returns candidate
// records for papers matching a keyword, venue, and year.
package bib

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/pdiddy/paper-harvester/internal/httputil"
	"github.com/pdiddy/paper-harvester/pkg/types"
)

// dblpAPIBase is the DBLP publication search endpoint. Declared as a var so
// tests can substitute an httptest server.
var dblpAPIBase = "https://dblp.org/search/publ/api"

const defaultMaxHits = 1000

// Output holds the discovered records and any per-year query errors.
type Output struct {
	// Records lists all matching candidates: the target year's hits first,
	// then the previous year's, each preserving server response order.
	Records []types.CandidateRecord

	// YearErrors describes year queries that failed. A failed year is
	// isolated: it contributes zero records and does not abort the search.
	YearErrors []string
}

// Search queries DBLP for papers whose title contains keyword and whose
// declared venue contains venue. Both year and year-1 are queried, one
// request each, because proceedings often lag behind the stated year.
//
// Records are not deduplicated across the two years: a title indexed under
// both years produces two independent records.
func Search(ctx context.Context, client *http.Client, keyword, venue string, year int, cfg types.SearchConfig, w io.Writer) Output {
	var out Output
	for _, y := range []int{year, year - 1} {
		fmt.Fprintf(w, "searching DBLP for %q papers from %s %d...\n", keyword, venue, y)
		records, err := searchYear(ctx, client, keyword, venue, y, cfg)
		if err != nil {
			msg := fmt.Sprintf("year %d: %v", y, err)
			out.YearErrors = append(out.YearErrors, msg)
			fmt.Fprintf(w, "warning: DBLP query failed for %s\n", msg)
			continue
		}
		fmt.Fprintf(w, "found %d papers from %d\n", len(records), y)
		out.Records = append(out.Records, records...)
	}
	return out
}

// searchYear issues one DBLP query and filters the hits.
func searchYear(ctx context.Context, client *http.Client, keyword, venue string, year int, cfg types.SearchConfig) ([]types.CandidateRecord, error) {
	maxHits := cfg.MaxResults
	if maxHits <= 0 {
		maxHits = defaultMaxHits
	}

	params := url.Values{
		"q":      {fmt.Sprintf("%s venue:%s year:%d", keyword, venue, year)},
		"format": {"json"},
		"h":      {fmt.Sprintf("%d", maxHits)},
		"f":      {"0"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, dblpAPIBase+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", cfg.UserAgent)

	resp, err := httputil.DoWithRetry(ctx, client, req, 0)
	if err != nil {
		return nil, fmt.Errorf("DBLP API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("DBLP API returned HTTP %d", resp.StatusCode)
	}

	var dr dblpResponse
	if err := json.NewDecoder(resp.Body).Decode(&dr); err != nil {
		return nil, fmt.Errorf("parsing DBLP response: %w", err)
	}

	keywordLower := strings.ToLower(keyword)
	venueLower := strings.ToLower(venue)

	var records []types.CandidateRecord
	for _, hit := range dr.Result.Hits.Hit {
		info := hit.Info
		if !strings.Contains(strings.ToLower(info.Title), keywordLower) {
			continue
		}
		if !strings.Contains(strings.ToLower(info.Venue), venueLower) {
			continue
		}
		records = append(records, types.CandidateRecord{
			Title:   info.Title,
			Authors: info.Authors.Names,
			Year:    info.Year,
			Venue:   info.Venue,
			URL:     info.URL,
			EE:      info.EE,
			Key:     info.Key,
			DOI:     info.DOI,
			Source:  types.SourceDBLP,
		})
	}
	return records, nil
}

// DBLP API JSON structures.
type dblpResponse struct {
	Result struct {
		Hits struct {
			Hit []dblpHit `json:"hit"`
		} `json:"hits"`
	} `json:"result"`
}

type dblpHit struct {
	Info dblpInfo `json:"info"`
}

type dblpInfo struct {
	Title   string      `json:"title"`
	Authors dblpAuthors `json:"authors"`
	Year    string      `json:"year"`
	Venue   string      `json:"venue"`
	URL     string      `json:"url"`
	EE      string      `json:"ee"`
	Key     string      `json:"key"`
	DOI     string      `json:"doi"`
}
