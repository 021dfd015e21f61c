// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package resolve locates openly accessible PDFs on the arXiv index for
// papers known only by title and author list. Title identity across the
// bibliographic and open-access indexes is fuzzy, so candidate entries are
// accepted through the match package rather than string equality.
package resolve

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode"

	"github.com/pdiddy/paper-harvester/internal/httputil"
	"github.com/pdiddy/paper-harvester/internal/match"
	"github.com/pdiddy/paper-harvester/pkg/types"
)

// arxivAPIBase is the arXiv search endpoint. Declared as a var so tests can
// substitute an httptest server.
var arxivAPIBase = "https://export.arxiv.org/api/query"

const (
	defaultMaxResults = 5

	// queryTitleLimit caps the cleaned title length sent to the API.
	queryTitleLimit = 100
)

// PDF searches arXiv for a paper matching title and returns a direct PDF
// URL, or "" when no sufficiently similar entry is found.
//
// Up to three query variants are tried in order: an exact-phrase title
// query, a bag-of-words title query, and (when authors is non-empty) the
// bag-of-words query narrowed by the first author's last name. For each
// variant the top ranked results are inspected and the first entry whose
// title matches wins. A politeness delay separates consecutive variants.
//
// Any transport or parse error aborts resolution for this title.
func PDF(ctx context.Context, client *http.Client, title string, authors []string, cfg types.ResolveConfig, w io.Writer) (string, error) {
	cleaned := cleanQueryTitle(title)
	if cleaned == "" {
		return "", nil
	}

	queries := []string{
		fmt.Sprintf("ti:%q", cleaned),
		"ti:" + cleaned,
	}
	if len(authors) > 0 {
		if last := lastName(authors[0]); last != "" {
			queries = append(queries, fmt.Sprintf("ti:%s AND au:%s", cleaned, last))
		}
	}

	for i, q := range queries {
		if i > 0 && cfg.QueryDelay > 0 {
			time.Sleep(cfg.QueryDelay)
		}
		pdfURL, err := queryOnce(ctx, client, q, title, cfg)
		if err != nil {
			return "", err
		}
		if pdfURL != "" {
			fmt.Fprintf(w, "  found on arXiv: %s\n", pdfURL)
			return pdfURL, nil
		}
	}
	return "", nil
}

// queryOnce issues one arXiv query and returns the PDF URL of the first
// entry whose title matches wantTitle, or "" when none does.
func queryOnce(ctx context.Context, client *http.Client, query, wantTitle string, cfg types.ResolveConfig) (string, error) {
	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}

	params := url.Values{
		"search_query": {query},
		"max_results":  {fmt.Sprintf("%d", maxResults)},
		"sortBy":       {"relevance"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, arxivAPIBase+"?"+params.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", cfg.UserAgent)

	resp, err := httputil.DoWithRetry(ctx, client, req, 0)
	if err != nil {
		return "", fmt.Errorf("arXiv API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("arXiv API returned HTTP %d", resp.StatusCode)
	}

	var feed arxivFeed
	if err := xml.NewDecoder(resp.Body).Decode(&feed); err != nil {
		return "", fmt.Errorf("parsing arXiv response: %w", err)
	}

	for _, entry := range feed.Entries {
		if !match.Titles(wantTitle, strings.TrimSpace(entry.Title)) {
			continue
		}
		if u := entryPDFURL(entry); u != "" {
			return u, nil
		}
	}
	return "", nil
}

// entryPDFURL returns the PDF URL for a feed entry. It prefers the link
// carrying the pdf title attribute; when the entry only exposes an abstract
// page URL, that URL is rewritten to the PDF pattern.
func entryPDFURL(entry arxivEntry) string {
	for _, link := range entry.Links {
		if link.Title == "pdf" && link.Href != "" {
			return absToPDF(link.Href)
		}
	}
	if entry.ID != "" && strings.Contains(entry.ID, "/abs/") {
		return absToPDF(entry.ID)
	}
	return ""
}

// absToPDF rewrites an abstract-page URL into a PDF URL. URLs that already
// point at the PDF endpoint pass through unchanged.
func absToPDF(u string) string {
	if strings.Contains(u, "/pdf/") {
		return u
	}
	return strings.Replace(u, "/abs/", "/pdf/", 1) + ".pdf"
}

// cleanQueryTitle strips punctuation from a title, collapses whitespace,
// and truncates it for use inside a query expression.
func cleanQueryTitle(title string) string {
	var b strings.Builder
	for _, r := range title {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
			b.WriteRune(r)
		} else {
			b.WriteRune(' ')
		}
	}
	cleaned := strings.Join(strings.Fields(b.String()), " ")
	if len(cleaned) > queryTitleLimit {
		cleaned = strings.TrimSpace(cleaned[:queryTitleLimit])
	}
	return cleaned
}

// lastName returns the final whitespace-separated token of a full name.
func lastName(full string) string {
	fields := strings.Fields(full)
	if len(fields) == 0 {
		return ""
	}
	return fields[len(fields)-1]
}

// arXiv Atom feed XML structures.
type arxivFeed struct {
	Entries []arxivEntry `xml:"entry"`
}

type arxivEntry struct {
	ID    string      `xml:"id"`
	Title string      `xml:"title"`
	Links []arxivLink `xml:"link"`
}

type arxivLink struct {
	Href  string `xml:"href,attr"`
	Title string `xml:"title,attr"`
	Type  string `xml:"type,attr"`
}
