// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline orchestrates one harvest run: bibliographic search,
// per-candidate source resolution and download, and the final reports.
// Failures accumulate in the returned Result; nothing in a run is
// process-wide state.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/pdiddy/paper-harvester/internal/bib"
	"github.com/pdiddy/paper-harvester/internal/download"
	"github.com/pdiddy/paper-harvester/internal/history"
	"github.com/pdiddy/paper-harvester/internal/policy"
	"github.com/pdiddy/paper-harvester/internal/resolve"
	"github.com/pdiddy/paper-harvester/pkg/types"
)

// Params are the query parameters of one harvest run.
type Params struct {
	Keyword string
	Venue   string
	Year    int
}

// Result collects everything one run produced. Failures preserve append
// order, which matches candidate processing order.
type Result struct {
	Records    []types.CandidateRecord
	Outcomes   []types.DownloadOutcome
	Failures   []types.DownloadOutcome
	Downloaded int
	Skipped    int
	Failed     int
	YearErrors []string
	StartedAt  time.Time
}

// Total returns the number of candidates processed.
func (r Result) Total() int { return len(r.Outcomes) }

// Succeeded returns the number of successful outcomes, skips included.
func (r Result) Succeeded() int { return r.Downloaded + r.Skipped }

// Runner executes harvest runs. The search and resolve functions default
// to the real DBLP and arXiv clients; tests substitute fakes.
type Runner struct {
	Client  *http.Client
	Config  types.HarvestConfig
	History *history.Store // optional; nil disables run history
	Out     io.Writer

	search     func(ctx context.Context, p Params) bib.Output
	resolvePDF func(ctx context.Context, title string, authors []string) (string, error)
}

// NewRunner wires a Runner to the real index clients.
func NewRunner(client *http.Client, cfg types.HarvestConfig, hist *history.Store, out io.Writer) *Runner {
	r := &Runner{
		Client:  client,
		Config:  cfg,
		History: hist,
		Out:     out,
	}
	r.search = func(ctx context.Context, p Params) bib.Output {
		return bib.Search(ctx, r.Client, p.Keyword, p.Venue, p.Year, r.Config.Search, r.Out)
	}
	r.resolvePDF = func(ctx context.Context, title string, authors []string) (string, error) {
		return resolve.PDF(ctx, r.Client, title, authors, r.Config.Resolve, r.Out)
	}
	return r
}

// Run executes one harvest: search both years, then sequentially resolve,
// select, and download each candidate. Per-candidate errors are recorded
// and the run continues; only a failure to write the final reports is
// returned as an error.
func (r *Runner) Run(ctx context.Context, p Params) (Result, error) {
	result := Result{StartedAt: time.Now()}
	w := r.Out

	fmt.Fprintf(w, "Searching for %q in %s %d (and %d)\n", p.Keyword, p.Venue, p.Year, p.Year-1)

	searchOut := r.search(ctx, p)
	result.Records = searchOut.Records
	result.YearErrors = searchOut.YearErrors

	fmt.Fprintf(w, "\nTotal papers found: %d\n", len(result.Records))
	if len(result.Records) == 0 {
		fmt.Fprintln(w, "No papers found.")
	}

	for i, candidate := range result.Records {
		index := i + 1
		fmt.Fprintf(w, "\n[%d/%d] Processing: %s\n", index, len(result.Records), candidate.Title)

		resolved, err := r.resolvePDF(ctx, candidate.Title, candidate.Authors)
		if err != nil {
			// Resolution failure is not fatal; fall through to the
			// candidate's own links.
			fmt.Fprintf(w, "  warning: arXiv resolution failed: %v\n", err)
			resolved = ""
		}

		src := policy.Select(candidate, resolved)
		if src == nil && candidate.EE != "" && policy.IsPaywalled(candidate.EE) {
			fmt.Fprintln(w, "  skipping paywalled link (requires institutional access)")
		}

		outcome, skipped := download.FetchAndStore(ctx, r.Client, candidate, src, index, r.Config.Download, w)
		result.Outcomes = append(result.Outcomes, outcome)
		switch {
		case outcome.Succeeded && skipped:
			result.Skipped++
		case outcome.Succeeded:
			result.Downloaded++
		default:
			result.Failed++
			result.Failures = append(result.Failures, outcome)
		}

		fmt.Fprintf(w, "Progress: %d/%d processed, %d succeeded, %d failed\n",
			index, len(result.Records), result.Succeeded(), result.Failed)
	}

	if err := writeReports(result, r.Config.Download.OutputDir); err != nil {
		return result, fmt.Errorf("writing reports: %w", err)
	}
	if err := WriteManifest(r.Config.Download.OutputDir, p, r.Config, result); err != nil {
		return result, fmt.Errorf("writing run manifest: %w", err)
	}

	if r.History != nil {
		if _, err := r.History.RecordRun(p.Keyword, p.Venue, p.Year, result.StartedAt, result.Outcomes); err != nil {
			fmt.Fprintf(w, "warning: recording run history failed: %v\n", err)
		}
	}

	fmt.Fprintf(w, "\nDownload complete: %d/%d papers succeeded (%d downloaded, %d skipped, %d failed)\n",
		result.Succeeded(), result.Total(), result.Downloaded, result.Skipped, result.Failed)
	return result, nil
}
