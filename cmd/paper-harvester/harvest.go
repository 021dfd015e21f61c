// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/paper-harvester/internal/history"
	"github.com/pdiddy/paper-harvester/internal/pipeline"
	"github.com/pdiddy/paper-harvester/pkg/types"
)

const (
	defaultKeyword = "knowledge graph"
	defaultVenue   = "AAAI"
	defaultYear    = 2025

	defaultTimeout       = 30 * time.Second
	defaultResolveDelay  = 500 * time.Millisecond
	defaultDownloadDelay = 2 * time.Second
	defaultUserAgent     = "paper-harvester/0.1"

	historyFile = "harvest.db"
)

var harvestCmd = &cobra.Command{
	Use:   "harvest",
	Short: "Search, resolve, and download papers for one keyword/venue/year",
	Long: `Harvest queries the bibliographic index for the target year and the year
before it, filters hits by keyword and venue, locates an openly accessible
PDF for each candidate (preferring the open-access index, then the
record's own links), and downloads everything it can into the output
directory along with per-paper metadata and aggregate reports.

Candidates whose only link points at a known paywalled host are skipped
rather than attempted.`,
	RunE: runHarvest,
}

func init() {
	harvestCmd.Flags().String("keyword", defaultKeyword, "keyword that must appear in the paper title")
	harvestCmd.Flags().String("venue", defaultVenue, "venue substring the record must declare")
	harvestCmd.Flags().Int("year", defaultYear, "target year (the previous year is searched too)")
	harvestCmd.Flags().String("output-dir", "papers", "directory for PDFs, metadata, and reports")
	harvestCmd.Flags().Duration("timeout", defaultTimeout, "HTTP timeout for all external calls")
	harvestCmd.Flags().Duration("resolve-delay", defaultResolveDelay, "politeness delay between open-access query variants")
	harvestCmd.Flags().Duration("download-delay", defaultDownloadDelay, "politeness delay after each successful download")
	harvestCmd.Flags().Bool("no-history", false, "disable the sqlite run-history store")

	rootCmd.AddCommand(harvestCmd)
}

func runHarvest(cmd *cobra.Command, args []string) error {
	keyword, _ := cmd.Flags().GetString("keyword")
	venue, _ := cmd.Flags().GetString("venue")
	year, _ := cmd.Flags().GetInt("year")
	outputDir, _ := cmd.Flags().GetString("output-dir")
	timeout, _ := cmd.Flags().GetDuration("timeout")
	resolveDelay, _ := cmd.Flags().GetDuration("resolve-delay")
	downloadDelay, _ := cmd.Flags().GetDuration("download-delay")
	noHistory, _ := cmd.Flags().GetBool("no-history")

	if keyword == "" || venue == "" {
		return fmt.Errorf("keyword and venue must be non-empty")
	}

	userAgent := defaultUserAgent
	if email := contactEmail(); email != "" {
		userAgent = fmt.Sprintf("%s (mailto:%s)", defaultUserAgent, email)
	}
	httpCfg := types.HTTPConfig{Timeout: timeout, UserAgent: userAgent}

	cfg := types.HarvestConfig{
		Search: types.SearchConfig{HTTPConfig: httpCfg},
		Resolve: types.ResolveConfig{
			HTTPConfig: httpCfg,
			QueryDelay: resolveDelay,
		},
		Download: types.DownloadConfig{
			HTTPConfig:    httpCfg,
			OutputDir:     outputDir,
			DownloadDelay: downloadDelay,
		},
	}

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	var hist *history.Store
	if !noHistory {
		var err error
		hist, err = history.Open(filepath.Join(outputDir, historyFile))
		if err != nil {
			return err
		}
		defer hist.Close()
	}

	client := &http.Client{Timeout: timeout}
	runner := pipeline.NewRunner(client, cfg, hist, os.Stdout)

	result, err := runner.Run(cmd.Context(), pipeline.Params{
		Keyword: keyword,
		Venue:   venue,
		Year:    year,
	})
	if err != nil {
		return err
	}

	if result.Failed > 0 {
		fmt.Fprintf(os.Stdout, "See %s and %s for failure details.\n",
			filepath.Join(outputDir, "failed_downloads.json"),
			filepath.Join(outputDir, "download_report.txt"))
	}
	return nil
}
