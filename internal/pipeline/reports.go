// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pdiddy/paper-harvester/pkg/types"
)

// Report file names inside the output directory.
const (
	allPapersFile       = "all_papers.json"
	failedDownloadsFile = "failed_downloads.json"
	reportFile          = "download_report.txt"
)

// writeReports persists the aggregate run outputs: the complete candidate
// list, the failure list (only when non-empty), and the human-readable
// summary. A fault here is fatal to the run.
func writeReports(res Result, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	records := res.Records
	if records == nil {
		records = []types.CandidateRecord{}
	}
	if err := writeJSON(filepath.Join(dir, allPapersFile), records); err != nil {
		return err
	}

	if len(res.Failures) > 0 {
		if err := writeJSON(filepath.Join(dir, failedDownloadsFile), res.Failures); err != nil {
			return err
		}
	}

	return writeTextReport(res, filepath.Join(dir, reportFile))
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling %s: %w", filepath.Base(path), err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", filepath.Base(path), err)
	}
	return nil
}

// writeTextReport renders the run summary with per-failure detail.
func writeTextReport(res Result, path string) error {
	var b strings.Builder

	fmt.Fprintf(&b, "Download Report - %s\n", time.Now().Format("2006-01-02 15:04:05"))
	b.WriteString(strings.Repeat("=", 80) + "\n\n")

	fmt.Fprintf(&b, "Total papers found: %d\n", len(res.Records))
	fmt.Fprintf(&b, "Successfully downloaded: %d\n", res.Succeeded())
	fmt.Fprintf(&b, "Failed downloads: %d\n", res.Failed)
	for _, e := range res.YearErrors {
		fmt.Fprintf(&b, "Search error: %s\n", e)
	}

	if len(res.Failures) > 0 {
		b.WriteString("\nFailed Downloads:\n")
		b.WriteString(strings.Repeat("-", 80) + "\n")
		for _, f := range res.Failures {
			fmt.Fprintf(&b, "\n[%d] %s\n", f.Index, f.Title)
			fmt.Fprintf(&b, "    Reason: %s\n", f.Reason)
			if f.URL != "" {
				fmt.Fprintf(&b, "    URL: %s\n", f.URL)
			}
		}
	}

	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", filepath.Base(path), err)
	}
	return nil
}
