// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package download fetches chosen sources and persists artifacts plus
// metadata. Writes are atomic-or-absent: a failed transfer never leaves a
// partial file that a rerun could mistake for a completed download.
package download

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"github.com/pdiddy/paper-harvester/pkg/types"
)

// ErrForbidden marks an HTTP 403 from the source. Forbidden sources are
// recorded with a distinct reason and never retried.
var ErrForbidden = errors.New("access forbidden (HTTP 403)")

// slugLimit caps the sanitized title portion of artifact filenames.
const slugLimit = 80

// metadata is the sibling record persisted next to each artifact.
type metadata struct {
	types.CandidateRecord

	DownloadSource types.Provenance `json:"download_source"`
	DownloadURL    string           `json:"download_url"`
	DownloadDate   string           `json:"download_date"`
}

// FetchAndStore downloads the chosen source for a candidate and persists
// the artifact and its metadata record. index is the candidate's 1-based
// position in the run and fixes the artifact filename.
//
// When the artifact already exists at its deterministic path the download
// is skipped and the outcome reports success without any network call.
// A nil src records a failure outcome: the policy found no usable URL.
func FetchAndStore(ctx context.Context, client *http.Client, candidate types.CandidateRecord, src *types.ResolvedSource, index int, cfg types.DownloadConfig, w io.Writer) (outcome types.DownloadOutcome, skipped bool) {
	outcome = types.DownloadOutcome{Index: index, Title: candidate.Title}

	pdfPath := filepath.Join(cfg.OutputDir, ArtifactName(index, candidate.Title))

	if _, err := os.Stat(pdfPath); err == nil {
		fmt.Fprintf(w, "  already downloaded: %s\n", filepath.Base(pdfPath))
		outcome.Succeeded = true
		return outcome, true
	}

	if src == nil {
		fmt.Fprintln(w, "  no accessible PDF found")
		outcome.Reason = "No accessible PDF URL found"
		return outcome, false
	}
	outcome.URL = src.URL

	fmt.Fprintf(w, "  downloading from %s: %s\n", src.Provenance, src.URL)

	if err := fetch(ctx, client, src.URL, pdfPath, cfg); err != nil {
		if errors.Is(err, ErrForbidden) {
			fmt.Fprintln(w, "  access forbidden (403)")
			outcome.Reason = fmt.Sprintf("403 Forbidden from %s", src.Provenance)
			return outcome, false
		}
		fmt.Fprintf(w, "  error downloading: %v\n", err)
		outcome.Reason = err.Error()
		return outcome, false
	}

	if err := writeMetadata(candidate, src, index, cfg.OutputDir); err != nil {
		// The artifact is in place; surface the metadata fault as a failure
		// so the run report shows it.
		fmt.Fprintf(w, "  error writing metadata: %v\n", err)
		outcome.Reason = fmt.Sprintf("writing metadata: %v", err)
		return outcome, false
	}

	fmt.Fprintf(w, "  downloaded successfully: %s\n", filepath.Base(pdfPath))
	outcome.Succeeded = true

	if cfg.DownloadDelay > 0 {
		time.Sleep(cfg.DownloadDelay)
	}
	return outcome, false
}

// fetch streams url to destPath through a temporary file, renaming into
// place only after the full body has been written.
func fetch(ctx context.Context, client *http.Client, url, destPath string, cfg types.DownloadConfig) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", cfg.UserAgent)
	req.Header.Set("Accept", "application/pdf")

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("HTTP request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusForbidden {
		return fmt.Errorf("%s: %w", url, ErrForbidden)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("HTTP %d from %s", resp.StatusCode, url)
	}

	// Non-PDF content is a warning, not a failure; some hosts mislabel.
	contentType := resp.Header.Get("Content-Type")
	if !strings.Contains(strings.ToLower(contentType), "pdf") && !strings.HasSuffix(url, ".pdf") {
		fmt.Fprintf(os.Stderr, "warning: content might not be PDF (content-type: %s)\n", contentType)
	}

	if err := os.MkdirAll(filepath.Dir(destPath), 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	tmpFile, err := os.CreateTemp(filepath.Dir(destPath), ".harvest-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	_, copyErr := io.Copy(tmpFile, resp.Body)
	closeErr := tmpFile.Close()
	if copyErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("writing download: %w", copyErr)
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp file: %w", closeErr)
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}

// writeMetadata persists the candidate fields, chosen provenance, resolved
// URL, and a download timestamp next to the artifact.
func writeMetadata(candidate types.CandidateRecord, src *types.ResolvedSource, index int, outputDir string) error {
	m := metadata{
		CandidateRecord: candidate,
		DownloadSource:  src.Provenance,
		DownloadURL:     src.URL,
		DownloadDate:    time.Now().Format(time.RFC3339),
	}

	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling metadata: %w", err)
	}
	path := filepath.Join(outputDir, MetadataName(index))
	return os.WriteFile(path, data, 0o644)
}

// ArtifactName returns the deterministic artifact filename for a run index
// and title: a zero-padded 3-digit index plus the sanitized title.
func ArtifactName(index int, title string) string {
	return fmt.Sprintf("%03d_%s.pdf", index, SanitizeTitle(title))
}

// MetadataName returns the sibling metadata filename for a run index.
func MetadataName(index int) string {
	return fmt.Sprintf("%03d_metadata.json", index)
}

// SanitizeTitle derives the filename stem from a title: characters outside
// letters, digits, underscore, whitespace, and hyphen are dropped, the
// result is truncated to 80 characters, and runs of whitespace or hyphens
// collapse to a single hyphen.
func SanitizeTitle(title string) string {
	var kept strings.Builder
	for _, r := range title {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '-' || unicode.IsSpace(r) {
			kept.WriteRune(r)
		}
	}
	s := kept.String()
	if len(s) > slugLimit {
		s = s[:slugLimit]
	}

	var b strings.Builder
	hyphenPending := false
	for _, r := range s {
		if unicode.IsSpace(r) || r == '-' {
			hyphenPending = true
			continue
		}
		if hyphenPending && b.Len() > 0 {
			b.WriteRune('-')
		}
		hyphenPending = false
		b.WriteRune(r)
	}
	return b.String()
}
