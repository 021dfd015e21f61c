// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package download

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pdiddy/paper-harvester/pkg/types"
)

const fakePDFContent = "%PDF-1.4 fake pdf body"

func testCandidate() types.CandidateRecord {
	return types.CandidateRecord{
		Title:   "Knowledge Graph Embeddings at Scale.",
		Authors: []string{"Alice Smith", "Bob Jones"},
		Year:    "2025",
		Venue:   "AAAI",
		URL:     "https://dblp.org/rec/conf/aaai/SmithJ25",
		Key:     "conf/aaai/SmithJ25",
		Source:  types.SourceDBLP,
	}
}

func testDownloadConfig(dir string) types.DownloadConfig {
	return types.DownloadConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   5 * time.Second,
			UserAgent: "paper-harvester-test/0.1",
		},
		OutputDir: dir,
		// No politeness sleeping in tests.
		DownloadDelay: 0,
	}
}

func TestSanitizeTitle(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"spaces to hyphens", "Deep Learning for Graphs", "Deep-Learning-for-Graphs"},
		{"punctuation dropped", "Graphs: A Survey!", "Graphs-A-Survey"},
		{"hyphen runs collapsed", "state -- of -- the art", "state-of-the-art"},
		{"truncated to 80", strings.Repeat("a", 100), strings.Repeat("a", 80)},
		{"edges trimmed", "  Wrapped Title  ", "Wrapped-Title"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeTitle(tt.input); got != tt.want {
				t.Errorf("SanitizeTitle(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestArtifactName(t *testing.T) {
	got := ArtifactName(7, "Graphs: A Survey")
	if got != "007_Graphs-A-Survey.pdf" {
		t.Errorf("ArtifactName = %q", got)
	}
}

func TestFetchAndStoreSuccess(t *testing.T) {
	fetches := 0
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fetches++
		w.Header().Set("Content-Type", "application/pdf")
		fmt.Fprint(w, fakePDFContent)
	}))
	defer ts.Close()

	dir := t.TempDir()
	src := &types.ResolvedSource{URL: ts.URL + "/2502.09999.pdf", Provenance: types.ProvenanceArxiv}

	var buf bytes.Buffer
	outcome, skipped := FetchAndStore(context.Background(), ts.Client(), testCandidate(), src, 1, testDownloadConfig(dir), &buf)
	if !outcome.Succeeded {
		t.Fatalf("outcome = %+v, want success", outcome)
	}
	if skipped {
		t.Error("skipped = true on first download")
	}
	if fetches != 1 {
		t.Errorf("fetches = %d, want 1", fetches)
	}

	pdfPath := filepath.Join(dir, ArtifactName(1, testCandidate().Title))
	data, err := os.ReadFile(pdfPath)
	if err != nil {
		t.Fatalf("artifact missing: %v", err)
	}
	if string(data) != fakePDFContent {
		t.Errorf("artifact content = %q", data)
	}

	metaData, err := os.ReadFile(filepath.Join(dir, MetadataName(1)))
	if err != nil {
		t.Fatalf("metadata missing: %v", err)
	}
	var meta map[string]any
	if err := json.Unmarshal(metaData, &meta); err != nil {
		t.Fatalf("metadata parse: %v", err)
	}
	if meta["title"] != testCandidate().Title {
		t.Errorf("metadata title = %v", meta["title"])
	}
	if meta["download_source"] != string(types.ProvenanceArxiv) {
		t.Errorf("metadata download_source = %v", meta["download_source"])
	}
	if meta["download_url"] != src.URL {
		t.Errorf("metadata download_url = %v", meta["download_url"])
	}
	if _, err := time.Parse(time.RFC3339, meta["download_date"].(string)); err != nil {
		t.Errorf("download_date not RFC 3339: %v", meta["download_date"])
	}
}

// A second call for the same candidate and index must not touch the network.
func TestFetchAndStoreIdempotent(t *testing.T) {
	fetches := 0
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fetches++
		fmt.Fprint(w, fakePDFContent)
	}))
	defer ts.Close()

	dir := t.TempDir()
	cfg := testDownloadConfig(dir)
	src := &types.ResolvedSource{URL: ts.URL + "/p.pdf", Provenance: types.ProvenanceDirectLink}

	var buf bytes.Buffer
	if outcome, _ := FetchAndStore(context.Background(), ts.Client(), testCandidate(), src, 3, cfg, &buf); !outcome.Succeeded {
		t.Fatalf("first call failed: %+v", outcome)
	}
	outcome, skipped := FetchAndStore(context.Background(), ts.Client(), testCandidate(), src, 3, cfg, &buf)
	if !outcome.Succeeded || !skipped {
		t.Fatalf("second call = (%+v, skipped=%v), want skipped success", outcome, skipped)
	}
	if fetches != 1 {
		t.Errorf("fetches = %d, want exactly 1 across both calls", fetches)
	}
}

func TestFetchAndStoreNoSource(t *testing.T) {
	dir := t.TempDir()
	var buf bytes.Buffer
	outcome, _ := FetchAndStore(context.Background(), http.DefaultClient, testCandidate(), nil, 2, testDownloadConfig(dir), &buf)
	if outcome.Succeeded {
		t.Fatal("outcome succeeded with no source")
	}
	if outcome.Reason == "" {
		t.Error("failure reason is empty")
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("output dir not empty: %v", entries)
	}
}

func TestFetchAndStoreForbidden(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "forbidden", http.StatusForbidden)
	}))
	defer ts.Close()

	dir := t.TempDir()
	src := &types.ResolvedSource{URL: ts.URL + "/p.pdf", Provenance: types.ProvenanceBroadLink}

	var buf bytes.Buffer
	outcome, _ := FetchAndStore(context.Background(), ts.Client(), testCandidate(), src, 4, testDownloadConfig(dir), &buf)
	if outcome.Succeeded {
		t.Fatal("outcome succeeded on 403")
	}
	want := fmt.Sprintf("403 Forbidden from %s", types.ProvenanceBroadLink)
	if outcome.Reason != want {
		t.Errorf("reason = %q, want %q", outcome.Reason, want)
	}
	if outcome.URL != src.URL {
		t.Errorf("outcome URL = %q, want %q", outcome.URL, src.URL)
	}
	if _, err := os.Stat(filepath.Join(dir, ArtifactName(4, testCandidate().Title))); !os.IsNotExist(err) {
		t.Error("artifact exists after 403")
	}
}

func TestFetchAndStoreServerError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer ts.Close()

	dir := t.TempDir()
	src := &types.ResolvedSource{URL: ts.URL + "/p.pdf", Provenance: types.ProvenanceArxiv}

	var buf bytes.Buffer
	outcome, _ := FetchAndStore(context.Background(), ts.Client(), testCandidate(), src, 5, testDownloadConfig(dir), &buf)
	if outcome.Succeeded {
		t.Fatal("outcome succeeded on 500")
	}
	if !strings.Contains(outcome.Reason, "HTTP 500") {
		t.Errorf("reason = %q, want HTTP 500 mention", outcome.Reason)
	}

	// No partial artifact and no stray temp file may remain.
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("output dir not empty after failure: %v", entries)
	}
}

// Non-PDF content type is a warning only; the body is still written.
func TestFetchAndStoreNonPDFContentType(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, "<html>not a pdf</html>")
	}))
	defer ts.Close()

	dir := t.TempDir()
	src := &types.ResolvedSource{URL: ts.URL + "/landing", Provenance: types.ProvenanceBroadLink}

	var buf bytes.Buffer
	outcome, _ := FetchAndStore(context.Background(), ts.Client(), testCandidate(), src, 6, testDownloadConfig(dir), &buf)
	if !outcome.Succeeded {
		t.Fatalf("outcome = %+v, want success despite content type", outcome)
	}
	if _, err := os.Stat(filepath.Join(dir, ArtifactName(6, testCandidate().Title))); err != nil {
		t.Errorf("artifact missing: %v", err)
	}
}
