// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package policy

import (
	"testing"

	"github.com/pdiddy/paper-harvester/pkg/types"
)

func TestSelect(t *testing.T) {
	tests := []struct {
		name       string
		ee         string
		resolved   string
		wantURL    string
		wantSource types.Provenance
		wantNil    bool
	}{
		{
			name:       "resolver wins over direct link",
			ee:         "https://example.com/paper.pdf",
			resolved:   "http://arxiv.org/pdf/2502.09999v2",
			wantURL:    "http://arxiv.org/pdf/2502.09999v2",
			wantSource: types.ProvenanceArxiv,
		},
		{
			name:       "pdf suffix is a direct link",
			ee:         "https://example.com/paper.pdf",
			wantURL:    "https://example.com/paper.pdf",
			wantSource: types.ProvenanceDirectLink,
		},
		{
			name:       "arxiv pdf pattern is a direct link",
			ee:         "https://arxiv.org/pdf/2501.01234",
			wantURL:    "https://arxiv.org/pdf/2501.01234",
			wantSource: types.ProvenanceDirectLink,
		},
		{
			name:    "paywalled proceedings host is skipped",
			ee:      "https://ojs.aaai.org/index.php/AAAI/article/view/999",
			wantNil: true,
		},
		{
			name:    "paywalled doi prefix is skipped",
			ee:      "https://doi.org/10.1609/aaai.v39i1.12345",
			wantNil: true,
		},
		{
			name:       "other landing page attempted as broad link",
			ee:         "https://link.publisher.example/chapter/42",
			wantURL:    "https://link.publisher.example/chapter/42",
			wantSource: types.ProvenanceBroadLink,
		},
		{
			name:    "no ee and no resolver result",
			wantNil: true,
		},
		{
			name:       "resolver rescues paywalled ee",
			ee:         "https://ojs.aaai.org/index.php/AAAI/article/view/999",
			resolved:   "http://arxiv.org/pdf/2502.09999v2",
			wantURL:    "http://arxiv.org/pdf/2502.09999v2",
			wantSource: types.ProvenanceArxiv,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			candidate := types.CandidateRecord{Title: "Some Paper", EE: tt.ee}
			got := Select(candidate, tt.resolved)
			if tt.wantNil {
				if got != nil {
					t.Fatalf("Select = %+v, want nil", got)
				}
				return
			}
			if got == nil {
				t.Fatal("Select = nil, want a source")
			}
			if got.URL != tt.wantURL {
				t.Errorf("URL = %q, want %q", got.URL, tt.wantURL)
			}
			if got.Provenance != tt.wantSource {
				t.Errorf("Provenance = %q, want %q", got.Provenance, tt.wantSource)
			}
		})
	}
}

func TestIsPaywalled(t *testing.T) {
	if !IsPaywalled("https://doi.org/10.1609/aaai.v39i1.1") {
		t.Error("AAAI DOI prefix should be paywalled")
	}
	if IsPaywalled("https://doi.org/10.1145/123456") {
		t.Error("non-AAAI DOI should not be paywalled")
	}
}
