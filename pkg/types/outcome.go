// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Provenance labels which strategy supplied a resolved download URL. The
// label is retained in persisted metadata and in failure reports.
type Provenance string

const (
	// ProvenanceArxiv marks a URL found on the arXiv open-access index.
	ProvenanceArxiv Provenance = "arXiv"

	// ProvenanceDirectLink marks an electronic-edition pointer that already
	// is a direct PDF link.
	ProvenanceDirectLink Provenance = "DBLP direct link"

	// ProvenanceBroadLink marks an electronic-edition pointer of unknown
	// shape, attempted as a last resort.
	ProvenanceBroadLink Provenance = "DBLP EE link"
)

// ResolvedSource is the download URL chosen for a candidate, with the
// provenance of the strategy that produced it. At most one is chosen per
// candidate; the first successful strategy wins.
type ResolvedSource struct {
	URL        string     `json:"url" yaml:"url"`
	Provenance Provenance `json:"provenance" yaml:"provenance"`
}

// DownloadOutcome records the result of one download attempt. Index is the
// 1-based position of the candidate within the run and is stable across
// reruns of the same candidate list.
type DownloadOutcome struct {
	Index     int    `json:"index" yaml:"index"`
	Title     string `json:"title" yaml:"title"`
	Succeeded bool   `json:"succeeded" yaml:"succeeded"`

	// Reason describes the failure; empty on success.
	Reason string `json:"reason,omitempty" yaml:"reason,omitempty"`

	// URL is the source URL that was attempted, when one was chosen.
	URL string `json:"url,omitempty" yaml:"url,omitempty"`
}
