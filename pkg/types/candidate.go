// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the paper-harvester pipeline:
// candidate records discovered on the bibliographic index, resolved download
// sources with provenance, per-download outcomes, and stage configuration.
package types

// SourceDBLP tags candidate records discovered on the DBLP index.
const SourceDBLP = "DBLP"

// CandidateRecord is one publication discovered on the bibliographic index.
// Records are immutable once constructed; the same title discovered in two
// queried years yields two independent records (no deduplication).
type CandidateRecord struct {
	// Title is the paper title as returned by the index.
	Title string `json:"title" yaml:"title"`

	// Authors lists the paper authors in index order.
	Authors []string `json:"authors" yaml:"authors"`

	// Year is the publication year as declared by the index.
	Year string `json:"year" yaml:"year"`

	// Venue is the venue string as declared by the index.
	Venue string `json:"venue" yaml:"venue"`

	// URL is the canonical record URL on the index.
	URL string `json:"url" yaml:"url"`

	// EE is the index's electronic-edition pointer. It may be a direct PDF,
	// a paywalled DOI, or a publisher landing page; it may be empty.
	EE string `json:"ee" yaml:"ee"`

	// Key is the index's unique record key.
	Key string `json:"key" yaml:"key"`

	// DOI is the record DOI, when the index provides one.
	DOI string `json:"doi" yaml:"doi"`

	// Source identifies the index that produced this record.
	Source string `json:"source" yaml:"source"`
}
