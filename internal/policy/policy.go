// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package policy chooses the download source for a candidate record from
// the open-access resolver result and the fallback links embedded in the
// bibliographic record. Known-paywalled destinations are skipped outright
// rather than attempted.
package policy

import (
	"strings"

	"github.com/pdiddy/paper-harvester/pkg/types"
)

// Paywalled-venue URL patterns. An electronic-edition pointer matching one
// of these requires institutional access and is never attempted.
var paywalledPatterns = []string{
	"ojs.aaai.org",
	"doi.org/10.1609",
}

// directPDFPatterns identify electronic-edition pointers that already are
// direct content links.
var directPDFPatterns = []string{
	"arxiv.org/pdf",
}

// Select returns the download source for candidate, or nil when no usable
// URL exists. Strategy order, first hit wins:
//
//  1. the resolver's open-access URL, when present;
//  2. the candidate's electronic-edition pointer, when it already looks
//     like a direct PDF link;
//  3. the electronic-edition pointer as-is, unless it matches a paywalled
//     pattern, in which case it is skipped.
//
// resolved is the URL found by the open-access resolver ("" when absent).
func Select(candidate types.CandidateRecord, resolved string) *types.ResolvedSource {
	if resolved != "" {
		return &types.ResolvedSource{URL: resolved, Provenance: types.ProvenanceArxiv}
	}
	if candidate.EE == "" {
		return nil
	}
	if isDirectPDF(candidate.EE) {
		return &types.ResolvedSource{URL: candidate.EE, Provenance: types.ProvenanceDirectLink}
	}
	if IsPaywalled(candidate.EE) {
		return nil
	}
	return &types.ResolvedSource{URL: candidate.EE, Provenance: types.ProvenanceBroadLink}
}

// IsPaywalled reports whether a URL matches a known paywalled-venue pattern.
func IsPaywalled(u string) bool {
	for _, p := range paywalledPatterns {
		if strings.Contains(u, p) {
			return true
		}
	}
	return false
}

// isDirectPDF reports whether a URL already points at PDF content.
func isDirectPDF(u string) bool {
	if strings.HasSuffix(u, ".pdf") {
		return true
	}
	for _, p := range directPDFPatterns {
		if strings.Contains(u, p) {
			return true
		}
	}
	return false
}
