// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout. It applies to every external
	// call, search and resolution included, not just the artifact fetch.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "paper-harvester/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// SearchConfig holds settings for the bibliographic search stage.
type SearchConfig struct {
	HTTPConfig `yaml:",inline"`

	// MaxResults is the maximum number of hits requested per year query
	// (default 1000).
	MaxResults int `json:"max_results" yaml:"max_results"`
}

// ResolveConfig holds settings for the open-access resolution stage.
type ResolveConfig struct {
	HTTPConfig `yaml:",inline"`

	// MaxResults is the number of ranked results inspected per query
	// variant (default 5).
	MaxResults int `json:"max_results" yaml:"max_results"`

	// QueryDelay is the politeness delay between query variants sent to
	// the open-access index (default 500ms).
	QueryDelay time.Duration `json:"query_delay" yaml:"query_delay"`
}

// DownloadConfig holds settings for the download and persistence stage.
type DownloadConfig struct {
	HTTPConfig `yaml:",inline"`

	// OutputDir is the directory receiving PDFs, metadata, and reports.
	OutputDir string `json:"output_dir" yaml:"output_dir"`

	// DownloadDelay is the politeness delay applied after each successful
	// download (default 2s).
	DownloadDelay time.Duration `json:"download_delay" yaml:"download_delay"`
}

// HarvestConfig groups all stage configurations for one harvest run.
type HarvestConfig struct {
	Search   SearchConfig   `json:"search" yaml:"search"`
	Resolve  ResolveConfig  `json:"resolve" yaml:"resolve"`
	Download DownloadConfig `json:"download" yaml:"download"`
}
