// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/paper-harvester/pkg/types"
)

// manifestFile is the YAML run manifest written into the output directory.
const manifestFile = "harvest_run.yaml"

// Manifest is the on-disk record of one run: what was asked, how the run
// was configured, and how it went. It lets a later reader reproduce the
// run without consulting shell history.
type Manifest struct {
	Query   ManifestQuery   `yaml:"query"`
	Config  ManifestConfig  `yaml:"config"`
	Summary ManifestSummary `yaml:"summary"`
}

// ManifestQuery stores the run parameters.
type ManifestQuery struct {
	Keyword string `yaml:"keyword"`
	Venue   string `yaml:"venue"`
	Year    int    `yaml:"year"`
}

// ManifestConfig stores the effective configuration in readable form.
type ManifestConfig struct {
	OutputDir     string `yaml:"output_dir"`
	Timeout       string `yaml:"timeout"`
	ResolveDelay  string `yaml:"resolve_delay"`
	DownloadDelay string `yaml:"download_delay"`
}

// ManifestSummary stores the run statistics and a timestamp.
type ManifestSummary struct {
	TotalFound   int       `yaml:"total_found"`
	Downloaded   int       `yaml:"downloaded"`
	Skipped      int       `yaml:"skipped"`
	Failed       int       `yaml:"failed"`
	SearchErrors []string  `yaml:"search_errors,omitempty"`
	Timestamp    time.Time `yaml:"timestamp"`
}

// WriteManifest saves the run manifest into dir.
func WriteManifest(dir string, p Params, cfg types.HarvestConfig, res Result) error {
	m := Manifest{
		Query: ManifestQuery{
			Keyword: p.Keyword,
			Venue:   p.Venue,
			Year:    p.Year,
		},
		Config: ManifestConfig{
			OutputDir:     cfg.Download.OutputDir,
			Timeout:       cfg.Download.Timeout.String(),
			ResolveDelay:  cfg.Resolve.QueryDelay.String(),
			DownloadDelay: cfg.Download.DownloadDelay.String(),
		},
		Summary: ManifestSummary{
			TotalFound:   len(res.Records),
			Downloaded:   res.Downloaded,
			Skipped:      res.Skipped,
			Failed:       res.Failed,
			SearchErrors: res.YearErrors,
			Timestamp:    res.StartedAt,
		},
	}

	data, err := yaml.Marshal(&m)
	if err != nil {
		return fmt.Errorf("marshaling manifest: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, manifestFile), data, 0o644); err != nil {
		return fmt.Errorf("writing manifest: %w", err)
	}
	return nil
}

// ReadManifest loads a previously written run manifest.
func ReadManifest(dir string) (*Manifest, error) {
	data, err := os.ReadFile(filepath.Join(dir, manifestFile))
	if err != nil {
		return nil, err
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing manifest: %w", err)
	}
	return &m, nil
}
