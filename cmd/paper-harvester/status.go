// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/pdiddy/paper-harvester/internal/history"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show past harvest runs recorded in the output directory",
	Long: `Status reads the sqlite run history inside an output directory and
prints each recorded run with its query parameters and success counts,
most recent first, plus the failure details of the latest run.`,
	RunE: runStatus,
}

func init() {
	statusCmd.Flags().String("output-dir", "papers", "directory containing harvest.db")

	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	outputDir, _ := cmd.Flags().GetString("output-dir")

	dbPath := filepath.Join(outputDir, historyFile)
	if _, err := os.Stat(dbPath); err != nil {
		return fmt.Errorf("no run history at %s", dbPath)
	}

	hist, err := history.Open(dbPath)
	if err != nil {
		return err
	}
	defer hist.Close()

	runs, err := hist.Runs()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("No runs recorded.")
		return nil
	}

	fmt.Printf("%-4s  %-20s  %-30s  %-8s  %-6s  %-9s  %s\n",
		"Run", "Started", "Keyword", "Venue", "Year", "Succeeded", "Failed")
	for _, r := range runs {
		keyword := r.Keyword
		if len(keyword) > 30 {
			keyword = keyword[:27] + "..."
		}
		fmt.Printf("%-4d  %-20s  %-30s  %-8s  %-6d  %-9d  %d\n",
			r.ID, r.StartedAt.Format("2006-01-02 15:04:05"), keyword, r.Venue, r.Year, r.Succeeded, r.Failed)
	}

	latest := runs[0]
	if latest.Failed == 0 {
		return nil
	}
	failures, err := hist.Failures(latest.ID)
	if err != nil {
		return err
	}
	fmt.Printf("\nFailures in run %d:\n", latest.ID)
	for _, f := range failures {
		fmt.Printf("  [%d] %s\n      %s\n", f.Index, f.Title, f.Reason)
		if f.URL != "" {
			fmt.Printf("      %s\n", f.URL)
		}
	}
	return nil
}
