/*
Copyright (c) 2026 leakscout authors
*/

package cmd

import (
	"fmt"
	"os"

	"github.com/leakscout/leakscout/internal/app/interactive"
	"github.com/leakscout/leakscout/internal/app/triage"
	"github.com/leakscout/leakscout/internal/app/ui"
	appver "github.com/leakscout/leakscout/internal/version"
	"github.com/spf13/cobra"
)

var (
	version = appver.Value

	jsonOutput   bool
	htmlOutput   bool
	verbose      bool
	maxRecords   int
	analyzeLimit int
	runTimeout   int
	concurrency  int
)

var rootCmd = &cobra.Command{
	Use:   "leakscout [target]",
	Short: "leakscout is an automated leak-exposure triage tool that searches breach indexes for an email, domain, or IP address, classifies each exposed record by real-world risk, and produces a deterministic ranked report, without touching the leaked data beyond a bounded preview.",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) == 0 {
			interactive.RunInteractiveMode(cmd)
		} else {
			target := args[0]
			err := triage.RunTriage(target, triage.Options{
				JSONOutput:   jsonOutput,
				HTMLOutput:   htmlOutput,
				Verbose:      verbose,
				MaxRecords:   maxRecords,
				AnalyzeLimit: analyzeLimit,
				TimeoutSec:   runTimeout,
				Concurrency:  concurrency,
			})
			if err != nil {
				fmt.Printf("%sTriage failed: %v%s\n", ui.ColorRed, err, ui.ColorReset)
				os.Exit(1)
			}
		}
	},
}

func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.Version = version

	rootCmd.Flags().BoolVar(&jsonOutput, "json", false, "Save the report as JSON")
	rootCmd.Flags().BoolVar(&htmlOutput, "html", false, "Save the report as HTML")
	rootCmd.Flags().BoolVar(&verbose, "verbose", false, "Echo a redacted sample of each fetched preview")
	rootCmd.Flags().IntVar(&maxRecords, "limit", 0, "Maximum records to fetch from the leak index (default from policy: 20)")
	rootCmd.Flags().IntVar(&analyzeLimit, "analyze", 0, "Classify only the first N records; the rest are reported as UNKNOWN (0 = all)")
	rootCmd.Flags().IntVar(&runTimeout, "timeout", 0, "Whole-run deadline in seconds (default from policy: 300)")
	rootCmd.Flags().IntVar(&concurrency, "concurrency", 0, "Concurrent record workers (default from policy: 5)")

	rootCmd.Long = ui.AsciiArt + `
leakscout is a lightweight leak-exposure triage tool.

Usage:
   leakscout [target] [flags]

Example:
  leakscout alice@example.com
  leakscout example.com --limit 50 --json
  leakscout 203.0.113.7 --analyze 10

Environment:
  INTELX_KEY        Leak index API key (required)
  OPENAI_API_KEY    Classification API key (required)
  OPENAI_BASE_URL   Alternative OpenAI-compatible endpoint
  LLM_MODEL         Classification model (default: gpt-4o-mini)
  INTELX_BASE_URL   Alternative leak index endpoint

Flags:
  --json            Save the report as JSON
  --html            Save the report as HTML
  --verbose         Echo a redacted sample of each fetched preview
  --limit           Maximum records to fetch from the leak index
  --analyze         Classify only the first N records
  --timeout         Whole-run deadline in seconds
  --concurrency     Concurrent record workers

This tool is intended for assessing exposure of assets you own or have explicit permission to investigate.
`
}
