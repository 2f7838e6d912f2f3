package output

import (
	"fmt"
	"strings"
	"sync"

	"github.com/leakscout/leakscout/internal/app/ui"
	msges "github.com/leakscout/leakscout/internal/messages"
	"github.com/leakscout/leakscout/internal/report"
)

var progressMu sync.Mutex

// The rewriting progress line is only useful on a terminal.
var progressEnabled = ui.IsTerminal()

// PrintTriageProgress updates the current record progress on the same line.
func PrintTriageProgress(current, total int, stage, label string) {
	if !progressEnabled {
		return
	}
	progressMu.Lock()
	defer progressMu.Unlock()

	if total <= 0 {
		fmt.Printf("\r [------------------------------] 0%% | %s [0/0]: %s\033[K", stage, label)
		return
	}

	percentage := float64(current) / float64(total) * 100
	// Truncate record labels to prevent line wrapping
	if len(label) > 50 {
		label = label[:47] + "..."
	}
	width := 30
	filled := int(float64(width) * (float64(current) / float64(total)))
	if filled > width {
		filled = width
	}
	bar := strings.Repeat("#", filled) + strings.Repeat("-", width-filled)
	fmt.Printf("\r [%s] %.0f%% | %s [%d/%d]: %s\033[K", bar, percentage, stage, current, total, label)
}

const previewEchoRunes = 100

// PrintPreviewEcho prints a redacted one-line sample of a fetched preview.
// Secrets are stripped before anything reaches the console.
func PrintPreviewEcho(source, content string) {
	progressMu.Lock()
	defer progressMu.Unlock()
	fmt.Printf("\r\033[K%s[%s] %s%s\n", ui.ColorGray, source, previewEchoLine(content), ui.ColorReset)
}

func previewEchoLine(content string) string {
	sample := report.SanitizeText(content)
	sample = strings.Join(strings.Fields(sample), " ")
	if runes := []rune(sample); len(runes) > previewEchoRunes {
		sample = string(runes[:previewEchoRunes])
	}
	return msges.GetUIMessage("PreviewEcho", sample)
}

func riskColor(r report.RiskLevel) string {
	switch r {
	case report.RiskHigh:
		return ui.ColorHigh
	case report.RiskMedium:
		return ui.ColorMedium
	case report.RiskLow:
		return ui.ColorLow
	case report.RiskUnknown:
		return ui.ColorUnknown
	default:
		return ui.ColorWhite
	}
}

// PrintReport prints the findings to the console with appropriate colors.
// Findings arrive already ordered by the aggregator.
func PrintReport(rep *report.Report) {
	s := rep.Summary

	fmt.Printf("\n%s%s%s\n", ui.ColorWhite,
		msges.GetUIMessage("ReportSummaryLine", s.Total, s.High, s.Medium, s.Low, s.Unknown), ui.ColorReset)

	if len(rep.Findings) == 0 {
		fmt.Printf("%s%s%s\n", ui.ColorGreen, msges.GetUIMessage("ReportNoFindings"), ui.ColorReset)
		return
	}

	fmt.Printf("\n%s%s%s\n", ui.ColorWhite, msges.GetUIMessage("ReportTitle"), ui.ColorReset)
	for _, f := range rep.Findings {
		color := riskColor(f.Risk)
		fmt.Printf("\n%s[%s] %s%s\n", color, f.Risk, f.Source, ui.ColorReset)
		fmt.Printf("%s - %s%s\n", ui.ColorGray, f.Summary, ui.ColorReset)

		date := "unknown date"
		if !f.Date.IsZero() {
			date = f.Date.Format("2006-01-02")
		}
		fmt.Printf("%s - %s | bucket: %s (%s)%s\n", ui.ColorGray, date, f.Bucket, f.Visibility, ui.ColorReset)

		if f.Size > 0 {
			fmt.Printf("%s - %s: %s%s\n", ui.ColorGray, msges.GetUIMessage("ReportSizeLabel"), formatSize(f.Size), ui.ColorReset)
		}
		if f.Evidence != "" {
			fmt.Printf("%s - %s: %s%s\n", ui.ColorGray, msges.GetUIMessage("ReportEvidenceLabel"), f.Evidence, ui.ColorReset)
		}
		if len(f.Tags) > 0 {
			fmt.Printf("%s - %s: %s%s\n", ui.ColorGray, msges.GetUIMessage("ReportTagsLabel"), strings.Join(f.Tags, ", "), ui.ColorReset)
		}
		if f.Preview != report.PreviewAvailable {
			fmt.Printf("%s - %s: %s%s\n", ui.ColorGray, msges.GetUIMessage("ReportPreviewLabel"), strings.ToLower(string(f.Preview)), ui.ColorReset)
		}
	}
}

func formatSize(n int64) string {
	switch {
	case n >= 1<<30:
		return fmt.Sprintf("%.1f GiB", float64(n)/(1<<30))
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MiB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KiB", float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%d B", n)
	}
}
