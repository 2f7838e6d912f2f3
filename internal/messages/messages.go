package messages

import (
	"fmt"
)

// uiMessages holds console UI strings.
var uiMessages = map[string]string{
	"Target":                "Target: %s (%s)",
	"StatusSearching":       "Status: Searching leak index",
	"SearchComplete":        "Search complete: %d records after deduplication (%d polls)",
	"SearchCancelled":       "Triage cancelled.",
	"AnalyzingRecords":      "Analyzing %d records (%d workers)",
	"AnalyzeCapped":         "Classification capped to the first %d records; the rest are reported as UNKNOWN",
	"TriageComplete":        "Triage complete.",
	"PreviewEcho":           "Preview (first 100 chars): %s",
	"ReportTitle":           "--- Findings ---",
	"ReportNoFindings":      "[OK] No leak records found for this target",
	"ReportSummaryLine":     "%d records | High:%d Medium:%d Low:%d Unknown:%d",
	"ReportEvidenceLabel":   "Evidence",
	"ReportTagsLabel":       "Tags",
	"ReportPreviewLabel":    "Preview",
	"ReportSizeLabel":       "Size",
	"RunDeadlineHit":        "Run deadline reached: %d unfinished records reported as UNKNOWN",
	"JSONReportSaved":       "JSON report saved: %s",
	"JSONReportFailed":      "Failed to save JSON report: %v",
	"HTMLReportSaved":       "HTML report saved: %s",
	"HTMLReportFailed":      "Failed to save HTML report: %v",
	"ConfigMissingKeys":     "Missing configuration: %v",
	"SearchFailed":          "Search failed: %v",
	"InvalidTarget":         "Invalid target: %v",
	"InteractiveWelcome":    "Welcome to leakscout interactive mode. Type 'help' for commands.",
	"InteractiveExit":       "Exiting program.",
	"InteractiveHelp":       "Available commands:",
	"InteractiveHelpTriage": "  triage <target> [--json] [--html] [--verbose] [--limit N]  run a triage",
	"InteractiveHelpHelp":   "  help                                           show this help",
	"InteractiveHelpExit":   "  exit                                           leave interactive mode",
	"InteractiveErrTarget":  "Error: target required. Usage: triage <email|domain|ip>",
	"InteractiveErrUnknown": "Unknown command: %s",
	"InteractiveErrFlag":    "Unknown flag: %s",
	"InteractiveRunFailed":  "Error running triage: %v",
}

func GetUIMessage(id string, args ...interface{}) string {
	format, ok := uiMessages[id]
	if !ok || format == "" {
		return id
	}
	if len(args) > 0 {
		return fmt.Sprintf(format, args...)
	}
	return format
}
