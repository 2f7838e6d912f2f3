package output

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	msges "github.com/leakscout/leakscout/internal/messages"
	"github.com/leakscout/leakscout/internal/report"
)

func reportFilename(target, ext string) string {
	timestamp := time.Now().Format("20060102_150405")
	sanitized := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-':
			return r
		default:
			return '_'
		}
	}, target)
	return fmt.Sprintf("leakscout_report_%s_%s.%s", sanitized, timestamp, ext)
}

// SaveJSONReport writes the full report to a timestamped file in the working
// directory and prints the location.
func SaveJSONReport(rep *report.Report) error {
	filename := reportFilename(rep.Target, "json")

	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(rep); err != nil {
		return err
	}

	fmt.Printf("\n%s\n", msges.GetUIMessage("JSONReportSaved", filename))
	return nil
}
