package report

import "sort"

// Aggregate joins every record with its classification and applies the report
// total order. Records without a map entry, and classifications carrying a
// risk outside the closed vocabulary, degrade to the Unknown fallback: the
// output always contains exactly one finding per input record.
func Aggregate(records []RecordMeta, classifications map[string]Classification) []Finding {
	findings := make([]Finding, 0, len(records))
	for _, rec := range records {
		cls, ok := classifications[rec.SystemID]
		if !ok {
			cls = FallbackClassification()
		}
		if riskWeight(cls.Risk) < 0 {
			fallback := FallbackClassification()
			fallback.Preview = cls.Preview
			fallback.Truncated = cls.Truncated
			cls = fallback
		}
		if cls.Preview == "" {
			cls.Preview = PreviewUnavailable
		}

		findings = append(findings, Finding{
			SystemID:   rec.SystemID,
			Source:     rec.Source,
			Bucket:     rec.Bucket,
			Visibility: rec.Visibility,
			Size:       rec.Size,
			Date:       rec.Date,
			Risk:       cls.Risk,
			Summary:    cls.Summary,
			Tags:       cls.Tags,
			Evidence:   cls.Evidence,
			Preview:    cls.Preview,
			Truncated:  cls.Truncated,
		})
	}

	SortFindings(findings)
	return findings
}

// SortFindings orders findings by risk (HIGH > MEDIUM > LOW > UNKNOWN), then
// discovery date most recent first, then system ID. The order is a pure
// function of the findings so concurrent completion order never shows.
func SortFindings(findings []Finding) {
	sort.SliceStable(findings, func(i, j int) bool {
		wi, wj := riskWeight(findings[i].Risk), riskWeight(findings[j].Risk)
		if wi != wj {
			return wi > wj
		}
		if !findings[i].Date.Equal(findings[j].Date) {
			return findings[i].Date.After(findings[j].Date)
		}
		return findings[i].SystemID < findings[j].SystemID
	})
}

func riskWeight(r RiskLevel) int {
	switch r {
	case RiskHigh:
		return 3
	case RiskMedium:
		return 2
	case RiskLow:
		return 1
	case RiskUnknown:
		return 0
	default:
		return -1
	}
}

type Summary struct {
	Total   int `json:"total"`
	High    int `json:"high"`
	Medium  int `json:"medium"`
	Low     int `json:"low"`
	Unknown int `json:"unknown"`
}

func Summarize(findings []Finding) Summary {
	s := Summary{Total: len(findings)}
	for _, f := range findings {
		switch f.Risk {
		case RiskHigh:
			s.High++
		case RiskMedium:
			s.Medium++
		case RiskLow:
			s.Low++
		default:
			s.Unknown++
		}
	}
	return s
}
