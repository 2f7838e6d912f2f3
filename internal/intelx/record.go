package intelx

import (
	"strings"
	"time"

	"github.com/leakscout/leakscout/internal/report"
)

// Record is one match from the provider's record listing. SystemID is the
// identity key within a session; conflicting duplicates are collapsed
// last-write-wins during resolution.
type Record struct {
	SystemID  string `json:"systemid"`
	StorageID string `json:"storageid"`
	Name      string `json:"name"`
	Bucket    string `json:"bucket"`
	Size      int64  `json:"size"`
	Date      string `json:"date"`
}

// Provider date strings arrive in either RFC 3339 or a flat datetime form
// depending on the bucket backend.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func (r Record) DiscoveryDate() time.Time {
	for _, layout := range dateLayouts {
		if ts, err := time.Parse(layout, r.Date); err == nil {
			return ts.UTC()
		}
	}
	return time.Time{}
}

func (r Record) Visibility() report.Visibility {
	bucket := strings.ToLower(r.Bucket)
	switch {
	case strings.Contains(bucket, "public"):
		return report.VisibilityPublic
	case strings.Contains(bucket, "private"):
		return report.VisibilityPrivate
	default:
		return report.VisibilityUnknown
	}
}

// Meta projects the record into the report's provider-neutral shape.
func (r Record) Meta() report.RecordMeta {
	source := r.Name
	if source == "" {
		source = r.Bucket
	}
	return report.RecordMeta{
		SystemID:   r.SystemID,
		Source:     source,
		Bucket:     r.Bucket,
		Visibility: r.Visibility(),
		Size:       r.Size,
		Date:       r.DiscoveryDate(),
	}
}

// Preview is a bounded content sample for one record. It is always produced,
// even when fetching failed: availability tells the classifier what it holds.
type Preview struct {
	SystemID     string
	Content      string
	Truncated    bool
	Availability report.PreviewAvailability
}
