package report

import "time"

type RiskLevel string
type Visibility string
type PreviewAvailability string

const (
	RiskHigh    RiskLevel = "HIGH"
	RiskMedium  RiskLevel = "MEDIUM"
	RiskLow     RiskLevel = "LOW"
	RiskUnknown RiskLevel = "UNKNOWN"

	VisibilityPublic  Visibility = "PUBLIC"
	VisibilityPrivate Visibility = "PRIVATE"
	VisibilityUnknown Visibility = "UNKNOWN"

	PreviewAvailable   PreviewAvailability = "AVAILABLE"
	PreviewUnavailable PreviewAvailability = "UNAVAILABLE"
	PreviewUnsupported PreviewAvailability = "UNSUPPORTED"
)

// UnavailableSummary is the fixed summary for findings whose classification
// could not be produced.
const UnavailableSummary = "classification unavailable"

// Advisory rationale tags. They never affect ranking.
const (
	TagCredentials = "credentials"
	TagPII         = "pii"
	TagConfigOnly  = "config-only"
)

// RecordMeta is the provider-side identity of one leak record after
// deduplication. SystemID is the identity key within a session.
type RecordMeta struct {
	SystemID   string
	Source     string
	Bucket     string
	Visibility Visibility
	Size       int64
	Date       time.Time
}

// Classification is the semantic verdict for one record's preview.
type Classification struct {
	Risk      RiskLevel
	Summary   string
	Tags      []string
	Evidence  string
	Preview   PreviewAvailability
	Truncated bool
}

// Finding joins a leak record with its classification. Immutable once built.
type Finding struct {
	SystemID   string              `json:"system_id"`
	Source     string              `json:"source"`
	Bucket     string              `json:"bucket"`
	Visibility Visibility          `json:"visibility"`
	Size       int64               `json:"size"`
	Date       time.Time           `json:"date"`
	Risk       RiskLevel           `json:"risk"`
	Summary    string              `json:"summary"`
	Tags       []string            `json:"tags,omitempty"`
	Evidence   string              `json:"evidence,omitempty"`
	Preview    PreviewAvailability `json:"preview"`
	Truncated  bool                `json:"truncated,omitempty"`
}

// FallbackClassification is the terminal Unknown state for records whose
// pipeline stage failed, timed out, or was never reached.
func FallbackClassification() Classification {
	return Classification{
		Risk:    RiskUnknown,
		Summary: UnavailableSummary,
		Preview: PreviewUnavailable,
	}
}
