package report

import (
	"math/rand"
	"reflect"
	"testing"
	"time"
)

func day(n int) time.Time {
	return time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, n)
}

func TestAggregateOneFindingPerRecord(t *testing.T) {
	records := []RecordMeta{
		{SystemID: "a", Source: "dump-a", Date: day(1)},
		{SystemID: "b", Source: "dump-b", Date: day(2)},
		{SystemID: "c", Source: "dump-c", Date: day(3)},
	}
	classifications := map[string]Classification{
		"a": {Risk: RiskLow, Summary: "config file", Preview: PreviewAvailable},
		// "b" intentionally missing: upstream gap
		"c": {Risk: RiskHigh, Summary: "plaintext credentials", Preview: PreviewAvailable},
	}

	findings := Aggregate(records, classifications)
	if len(findings) != len(records) {
		t.Fatalf("findings=%d want=%d", len(findings), len(records))
	}

	byID := map[string]Finding{}
	for _, f := range findings {
		byID[f.SystemID] = f
	}
	if byID["b"].Risk != RiskUnknown {
		t.Fatalf("gap record risk=%s want=UNKNOWN", byID["b"].Risk)
	}
	if byID["b"].Summary != UnavailableSummary {
		t.Fatalf("gap record summary=%q", byID["b"].Summary)
	}
}

func TestAggregateRejectsOpenVocabulary(t *testing.T) {
	records := []RecordMeta{{SystemID: "x", Date: day(0)}}
	classifications := map[string]Classification{
		"x": {Risk: RiskLevel("CATASTROPHIC"), Summary: "model went off-script", Preview: PreviewAvailable},
	}

	findings := Aggregate(records, classifications)
	if findings[0].Risk != RiskUnknown {
		t.Fatalf("risk=%s want=UNKNOWN", findings[0].Risk)
	}
	if findings[0].Preview != PreviewAvailable {
		t.Fatalf("preview=%s, availability should survive the downgrade", findings[0].Preview)
	}
}

func TestAggregateTotalOrder(t *testing.T) {
	records := []RecordMeta{
		{SystemID: "r1", Date: day(1)},
		{SystemID: "r2", Date: day(5)},
		{SystemID: "r3", Date: day(5)},
		{SystemID: "r4", Date: day(9)},
		{SystemID: "r5", Date: day(2)},
	}
	classifications := map[string]Classification{
		"r1": {Risk: RiskHigh, Preview: PreviewAvailable},
		"r2": {Risk: RiskHigh, Preview: PreviewAvailable},
		"r3": {Risk: RiskHigh, Preview: PreviewAvailable},
		"r4": {Risk: RiskLow, Preview: PreviewAvailable},
		"r5": {Risk: RiskUnknown, Preview: PreviewUnsupported},
	}

	// High sorted by date desc then ID, then Low, then Unknown.
	want := []string{"r2", "r3", "r1", "r4", "r5"}

	findings := Aggregate(records, classifications)
	var got []string
	for _, f := range findings {
		got = append(got, f.SystemID)
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("order got=%v want=%v", got, want)
	}
}

func TestAggregateDeterministicUnderPermutation(t *testing.T) {
	var records []RecordMeta
	classifications := map[string]Classification{}
	risks := []RiskLevel{RiskHigh, RiskMedium, RiskLow, RiskUnknown}
	for i := 0; i < 40; i++ {
		id := string(rune('a'+i%26)) + string(rune('0'+i/26))
		records = append(records, RecordMeta{SystemID: id, Date: day(i % 7)})
		classifications[id] = Classification{Risk: risks[i%len(risks)], Preview: PreviewAvailable}
	}

	reference := Aggregate(records, classifications)

	rng := rand.New(rand.NewSource(42))
	for trial := 0; trial < 10; trial++ {
		shuffled := make([]RecordMeta, len(records))
		copy(shuffled, records)
		rng.Shuffle(len(shuffled), func(i, j int) {
			shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
		})

		got := Aggregate(shuffled, classifications)
		if !reflect.DeepEqual(got, reference) {
			t.Fatalf("trial %d: permuted input changed output order", trial)
		}
	}
}

func TestSummarize(t *testing.T) {
	findings := []Finding{
		{Risk: RiskHigh},
		{Risk: RiskLow},
		{Risk: RiskUnknown},
	}
	s := Summarize(findings)
	if s.Total != 3 || s.High != 1 || s.Medium != 0 || s.Low != 1 || s.Unknown != 1 {
		t.Fatalf("summary mismatch: %+v", s)
	}
}
