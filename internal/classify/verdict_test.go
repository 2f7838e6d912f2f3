package classify

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/leakscout/leakscout/internal/report"
)

func TestParseVerdict(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		ok   bool
		risk string
	}{
		{
			name: "bare json",
			raw:  `{"risk_level": "High", "summary": "s"}`,
			ok:   true,
			risk: "High",
		},
		{
			name: "json wrapped in prose",
			raw:  "Sure! Here you go:\n{\"risk_level\": \"Low\", \"summary\": \"s\"}\nLet me know.",
			ok:   true,
			risk: "Low",
		},
		{
			name: "no json at all",
			raw:  "I cannot analyze this content.",
			ok:   false,
		},
		{
			name: "broken json",
			raw:  `{"risk_level": "High", "summary": `,
			ok:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, ok := parseVerdict(tt.raw)
			if ok != tt.ok {
				t.Fatalf("ok=%v want=%v", ok, tt.ok)
			}
			if ok && v.RiskLevel != tt.risk {
				t.Fatalf("risk=%q want=%q", v.RiskLevel, tt.risk)
			}
		})
	}
}

func TestCanonicalRisk(t *testing.T) {
	tests := []struct {
		in   string
		want report.RiskLevel
		ok   bool
	}{
		{in: "High", want: report.RiskHigh, ok: true},
		{in: "  medium ", want: report.RiskMedium, ok: true},
		{in: "LOW", want: report.RiskLow, ok: true},
		{in: "Critical", ok: false},
		{in: "High/Medium", ok: false},
		{in: "", ok: false},
	}

	for _, tt := range tests {
		got, ok := canonicalRisk(tt.in)
		if ok != tt.ok {
			t.Fatalf("canonicalRisk(%q) ok=%v want=%v", tt.in, ok, tt.ok)
		}
		if ok && got != tt.want {
			t.Fatalf("canonicalRisk(%q) got=%s want=%s", tt.in, got, tt.want)
		}
	}
}

func TestOneLine(t *testing.T) {
	if got := oneLine("  first line\nsecond line  "); got != "first line" {
		t.Fatalf("got=%q", got)
	}
	long := strings.Repeat("x", 400)
	if got := oneLine(long); len(got) != 200 || !strings.HasSuffix(got, "...") {
		t.Fatalf("long summary len=%d suffix=%q", len(got), got[len(got)-3:])
	}

	multibyte := strings.Repeat("ü", 300)
	got := oneLine(multibyte)
	if !utf8.ValidString(got) {
		t.Fatalf("truncated summary is not valid UTF-8: %q", got)
	}
	if !strings.HasSuffix(got, "...") {
		t.Fatalf("truncated summary missing ellipsis: %q", got)
	}
}

func TestCutRuneSafe(t *testing.T) {
	if got := cutRuneSafe("abc", 10); got != "abc" {
		t.Fatalf("short input changed: %q", got)
	}

	// 2-byte runes; an odd byte cap lands mid-rune and must back up.
	in := strings.Repeat("é", 100)
	got := cutRuneSafe(in, 25)
	if !utf8.ValidString(got) {
		t.Fatalf("cut produced invalid UTF-8: %q", got)
	}
	if len(got) != 24 {
		t.Fatalf("expected 24 bytes, got %d", len(got))
	}

	in = strings.Repeat("日", 50) // 3-byte runes
	got = cutRuneSafe(in, 31)
	if !utf8.ValidString(got) || len(got) != 30 {
		t.Fatalf("expected 30 valid bytes, got %d (%q)", len(got), got)
	}
}

func TestCredentialEvidence(t *testing.T) {
	creds := []credential{
		{Email: "a@example.com", Password: "pw1"},
		{Email: "b@example.com", HashType: "bcrypt"},
		{},
	}
	got := credentialEvidence(creds)
	if !strings.Contains(got, "a@example.com password=pw1") {
		t.Fatalf("evidence=%q", got)
	}
	if !strings.Contains(got, "b@example.com hash=bcrypt") {
		t.Fatalf("evidence=%q", got)
	}

	if credentialEvidence(nil) != "" {
		t.Fatalf("nil credentials should give empty evidence")
	}

	var many []credential
	for i := 0; i < 9; i++ {
		many = append(many, credential{Email: "x@example.com", Password: "p"})
	}
	got = credentialEvidence(many)
	if !strings.Contains(got, "(+4 more)") {
		t.Fatalf("overflow marker missing: %q", got)
	}
}

func TestExtractTags(t *testing.T) {
	tags := extractTags("combo list with passwords", "a@b.com:pw", true)
	if !hasTag(tags, report.TagCredentials) {
		t.Fatalf("tags=%v", tags)
	}

	tags = extractTags("customer addresses and phone numbers", "name,address,phone", false)
	if !hasTag(tags, report.TagPII) || hasTag(tags, report.TagCredentials) {
		t.Fatalf("tags=%v", tags)
	}

	tags = extractTags("application configuration dump", "key=value settings", false)
	if !hasTag(tags, report.TagConfigOnly) {
		t.Fatalf("tags=%v", tags)
	}
}
