package classify

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/leakscout/leakscout/internal/report"
)

// Models wrap JSON in prose or code fences often enough that the response is
// brace-extracted before decoding, the same way operators eyeballing raw
// output would.
var reJSONBlock = regexp.MustCompile(`(?s)\{.*\}`)

type verdict struct {
	RiskLevel   string       `json:"risk_level"`
	Summary     string       `json:"summary"`
	Credentials []credential `json:"credentials"`
}

type credential struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	HashType string `json:"hash_type"`
}

func parseVerdict(raw string) (verdict, bool) {
	block := reJSONBlock.FindString(raw)
	if block == "" {
		return verdict{}, false
	}
	var v verdict
	if err := json.Unmarshal([]byte(block), &v); err != nil {
		return verdict{}, false
	}
	return v, true
}

// canonicalRisk maps the model's risk string onto the closed vocabulary.
// Anything else is malformed and the caller downgrades to Unknown.
func canonicalRisk(s string) (report.RiskLevel, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "high":
		return report.RiskHigh, true
	case "medium":
		return report.RiskMedium, true
	case "low":
		return report.RiskLow, true
	}
	return report.RiskUnknown, false
}

func oneLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexAny(s, "\r\n"); i >= 0 {
		s = strings.TrimSpace(s[:i])
	}
	const maxSummaryLen = 200
	if len(s) > maxSummaryLen {
		s = cutRuneSafe(s, maxSummaryLen-3) + "..."
	}
	return s
}

// cutRuneSafe truncates to at most max bytes without splitting a rune. Leak
// content is routinely non-ASCII, and a byte-boundary cut would emit invalid
// UTF-8.
func cutRuneSafe(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}

const maxEvidenceEntries = 5

func credentialEvidence(creds []credential) string {
	var lines []string
	for _, c := range creds {
		if c.Email == "" && c.Password == "" && c.HashType == "" {
			continue
		}
		line := c.Email
		switch {
		case c.Password != "":
			line = strings.TrimSpace(line + " password=" + c.Password)
		case c.HashType != "":
			line = strings.TrimSpace(line + " hash=" + c.HashType)
		}
		lines = append(lines, line)
		if len(lines) == maxEvidenceEntries {
			break
		}
	}
	if len(lines) == 0 {
		return ""
	}
	out := strings.Join(lines, "; ")
	if extra := len(creds) - len(lines); extra > 0 {
		out += fmt.Sprintf(" (+%d more)", extra)
	}
	return out
}

var (
	credentialKeywords = []string{"password", "passwd", "credential", "login", "hash", "token", "apikey", "api key"}
	piiKeywords        = []string{"pii", "ssn", "social security", "phone", "address", "date of birth", "cpf", "passport", "personal data"}
	configKeywords     = []string{"config", "configuration", ".env", "environment variable", "settings"}
)

// extractTags is best-effort keyword presence; tags are advisory only and
// never affect ranking.
func extractTags(summary, content string, hasCredentials bool) []string {
	haystack := strings.ToLower(summary + "\n" + content)

	var tags []string
	if hasCredentials || containsAny(haystack, credentialKeywords) {
		tags = append(tags, report.TagCredentials)
	}
	if containsAny(haystack, piiKeywords) {
		tags = append(tags, report.TagPII)
	}
	if containsAny(haystack, configKeywords) && !hasCredentials {
		tags = append(tags, report.TagConfigOnly)
	}
	return tags
}

func containsAny(haystack string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(haystack, n) {
			return true
		}
	}
	return false
}
