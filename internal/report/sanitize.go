package report

import (
	"regexp"
	"sync"

	"github.com/leakscout/leakscout/internal/config"
)

var (
	reBearer    = regexp.MustCompile(`(?i)\b(bearer\s+)([a-z0-9\-\._~\+\/]+=*)`)
	reApiKeyKV  = regexp.MustCompile(`(?i)\b(api[_-]?key|access[_-]?token|token|secret|authorization)\s*[:=]\s*([^\s,;]+)`)
	rePassKV    = regexp.MustCompile(`(?i)\b(password|passwd|pwd)\s*[:=]\s*([^\s,;]+)`)
	reLongToken = regexp.MustCompile(`\b[a-zA-Z0-9_\-]{24,}\b`)
	customOnce  sync.Once
	customRes   []*regexp.Regexp
)

// SanitizeFinding redacts secret material from the model-written fields. Leak
// previews routinely contain live credentials, so everything that reaches the
// console or a report file passes through here first.
func SanitizeFinding(f Finding) Finding {
	f.Summary = SanitizeText(f.Summary)
	f.Evidence = SanitizeText(f.Evidence)
	return f
}

func SanitizeText(s string) string {
	out := s
	out = reBearer.ReplaceAllString(out, "${1}<redacted>")
	out = reApiKeyKV.ReplaceAllString(out, "${1}=<redacted>")
	out = rePassKV.ReplaceAllString(out, "${1}=<redacted>")
	out = reLongToken.ReplaceAllStringFunc(out, func(tok string) string {
		if len(tok) <= 10 {
			return "<redacted>"
		}
		return tok[:4] + "...<redacted>..." + tok[len(tok)-4:]
	})
	for _, re := range customRegexes() {
		out = re.ReplaceAllString(out, "<redacted>")
	}
	return out
}

func customRegexes() []*regexp.Regexp {
	customOnce.Do(func() {
		for _, p := range config.LoadRedactionPatterns() {
			re, err := regexp.Compile(p)
			if err == nil {
				customRes = append(customRes, re)
			}
		}
	})
	return customRes
}
