package classify

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/leakscout/leakscout/internal/config"
	"github.com/leakscout/leakscout/internal/engine"
	"github.com/leakscout/leakscout/internal/intelx"
	"github.com/leakscout/leakscout/internal/report"
)

// Classifier input stays bounded so a triage run has a predictable token
// spend per record regardless of the true leak size.
const maxSnippetChars = 3000

const systemPrompt = "Output only valid JSON."

const promptHeader = `You are a senior security analyst. Analyze the following snippet from a data leak dump.
Your goal is to judge real-world exposure risk and extract any compromised credentials.

Return ONLY a JSON object in this exact format:
{
    "risk_level": "High/Medium/Low",
    "summary": "one line describing what the file is and why it matters",
    "credentials": [{"email": "...", "password": "...", "hash_type": "..."}]
}

If there are no credentials, return an empty list.
Dump content:
`

type Classifier struct {
	client *openai.Client
	model  string
}

// New builds a classifier against any OpenAI-compatible endpoint. Credentials
// are scoped to this instance; nothing is read from the environment here.
func New(creds config.Credentials, httpClient *http.Client) *Classifier {
	cfg := openai.DefaultConfig(creds.OpenAIKey)
	if creds.OpenAIBaseURL != "" {
		cfg.BaseURL = strings.TrimSuffix(creds.OpenAIBaseURL, "/")
	}
	if httpClient != nil {
		cfg.HTTPClient = httpClient
	}
	return &Classifier{
		client: openai.NewClientWithConfig(cfg),
		model:  creds.Model,
	}
}

// Classify turns a preview into a risk verdict. It never fails outward: any
// provider error, empty input, or malformed response degrades to the Unknown
// fallback. The model's risk string is validated against the closed
// vocabulary and never trusted verbatim.
func (c *Classifier) Classify(ctx context.Context, p intelx.Preview) report.Classification {
	cls := report.FallbackClassification()
	cls.Preview = p.Availability
	cls.Truncated = p.Truncated

	// Nothing to spend budget on.
	if p.Availability != report.PreviewAvailable || strings.TrimSpace(p.Content) == "" {
		return cls
	}

	snippet := cutRuneSafe(p.Content, maxSnippetChars)

	var raw string
	err := engine.RetryTransient(ctx, 20*time.Second, func() error {
		resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
			Model:       c.model,
			Temperature: 0.2,
			Messages: []openai.ChatCompletionMessage{
				{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
				{Role: openai.ChatMessageRoleUser, Content: promptHeader + "\n" + snippet},
			},
		})
		if err != nil {
			// Client-side rejections (bad key, bad model) never heal on retry.
			var apiErr *openai.APIError
			if errors.As(err, &apiErr) && apiErr.HTTPStatusCode >= 400 && apiErr.HTTPStatusCode < 500 && apiErr.HTTPStatusCode != http.StatusTooManyRequests {
				return engine.Permanent(err)
			}
			return err
		}
		if len(resp.Choices) == 0 {
			return errors.New("model returned no choices")
		}
		raw = resp.Choices[0].Message.Content
		return nil
	})
	if err != nil {
		return cls
	}

	v, ok := parseVerdict(raw)
	if !ok {
		return cls
	}
	risk, ok := canonicalRisk(v.RiskLevel)
	if !ok {
		return cls
	}

	cls.Risk = risk
	cls.Summary = oneLine(v.Summary)
	if cls.Summary == "" {
		cls.Summary = report.UnavailableSummary
	}
	cls.Evidence = credentialEvidence(v.Credentials)
	cls.Tags = extractTags(cls.Summary, snippet, len(v.Credentials) > 0)
	return cls
}
