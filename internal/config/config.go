package config

import (
	"fmt"
	"os"
	"strings"
)

const (
	EnvIntelXKey     = "INTELX_KEY"
	EnvIntelXBaseURL = "INTELX_BASE_URL"
	EnvOpenAIKey     = "OPENAI_API_KEY"
	EnvOpenAIBaseURL = "OPENAI_BASE_URL"
	EnvModel         = "LLM_MODEL"

	defaultIntelXBaseURL = "https://2.intelx.io"
	defaultModel         = "gpt-4o-mini"
)

// Credentials carries provider credentials and endpoints for one triage run.
// It is handed explicitly to the provider clients at construction time and
// must never appear in report output or console messages.
type Credentials struct {
	IntelXKey     string
	IntelXBaseURL string
	OpenAIKey     string
	OpenAIBaseURL string
	Model         string
}

// ConfigurationError reports missing required environment variables. It is
// surfaced before any network call is made.
type ConfigurationError struct {
	Missing []string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("missing required environment variables: %s", strings.Join(e.Missing, ", "))
}

// LoadCredentials reads provider settings from the process environment.
func LoadCredentials() (Credentials, error) {
	creds := Credentials{
		IntelXKey:     strings.TrimSpace(os.Getenv(EnvIntelXKey)),
		IntelXBaseURL: strings.TrimSpace(os.Getenv(EnvIntelXBaseURL)),
		OpenAIKey:     strings.TrimSpace(os.Getenv(EnvOpenAIKey)),
		OpenAIBaseURL: strings.TrimSpace(os.Getenv(EnvOpenAIBaseURL)),
		Model:         strings.TrimSpace(os.Getenv(EnvModel)),
	}

	var missing []string
	if creds.IntelXKey == "" {
		missing = append(missing, EnvIntelXKey)
	}
	if creds.OpenAIKey == "" {
		missing = append(missing, EnvOpenAIKey)
	}
	if len(missing) > 0 {
		return Credentials{}, &ConfigurationError{Missing: missing}
	}

	if creds.IntelXBaseURL == "" {
		creds.IntelXBaseURL = defaultIntelXBaseURL
	}
	creds.IntelXBaseURL = strings.TrimSuffix(creds.IntelXBaseURL, "/")
	if creds.Model == "" {
		creds.Model = defaultModel
	}
	return creds, nil
}
