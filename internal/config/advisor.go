package config

import (
	"fmt"
	"net/url"
	"time"
)

// AdvisorConfig holds configuration of the narrative advisor (an OpenAI-compatible
// chat completions API).
type AdvisorConfig struct {
	// BaseURL is the API root; /chat/completions is appended.
	BaseURL string
	APIKey  string
	Model   string
	Timeout time.Duration
}

// LoadAdvisorConfigFromEnv loads narrative advisor configuration from environment variables.
func LoadAdvisorConfigFromEnv() AdvisorConfig {
	return AdvisorConfig{
		BaseURL: GetEnv("ADVISOR_BASE_URL", "https://api.openai.com/v1"),
		APIKey:  GetEnv("ADVISOR_API_KEY", ""),
		Model:   GetEnv("ADVISOR_MODEL", "gpt-4o-mini"),
		Timeout: GetEnvDuration("ADVISOR_TIMEOUT", 30*time.Second),
	}
}

// Enabled reports whether an API key is configured.
func (c AdvisorConfig) Enabled() bool {
	return c.APIKey != ""
}

// Validate validates narrative advisor configuration. A disabled advisor is always valid.
func (c AdvisorConfig) Validate() error {
	if !c.Enabled() {
		return nil
	}
	u, err := url.Parse(c.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid ADVISOR_BASE_URL: %s", c.BaseURL)
	}
	if c.Model == "" {
		return fmt.Errorf("ADVISOR_MODEL is required when ADVISOR_API_KEY is set")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("Timeout must be greater than 0")
	}
	return nil
}
