package config

import (
	"fmt"
	"net/url"
	"time"
)

// GitHubConfig holds GitHub REST API client configuration.
type GitHubConfig struct {
	// Token is a personal access or app token; empty means unauthenticated requests.
	Token string
	// BaseURL overrides the API root (GitHub Enterprise); empty means api.github.com.
	BaseURL string
	// PRLimit is the number of recent closed pull requests fetched per analysis.
	PRLimit int
	// DetailConcurrency caps concurrent per-PR detail requests.
	DetailConcurrency int
	// RetryMaxAttempts bounds attempts of the pull request list request.
	RetryMaxAttempts int
	// RetryInitialDelay is the first backoff delay of the list request.
	RetryInitialDelay time.Duration
}

// LoadGitHubConfigFromEnv loads GitHub configuration from environment variables.
func LoadGitHubConfigFromEnv() GitHubConfig {
	return GitHubConfig{
		Token:             GetEnv("GITHUB_TOKEN", ""),
		BaseURL:           GetEnv("GITHUB_API_URL", ""),
		PRLimit:           GetEnvInt("GITHUB_PR_LIMIT", 50),
		DetailConcurrency: GetEnvInt("GITHUB_DETAIL_CONCURRENCY", 10),
		RetryMaxAttempts:  GetEnvInt("GITHUB_RETRY_MAX_ATTEMPTS", 3),
		RetryInitialDelay: GetEnvDuration("GITHUB_RETRY_INITIAL_DELAY", 500*time.Millisecond),
	}
}

// Validate validates GitHub configuration.
func (c GitHubConfig) Validate() error {
	if c.PRLimit <= 0 || c.PRLimit > 100 {
		return fmt.Errorf("PRLimit must be between 1 and 100, got %d", c.PRLimit)
	}
	if c.DetailConcurrency <= 0 {
		return fmt.Errorf("DetailConcurrency must be greater than 0")
	}
	if c.RetryMaxAttempts <= 0 {
		return fmt.Errorf("RetryMaxAttempts must be greater than 0")
	}
	if c.RetryInitialDelay < 0 {
		return fmt.Errorf("RetryInitialDelay must not be negative")
	}
	if c.BaseURL != "" {
		u, err := url.Parse(c.BaseURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("invalid GITHUB_API_URL: %s", c.BaseURL)
		}
	}
	return nil
}
