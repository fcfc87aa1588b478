package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestServerConfig_GetAddress(t *testing.T) {
	tests := []struct {
		host, port, expected string
	}{
		{"", ":8080", ":8080"},
		{"", "8080", "8080"},
		{"localhost", "8080", "localhost:8080"},
		{"0.0.0.0", ":8080", "0.0.0.0:8080"},
	}
	for _, tt := range tests {
		cfg := ServerConfig{Host: tt.host, Port: tt.port}
		assert.Equal(t, tt.expected, cfg.GetAddress())
	}
}

func TestServerConfig_Validate(t *testing.T) {
	valid := ServerConfig{
		ReadTimeout:     time.Second,
		WriteTimeout:    time.Second,
		IdleTimeout:     time.Second,
		ShutdownTimeout: time.Second,
	}
	assert.NoError(t, valid.Validate())

	noWrite := valid
	noWrite.WriteTimeout = -time.Second
	err := noWrite.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "WriteTimeout")

	noIdle := valid
	noIdle.IdleTimeout = 0
	assert.ErrorContains(t, noIdle.Validate(), "IdleTimeout")

	noShutdown := valid
	noShutdown.ShutdownTimeout = 0
	assert.ErrorContains(t, noShutdown.Validate(), "ShutdownTimeout")
}

func TestLoggerConfig(t *testing.T) {
	t.Run("validate", func(t *testing.T) {
		assert.NoError(t, LoggerConfig{Level: "warn", Format: "console", Output: "stderr"}.Validate())
		assert.ErrorContains(t, LoggerConfig{Level: "trace", Format: "json", Output: "stdout"}.Validate(), "invalid log level")
		assert.ErrorContains(t, LoggerConfig{Level: "info", Format: "xml", Output: "stdout"}.Validate(), "invalid log format")
		assert.ErrorContains(t, LoggerConfig{Level: "info", Format: "json"}.Validate(), "LOG_OUTPUT")
	})

	t.Run("is production", func(t *testing.T) {
		assert.True(t, LoggerConfig{Level: "info", Format: "json"}.IsProduction())
		assert.False(t, LoggerConfig{Level: "debug", Format: "json"}.IsProduction())
		assert.False(t, LoggerConfig{Level: "info", Format: "console"}.IsProduction())
	})
}

func TestGitHubConfig_Validate(t *testing.T) {
	valid := GitHubConfig{PRLimit: 50, DetailConcurrency: 10, RetryMaxAttempts: 3}

	tests := []struct {
		name    string
		mutate  func(c *GitHubConfig)
		wantErr string
	}{
		{name: "valid", mutate: func(c *GitHubConfig) {}},
		{name: "enterprise url", mutate: func(c *GitHubConfig) { c.BaseURL = "https://ghe.example.com/api/v3/" }},
		{name: "limit too high", mutate: func(c *GitHubConfig) { c.PRLimit = 101 }, wantErr: "PRLimit"},
		{name: "no concurrency", mutate: func(c *GitHubConfig) { c.DetailConcurrency = 0 }, wantErr: "DetailConcurrency"},
		{name: "no attempts", mutate: func(c *GitHubConfig) { c.RetryMaxAttempts = 0 }, wantErr: "RetryMaxAttempts"},
		{name: "negative delay", mutate: func(c *GitHubConfig) { c.RetryInitialDelay = -time.Second }, wantErr: "RetryInitialDelay"},
		{name: "relative url", mutate: func(c *GitHubConfig) { c.BaseURL = "/api/v3" }, wantErr: "GITHUB_API_URL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestAdvisorConfig_Validate(t *testing.T) {
	t.Run("disabled advisor is valid", func(t *testing.T) {
		assert.NoError(t, AdvisorConfig{BaseURL: "::", Timeout: 0}.Validate())
	})

	t.Run("enabled advisor", func(t *testing.T) {
		cfg := AdvisorConfig{
			BaseURL: "https://llm.example.com/v1",
			APIKey:  "sk-test",
			Model:   "gpt-test",
			Timeout: 10 * time.Second,
		}
		assert.NoError(t, cfg.Validate())

		noModel := cfg
		noModel.Model = ""
		assert.ErrorContains(t, noModel.Validate(), "ADVISOR_MODEL")

		noTimeout := cfg
		noTimeout.Timeout = 0
		assert.ErrorContains(t, noTimeout.Validate(), "Timeout")

		badBaseURL := cfg
		badBaseURL.BaseURL = "llm"
		assert.ErrorContains(t, badBaseURL.Validate(), "ADVISOR_BASE_URL")
	})
}
