// Package advisor asks an OpenAI-compatible chat completions endpoint for a
// plain-language risk narrative of computed pull request metrics.
package advisor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/BhargavGarge/devpulse/internal/config"
	"github.com/BhargavGarge/devpulse/internal/prmetrics/model"
)

var (
	// ErrAdvisorDisabled is returned when no API key is configured.
	ErrAdvisorDisabled = errors.New("narrative advisor is disabled")
	// ErrInvalidNarrative is returned when the model reply does not match the narrative shape.
	ErrInvalidNarrative = errors.New("invalid narrative response")
)

const temperature = 0.2

var validSeverities = map[string]bool{
	"Critical":  true,
	"High":      true,
	"Moderate":  true,
	"Low":       true,
	"Excellent": true,
}

const systemPrompt = `You are an engineering manager reviewing the pull request health of a software repository.
Reply with a single JSON object and nothing else, using exactly these keys:
"explanation" (string, two or three sentences on the main risks),
"severity" (one of "Critical", "High", "Moderate", "Low", "Excellent"),
"severityJustification" (string, one sentence),
"recommendedActions" (array of two to four short imperative strings).`

// Advisor produces risk narratives.
type Advisor interface {
	Advise(ctx context.Context, metrics *model.PullRequestMetrics) (*model.RiskNarrative, error)
}

type advisor struct {
	cfg    config.AdvisorConfig
	client *openai.Client
	logger *zap.SugaredLogger
}

// New creates an advisor for cfg.BaseURL with cfg.Timeout per request.
func New(cfg config.AdvisorConfig, logger *zap.SugaredLogger) Advisor {
	return NewWithHTTPClient(&http.Client{Timeout: cfg.Timeout}, cfg, logger)
}

// NewWithHTTPClient creates an advisor on top of httpClient.
func NewWithHTTPClient(httpClient *http.Client, cfg config.AdvisorConfig, logger *zap.SugaredLogger) Advisor {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	clientCfg.HTTPClient = httpClient
	return &advisor{cfg: cfg, client: openai.NewClientWithConfig(clientCfg), logger: logger}
}

// metricsSummary is the subset of metrics sent to the model.
type metricsSummary struct {
	PullRequestCount   int     `json:"pullRequestCount"`
	AvgPRSize          int     `json:"avgPRSize"`
	AvgReviewTimeHours float64 `json:"avgReviewTimeHours"`
	UnreviewedRatio    float64 `json:"unreviewedRatio"`
	LargePRRatio       float64 `json:"largePRRatio"`
	HealthScore        int     `json:"healthScore"`
	RiskLevel          string  `json:"riskLevel"`
	MultiReviewerRatio float64 `json:"multiReviewerRatio,omitempty"`
	AvgCommentsPerPR   float64 `json:"avgCommentsPerPR,omitempty"`
	MedianReviewHours  float64 `json:"medianReviewTimeHours,omitempty"`
	FastMergeRatio     float64 `json:"fastMergeRatio,omitempty"`
}

func summarize(m *model.PullRequestMetrics) metricsSummary {
	s := metricsSummary{
		PullRequestCount:   m.PullRequestCount,
		AvgPRSize:          m.AvgPRSize,
		AvgReviewTimeHours: m.AvgReviewTime,
		UnreviewedRatio:    m.UnreviewedRatio,
		LargePRRatio:       m.LargePRRatio,
		HealthScore:        m.HealthScore,
		RiskLevel:          string(m.RiskLevel),
	}
	if d := m.ReviewDeepDive; d != nil {
		s.MultiReviewerRatio = d.MultiReviewerRatio
		s.AvgCommentsPerPR = d.AvgCommentsPerPR
		s.MedianReviewHours = d.MedianReviewTime
		s.FastMergeRatio = d.FastMergeRatio
	}
	return s
}

// Advise returns a narrative for metrics. Any transport, status or shape problem is an error.
func (a *advisor) Advise(ctx context.Context, metrics *model.PullRequestMetrics) (*model.RiskNarrative, error) {
	if a.cfg.APIKey == "" {
		return nil, ErrAdvisorDisabled
	}
	if metrics == nil {
		return nil, fmt.Errorf("%w: no metrics", ErrInvalidNarrative)
	}

	summary, err := json.Marshal(summarize(metrics))
	if err != nil {
		return nil, fmt.Errorf("failed to encode metrics summary: %w", err)
	}

	resp, err := a.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: a.cfg.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: "Pull request metrics:\n" + string(summary)},
		},
		Temperature: temperature,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) {
			a.logger.Debugw("advisor API error",
				"status", apiErr.HTTPStatusCode,
				"type", apiErr.Type,
				"message", apiErr.Message,
			)
		}
		return nil, fmt.Errorf("advisor request failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("%w: no choices", ErrInvalidNarrative)
	}

	narrative, err := parseNarrative(resp.Choices[0].Message.Content)
	if err != nil {
		return nil, err
	}

	a.logger.Debugw("narrative generated",
		"repository_id", metrics.RepositoryID,
		"severity", narrative.Severity,
	)
	return narrative, nil
}

// parseNarrative decodes the model's reply, tolerating a surrounding Markdown code fence.
func parseNarrative(content string) (*model.RiskNarrative, error) {
	content = stripCodeFence(content)

	var n model.RiskNarrative
	if err := json.Unmarshal([]byte(content), &n); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidNarrative, err)
	}

	n.Explanation = strings.TrimSpace(n.Explanation)
	n.SeverityJustification = strings.TrimSpace(n.SeverityJustification)
	if n.Explanation == "" {
		return nil, fmt.Errorf("%w: empty explanation", ErrInvalidNarrative)
	}
	if !validSeverities[n.Severity] {
		return nil, fmt.Errorf("%w: unknown severity %q", ErrInvalidNarrative, n.Severity)
	}

	actions := make([]string, 0, len(n.RecommendedActions))
	for _, action := range n.RecommendedActions {
		if action = strings.TrimSpace(action); action != "" {
			actions = append(actions, action)
		}
	}
	n.RecommendedActions = actions
	return &n, nil
}

func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	// Drop the info string, e.g. "json".
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[i+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
