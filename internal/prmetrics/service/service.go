// Package service orchestrates a pull request analysis run: fetch, aggregate,
// narrate and persist.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/BhargavGarge/devpulse/internal/advisor"
	"github.com/BhargavGarge/devpulse/internal/githubapi"
	"github.com/BhargavGarge/devpulse/internal/prmetrics/aggregator"
	"github.com/BhargavGarge/devpulse/internal/prmetrics/model"
	"github.com/BhargavGarge/devpulse/internal/prmetrics/repository"
)

const maxIdentifierLength = 255

// Service defines the interface for pull request metrics operations.
type Service interface {
	// AnalyzeRepository runs a full analysis and persists the result.
	AnalyzeRepository(ctx context.Context, req *model.AnalyzeRequest) (*model.PullRequestMetrics, error)

	// GetMetrics returns the last stored analysis of a repository.
	GetMetrics(ctx context.Context, repositoryID string) (*model.PullRequestMetrics, error)

	// GetHistory returns the snapshot history of a repository.
	GetHistory(ctx context.Context, repositoryID string) (*model.HistoryResponse, error)
}

// Option configures the service.
type Option func(*service)

// WithPRLimit sets how many recent closed pull requests are requested per analysis.
func WithPRLimit(limit int) Option {
	return func(s *service) {
		s.prLimit = limit
	}
}

// WithClock overrides the time source used for AnalyzedAt.
func WithClock(now func() time.Time) Option {
	return func(s *service) {
		s.now = now
	}
}

type service struct {
	repo    repository.Repository
	github  githubapi.Client
	advisor advisor.Advisor
	logger  *zap.SugaredLogger
	prLimit int
	now     func() time.Time
}

// New creates a new metrics service instance.
func New(
	repo repository.Repository,
	github githubapi.Client,
	adv advisor.Advisor,
	logger *zap.SugaredLogger,
	opts ...Option,
) Service {
	s := &service{
		repo:    repo,
		github:  github,
		advisor: adv,
		logger:  logger,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AnalyzeRepository fetches merged pull requests, computes metrics, asks for a narrative
// and saves the result. Only the pull request list fetch and the upsert are fatal.
func (s *service) AnalyzeRepository(ctx context.Context, req *model.AnalyzeRequest) (*model.PullRequestMetrics, error) {
	if err := validateAnalyzeRequest(req); err != nil {
		return nil, err
	}
	repositoryID := strings.TrimSpace(req.RepositoryID)
	owner := strings.TrimSpace(req.Owner)
	repo := strings.TrimSpace(req.Repo)

	s.logger.Infow("analysis started", "repository_id", repositoryID, "owner", owner, "repo", repo)
	analyzedAt := s.now().UTC()

	fetched, err := s.github.GetRecentPullRequests(ctx, owner, repo, s.prLimit)
	if err != nil {
		return nil, err
	}

	var metrics *model.PullRequestMetrics
	if len(fetched.PullRequests) == 0 {
		s.logger.Infow("no merged pull requests, using neutral metrics", "repository_id", repositoryID)
		metrics = aggregator.Neutral(repositoryID, analyzedAt)
	} else {
		languages := s.github.GetLanguageDistribution(ctx, owner, repo)
		metrics = aggregator.Compute(repositoryID, fetched.PullRequests, languages.Languages, analyzedAt)
	}

	s.attachNarrative(ctx, metrics)

	if err := s.repo.SaveMetrics(ctx, metrics); err != nil {
		return nil, fmt.Errorf("failed to save metrics: %w", err)
	}

	s.logger.Infow("analysis completed",
		"repository_id", repositoryID,
		"pull_requests", metrics.PullRequestCount,
		"skipped", len(fetched.Skipped),
		"health_score", metrics.HealthScore,
		"risk_level", metrics.RiskLevel,
		"alerts", len(metrics.SmartAlerts),
	)
	return metrics, nil
}

func (s *service) attachNarrative(ctx context.Context, metrics *model.PullRequestMetrics) {
	narrative, err := s.advisor.Advise(ctx, metrics)
	switch {
	case errors.Is(err, advisor.ErrAdvisorDisabled):
		metrics.Narrative = nil
		metrics.NarrativeStatus = model.NarrativeDisabled
	case err != nil || narrative == nil:
		s.logger.Warnw("narrative unavailable", "repository_id", metrics.RepositoryID, "error", err)
		metrics.Narrative = nil
		metrics.NarrativeStatus = model.NarrativeUnavailable
	default:
		metrics.Narrative = narrative
		metrics.NarrativeStatus = model.NarrativeAvailable
	}
}

// GetMetrics returns stored metrics or ErrMetricsNotFound.
func (s *service) GetMetrics(ctx context.Context, repositoryID string) (*model.PullRequestMetrics, error) {
	repositoryID = strings.TrimSpace(repositoryID)
	if !validIdentifier(repositoryID) {
		return nil, model.ErrInvalidRepositoryID
	}

	metrics := s.repo.GetMetrics(ctx, repositoryID)
	if metrics == nil {
		return nil, model.ErrMetricsNotFound
	}
	return metrics, nil
}

// GetHistory returns snapshots oldest first; an empty history is not an error.
func (s *service) GetHistory(ctx context.Context, repositoryID string) (*model.HistoryResponse, error) {
	repositoryID = strings.TrimSpace(repositoryID)
	if !validIdentifier(repositoryID) {
		return nil, model.ErrInvalidRepositoryID
	}

	snapshots, err := s.repo.ListSnapshots(ctx, repositoryID)
	if err != nil {
		return nil, err
	}
	if snapshots == nil {
		snapshots = []model.MetricsSnapshot{}
	}
	return &model.HistoryResponse{RepositoryID: repositoryID, Snapshots: snapshots}, nil
}

func validateAnalyzeRequest(req *model.AnalyzeRequest) error {
	if req == nil || !validIdentifier(strings.TrimSpace(req.RepositoryID)) {
		return model.ErrInvalidRepositoryID
	}
	if !validIdentifier(strings.TrimSpace(req.Owner)) {
		return model.ErrInvalidOwner
	}
	if !validIdentifier(strings.TrimSpace(req.Repo)) {
		return model.ErrInvalidRepoName
	}
	return nil
}

func validIdentifier(s string) bool {
	return s != "" && len(s) <= maxIdentifierLength
}
