// Package githubapi fetches pull request and language data from the GitHub REST API.
package githubapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/go-github/v62/github"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/sync/errgroup"

	"github.com/BhargavGarge/devpulse/internal/config"
	"github.com/BhargavGarge/devpulse/internal/prmetrics/model"
	"github.com/BhargavGarge/devpulse/pkg/retry"
)

const (
	maxPerPage = 100
	// lowRateLimitThreshold triggers a warning when fewer requests remain.
	lowRateLimitThreshold = 100
	requestTimeout        = 30 * time.Second
)

// ErrFetchPullRequests is returned when the pull request list cannot be fetched.
var ErrFetchPullRequests = errors.New("failed to fetch pull requests")

// SkippedPullRequest describes a listed pull request whose detail could not be fetched.
type SkippedPullRequest struct {
	Number int
	Reason string
}

// PullRequestsResult holds merged pull requests in list order and the ones dropped on the way.
type PullRequestsResult struct {
	PullRequests []model.RawPullRequest
	Skipped      []SkippedPullRequest
}

// LanguagesResult holds language byte counts. Degraded is set when the lookup failed
// and Languages is empty for that reason.
type LanguagesResult struct {
	Languages map[string]int64
	Degraded  bool
}

// Client defines the GitHub operations the analysis needs.
type Client interface {
	GetRecentPullRequests(ctx context.Context, owner, repo string, limit int) (PullRequestsResult, error)
	GetLanguageDistribution(ctx context.Context, owner, repo string) LanguagesResult
}

type client struct {
	gh       *github.Client
	cfg      config.GitHubConfig
	retryCfg retry.Config
	logger   *zap.SugaredLogger
}

// New creates a GitHub client authenticated with cfg.Token when one is set.
func New(cfg config.GitHubConfig, logger *zap.SugaredLogger) (Client, error) {
	httpClient := &http.Client{Timeout: requestTimeout}
	if cfg.Token != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.Token})
		httpClient = oauth2.NewClient(context.Background(), ts)
		httpClient.Timeout = requestTimeout
	}
	return NewWithHTTPClient(httpClient, cfg, logger)
}

// NewWithHTTPClient creates a GitHub client on top of httpClient.
func NewWithHTTPClient(httpClient *http.Client, cfg config.GitHubConfig, logger *zap.SugaredLogger) (Client, error) {
	gh := github.NewClient(httpClient)
	if cfg.BaseURL != "" {
		base := cfg.BaseURL
		if !strings.HasSuffix(base, "/") {
			base += "/"
		}
		u, err := url.Parse(base)
		if err != nil {
			return nil, fmt.Errorf("invalid GitHub base URL: %w", err)
		}
		gh.BaseURL = u
	}

	c := &client{gh: gh, cfg: cfg, logger: logger}
	c.retryCfg = retry.Config{
		MaxAttempts:  cfg.RetryMaxAttempts,
		InitialDelay: cfg.RetryInitialDelay,
		MaxDelay:     10 * time.Second,
		Multiplier:   2,
		Retryable:    isTransient,
		OnRetry: func(attempt int, err error, delay time.Duration) {
			logger.Warnw("retrying pull request list request",
				"attempt", attempt,
				"delay", delay,
				"error", err,
			)
		},
	}
	return c, nil
}

// GetRecentPullRequests lists the most recently updated closed pull requests, fetches
// each one's detail with bounded concurrency and returns the merged ones in list order.
func (c *client) GetRecentPullRequests(ctx context.Context, owner, repo string, limit int) (PullRequestsResult, error) {
	if limit <= 0 {
		limit = c.cfg.PRLimit
	}
	if limit <= 0 || limit > maxPerPage {
		limit = maxPerPage
	}

	opts := &github.PullRequestListOptions{
		State:       "closed",
		Sort:        "updated",
		Direction:   "desc",
		ListOptions: github.ListOptions{PerPage: limit},
	}

	listed, err := retry.DoWithResult(ctx, c.retryCfg, func() ([]*github.PullRequest, error) {
		prs, resp, err := c.gh.PullRequests.List(ctx, owner, repo, opts)
		c.checkRateLimit(resp)
		return prs, err
	})
	if err != nil {
		c.logger.Errorw("failed to list pull requests", "owner", owner, "repo", repo, "error", err)
		return PullRequestsResult{}, fmt.Errorf("%w for %s/%s: %w", ErrFetchPullRequests, owner, repo, err)
	}

	// The list payload already tells which PRs were merged; skip detail calls for the rest.
	candidates := make([]int, 0, len(listed))
	for _, pr := range listed {
		if pr.MergedAt == nil {
			continue
		}
		candidates = append(candidates, pr.GetNumber())
		if len(candidates) == limit {
			break
		}
	}

	details := make([]*github.PullRequest, len(candidates))
	failures := make([]error, len(candidates))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.detailConcurrency())
	for i, number := range candidates {
		g.Go(func() error {
			pr, resp, err := c.gh.PullRequests.Get(gctx, owner, repo, number)
			c.checkRateLimit(resp)
			if err != nil {
				failures[i] = err
				return nil
			}
			details[i] = pr
			return nil
		})
	}
	// Workers never return errors; a failed detail only drops its PR.
	_ = g.Wait()

	result := PullRequestsResult{PullRequests: make([]model.RawPullRequest, 0, len(candidates))}
	for i, number := range candidates {
		if failures[i] != nil {
			c.logger.Warnw("skipping pull request after detail fetch failure",
				"owner", owner,
				"repo", repo,
				"number", number,
				"error", failures[i],
			)
			result.Skipped = append(result.Skipped, SkippedPullRequest{Number: number, Reason: failures[i].Error()})
			continue
		}
		raw := toRawPullRequest(details[i])
		if !raw.IsMerged() {
			continue
		}
		result.PullRequests = append(result.PullRequests, raw)
	}

	if err := ctx.Err(); err != nil {
		return PullRequestsResult{}, err
	}

	c.logger.Debugw("fetched pull requests",
		"owner", owner,
		"repo", repo,
		"listed", len(listed),
		"merged", len(result.PullRequests),
		"skipped", len(result.Skipped),
	)
	return result, nil
}

// GetLanguageDistribution returns bytes of code per language. Failures are logged and
// reported through Degraded rather than as an error.
func (c *client) GetLanguageDistribution(ctx context.Context, owner, repo string) LanguagesResult {
	langs, resp, err := c.gh.Repositories.ListLanguages(ctx, owner, repo)
	c.checkRateLimit(resp)
	if err != nil {
		c.logger.Warnw("failed to fetch language distribution", "owner", owner, "repo", repo, "error", err)
		return LanguagesResult{Languages: map[string]int64{}, Degraded: true}
	}

	out := make(map[string]int64, len(langs))
	for name, bytes := range langs {
		out[name] = int64(bytes)
	}
	return LanguagesResult{Languages: out}
}

func (c *client) detailConcurrency() int {
	if c.cfg.DetailConcurrency > 0 {
		return c.cfg.DetailConcurrency
	}
	return 10
}

func (c *client) checkRateLimit(resp *github.Response) {
	if resp == nil || resp.Rate.Limit == 0 {
		return
	}
	if resp.Rate.Remaining < lowRateLimitThreshold {
		c.logger.Warnw("GitHub rate limit running low",
			"remaining", resp.Rate.Remaining,
			"limit", resp.Rate.Limit,
			"reset", resp.Rate.Reset.Time,
		)
	}
}

// isTransient reports whether a list failure may succeed on a later attempt.
func isTransient(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var rateErr *github.RateLimitError
	if errors.As(err, &rateErr) {
		return true
	}
	var abuseErr *github.AbuseRateLimitError
	if errors.As(err, &abuseErr) {
		return true
	}
	var respErr *github.ErrorResponse
	if errors.As(err, &respErr) {
		return respErr.Response != nil && respErr.Response.StatusCode >= http.StatusInternalServerError
	}
	// Anything else is a transport failure.
	return true
}

func toRawPullRequest(pr *github.PullRequest) model.RawPullRequest {
	raw := model.RawPullRequest{
		Number:         pr.GetNumber(),
		State:          pr.GetState(),
		Title:          pr.GetTitle(),
		Additions:      pr.GetAdditions(),
		Deletions:      pr.GetDeletions(),
		ChangedFiles:   pr.GetChangedFiles(),
		CreatedAt:      pr.GetCreatedAt().Time,
		Comments:       pr.GetComments(),
		ReviewComments: pr.GetReviewComments(),
		Commits:        pr.GetCommits(),
		Author:         pr.GetUser().GetLogin(),
		MergedBy:       pr.GetMergedBy().GetLogin(),
	}
	if pr.MergedAt != nil {
		merged := pr.MergedAt.Time
		raw.MergedAt = &merged
	}
	raw.RequestedReviewers = make([]string, 0, len(pr.RequestedReviewers))
	for _, u := range pr.RequestedReviewers {
		if login := u.GetLogin(); login != "" {
			raw.RequestedReviewers = append(raw.RequestedReviewers, login)
		}
	}
	return raw
}
