package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/BhargavGarge/devpulse/internal/advisor"
	"github.com/BhargavGarge/devpulse/internal/githubapi"
	"github.com/BhargavGarge/devpulse/internal/prmetrics/model"
)

var fixedNow = time.Date(2026, 5, 4, 8, 0, 0, 0, time.UTC)

type mockRepository struct {
	mock.Mock
}

func (m *mockRepository) SaveMetrics(ctx context.Context, metrics *model.PullRequestMetrics) error {
	args := m.Called(ctx, metrics)
	return args.Error(0)
}

func (m *mockRepository) GetMetrics(ctx context.Context, repositoryID string) *model.PullRequestMetrics {
	args := m.Called(ctx, repositoryID)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(*model.PullRequestMetrics)
}

func (m *mockRepository) ListSnapshots(ctx context.Context, repositoryID string) ([]model.MetricsSnapshot, error) {
	args := m.Called(ctx, repositoryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.MetricsSnapshot), args.Error(1)
}

type mockGitHub struct {
	mock.Mock
}

func (m *mockGitHub) GetRecentPullRequests(
	ctx context.Context,
	owner, repo string,
	limit int,
) (githubapi.PullRequestsResult, error) {
	args := m.Called(ctx, owner, repo, limit)
	return args.Get(0).(githubapi.PullRequestsResult), args.Error(1)
}

func (m *mockGitHub) GetLanguageDistribution(ctx context.Context, owner, repo string) githubapi.LanguagesResult {
	args := m.Called(ctx, owner, repo)
	return args.Get(0).(githubapi.LanguagesResult)
}

type mockAdvisor struct {
	mock.Mock
}

func (m *mockAdvisor) Advise(ctx context.Context, metrics *model.PullRequestMetrics) (*model.RiskNarrative, error) {
	args := m.Called(ctx, metrics)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.RiskNarrative), args.Error(1)
}

type fixture struct {
	repo    *mockRepository
	github  *mockGitHub
	advisor *mockAdvisor
	svc     Service
}

func newFixture() *fixture {
	f := &fixture{
		repo:    new(mockRepository),
		github:  new(mockGitHub),
		advisor: new(mockAdvisor),
	}
	f.svc = New(f.repo, f.github, f.advisor, zap.NewNop().Sugar(), WithPRLimit(30), WithClock(func() time.Time { return fixedNow }))
	return f
}

func (f *fixture) assertExpectations(t *testing.T) {
	f.repo.AssertExpectations(t)
	f.github.AssertExpectations(t)
	f.advisor.AssertExpectations(t)
}

func mergedPR(number int, author string, size int, review time.Duration, reviewComments int) model.RawPullRequest {
	created := fixedNow.Add(-time.Duration(number) * 24 * time.Hour)
	merged := created.Add(review)
	return model.RawPullRequest{
		Number:             number,
		State:              "closed",
		Additions:          size,
		CreatedAt:          created,
		MergedAt:           &merged,
		ReviewComments:     reviewComments,
		Author:             author,
		RequestedReviewers: []string{"reviewer-a", "reviewer-b"},
	}
}

func analyzeRequest() *model.AnalyzeRequest {
	return &model.AnalyzeRequest{RepositoryID: "repo-1", Owner: "octo", Repo: "demo"}
}

func TestAnalyzeRepository_Success(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	prs := []model.RawPullRequest{
		mergedPR(1, "alice", 120, 5*time.Hour, 2),
		mergedPR(2, "bob", 80, 7*time.Hour, 1),
	}
	narrative := &model.RiskNarrative{Explanation: "ok", Severity: "Low", RecommendedActions: []string{}}

	f.github.On("GetRecentPullRequests", ctx, "octo", "demo", 30).
		Return(githubapi.PullRequestsResult{PullRequests: prs}, nil)
	f.github.On("GetLanguageDistribution", ctx, "octo", "demo").
		Return(githubapi.LanguagesResult{Languages: map[string]int64{"Go": 100}})
	f.advisor.On("Advise", ctx, mock.AnythingOfType("*model.PullRequestMetrics")).Return(narrative, nil)
	f.repo.On("SaveMetrics", ctx, mock.MatchedBy(func(m *model.PullRequestMetrics) bool {
		return m.RepositoryID == "repo-1" && m.Narrative == narrative
	})).Return(nil)

	metrics, err := f.svc.AnalyzeRepository(ctx, analyzeRequest())
	require.NoError(t, err)

	assert.Equal(t, "repo-1", metrics.RepositoryID)
	assert.Equal(t, 2, metrics.PullRequestCount)
	assert.Equal(t, 100, metrics.AvgPRSize)
	assert.Equal(t, fixedNow, metrics.AnalyzedAt)
	assert.Equal(t, narrative, metrics.Narrative)
	assert.Equal(t, model.NarrativeAvailable, metrics.NarrativeStatus)
	assert.Equal(t, "Go", metrics.LanguageDistribution.PrimaryLanguage)
	f.assertExpectations(t)
}

func TestAnalyzeRepository_TrimsRequest(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	f.github.On("GetRecentPullRequests", ctx, "octo", "demo", 30).Return(githubapi.PullRequestsResult{}, nil)
	f.advisor.On("Advise", ctx, mock.Anything).Return(nil, advisor.ErrAdvisorDisabled)
	f.repo.On("SaveMetrics", ctx, mock.Anything).Return(nil)

	metrics, err := f.svc.AnalyzeRepository(ctx, &model.AnalyzeRequest{RepositoryID: " repo-1 ", Owner: " octo", Repo: "demo "})
	require.NoError(t, err)
	assert.Equal(t, "repo-1", metrics.RepositoryID)
	f.assertExpectations(t)
}

func TestAnalyzeRepository_NoMergedPullRequests(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	f.github.On("GetRecentPullRequests", ctx, "octo", "demo", 30).
		Return(githubapi.PullRequestsResult{Skipped: []githubapi.SkippedPullRequest{{Number: 3, Reason: "boom"}}}, nil)
	f.advisor.On("Advise", ctx, mock.Anything).Return(nil, advisor.ErrAdvisorDisabled)
	f.repo.On("SaveMetrics", ctx, mock.Anything).Return(nil)

	metrics, err := f.svc.AnalyzeRepository(ctx, analyzeRequest())
	require.NoError(t, err)

	assert.Equal(t, 50, metrics.HealthScore)
	assert.Equal(t, model.RiskModerate, metrics.RiskLevel)
	assert.Empty(t, metrics.SmartAlerts)
	assert.Nil(t, metrics.Narrative)
	assert.Equal(t, model.NarrativeDisabled, metrics.NarrativeStatus)
	f.github.AssertNotCalled(t, "GetLanguageDistribution", mock.Anything, mock.Anything, mock.Anything)
	f.assertExpectations(t)
}

func TestAnalyzeRepository_DegradedCollaborators(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	f.github.On("GetRecentPullRequests", ctx, "octo", "demo", 30).
		Return(githubapi.PullRequestsResult{PullRequests: []model.RawPullRequest{mergedPR(1, "alice", 50, time.Hour, 1)}}, nil)
	f.github.On("GetLanguageDistribution", ctx, "octo", "demo").
		Return(githubapi.LanguagesResult{Languages: map[string]int64{}, Degraded: true})
	f.advisor.On("Advise", ctx, mock.Anything).Return(nil, errors.New("llm timeout"))
	f.repo.On("SaveMetrics", ctx, mock.Anything).Return(nil)

	metrics, err := f.svc.AnalyzeRepository(ctx, analyzeRequest())
	require.NoError(t, err)

	assert.Nil(t, metrics.Narrative)
	assert.Equal(t, model.NarrativeUnavailable, metrics.NarrativeStatus)
	assert.Equal(t, "Unknown", metrics.LanguageDistribution.PrimaryLanguage)
	f.assertExpectations(t)
}

func TestAnalyzeRepository_FatalFailures(t *testing.T) {
	ctx := context.Background()

	t.Run("pull request list failure", func(t *testing.T) {
		f := newFixture()
		fetchErr := errors.Join(githubapi.ErrFetchPullRequests, errors.New("401 Bad credentials"))
		f.github.On("GetRecentPullRequests", ctx, "octo", "demo", 30).Return(githubapi.PullRequestsResult{}, fetchErr)

		metrics, err := f.svc.AnalyzeRepository(ctx, analyzeRequest())
		assert.Nil(t, metrics)
		assert.ErrorIs(t, err, githubapi.ErrFetchPullRequests)
		f.advisor.AssertNotCalled(t, "Advise", mock.Anything, mock.Anything)
		f.repo.AssertNotCalled(t, "SaveMetrics", mock.Anything, mock.Anything)
	})

	t.Run("upsert failure", func(t *testing.T) {
		f := newFixture()
		dbErr := errors.New("connection reset")
		f.github.On("GetRecentPullRequests", ctx, "octo", "demo", 30).Return(githubapi.PullRequestsResult{}, nil)
		f.advisor.On("Advise", ctx, mock.Anything).Return(nil, advisor.ErrAdvisorDisabled)
		f.repo.On("SaveMetrics", ctx, mock.Anything).Return(dbErr)

		metrics, err := f.svc.AnalyzeRepository(ctx, analyzeRequest())
		assert.Nil(t, metrics)
		assert.ErrorIs(t, err, dbErr)
		f.assertExpectations(t)
	})
}

func TestAnalyzeRepository_Validation(t *testing.T) {
	long := strings.Repeat("x", 256)
	tests := []struct {
		name    string
		req     *model.AnalyzeRequest
		wantErr error
	}{
		{name: "nil request", req: nil, wantErr: model.ErrInvalidRepositoryID},
		{name: "blank repository id", req: &model.AnalyzeRequest{RepositoryID: "  ", Owner: "o", Repo: "r"}, wantErr: model.ErrInvalidRepositoryID},
		{name: "long repository id", req: &model.AnalyzeRequest{RepositoryID: long, Owner: "o", Repo: "r"}, wantErr: model.ErrInvalidRepositoryID},
		{name: "missing owner", req: &model.AnalyzeRequest{RepositoryID: "id", Repo: "r"}, wantErr: model.ErrInvalidOwner},
		{name: "missing repo", req: &model.AnalyzeRequest{RepositoryID: "id", Owner: "o"}, wantErr: model.ErrInvalidRepoName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			_, err := f.svc.AnalyzeRepository(context.Background(), tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
			f.github.AssertNotCalled(t, "GetRecentPullRequests", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestGetMetrics(t *testing.T) {
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		f := newFixture()
		stored := &model.PullRequestMetrics{RepositoryID: "repo-1", HealthScore: 77}
		f.repo.On("GetMetrics", ctx, "repo-1").Return(stored)

		got, err := f.svc.GetMetrics(ctx, "repo-1")
		require.NoError(t, err)
		assert.Equal(t, stored, got)
	})

	t.Run("not found", func(t *testing.T) {
		f := newFixture()
		f.repo.On("GetMetrics", ctx, "repo-1").Return(nil)

		_, err := f.svc.GetMetrics(ctx, "repo-1")
		assert.ErrorIs(t, err, model.ErrMetricsNotFound)
	})

	t.Run("invalid id", func(t *testing.T) {
		f := newFixture()
		_, err := f.svc.GetMetrics(ctx, "")
		assert.ErrorIs(t, err, model.ErrInvalidRepositoryID)
	})
}

func TestGetHistory(t *testing.T) {
	ctx := context.Background()

	t.Run("returns snapshots", func(t *testing.T) {
		f := newFixture()
		snapshots := []model.MetricsSnapshot{{ID: 1, RepositoryID: "repo-1", HealthScore: 60, Synthetic: true}}
		f.repo.On("ListSnapshots", ctx, "repo-1").Return(snapshots, nil)

		got, err := f.svc.GetHistory(ctx, "repo-1")
		require.NoError(t, err)
		assert.Equal(t, "repo-1", got.RepositoryID)
		assert.Equal(t, snapshots, got.Snapshots)
	})

	t.Run("empty history", func(t *testing.T) {
		f := newFixture()
		f.repo.On("ListSnapshots", ctx, "repo-1").Return(nil, nil)

		got, err := f.svc.GetHistory(ctx, "repo-1")
		require.NoError(t, err)
		assert.NotNil(t, got.Snapshots)
		assert.Empty(t, got.Snapshots)
	})

	t.Run("store failure", func(t *testing.T) {
		f := newFixture()
		f.repo.On("ListSnapshots", ctx, "repo-1").Return(nil, errors.New("db down"))

		_, err := f.svc.GetHistory(ctx, "repo-1")
		assert.Error(t, err)
	})

	t.Run("invalid id", func(t *testing.T) {
		f := newFixture()
		_, err := f.svc.GetHistory(ctx, " ")
		assert.ErrorIs(t, err, model.ErrInvalidRepositoryID)
	})
}
