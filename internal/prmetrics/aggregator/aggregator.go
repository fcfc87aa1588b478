// Package aggregator turns raw pull request records into repository health metrics.
//
// Compute is a pure function: identical pull request lists and language maps always
// produce identical metrics. It performs no I/O.
package aggregator

import (
	"math"
	"time"

	"github.com/BhargavGarge/devpulse/internal/prmetrics/model"
)

const (
	largePRLines         = 500
	fastMergeHours       = 0.5
	multiReviewerMinimum = 2
	neutralHealthScore   = 50
)

// Neutral returns the fixed result used for repositories without merged pull requests.
func Neutral(repositoryID string, analyzedAt time.Time) *model.PullRequestMetrics {
	return &model.PullRequestMetrics{
		RepositoryID: repositoryID,
		HealthScore:  neutralHealthScore,
		RiskLevel:    model.RiskModerate,
		SmartAlerts:  []model.SmartAlert{},
		AnalyzedAt:   analyzedAt,
	}
}

// Compute aggregates merged pull requests and the language byte map of a repository.
// Unmerged pull requests are ignored; with no merged pull request left it returns Neutral.
func Compute(
	repositoryID string,
	prs []model.RawPullRequest,
	languages map[string]int64,
	analyzedAt time.Time,
) *model.PullRequestMetrics {
	merged := make([]model.RawPullRequest, 0, len(prs))
	for _, pr := range prs {
		if pr.IsMerged() {
			merged = append(merged, pr)
		}
	}
	if len(merged) == 0 {
		return Neutral(repositoryID, analyzedAt)
	}

	total := len(merged)
	var (
		totalSize     int
		totalComments int
		unreviewed    int
		large         int
		multiReviewer int
		fastMerges    int
		durations     = make([]float64, 0, total)
		authors       = make(map[string]*authorTally)
		reviewers     = make(map[string]struct{})
	)

	for _, pr := range merged {
		size := pr.Size()
		totalSize += size
		totalComments += pr.Comments + pr.ReviewComments

		login := pr.Author
		if login == "" {
			login = unknownAuthor
		}
		tally, ok := authors[login]
		if !ok {
			tally = &authorTally{login: login}
			authors[login] = tally
		}
		tally.prCount++
		tally.linesChanged += size

		if pr.ReviewComments == 0 {
			unreviewed++
			tally.unreviewed++
		}
		if size > largePRLines {
			large++
		}
		if len(pr.RequestedReviewers) >= multiReviewerMinimum {
			multiReviewer++
		}
		for _, r := range pr.RequestedReviewers {
			if r != "" {
				reviewers[r] = struct{}{}
			}
		}

		if hours, ok := pr.ReviewHours(); ok {
			durations = append(durations, hours)
			if hours < fastMergeHours {
				fastMerges++
				tally.fastMerges++
			}
		}
	}

	// Scoring and alerts use the unrounded figures; rounding applies to reported fields only.
	avgSize := float64(totalSize) / float64(total)
	avgReview := mean(durations)
	unreviewedRatio := ratio(unreviewed, total)
	fastMergeRatio := ratio(fastMerges, total)
	multiReviewerRatio := ratio(multiReviewer, total)

	metrics := &model.PullRequestMetrics{
		RepositoryID:     repositoryID,
		PullRequestCount: total,
		AvgPRSize:        int(math.Round(avgSize)),
		AvgReviewTime:    roundTo(avgReview, 1),
		UnreviewedRatio:  roundTo(unreviewedRatio, 2),
		LargePRRatio:     roundTo(ratio(large, total), 2),
		AnalyzedAt:       analyzedAt,
	}

	metrics.ReviewDeepDive = &model.ReviewDeepDive{
		MultiReviewerRatio: roundTo(multiReviewerRatio, 2),
		AvgCommentsPerPR:   roundTo(float64(totalComments)/float64(total), 1),
		MedianReviewTime:   roundTo(median(durations), 1),
		FastMergeRatio:     roundTo(fastMergeRatio, 2),
	}

	var ownership ownershipRatios
	metrics.ContributorInsights, ownership = contributorInsights(authors, reviewers, total)
	var fragmentation float64
	metrics.LanguageDistribution, fragmentation = languageDistribution(languages)

	metrics.HealthScore, metrics.HealthScoreBreakdown = healthScore(scoreInput{
		avgPRSize:              avgSize,
		avgReviewTime:          avgReview,
		unreviewedRatio:        unreviewedRatio,
		fastMergeRatio:         fastMergeRatio,
		multiReviewerRatio:     multiReviewerRatio,
		singleContributorRatio: ownership.singleContributor,
		fragmentation:          fragmentation,
		totalPRs:               total,
	})
	metrics.RiskLevel = RiskLevelFor(metrics.HealthScore)

	var topContributor string
	if len(metrics.ContributorInsights.TopContributors) > 0 {
		topContributor = metrics.ContributorInsights.TopContributors[0].Login
	}
	metrics.SmartAlerts = smartAlerts(alertInput{
		unreviewedRatio:         unreviewedRatio,
		fastMergeRatio:          fastMergeRatio,
		avgPRSize:               avgSize,
		singleContributorRatio:  ownership.singleContributor,
		reviewParticipationRate: ownership.reviewParticipation,
		topContributor:          topContributor,
		totalPRs:                total,
	})

	return metrics
}
