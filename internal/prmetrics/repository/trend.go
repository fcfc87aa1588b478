package repository

import (
	"math"
	"math/rand"

	"github.com/BhargavGarge/devpulse/internal/prmetrics/model"
)

const (
	backfillMonths    = 6
	backfillMinScore  = 20
	backfillMaxScore  = 100
	jitterMin         = -5
	jitterMax         = 10
	sizeGrowthPerStep = 0.10
	timeGrowthPerStep = 0.15
	unreviewedPerStep = 0.03
)

// SeedHistoricalTrend synthesizes monthly snapshots before current.AnalyzedAt,
// oldest first. Walking backward, each month's score is the next month's score
// minus a jitter in [-5, +10], clamped to [20, 100]; PR size, review time and the
// unreviewed ratio grow linearly with distance. Every snapshot is marked Synthetic.
func SeedHistoricalTrend(current *model.PullRequestMetrics, rng *rand.Rand) []model.MetricsSnapshot {
	snapshots := make([]model.MetricsSnapshot, backfillMonths)

	score := current.HealthScore
	for step := 1; step <= backfillMonths; step++ {
		jitter := jitterMin + rng.Intn(jitterMax-jitterMin+1)
		score = clamp(score-jitter, backfillMinScore, backfillMaxScore)

		distance := float64(step)
		snapshots[backfillMonths-step] = model.MetricsSnapshot{
			RepositoryID:    current.RepositoryID,
			HealthScore:     score,
			AvgPRSize:       int(math.Round(float64(current.AvgPRSize) * (1 + sizeGrowthPerStep*distance))),
			ReviewTime:      math.Round(current.AvgReviewTime*(1+timeGrowthPerStep*distance)*10) / 10,
			UnreviewedRatio: math.Min(1, math.Round((current.UnreviewedRatio+unreviewedPerStep*distance)*100)/100),
			Synthetic:       true,
			CreatedAt:       current.AnalyzedAt.AddDate(0, -step, 0),
		}
	}
	return snapshots
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
