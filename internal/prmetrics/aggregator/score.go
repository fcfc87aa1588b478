package aggregator

import "github.com/BhargavGarge/devpulse/internal/prmetrics/model"

const (
	ownershipPenalty     = 15
	fragmentationPenalty = 10
)

// scoreInput carries the figures the health score is derived from.
type scoreInput struct {
	avgPRSize              float64
	avgReviewTime          float64
	unreviewedRatio        float64
	fastMergeRatio         float64
	multiReviewerRatio     float64
	singleContributorRatio float64
	fragmentation          float64
	totalPRs               int
}

func prSizeScore(avgSize float64) int {
	switch {
	case avgSize > 800:
		return 0
	case avgSize > 500:
		return 10
	case avgSize > 300:
		return 15
	case avgSize > 100:
		return 20
	default:
		return 25
	}
}

// reviewTimeScore penalizes rubber-stamp (<0.5h) and abandoned (>72h) reviews alike.
func reviewTimeScore(avgHours float64) int {
	switch {
	case avgHours < 0.5 || avgHours > 72:
		return 0
	case avgHours > 48:
		return 5
	case avgHours > 24:
		return 10
	case avgHours > 12:
		return 15
	default:
		return 20
	}
}

func unreviewedRatioScore(r float64) int {
	switch {
	case r > 0.6:
		return 0
	case r > 0.4:
		return 5
	case r > 0.2:
		return 15
	case r > 0.1:
		return 20
	default:
		return 25
	}
}

func mergeSpeedScore(fastMergeRatio float64) int {
	switch {
	case fastMergeRatio > 0.5:
		return 0
	case fastMergeRatio > 0.3:
		return 5
	case fastMergeRatio > 0.1:
		return 10
	default:
		return 15
	}
}

func multiReviewerScore(r float64) int {
	switch {
	case r < 0.05:
		return 0
	case r < 0.1:
		return 5
	case r < 0.2:
		return 10
	default:
		return 15
	}
}

// healthScore returns the clamped score together with its breakdown.
func healthScore(in scoreInput) (int, model.HealthScoreBreakdown) {
	b := model.HealthScoreBreakdown{
		PRSizeScore:          prSizeScore(in.avgPRSize),
		ReviewTimeScore:      reviewTimeScore(in.avgReviewTime),
		UnreviewedRatioScore: unreviewedRatioScore(in.unreviewedRatio),
		MergeSpeedScore:      mergeSpeedScore(in.fastMergeRatio),
		MultiReviewerScore:   multiReviewerScore(in.multiReviewerRatio),
	}
	if in.singleContributorRatio > 0.7 && in.totalPRs > 5 {
		b.OwnershipPenalty = ownershipPenalty
	}
	if in.fragmentation > 0.5 {
		b.FragmentationPenalty = fragmentationPenalty
	}
	return clampScore(b.Total()), b
}

func clampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// RiskLevelFor classifies a health score.
func RiskLevelFor(score int) model.RiskLevel {
	switch {
	case score >= 80:
		return model.RiskLow
	case score >= 50:
		return model.RiskModerate
	default:
		return model.RiskHigh
	}
}
