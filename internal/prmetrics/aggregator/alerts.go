package aggregator

import (
	"fmt"
	"math"

	"github.com/BhargavGarge/devpulse/internal/prmetrics/model"
)

// Smart alert identifiers.
const (
	AlertHighUnreviewedRatio = "high-unreviewed-ratio"
	AlertFastMerges          = "suspiciously-fast-merges"
	AlertMassivePRs          = "massive-pr-sizes"
	AlertKeyPersonDependency = "key-person-dependency"
	AlertSiloedReviews       = "siloed-code-reviews"
)

// alertInput carries the figures the alert rules look at.
type alertInput struct {
	unreviewedRatio         float64
	fastMergeRatio          float64
	avgPRSize               float64
	singleContributorRatio  float64
	reviewParticipationRate float64
	topContributor          string
	totalPRs                int
}

func percent(r float64) int {
	return int(math.Round(r * 100))
}

// smartAlerts evaluates every rule independently; several may fire at once.
func smartAlerts(in alertInput) []model.SmartAlert {
	alerts := []model.SmartAlert{}

	if in.unreviewedRatio > 0.4 {
		alerts = append(alerts, model.SmartAlert{
			ID:    AlertHighUnreviewedRatio,
			Title: "High Unreviewed Ratio",
			Description: fmt.Sprintf(
				"%d%% of merged pull requests received no review comments before merging.",
				percent(in.unreviewedRatio)),
			Severity: model.SeverityCritical,
			Category: model.CategoryQuality,
		})
	}

	if in.fastMergeRatio > 0.4 {
		alerts = append(alerts, model.SmartAlert{
			ID:    AlertFastMerges,
			Title: "Suspiciously Fast Merges",
			Description: fmt.Sprintf(
				"%d%% of pull requests were merged less than 30 minutes after being opened.",
				percent(in.fastMergeRatio)),
			Severity: model.SeverityWarning,
			Category: model.CategoryVelocity,
		})
	}

	if in.avgPRSize > 600 {
		alerts = append(alerts, model.SmartAlert{
			ID:    AlertMassivePRs,
			Title: "Massive PR Sizes",
			Description: fmt.Sprintf(
				"Pull requests average %d changed lines, which makes thorough review unlikely.",
				int(math.Round(in.avgPRSize))),
			Severity: model.SeverityWarning,
			Category: model.CategoryQuality,
		})
	}

	if in.singleContributorRatio > 0.6 && in.totalPRs > 10 {
		alerts = append(alerts, model.SmartAlert{
			ID:    AlertKeyPersonDependency,
			Title: "High Key-Person Dependency",
			Description: fmt.Sprintf(
				"%s authored %d%% of the last %d merged pull requests.",
				in.topContributor, percent(in.singleContributorRatio), in.totalPRs),
			Severity: model.SeverityCritical,
			Category: model.CategoryOwnership,
		})
	}

	if in.reviewParticipationRate < 0.3 && in.totalPRs > 5 {
		alerts = append(alerts, model.SmartAlert{
			ID:    AlertSiloedReviews,
			Title: "Siloed Code Reviews",
			Description: fmt.Sprintf(
				"Only %.2f distinct reviewers are requested per pull request author.",
				in.reviewParticipationRate),
			Severity: model.SeverityWarning,
			Category: model.CategoryReview,
		})
	}

	return alerts
}
