package model

import "time"

// RiskLevel is the coarse classification derived from the health score.
type RiskLevel string

// Risk levels.
const (
	RiskLow      RiskLevel = "Low"
	RiskModerate RiskLevel = "Moderate"
	RiskHigh     RiskLevel = "High"
)

// NarrativeStatus tells apart a missing narrative caused by a failure from a disabled advisor.
type NarrativeStatus string

// Narrative statuses.
const (
	NarrativeAvailable   NarrativeStatus = "available"
	NarrativeUnavailable NarrativeStatus = "unavailable"
	NarrativeDisabled    NarrativeStatus = "disabled"
)

// PullRequestMetrics is the aggregate result for one repository at one point in time.
type PullRequestMetrics struct {
	RepositoryID         string                `json:"repository_id"`
	PullRequestCount     int                   `json:"pull_request_count"`
	AvgPRSize            int                   `json:"avg_pr_size"`
	AvgReviewTime        float64               `json:"avg_review_time"`
	UnreviewedRatio      float64               `json:"unreviewed_ratio"`
	LargePRRatio         float64               `json:"large_pr_ratio"`
	HealthScore          int                   `json:"health_score"`
	HealthScoreBreakdown HealthScoreBreakdown  `json:"health_score_breakdown"`
	RiskLevel            RiskLevel             `json:"risk_level"`
	ContributorInsights  *ContributorInsights  `json:"contributor_insights,omitempty"`
	LanguageDistribution *LanguageDistribution `json:"language_distribution,omitempty"`
	ReviewDeepDive       *ReviewDeepDive       `json:"review_deep_dive,omitempty"`
	Narrative            *RiskNarrative        `json:"ai_narrative,omitempty"`
	NarrativeStatus      NarrativeStatus       `json:"narrative_status,omitempty"`
	SmartAlerts          []SmartAlert          `json:"smart_alerts"`
	AnalyzedAt           time.Time             `json:"analyzed_at"`
}

// HealthScoreBreakdown holds the five scored buckets and the penalties applied after summing.
type HealthScoreBreakdown struct {
	PRSizeScore          int `json:"pr_size_score"`
	ReviewTimeScore      int `json:"review_time_score"`
	UnreviewedRatioScore int `json:"unreviewed_ratio_score"`
	MergeSpeedScore      int `json:"merge_speed_score"`
	MultiReviewerScore   int `json:"multi_reviewer_score"`
	OwnershipPenalty     int `json:"ownership_penalty"`
	FragmentationPenalty int `json:"fragmentation_penalty"`
}

// Total returns the bucket sum minus penalties, before clamping.
func (b HealthScoreBreakdown) Total() int {
	return b.PRSizeScore + b.ReviewTimeScore + b.UnreviewedRatioScore +
		b.MergeSpeedScore + b.MultiReviewerScore - b.OwnershipPenalty - b.FragmentationPenalty
}

// ContributorInsights summarizes contributor behavior of a repository.
type ContributorInsights struct {
	TopContributors         []ContributorStat `json:"top_contributors"`
	SingleContributorRatio  float64           `json:"single_contributor_ratio"`
	ReviewParticipationRate float64           `json:"review_participation_rate"`
}

// ContributorStat is one ranked contributor.
type ContributorStat struct {
	Login        string   `json:"login"`
	PRCount      int      `json:"pr_count"`
	LinesChanged int      `json:"lines_changed"`
	Personas     []string `json:"personas"`
}

// LanguageDistribution is the language byte map with derived figures.
type LanguageDistribution struct {
	Languages          map[string]int64 `json:"languages"`
	PrimaryLanguage    string           `json:"primary_language"`
	FragmentationScore float64          `json:"fragmentation_score"`
}

// ReviewDeepDive holds review discipline ratios.
type ReviewDeepDive struct {
	MultiReviewerRatio float64 `json:"multi_reviewer_ratio"`
	AvgCommentsPerPR   float64 `json:"avg_comments_per_pr"`
	MedianReviewTime   float64 `json:"median_review_time"`
	FastMergeRatio     float64 `json:"fast_merge_ratio"`
}

// RiskNarrative is the structured output of the narrative advisor.
type RiskNarrative struct {
	Explanation           string   `json:"explanation"`
	Severity              string   `json:"severity"`
	SeverityJustification string   `json:"severityJustification"`
	RecommendedActions    []string `json:"recommendedActions"`
}

// MetricsSnapshot is an immutable historical record used for trend charts.
// Synthetic snapshots come from the one-time backfill and are not measured data.
type MetricsSnapshot struct {
	ID              int64     `json:"id"`
	RepositoryID    string    `json:"repository_id"`
	HealthScore     int       `json:"health_score"`
	AvgPRSize       int       `json:"avg_pr_size"`
	ReviewTime      float64   `json:"review_time"`
	UnreviewedRatio float64   `json:"unreviewed_ratio"`
	Synthetic       bool      `json:"synthetic"`
	CreatedAt       time.Time `json:"created_at"`
}
