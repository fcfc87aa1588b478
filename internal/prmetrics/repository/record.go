package repository

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/schema"

	"github.com/BhargavGarge/devpulse/internal/prmetrics/model"
)

// JSONColumn stores a value as a JSON document (JSONB on PostgreSQL).
type JSONColumn[T any] struct {
	Data T
}

// Value implements driver.Valuer.
func (j JSONColumn[T]) Value() (driver.Value, error) {
	b, err := json.Marshal(j.Data)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner.
func (j *JSONColumn[T]) Scan(src interface{}) error {
	var zero T
	switch v := src.(type) {
	case nil:
		j.Data = zero
		return nil
	case []byte:
		return json.Unmarshal(v, &j.Data)
	case string:
		return json.Unmarshal([]byte(v), &j.Data)
	default:
		return fmt.Errorf("unsupported JSON column source %T", src)
	}
}

// GormDBDataType picks the column type used by AutoMigrate.
func (JSONColumn[T]) GormDBDataType(db *gorm.DB, _ *schema.Field) string {
	if db.Dialector.Name() == "postgres" {
		return "JSONB"
	}
	return "JSON"
}

// metricsRecord is the current-state row of a repository in pull_request_metrics.
type metricsRecord struct {
	RepositoryID         string                                  `gorm:"primaryKey;column:repository_id"`
	PullRequestCount     int                                     `gorm:"column:pull_request_count;not null"`
	AvgPRSize            int                                     `gorm:"column:avg_pr_size;not null"`
	AvgReviewTime        float64                                 `gorm:"column:avg_review_time;not null"`
	UnreviewedRatio      float64                                 `gorm:"column:unreviewed_ratio;not null"`
	LargePRRatio         float64                                 `gorm:"column:large_pr_ratio;not null"`
	HealthScore          int                                     `gorm:"column:health_score;not null"`
	RiskLevel            string                                  `gorm:"column:risk_level;not null"`
	HealthScoreBreakdown JSONColumn[model.HealthScoreBreakdown]  `gorm:"column:health_score_breakdown"`
	ContributorInsights  JSONColumn[*model.ContributorInsights]  `gorm:"column:contributor_insights"`
	LanguageDistribution JSONColumn[*model.LanguageDistribution] `gorm:"column:language_distribution"`
	ReviewDeepDive       JSONColumn[*model.ReviewDeepDive]       `gorm:"column:review_deep_dive"`
	Narrative            JSONColumn[*model.RiskNarrative]        `gorm:"column:ai_narrative"`
	NarrativeStatus      string                                  `gorm:"column:narrative_status"`
	SmartAlerts          JSONColumn[[]model.SmartAlert]          `gorm:"column:smart_alerts"`
	AnalyzedAt           time.Time                               `gorm:"column:analyzed_at;not null"`
	CreatedAt            time.Time                               `gorm:"column:created_at"`
	UpdatedAt            time.Time                               `gorm:"column:updated_at"`
}

func (metricsRecord) TableName() string {
	return "pull_request_metrics"
}

// snapshotRecord is an insert-only history row in metrics_snapshots.
type snapshotRecord struct {
	ID              int64     `gorm:"primaryKey;autoIncrement;column:id"`
	RepositoryID    string    `gorm:"column:repository_id;not null;index"`
	HealthScore     int       `gorm:"column:health_score;not null"`
	AvgPRSize       int       `gorm:"column:avg_pr_size;not null"`
	ReviewTime      float64   `gorm:"column:review_time;not null"`
	UnreviewedRatio float64   `gorm:"column:unreviewed_ratio;not null"`
	Synthetic       bool      `gorm:"column:synthetic;not null"`
	CreatedAt       time.Time `gorm:"column:created_at;not null"`
}

func (snapshotRecord) TableName() string {
	return "metrics_snapshots"
}

func toMetricsRecord(m *model.PullRequestMetrics) metricsRecord {
	alerts := m.SmartAlerts
	if alerts == nil {
		alerts = []model.SmartAlert{}
	}
	return metricsRecord{
		RepositoryID:         m.RepositoryID,
		PullRequestCount:     m.PullRequestCount,
		AvgPRSize:            m.AvgPRSize,
		AvgReviewTime:        m.AvgReviewTime,
		UnreviewedRatio:      m.UnreviewedRatio,
		LargePRRatio:         m.LargePRRatio,
		HealthScore:          m.HealthScore,
		RiskLevel:            string(m.RiskLevel),
		HealthScoreBreakdown: JSONColumn[model.HealthScoreBreakdown]{Data: m.HealthScoreBreakdown},
		ContributorInsights:  JSONColumn[*model.ContributorInsights]{Data: m.ContributorInsights},
		LanguageDistribution: JSONColumn[*model.LanguageDistribution]{Data: m.LanguageDistribution},
		ReviewDeepDive:       JSONColumn[*model.ReviewDeepDive]{Data: m.ReviewDeepDive},
		Narrative:            JSONColumn[*model.RiskNarrative]{Data: m.Narrative},
		NarrativeStatus:      string(m.NarrativeStatus),
		SmartAlerts:          JSONColumn[[]model.SmartAlert]{Data: alerts},
		AnalyzedAt:           m.AnalyzedAt.UTC(),
	}
}

func (r metricsRecord) toModel() *model.PullRequestMetrics {
	alerts := r.SmartAlerts.Data
	if alerts == nil {
		alerts = []model.SmartAlert{}
	}
	return &model.PullRequestMetrics{
		RepositoryID:         r.RepositoryID,
		PullRequestCount:     r.PullRequestCount,
		AvgPRSize:            r.AvgPRSize,
		AvgReviewTime:        r.AvgReviewTime,
		UnreviewedRatio:      r.UnreviewedRatio,
		LargePRRatio:         r.LargePRRatio,
		HealthScore:          r.HealthScore,
		HealthScoreBreakdown: r.HealthScoreBreakdown.Data,
		RiskLevel:            model.RiskLevel(r.RiskLevel),
		ContributorInsights:  r.ContributorInsights.Data,
		LanguageDistribution: r.LanguageDistribution.Data,
		ReviewDeepDive:       r.ReviewDeepDive.Data,
		Narrative:            r.Narrative.Data,
		NarrativeStatus:      model.NarrativeStatus(r.NarrativeStatus),
		SmartAlerts:          alerts,
		AnalyzedAt:           r.AnalyzedAt.UTC(),
	}
}

func toSnapshotRecord(s model.MetricsSnapshot) snapshotRecord {
	return snapshotRecord{
		RepositoryID:    s.RepositoryID,
		HealthScore:     s.HealthScore,
		AvgPRSize:       s.AvgPRSize,
		ReviewTime:      s.ReviewTime,
		UnreviewedRatio: s.UnreviewedRatio,
		Synthetic:       s.Synthetic,
		CreatedAt:       s.CreatedAt.UTC(),
	}
}

func (r snapshotRecord) toModel() model.MetricsSnapshot {
	return model.MetricsSnapshot{
		ID:              r.ID,
		RepositoryID:    r.RepositoryID,
		HealthScore:     r.HealthScore,
		AvgPRSize:       r.AvgPRSize,
		ReviewTime:      r.ReviewTime,
		UnreviewedRatio: r.UnreviewedRatio,
		Synthetic:       r.Synthetic,
		CreatedAt:       r.CreatedAt.UTC(),
	}
}
