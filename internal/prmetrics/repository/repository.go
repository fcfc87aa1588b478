// Package repository persists pull request metrics and their history.
package repository

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/BhargavGarge/devpulse/internal/prmetrics/model"
)

// Repository defines the interface for metrics persistence.
type Repository interface {
	// SaveMetrics upserts the current-state row and appends a snapshot. On the first
	// analysis of a repository it also writes a synthetic trend backfill.
	SaveMetrics(ctx context.Context, metrics *model.PullRequestMetrics) error

	// GetMetrics returns the current-state row, or nil when absent or unreadable.
	GetMetrics(ctx context.Context, repositoryID string) *model.PullRequestMetrics

	// ListSnapshots returns the history of a repository ordered by creation time.
	ListSnapshots(ctx context.Context, repositoryID string) ([]model.MetricsSnapshot, error)
}

// Option configures the repository.
type Option func(*repository)

// WithRandSource sets the random source used for the trend backfill.
func WithRandSource(src rand.Source) Option {
	return func(r *repository) {
		r.rng = rand.New(src) //nolint:gosec // synthetic chart data
	}
}

type repository struct {
	db     *gorm.DB
	logger *zap.SugaredLogger

	rngMu sync.Mutex
	rng   *rand.Rand
}

// New creates a new metrics repository instance.
func New(db *gorm.DB, logger *zap.SugaredLogger, opts ...Option) Repository {
	r := &repository{
		db:     db,
		logger: logger,
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())), //nolint:gosec // synthetic chart data
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// SaveMetrics persists metrics. Only the upsert is fatal; backfill and snapshot
// failures are logged.
func (r *repository) SaveMetrics(ctx context.Context, metrics *model.PullRequestMetrics) error {
	if metrics == nil {
		return errors.New("metrics is nil")
	}
	r.logger.Debugw("SaveMetrics called", "repository_id", metrics.RepositoryID)

	record := toMetricsRecord(metrics)
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "repository_id"}},
			UpdateAll: true,
		}).
		Create(&record).Error
	if err != nil {
		r.logger.Errorw("failed to upsert metrics", "repository_id", metrics.RepositoryID, "error", err)
		return fmt.Errorf("failed to upsert metrics for %s: %w", metrics.RepositoryID, err)
	}

	r.backfillIfFirstAnalysis(ctx, metrics)

	snapshot := toSnapshotRecord(model.MetricsSnapshot{
		RepositoryID:    metrics.RepositoryID,
		HealthScore:     metrics.HealthScore,
		AvgPRSize:       metrics.AvgPRSize,
		ReviewTime:      metrics.AvgReviewTime,
		UnreviewedRatio: metrics.UnreviewedRatio,
		CreatedAt:       metrics.AnalyzedAt,
	})
	if err := r.db.WithContext(ctx).Create(&snapshot).Error; err != nil {
		r.logger.Warnw("failed to append metrics snapshot", "repository_id", metrics.RepositoryID, "error", err)
	}

	r.logger.Debugw("SaveMetrics completed", "repository_id", metrics.RepositoryID)
	return nil
}

func (r *repository) backfillIfFirstAnalysis(ctx context.Context, metrics *model.PullRequestMetrics) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&snapshotRecord{}).
		Where("repository_id = ?", metrics.RepositoryID).
		Count(&count).Error
	if err != nil {
		r.logger.Warnw("failed to count snapshots, skipping backfill", "repository_id", metrics.RepositoryID, "error", err)
		return
	}
	if count > 0 {
		return
	}

	r.rngMu.Lock()
	seeded := SeedHistoricalTrend(metrics, r.rng)
	r.rngMu.Unlock()

	records := make([]snapshotRecord, 0, len(seeded))
	for _, s := range seeded {
		records = append(records, toSnapshotRecord(s))
	}
	if err := r.db.WithContext(ctx).Create(&records).Error; err != nil {
		r.logger.Warnw("failed to write trend backfill", "repository_id", metrics.RepositoryID, "error", err)
		return
	}
	r.logger.Infow("seeded synthetic trend history", "repository_id", metrics.RepositoryID, "snapshots", len(records))
}

// GetMetrics returns the current metrics of a repository.
func (r *repository) GetMetrics(ctx context.Context, repositoryID string) *model.PullRequestMetrics {
	var record metricsRecord
	err := r.db.WithContext(ctx).
		Where("repository_id = ?", repositoryID).
		First(&record).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			r.logger.Errorw("failed to read metrics", "repository_id", repositoryID, "error", err)
		}
		return nil
	}
	return record.toModel()
}

// ListSnapshots returns snapshots oldest first.
func (r *repository) ListSnapshots(ctx context.Context, repositoryID string) ([]model.MetricsSnapshot, error) {
	var records []snapshotRecord
	err := r.db.WithContext(ctx).
		Where("repository_id = ?", repositoryID).
		Order("created_at ASC, id ASC").
		Find(&records).Error
	if err != nil {
		r.logger.Errorw("failed to list snapshots", "repository_id", repositoryID, "error", err)
		return nil, fmt.Errorf("failed to list snapshots for %s: %w", repositoryID, err)
	}

	snapshots := make([]model.MetricsSnapshot, 0, len(records))
	for _, rec := range records {
		snapshots = append(snapshots, rec.toModel())
	}
	return snapshots, nil
}
