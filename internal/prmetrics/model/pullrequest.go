// Package model provides domain types and data transfer objects for the prmetrics module.
package model

import (
	"time"
)

// RawPullRequest is one closed pull request as observed on the source control host.
// Only pull requests with a non-nil MergedAt take part in metric computation.
type RawPullRequest struct {
	Number             int        `json:"number"`
	State              string     `json:"state"`
	Title              string     `json:"title"`
	Additions          int        `json:"additions"`
	Deletions          int        `json:"deletions"`
	ChangedFiles       int        `json:"changed_files"`
	CreatedAt          time.Time  `json:"created_at"`
	MergedAt           *time.Time `json:"merged_at,omitempty"`
	Comments           int        `json:"comments"`
	ReviewComments     int        `json:"review_comments"`
	Commits            int        `json:"commits"`
	Author             string     `json:"author"`
	MergedBy           string     `json:"merged_by,omitempty"`
	RequestedReviewers []string   `json:"requested_reviewers"`
}

// IsMerged reports whether the pull request has a merge timestamp.
func (pr RawPullRequest) IsMerged() bool {
	return pr.MergedAt != nil
}

// Size returns the number of changed lines.
func (pr RawPullRequest) Size() int {
	return pr.Additions + pr.Deletions
}

// ReviewHours returns hours between creation and merge.
// The second value is false for unmerged pull requests and negative durations.
func (pr RawPullRequest) ReviewHours() (float64, bool) {
	if pr.MergedAt == nil {
		return 0, false
	}
	hours := pr.MergedAt.Sub(pr.CreatedAt).Hours()
	if hours < 0 {
		return 0, false
	}
	return hours, true
}
