package model

import "errors"

var (
	// ErrInvalidRepositoryID indicates that the repository identifier is empty or too long.
	ErrInvalidRepositoryID = errors.New("repository_id must be between 1 and 255 characters")
	// ErrInvalidOwner indicates that the repository owner is empty or too long.
	ErrInvalidOwner = errors.New("owner must be between 1 and 255 characters")
	// ErrInvalidRepoName indicates that the repository name is empty or too long.
	ErrInvalidRepoName = errors.New("repo must be between 1 and 255 characters")
	// ErrMetricsNotFound indicates that no analysis has been stored for the repository.
	ErrMetricsNotFound = errors.New("metrics not found")
)
