package model

// AnalyzeRequest represents the request to analyze pull requests of a repository.
type AnalyzeRequest struct {
	RepositoryID string `json:"repository_id" binding:"required"`
	Owner        string `json:"owner"         binding:"required"`
	Repo         string `json:"repo"          binding:"required"`
}

// HistoryResponse represents the snapshot history of a repository.
type HistoryResponse struct {
	RepositoryID string            `json:"repository_id"`
	Snapshots    []MetricsSnapshot `json:"snapshots"`
}
