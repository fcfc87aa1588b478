// Package handler provides HTTP handlers for pull request metrics endpoints.
package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/BhargavGarge/devpulse/internal/githubapi"
	"github.com/BhargavGarge/devpulse/internal/prmetrics/model"
	"github.com/BhargavGarge/devpulse/internal/prmetrics/service"
)

// Handler handles HTTP requests for pull request metrics endpoints.
type Handler struct {
	service service.Service
	logger  *zap.SugaredLogger
}

// New creates a new metrics handler instance.
func New(svc service.Service, logger *zap.SugaredLogger) *Handler {
	return &Handler{service: svc, logger: logger}
}

// Analyze handles POST /prMetrics/analyze.
// @Summary Analyze recent pull requests of a GitHub repository
// @Tags PullRequestMetrics
// @Accept json
// @Produce json
// @Param request body model.AnalyzeRequest true "Request"
// @Success 200 {object} model.PullRequestMetrics
// @Failure 400 {object} ErrorResponse "Bad request (INVALID_REQUEST)"
// @Failure 502 {object} ErrorResponse "GitHub request failed (UPSTREAM_ERROR)"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /prMetrics/analyze [post] //nolint:godot // Swagger annotation should not end with period
func (h *Handler) Analyze(c *gin.Context) {
	var req model.AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	metrics, err := h.service.AnalyzeRepository(c.Request.Context(), &req)
	if err != nil {
		switch {
		case isValidationError(err):
			badRequest(c, err.Error())
		case errors.Is(err, githubapi.ErrFetchPullRequests):
			h.logger.Warnw("analysis failed upstream", "repository_id", req.RepositoryID, "error", err)
			errorResponse(c, CodeUpstreamError, "failed to fetch pull requests from GitHub", http.StatusBadGateway)
		default:
			h.logger.Errorw("error analyzing repository", "repository_id", req.RepositoryID, "error", err)
			internalError(c)
		}
		return
	}

	c.JSON(http.StatusOK, metrics)
}

// GetMetrics handles GET /prMetrics/get.
// @Summary Get the last analysis of a repository
// @Tags PullRequestMetrics
// @Produce json
// @Param repository_id query string true "Repository ID"
// @Success 200 {object} model.PullRequestMetrics
// @Failure 400 {object} ErrorResponse "Bad request (missing repository_id parameter)"
// @Failure 404 {object} ErrorResponse "Metrics not found"
// @Router /prMetrics/get [get] //nolint:godot // Swagger annotation should not end with period
func (h *Handler) GetMetrics(c *gin.Context) {
	repositoryID := c.Query("repository_id")
	if repositoryID == "" {
		badRequest(c, "repository_id parameter is required")
		return
	}

	metrics, err := h.service.GetMetrics(c.Request.Context(), repositoryID)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrMetricsNotFound):
			errorResponse(c, CodeNotFound, "metrics not found", http.StatusNotFound)
		case isValidationError(err):
			badRequest(c, err.Error())
		default:
			h.logger.Errorw("error getting metrics", "repository_id", repositoryID, "error", err)
			internalError(c)
		}
		return
	}

	c.JSON(http.StatusOK, metrics)
}

// GetHistory handles GET /prMetrics/history.
// @Summary Get the health score history of a repository
// @Tags PullRequestMetrics
// @Produce json
// @Param repository_id query string true "Repository ID"
// @Success 200 {object} model.HistoryResponse
// @Failure 400 {object} ErrorResponse "Bad request (missing repository_id parameter)"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /prMetrics/history [get] //nolint:godot // Swagger annotation should not end with period
func (h *Handler) GetHistory(c *gin.Context) {
	repositoryID := c.Query("repository_id")
	if repositoryID == "" {
		badRequest(c, "repository_id parameter is required")
		return
	}

	history, err := h.service.GetHistory(c.Request.Context(), repositoryID)
	if err != nil {
		if isValidationError(err) {
			badRequest(c, err.Error())
			return
		}
		h.logger.Errorw("error getting history", "repository_id", repositoryID, "error", err)
		internalError(c)
		return
	}

	c.JSON(http.StatusOK, history)
}

func isValidationError(err error) bool {
	return errors.Is(err, model.ErrInvalidRepositoryID) ||
		errors.Is(err, model.ErrInvalidOwner) ||
		errors.Is(err, model.ErrInvalidRepoName)
}
