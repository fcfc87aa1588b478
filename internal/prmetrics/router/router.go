// Package router wires the pull request metrics module and registers its routes.
package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/BhargavGarge/devpulse/internal/advisor"
	"github.com/BhargavGarge/devpulse/internal/githubapi"
	"github.com/BhargavGarge/devpulse/internal/prmetrics/handler"
	"github.com/BhargavGarge/devpulse/internal/prmetrics/repository"
	"github.com/BhargavGarge/devpulse/internal/prmetrics/service"
)

// Dependencies are the collaborators of the metrics module.
type Dependencies struct {
	DB      *gorm.DB
	GitHub  githubapi.Client
	Advisor advisor.Advisor
	PRLimit int
	Logger  *zap.SugaredLogger

	// RepositoryOptions and ServiceOptions are passed through to the constructors.
	RepositoryOptions []repository.Option
	ServiceOptions    []service.Option
}

// RegisterRoutes registers pull request metrics routes.
func RegisterRoutes(r *gin.Engine, deps Dependencies) {
	repo := repository.New(deps.DB, deps.Logger, deps.RepositoryOptions...)
	opts := append([]service.Option{service.WithPRLimit(deps.PRLimit)}, deps.ServiceOptions...)
	svc := service.New(repo, deps.GitHub, deps.Advisor, deps.Logger, opts...)
	h := handler.New(svc, deps.Logger)

	group := r.Group("/prMetrics")
	group.POST("/analyze", h.Analyze)
	group.GET("/get", h.GetMetrics)
	group.GET("/history", h.GetHistory)
}
