package routes

import (
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/sentinelai/sentinel-backend/internal/api/http/middleware"
	"github.com/sentinelai/sentinel-backend/internal/metrics"
	navhttp "github.com/sentinelai/sentinel-backend/internal/zone_navigation/http"
	"github.com/sentinelai/sentinel-backend/internal/zone_navigation/service"
)

type V1Deps struct {
	Nav     *service.NavigationService
	Metrics *metrics.Registry
	Title   string

	// AgentAPIKey guards the collaborator routes; empty disables the check.
	AgentAPIKey string
	// OperatorAPIKey guards the state-changing operator routes; empty falls back to AgentAPIKey.
	OperatorAPIKey string
	// EventsLimiter throttles the audio and agent routes; nil disables it.
	EventsLimiter *rate.Limiter
}

func RegisterV1(r *gin.Engine, dep V1Deps) {
	if dep.Metrics != nil {
		r.GET("/metrics", gin.WrapH(dep.Metrics.Handler()))
	}

	api := r.Group("/api/v1")
	nav := navhttp.New(dep.Nav, dep.Title)
	nav.Register(api)

	operatorKey := dep.OperatorAPIKey
	if operatorKey == "" {
		operatorKey = dep.AgentAPIKey
	}
	operator := api.Group("")
	operator.Use(middleware.APIKeyMiddleware(operatorKey))
	nav.RegisterOperatorRoutes(operator)

	collab := api.Group("")
	collab.Use(middleware.APIKeyMiddleware(dep.AgentAPIKey))
	collab.Use(middleware.RateLimitMiddleware(dep.EventsLimiter))
	nav.RegisterCollaboratorRoutes(collab)
}
