package bootstrap

import (
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"

	httpapi "github.com/sentinelai/sentinel-backend/internal/api/http"
	"github.com/sentinelai/sentinel-backend/internal/api/http/middleware"
	"github.com/sentinelai/sentinel-backend/internal/api/http/routes"
	"github.com/sentinelai/sentinel-backend/internal/metrics"
	"github.com/sentinelai/sentinel-backend/internal/zone_navigation/service"
)

type RouterDeps struct {
	ServiceName string
	Version     string
	Title       string
	CORSOrigins string

	Nav     *service.NavigationService
	Metrics *metrics.Registry
	DB      *pgxpool.Pool
	Redis   *redis.Client

	AgentAPIKey     string
	OperatorAPIKey  string
	EventsRateLimit float64
	EventsBurst     int
}

func BuildRouter(dep RouterDeps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	if dep.Metrics != nil {
		r.Use(dep.Metrics.Middleware())
	}
	r.Use(cors.New(cors.Config{
		AllowOrigins:     splitOrigins(dep.CORSOrigins),
		AllowMethods:     []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "X-API-Key", middleware.RequestIDHeader},
		ExposeHeaders:    []string{middleware.RequestIDHeader},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	healthHandler := httpapi.NewHealthHandler(dep.ServiceName, dep.Version, dep.Nav, dep.DB, dep.Redis)
	healthHandler.RegisterRoutes(r)

	var limiter *rate.Limiter
	if dep.EventsRateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(dep.EventsRateLimit), dep.EventsBurst)
	}
	routes.RegisterV1(r, routes.V1Deps{
		Nav:            dep.Nav,
		Metrics:        dep.Metrics,
		Title:          dep.Title,
		AgentAPIKey:    dep.AgentAPIKey,
		OperatorAPIKey: dep.OperatorAPIKey,
		EventsLimiter:  limiter,
	})

	return r
}

func splitOrigins(s string) []string {
	var out []string
	for _, o := range strings.Split(s, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	if len(out) == 0 {
		out = []string{"http://localhost:3000"}
	}
	return out
}
