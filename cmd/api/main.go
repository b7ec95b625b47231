package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/sentinelai/sentinel-backend/config"
	"github.com/sentinelai/sentinel-backend/internal/bootstrap"
	"github.com/sentinelai/sentinel-backend/internal/metrics"
	"github.com/sentinelai/sentinel-backend/internal/storage/postgres"
	cronjob "github.com/sentinelai/sentinel-backend/internal/zone_navigation/cron"
	"github.com/sentinelai/sentinel-backend/internal/zone_navigation/ingest/mapper"
	"github.com/sentinelai/sentinel-backend/internal/zone_navigation/ingest/parser"
	"github.com/sentinelai/sentinel-backend/internal/zone_navigation/planner"
	"github.com/sentinelai/sentinel-backend/internal/zone_navigation/repository"
	"github.com/sentinelai/sentinel-backend/internal/zone_navigation/service"
)

const serviceName = "sentinel-navigation"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	// an inconsistent topology is fatal: never serve routes over it
	topo, err := parser.ParseYAML(cfg.Navigation.TopologyPath)
	if err != nil {
		log.Fatalf("topology: %v", err)
	}
	g, err := mapper.ToGraph(topo)
	if err != nil {
		log.Fatalf("topology: %v", err)
	}
	log.Printf("[nav] loaded %q: %d zones, %d doors, exits %v",
		topo.Name, len(g.Zones()), len(g.Doors()), g.Exits())

	policy, err := planner.ParsePolicy(cfg.Navigation.RoutePolicy)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	reg := metrics.NewRegistry()
	deps := service.Deps{Metrics: reg}

	ctx := context.Background()

	var rdb *redis.Client
	if cfg.Redis.Enabled() {
		rdb, err = bootstrap.OpenRedis(ctx, bootstrap.RedisOptions{URL: cfg.Redis.URL})
		if err != nil {
			log.Fatalf("redis: %v", err)
		}
		defer rdb.Close()
		deps.Events = repository.NewEventRepository(rdb)
		log.Printf("[nav] event feed enabled")
	} else {
		log.Println("REDIS_URL not set, live event feed disabled")
	}

	var pool *pgxpool.Pool
	if cfg.Database.Enabled() {
		db, err := postgres.NewConnection(&cfg.Database)
		if err != nil {
			log.Fatalf("database: %v", err)
		}
		defer db.Close()
		deps.Incidents = repository.NewIncidentRepository(db)

		pool, err = postgres.NewPool(ctx, &cfg.Database)
		if err != nil {
			log.Fatalf("database: %v", err)
		}
		defer pool.Close()
		log.Printf("[nav] incident log enabled")
	} else {
		log.Println("DB_HOST not set, incident log disabled")
	}

	nav := service.NewNavigationService(g, service.Config{
		Policy:          policy,
		ScreamThreshold: cfg.Navigation.ScreamThreshold,
	}, deps)

	var scheduler *cronjob.Scheduler
	if deps.Events != nil {
		scheduler = cronjob.NewScheduler(nav, cfg.Navigation.SnapshotCron)
		if err := scheduler.Start(); err != nil {
			log.Fatalf("cron: %v", err)
		}
	}

	bootstrap.SetGinMode(cfg.App.Environment)
	r := bootstrap.BuildRouter(bootstrap.RouterDeps{
		ServiceName:     serviceName,
		Version:         cfg.App.Version,
		Title:           topo.Name,
		CORSOrigins:     cfg.Server.CORSOrigins,
		Nav:             nav,
		Metrics:         reg,
		DB:              pool,
		Redis:           rdb,
		AgentAPIKey:     cfg.Navigation.AgentAPIKey,
		OperatorAPIKey:  cfg.Navigation.OperatorAPIKey,
		EventsRateLimit: cfg.Navigation.EventsRateLimit,
		EventsBurst:     cfg.Navigation.EventsBurst,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Printf("listening on :%s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("shutting down")

	if scheduler != nil {
		scheduler.Stop()
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("server shutdown: %v", err)
	}
}
