package app

import (
	"context"
	"fmt"
	"lawhealth/internal/bank"
	"lawhealth/internal/cache"
	"lawhealth/internal/config"
	"lawhealth/internal/metrics"
	"lawhealth/internal/pool"
	"lawhealth/internal/report"
	"lawhealth/internal/repository"
	"lawhealth/internal/sampler"
	"lawhealth/internal/service"
	"lawhealth/internal/transport/rest"
	"lawhealth/internal/transport/ws"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// App wires storage, services and transport for the server process
type App struct {
	Config *config.Config
	Log    *slog.Logger

	Mongo *mongo.Client
	DB    *mongo.Database
	Redis *redis.Client

	Pool       *pool.Pool
	Registry   *prometheus.Registry
	Auth       *service.AuthService
	Compliance *service.ComplianceService
	Hub        *ws.Hub
}

// LoadPool loads the embedded question banks into a pool.
func LoadPool() (*pool.Pool, *report.Formatter, error) {
	banks, err := bank.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load banks: %w", err)
	}
	p, err := pool.Build(banks)
	if err != nil {
		return nil, nil, fmt.Errorf("build pool: %w", err)
	}
	grading, err := bank.LoadGrading()
	if err != nil {
		return nil, nil, fmt.Errorf("load grading: %w", err)
	}
	return p, report.NewFormatter(grading), nil
}

// NewCompliance builds the compliance service over the given stores.
func NewCompliance(cfg *config.Config, repo repository.AssessmentRepo, selections cache.SelectionCache, log *slog.Logger) (*service.ComplianceService, *pool.Pool, error) {
	p, formatter, err := LoadPool()
	if err != nil {
		return nil, nil, err
	}
	svc := service.NewComplianceService(
		p,
		sampler.New(p),
		formatter,
		repo,
		selections,
		service.ComplianceOptions{
			DefaultCount: cfg.PoolSize,
			MaxCount:     cfg.MaxPoolSize,
			HistoryLimit: cfg.HistoryLimit,
		},
		log,
	)
	return svc, p, nil
}

// ConnectMongo connects to MongoDB and pings it.
func ConnectMongo(ctx context.Context, uri string) (*mongo.Client, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	return client, nil
}

// ConnectRedis opens a Redis client and pings it.
func ConnectRedis(ctx context.Context, addr string) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return rdb, nil
}

// New connects to MongoDB and Redis and builds every service.
func New(ctx context.Context, cfg *config.Config, log *slog.Logger) (*App, error) {
	mongoClient, err := ConnectMongo(ctx, cfg.MongoURI)
	if err != nil {
		return nil, err
	}
	log.Info("connected to mongodb", "database", cfg.MongoDB)
	db := mongoClient.Database(cfg.MongoDB)

	if name, err := repository.EnsureIndexes(ctx, db); err != nil {
		log.Warn("ensure indexes failed", "error", err)
	} else {
		log.Debug("index ready", "name", name)
	}

	rdb, err := ConnectRedis(ctx, cfg.RedisAddr)
	if err != nil {
		mongoClient.Disconnect(ctx)
		return nil, err
	}
	log.Info("connected to redis", "addr", cfg.RedisAddr)

	compliance, p, err := NewCompliance(cfg,
		repository.NewAssessmentRepo(db),
		cache.NewSelectionCache(rdb, cfg.SelectionTTL),
		log,
	)
	if err != nil {
		rdb.Close()
		mongoClient.Disconnect(ctx)
		return nil, err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	hub := ws.NewHub(log)
	compliance.SetBroadcaster(hub)
	compliance.SetMetrics(metrics.New(reg))

	stats := p.Stats()
	log.Info("question pool loaded", "total", stats.Total, "domains", len(stats.ByDomain))

	return &App{
		Config:     cfg,
		Log:        log,
		Mongo:      mongoClient,
		DB:         db,
		Redis:      rdb,
		Pool:       p,
		Registry:   reg,
		Auth:       service.NewAuthService(cfg.JWTSecret),
		Compliance: compliance,
		Hub:        hub,
	}, nil
}

// Handler returns the HTTP router.
func (a *App) Handler() http.Handler {
	return rest.NewRouter(&rest.Container{
		AuthService:       a.Auth,
		ComplianceService: a.Compliance,
		WSHub:             a.Hub,
		Metrics:           promhttp.HandlerFor(a.Registry, promhttp.HandlerOpts{}),
		AllowedOrigins:    a.Config.CORSAllowedOrigins,
		Log:               a.Log,
	})
}

// Close stops the hub and releases connections.
func (a *App) Close(ctx context.Context) {
	a.Hub.Close()
	if err := a.Redis.Close(); err != nil {
		a.Log.Warn("close redis", "error", err)
	}
	if err := a.Mongo.Disconnect(ctx); err != nil {
		a.Log.Warn("disconnect mongo", "error", err)
	}
}
