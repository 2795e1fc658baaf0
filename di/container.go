package di

import (
	"context"
	"fmt"
	"log"

	"github.com/ChristinaBak/Oasa/analytics"
	"github.com/ChristinaBak/Oasa/api"
	"github.com/ChristinaBak/Oasa/config"
	"github.com/ChristinaBak/Oasa/dao/redis"
	"github.com/ChristinaBak/Oasa/db"
	"github.com/ChristinaBak/Oasa/metrics"
	"github.com/ChristinaBak/Oasa/server"
	"github.com/ChristinaBak/Oasa/server/handlers"
	services "github.com/ChristinaBak/Oasa/service"
	goredis "github.com/go-redis/redis/v8"
	"github.com/gorilla/mux"
)

// Container holds all application dependencies.
type Container struct {
	Config                   *config.Config
	RedisClient              db.RedisClient
	RedisDashboardDao        *redis.RedisDashboardDAO
	Metrics                  *metrics.Metrics
	SnapshotStore            *services.SnapshotStore
	SourceLoader             *services.SourceLoader
	DashboardService         *services.DashboardService
	SnapshotRefresherService *services.SnapshotRefresherService
	DashboardHandler         *handlers.DashboardHandler
	MuxRouter                *mux.Router
	Router                   *server.Router
	DashboardHttpServer      *server.DashboardHttpServer
}

// NewContainer initializes and wires up all dependencies.
func NewContainer(cfg *config.Config) (*Container, error) {
	ctx := context.Background()

	redisClient, err := newRedisClient(ctx, cfg.Redis)
	if err != nil {
		return nil, err
	}

	// Initialize Redis Dashboard DAO
	redisDashboardDao := redis.NewRedisDashboardDAO(redisClient, cfg.Redis.TTL)

	m := metrics.NewMetrics()
	store := services.NewSnapshotStore()

	location := cfg.SourceLocation()
	var httpClient *api.HTTPClient
	if config.IsRemote(location) {
		log.Printf("[Container] Using remote source %s", location)
		httpClient = api.NewHTTPClient("", cfg.Source.FetchTimeout)
	} else {
		log.Printf("[Container] Using local source %s", location)
	}
	sourceLoader := services.NewSourceLoader(location, cfg.Source, httpClient)

	limits := analytics.Limits{TopStops: cfg.Dashboard.TopStops, TopFive: cfg.Dashboard.TopFive}
	dashboardService := services.NewDashboardService(store, redisDashboardDao, m, limits)
	snapshotRefresherService := services.NewSnapshotRefresherService(sourceLoader, store, redisDashboardDao, m)

	dashboardHandler := handlers.NewDashboardHandler(dashboardService, snapshotRefresherService)

	muxRouter := mux.NewRouter()
	router := server.NewRouter(dashboardHandler, m, muxRouter)
	dashboardHttpServer := server.NewDashboardHttpServer(router, muxRouter, cfg.Server)

	return &Container{
		Config:                   cfg,
		RedisClient:              redisClient,
		RedisDashboardDao:        redisDashboardDao,
		Metrics:                  m,
		SnapshotStore:            store,
		SourceLoader:             sourceLoader,
		DashboardService:         dashboardService,
		SnapshotRefresherService: snapshotRefresherService,
		DashboardHandler:         dashboardHandler,
		MuxRouter:                muxRouter,
		Router:                   router,
		DashboardHttpServer:      dashboardHttpServer,
	}, nil
}

// newRedisClient connects to Redis when an address is configured and falls
// back to the in-process cache otherwise.
func newRedisClient(ctx context.Context, cfg config.RedisConfig) (db.RedisClient, error) {
	if cfg.Addr == "" {
		log.Println("[Container] No redis address configured, using in-memory dashboard cache")
		return db.NewMemoryRedisClient(ctx), nil
	}

	redisInternalClient := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	redisClient := db.NewGoRedisClient(ctx, redisInternalClient)
	if err := redisClient.Ping(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Addr, err)
	}
	log.Printf("[Container] Using redis dashboard cache at %s", cfg.Addr)
	return redisClient, nil
}
