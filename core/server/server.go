package server

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"meetsync/core/config"
	"meetsync/core/connectivity"
	"meetsync/core/database"
	"meetsync/core/localstore"
	"meetsync/core/logger"
	"meetsync/core/middleware"
	"meetsync/core/remotestore"
	"meetsync/core/sync"
	"meetsync/modules/aggregation"
	aggtasks "meetsync/modules/aggregation/tasks"
	"meetsync/modules/availability"
	"meetsync/modules/team"

	"github.com/hibiken/asynq"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

// Run wires the application together and blocks until SIGINT/SIGTERM.
func Run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger.Init(cfg.Server.LogLevel)

	db, err := database.InitDB(cfg.Database)
	if err != nil {
		return fmt.Errorf("init database: %w", err)
	}
	defer db.Close()

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()

	local, err := localstore.New(cfg.Cache.Path)
	if err != nil {
		return fmt.Errorf("init local store: %w", err)
	}
	defer local.Close()

	remote := remotestore.NewPostgresStore(db, redisClient)
	coordinator := sync.NewCoordinator(local, remote, sync.Options{Online: true})
	probe := connectivity.NewProbe(redisClient, coordinator.SetOnlineStatus)

	redisOpt := asynq.RedisClientOpt{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}
	asynqClient := asynq.NewClient(redisOpt)
	defer asynqClient.Close()

	asynqServer := asynq.NewServer(redisOpt, asynq.Config{
		Concurrency: 5,
	})
	mux := asynq.NewServeMux()
	mux.Handle(aggtasks.TypeAggregationRefresh, aggtasks.NewHandler(remote, redisClient))

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	mw := middleware.NewMiddleware()
	e.Use(mw.RequestID())
	e.Use(mw.RequestLogger())
	e.Use(echomw.Recover())
	e.Use(echomw.CORS())

	e.GET("/health", healthHandler(db, redisClient, coordinator))

	teamService := team.Init(e, coordinator, local, mw)
	availabilityService := availability.Init(e, coordinator, aggtasks.NewEnqueuer(asynqClient), mw)
	aggregation.Init(e, availabilityService, teamService, mw)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		addr := fmt.Sprintf(":%d", cfg.Server.Port)
		logger.Info("Server:Run", "addr", addr)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		if err := asynqServer.Run(mux); err != nil {
			return fmt.Errorf("task server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		probe.Start(gctx)
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Server:Shutdown")

		probe.Stop()
		asynqServer.Shutdown()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := e.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server:Shutdown", err)
		}
		return nil
	})

	return g.Wait()
}

type healthStatus struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Redis    string `json:"redis"`
	Online   bool   `json:"online"`
	Pending  int    `json:"pending_operations"`
}

func healthHandler(db database.IDatabase, redisClient *redis.Client, coordinator *sync.Coordinator) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx, cancel := context.WithTimeout(c.Request().Context(), 3*time.Second)
		defer cancel()

		status := healthStatus{
			Status:   "ok",
			Database: "up",
			Redis:    "up",
			Online:   coordinator.Online(),
			Pending:  coordinator.PendingCount(),
		}
		if err := db.QueryRowContext(ctx, "SELECT 1").Err(); err != nil {
			status.Status = "degraded"
			status.Database = "down"
		}
		if err := redisClient.Ping(ctx).Err(); err != nil {
			status.Status = "degraded"
			status.Redis = "down"
		}
		return c.JSON(http.StatusOK, status)
	}
}
