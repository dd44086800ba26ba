package internal

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"file-storage-api/config"
	"file-storage-api/internal/application/ports"
	"file-storage-api/internal/application/services"
	"file-storage-api/internal/domain/file"
	"file-storage-api/internal/infrastructure/db/memory"
	"file-storage-api/internal/infrastructure/db/postgres"
	pgfile "file-storage-api/internal/infrastructure/db/postgres/file"
	"file-storage-api/internal/infrastructure/jwt"
	"file-storage-api/internal/infrastructure/metrics"
	"file-storage-api/internal/infrastructure/mq"
	"file-storage-api/internal/infrastructure/objectstore/minio"
	"file-storage-api/internal/infrastructure/objectstore/s3"
	"file-storage-api/internal/interface/api/rest"
	"file-storage-api/internal/interface/api/rest/middleware"
	"file-storage-api/pkg/rmqconsumer"
)

type App struct {
	logger     *zap.Logger
	cfg        config.Config
	db         *pgxpool.Pool
	repo       file.Repository
	store      ports.ObjectStore
	httpSrv    *http.Server
	router     *gin.Engine
	mCounter   *prometheus.CounterVec
	mq         ports.RabbitMQ
	mqConsumer ports.RMQConsumer
}

func NewApp(ctx context.Context) (*App, error) {
	// logger
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("cannot initialize zap logger: %v", err)
	}

	// config
	if err = godotenv.Load(".env"); err != nil {
		logger.Warn("no .env file loaded, using process environment", zap.Error(err))
	}
	cfg := config.Load()
	if cfg.App.JWTSecret == "" {
		logger.Fatal("SERVICE_JWT_SECRET is required")
	}

	// metrics
	mCounter := metrics.NewCounter()

	// router
	switch cfg.App.Env {
	case gin.ReleaseMode, "prod", "production":
		gin.SetMode(gin.ReleaseMode)
	case gin.TestMode:
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.DebugMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogGin(logger, mCounter))

	// httpServer
	httpSrv := &http.Server{
		Addr:              cfg.App.Host + ":" + cfg.App.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	app := &App{
		logger:   logger,
		cfg:      cfg,
		httpSrv:  httpSrv,
		router:   r,
		mCounter: mCounter,
	}

	// metadata
	switch cfg.DB.Driver {
	case config.DBDriverMemory:
		logger.Warn("using in-memory metadata repository, state is lost on restart")
		app.repo = memory.NewRepository()
	case config.DBDriverPostgres:
		dbDsn, err := cfg.DBDSN()
		if err != nil {
			logger.Fatal("DB config error", zap.Error(err))
		}
		dbPool, err := postgres.New(ctx, logger, dbDsn)
		if err != nil {
			logger.Fatal("failed to connect to database", zap.Error(err))
		}
		if err = postgres.EnsureSchema(ctx, logger, dbPool); err != nil {
			logger.Fatal("failed to apply database schema", zap.Error(err))
		}
		app.db = dbPool
		app.repo = pgfile.NewRepository(dbPool)
	default:
		logger.Fatal("unknown DB_DRIVER", zap.String("driver", cfg.DB.Driver))
	}

	// object store
	switch cfg.ObjectStore.Driver {
	case config.ObjectStoreDriverMinIO:
		store, err := minio.New(cfg.ObjectStore, logger)
		if err != nil {
			logger.Fatal("failed to init minio client", zap.Error(err))
		}
		app.store = store
	case config.ObjectStoreDriverS3:
		store, err := s3.New(ctx, cfg.ObjectStore, logger)
		if err != nil {
			logger.Fatal("failed to init s3 client", zap.Error(err))
		}
		app.store = store
	default:
		logger.Fatal("unknown OBJECT_STORE_DRIVER", zap.String("driver", cfg.ObjectStore.Driver))
	}
	if err = app.store.EnsureBucket(ctx, cfg.Storage.DefaultBucket, false); err != nil {
		logger.Fatal("failed to ensure default bucket", zap.String("bucket", cfg.Storage.DefaultBucket), zap.Error(err))
	}

	// rabbitMQ
	rabbitDsn, err := cfg.AMQPDSN()
	if err != nil {
		logger.Warn("RabbitMQ not configured, events and orphan sweeping disabled", zap.Error(err))
		return app, nil
	}
	rbMQ := mq.New(cfg.MQ, logger)
	if err = rbMQ.Connect(ctx, rabbitDsn); err != nil {
		logger.Fatal("failed to connect to rabbitMQ", zap.Error(err))
	}
	if err = rbMQ.Init(); err != nil {
		logger.Fatal("failed init rabbitMQ", zap.Error(err))
	}
	// orphan sweeper
	rmqConsumer := rmqconsumer.New(cfg.MQ, logger, app.store, mCounter)
	if err = rmqConsumer.Connect(rabbitDsn); err != nil {
		logger.Fatal("failed to connect rabbitMQ consumer", zap.Error(err))
	}
	if err = rmqConsumer.Init(); err != nil {
		logger.Fatal("failed to init rabbitMQ consumer", zap.Error(err))
	}
	app.mq = rbMQ
	app.mqConsumer = rmqConsumer

	return app, nil
}

func (a *App) Close() {
	if a.db != nil {
		a.db.Close()
	}
	if a.mq != nil && a.mq.GetConn() != nil {
		a.mq.GetConn().Close()
	}
	if a.logger != nil {
		_ = a.logger.Sync()
	}
}

// Run - The central place to launch and manage our application and
// parallel processes through a single context.
func (a *App) Run(ctx context.Context) error {
	// context with os signals cancel chan
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.logger.Info("starting "+a.cfg.App.Name, zap.String("addr", a.httpSrv.Addr))
		if err := a.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server "+a.cfg.App.Name+" error: %w", err)
		}

		return nil
	})

	if a.mq != nil {
		g.Go(func() error {
			a.mq.PublisherWorker(ctx)
			return nil
		})
	}

	if a.mqConsumer != nil {
		g.Go(func() error {
			a.mqConsumer.DeliveryWorker(ctx)
			return nil
		})
	}

	<-ctx.Done()

	a.logger.Info("shutting down " + a.cfg.App.Name + " gracefully...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := a.httpSrv.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("http server shutdown "+a.cfg.App.Name+" error", zap.Error(err))
		return err
	}

	if err := g.Wait(); err != nil {
		a.logger.Error(a.cfg.App.Name+" returning an error", zap.Error(err))
		return err
	}

	a.logger.Info(a.cfg.App.Name + " gracefully stopped")

	return nil
}

func (a *App) InitControllers() {
	// a typed nil would defeat the services' nil checks
	var events ports.EventPublisher
	if a.mq != nil {
		events = a.mq
	}

	// services
	jwtService := jwt.New(a.cfg.App.JWTSecret)
	anomalies := services.NewAnomalyReporter(a.logger, events, a.mCounter)
	storageService := services.NewStorageService(a.repo, a.store, anomalies, events, a.cfg.Storage, a.logger, a.mCounter)

	// controllers
	rest.NewStorageController(a.router, storageService, a.logger, jwtService, a.cfg.Storage.MaxFileSize)

	// ops
	a.router.GET(rest.RouteHealth, func(c *gin.Context) { c.Status(http.StatusOK) })
	a.router.GET(rest.RouteMetrics, gin.WrapH(promhttp.Handler()))
}

func (a *App) Logger() *zap.Logger { return a.logger }
