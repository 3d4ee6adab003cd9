package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/phillip/sports-academy-go/config"
	"github.com/phillip/sports-academy-go/locks"
	"github.com/phillip/sports-academy-go/logger"
	"github.com/phillip/sports-academy-go/routes"
	"github.com/phillip/sports-academy-go/scheduler"
	"github.com/phillip/sports-academy-go/services"
	"github.com/phillip/sports-academy-go/store"
	"github.com/phillip/sports-academy-go/utils"
)

func main() {
	configPath := flag.String("config", "", "Path to an optional YAML configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting sports academy API", "address", cfg.Address(), "database", cfg.Mongo.Database)
	gin.SetMode(cfg.Server.Mode)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.MongoTimeout())
	client, err := store.Connect(ctx, cfg.Mongo.URI)
	cancel()
	if err != nil {
		logger.Error("Failed to connect to MongoDB", "error", err)
		os.Exit(1)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = client.Disconnect(ctx)
	}()
	logger.Info("MongoDB connection established")

	db := client.Database(cfg.Mongo.Database)
	ctx, cancel = context.WithTimeout(context.Background(), 30*time.Second)
	err = store.EnsureIndexes(ctx, db)
	cancel()
	if err != nil {
		logger.Error("Failed to create indexes", "error", err)
		os.Exit(1)
	}

	deps := services.Deps{Store: store.NewMongoStore(db), Locker: locks.NewLocal()}
	if cfg.Redis.URL != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		rdb, err := locks.ConnectRedis(ctx, cfg.Redis.URL)
		cancel()
		if err != nil {
			logger.Error("Failed to connect to Redis", "error", err)
			os.Exit(1)
		}
		defer rdb.Close()
		deps.Locker = locks.NewRedis(rdb)
		logger.Info("Using Redis locks")
	}
	if cfg.CloudinaryEnabled() {
		host, err := utils.NewCloudinary(cfg.Cloudinary.CloudName, cfg.Cloudinary.APIKey, cfg.Cloudinary.APISecret, cfg.Cloudinary.Folder)
		if err != nil {
			logger.Error("Failed to configure Cloudinary", "error", err)
			os.Exit(1)
		}
		deps.Images = host
	} else {
		logger.Info("Cloudinary not configured, gallery uploads disabled")
	}
	if cfg.EmailEnabled() {
		deps.Notifier = utils.NewMailer(cfg.Email.APIURL, cfg.Email.APIKey, cfg.Email.From)
	}

	seedDate, _ := cfg.SeedDate() // checked by Validate
	svc := services.New(deps, services.Options{
		DefaultFeeAmount: cfg.Fees.DefaultAmount,
		SeedPaymentDate:  seedDate,
	})

	var cronJobs *scheduler.Scheduler
	if cfg.Dashboard.SnapshotCron != "" {
		cronJobs, err = scheduler.NewScheduler(cfg.Dashboard.SnapshotCron, svc.Dashboard)
		if err != nil {
			logger.Error("Failed to start scheduler", "error", err)
			os.Exit(1)
		}
		cronJobs.Start()
	}

	router := routes.NewRouter(svc, routes.Options{
		AllowOrigins:   cfg.CORS.AllowOrigins,
		StaticDir:      cfg.Static.Dir,
		RefreshOnWrite: cfg.Dashboard.RefreshOnWrite,
	})
	srv := &http.Server{
		Addr:              cfg.Address(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("HTTP server listening", "address", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server failed", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down")

	ctx, cancel = context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if cronJobs != nil {
		cronJobs.Stop(ctx)
	}
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Graceful shutdown failed", "error", err)
	}
}
