package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awscfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"adboard/internal/config"
	apphttp "adboard/internal/http"
	"adboard/internal/repository/sqlite"
	"adboard/internal/service"
	"adboard/internal/storage"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("load config: %v", err)
	}
	if level, err := logrus.ParseLevel(cfg.Log.Level); err == nil {
		logger.SetLevel(level)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := sqlite.Open(cfg.Database.Path)
	if err != nil {
		logger.Fatalf("open database: %v", err)
	}
	defer db.Close()

	userRepo := sqlite.NewUserRepository(db)
	locationRepo := sqlite.NewLocationRepository(db)
	categoryRepo := sqlite.NewCategoryRepository(db)
	adRepo := sqlite.NewAdRepository(db)

	if err := userRepo.Init(ctx); err != nil {
		logger.Fatalf("init user repository: %v", err)
	}
	if err := locationRepo.Init(ctx); err != nil {
		logger.Fatalf("init location repository: %v", err)
	}
	if err := categoryRepo.Init(ctx); err != nil {
		logger.Fatalf("init category repository: %v", err)
	}
	if err := adRepo.Init(ctx); err != nil {
		logger.Fatalf("init ad repository: %v", err)
	}

	images, err := buildStorage(ctx, cfg, logger)
	if err != nil {
		logger.Fatalf("setup storage: %v", err)
	}

	adService := service.NewAdService(adRepo, userRepo, categoryRepo, images, service.AdServiceConfig{
		PageSize:       cfg.Pagination.PageSize,
		ImageKeyPrefix: cfg.Storage.KeyPrefix,
		Logger:         logger,
	})
	userService := service.NewUserService(userRepo, locationRepo, logger)
	locationService := service.NewLocationService(locationRepo)
	categoryService := service.NewCategoryService(categoryRepo)

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	handler := apphttp.NewHandler(adService, userService, locationService, categoryService, logger)
	if local, ok := images.(*storage.LocalService); ok && strings.HasPrefix(cfg.Storage.BaseURL, "/") {
		handler.ServeMedia(cfg.Storage.BaseURL, local.Root())
	}
	handler.RegisterRoutes(router)

	srv := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: router,
	}

	go func() {
		logger.Infof("listening on %s", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("http server: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warnf("http shutdown: %v", err)
	}

	logger.Info("bye")
}

func buildStorage(ctx context.Context, cfg config.Config, logger *logrus.Logger) (storage.Service, error) {
	if cfg.Storage.Driver == config.StorageDriverLocal {
		logger.Infof("storing images in %s", cfg.Storage.LocalDir)
		local, err := storage.NewLocalService(cfg.Storage.LocalDir, cfg.Storage.BaseURL)
		if err != nil {
			return nil, err
		}
		return local, nil
	}

	loadOpts := []func(*awscfg.LoadOptions) error{
		awscfg.WithRegion(cfg.Storage.Region),
	}
	if cfg.AWS.Profile != "" {
		loadOpts = append(loadOpts, awscfg.WithSharedConfigProfile(cfg.AWS.Profile))
	}

	awsCfg, err := awscfg.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Storage.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Storage.Endpoint)
			o.UsePathStyle = true
		}
	})

	opts := storage.S3Options{
		Bucket: cfg.Storage.Bucket,
		URLTTL: time.Duration(cfg.Storage.URLTTLMinutes) * time.Minute,
	}
	// Relative base URLs only make sense for the local driver; S3 falls back to presigning.
	if strings.Contains(cfg.Storage.BaseURL, "://") {
		opts.PublicBaseURL = cfg.Storage.BaseURL
	}
	logger.Infof("using s3 bucket %s (region %s)", cfg.Storage.Bucket, cfg.Storage.Region)
	svc, err := storage.NewS3Service(client, opts)
	if err != nil {
		return nil, err
	}
	return svc, nil
}
