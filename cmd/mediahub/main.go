package main

import (
	"log"
	"time"

	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/pressio/mediahub/biz/dal/model"
	"github.com/pressio/mediahub/biz/handler"
	"github.com/pressio/mediahub/biz/middleware"
	"github.com/pressio/mediahub/biz/router"
	"github.com/pressio/mediahub/biz/service"
	"github.com/pressio/mediahub/pkg/config"
	"github.com/pressio/mediahub/pkg/database"
	"github.com/pressio/mediahub/pkg/delivery"
	"github.com/pressio/mediahub/pkg/lock"
	"github.com/pressio/mediahub/pkg/redis"
	"github.com/pressio/mediahub/pkg/storage"
	"github.com/pressio/mediahub/pkg/storage/local"
	"github.com/pressio/mediahub/pkg/thumbnail"
	"github.com/pressio/mediahub/pkg/validator"
)

func main() {
	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	db, err := database.Open(cfg.Database)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	if err := db.AutoMigrate(&model.Asset{}, &model.Folder{}); err != nil {
		log.Fatalf("migrate schema: %v", err)
	}

	store, err := storage.New(cfg.Storage)
	if err != nil {
		log.Fatalf("init storage: %v", err)
	}
	fallback, err := local.New(cfg.Fallback.BasePath)
	if err != nil {
		log.Fatalf("init fallback storage: %v", err)
	}

	deriver := delivery.Disabled()
	if cfg.Delivery.Enabled {
		deriver = delivery.New(cfg.Delivery.Host, true)
	}

	svc := service.NewService(service.Options{
		DB:            db,
		Store:         store,
		Fallback:      fallback,
		Deriver:       deriver,
		Uploads:       validator.NewUploadConfig(cfg.Upload.MaxSize, cfg.Upload.MaxVideoSize, cfg.Upload.VideoMimeTypes),
		Thumbs:        thumbnail.New(),
		UploadTimeout: time.Duration(cfg.Upload.TimeoutSeconds) * time.Second,
		Optimize:      cfg.Delivery.Optimize,
	})

	if cfg.Redis.Enabled {
		client, err := redis.NewClient(cfg.Redis)
		if err != nil {
			log.Fatalf("init redis: %v", err)
		}
		middleware.InitWriteLock(lock.New(client, "mediahub:write", 30*time.Second, 10*time.Second))
		log.Printf("Distributed write lock enabled")
	}

	if cfg.Reconcile.Enabled {
		reconciler, err := service.NewReconciler(svc, cfg.Reconcile.Schedule)
		if err != nil {
			log.Fatalf("init reconciler: %v", err)
		}
		reconciler.Start()
		defer reconciler.Stop()
		log.Printf("Fallback reconciler scheduled: %s", cfg.Reconcile.Schedule)
	}

	// Leave headroom above the video ceiling for the multipart envelope.
	maxBody := int(cfg.Upload.MaxVideoSize) + 1024*1024

	h := server.Default(
		server.WithHostPorts(cfg.Server.Address),
		server.WithMaxRequestBodySize(maxBody),
	)
	h.Use(middleware.Recovery())
	h.Use(middleware.Logging())
	h.Use(middleware.CORS(&cfg.CORS))
	h.Use(middleware.Auth())

	router.RegisterMediaRoutes(h, handler.NewMediaHandler(svc))

	log.Printf("mediahub listening on %s (storage=%s)", cfg.Server.Address, store.Type())
	h.Spin()
}
