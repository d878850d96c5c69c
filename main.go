package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/etag"
	"github.com/gofiber/fiber/v2/utils"

	"presensiku_backend/internals/configs"
	database "presensiku_backend/internals/databases"
	dailyService "presensiku_backend/internals/features/attendance/daily/service"
	lessonService "presensiku_backend/internals/features/lessons/service"
	middlewares "presensiku_backend/internals/middlewares"
	routes "presensiku_backend/internals/route"
	scheduler "presensiku_backend/internals/scheduler"
)

func main() {
	configs.LoadEnv()

	cfg, err := configs.LoadAppConfig()
	if err != nil {
		log.Fatalf("❌ Konfigurasi tidak valid: %v", err)
	}

	app := fiber.New(fiber.Config{
		// 🚀 JSON super cepat
		JSONEncoder:             sonic.Marshal,
		JSONDecoder:             sonic.Unmarshal,
		DisableStartupMessage:   true,
		ProxyHeader:             fiber.HeaderXForwardedFor,
		EnableTrustedProxyCheck: true,
		TrustedProxies:          []string{"0.0.0.0/0"},
	})

	// ⚙️ middleware dasar + performa
	app.Use(compress.New(compress.Config{Level: compress.LevelDefault}))
	app.Use(etag.New())

	// 🔎 Request-ID + timing (observability ringan)
	app.Use(func(c *fiber.Ctx) error {
		id := c.Get("X-Request-ID")
		if id == "" {
			id = utils.UUID()
		}
		c.Set("X-Request-ID", id)
		c.Locals("reqid", id)
		start := time.Now()
		ctx, cancel := context.WithTimeout(c.Context(), 10*time.Second)
		defer cancel()
		c.SetUserContext(ctx)
		err := c.Next()
		dur := time.Since(start)
		log.Printf("[REQ] id=%s %s %s status=%d dur=%s", id, c.Method(), c.OriginalURL(), c.Response().StatusCode(), dur)
		return err
	})

	middlewares.SetupMiddlewares(app)

	// 🔌 DB connect + pool + migrasi + warm-up
	database.ConnectDB()
	database.TunePool()
	database.MigrateModels()
	database.WarmUpQueries()

	// 🧩 Rangkai service inti - dimiliki main, disuntik ke route & scheduler
	fetcher := dailyService.NewEventFetcher(cfg)
	coordinator := dailyService.NewFetchCoordinator(fetcher, cfg.FetchConcurrency)
	engine := dailyService.NewReconciliationEngine(database.DB)
	syncSvc := dailyService.NewSyncService(database.DB, coordinator, engine)

	hub := lessonService.NewNotificationHub(database.DB, cfg.SnapshotCacheTTL())
	corrector := lessonService.NewSessionCorrector(database.DB, cfg.SessionMaxOpen())

	// ⏱ scheduler setelah DB siap
	cronRunner := scheduler.StartAttendanceScheduler(cfg, syncSvc, corrector)

	// ❤️ Health check (anti-cold start)
	app.Get("/health", func(c *fiber.Ctx) error {
		hits, misses := fetcher.CacheStats()
		return c.JSON(fiber.Map{
			"status":             "ok",
			"fetch_cache_hits":   hits,
			"fetch_cache_misses": misses,
		})
	})

	// ✅ Routes
	routes.SetupRoutes(app, database.DB, routes.Deps{
		Cfg:       cfg,
		Sync:      syncSvc,
		Hub:       hub,
		Corrector: corrector,
	})

	// 🔒 Keep-Alive & timeout koneksi server
	app.Server().ReadTimeout = 15 * time.Second
	app.Server().WriteTimeout = 0 // SSE live feed butuh koneksi tulis panjang
	app.Server().IdleTimeout = 90 * time.Second

	port := os.Getenv("PORT")
	if port == "" {
		port = "3000"
	}

	// Start server non-blocking
	go func() {
		log.Printf("✅ Listening on :%s", port)
		if err := app.Listen("0.0.0.0:" + port); err != nil {
			log.Fatalf("server error: %v", err)
		}
	}()

	// graceful shutdown + stop scheduler + tutup pool DB
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	cronCtx := cronRunner.Stop()
	<-cronCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = app.ShutdownWithContext(ctx)

	if sqlDB, err := database.DB.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
