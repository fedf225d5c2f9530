package main // Entry point package

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/iliyamo/seatmap-console/internal/config"
	"github.com/iliyamo/seatmap-console/internal/database"
	"github.com/iliyamo/seatmap-console/internal/editor"
	"github.com/iliyamo/seatmap-console/internal/handler"
	"github.com/iliyamo/seatmap-console/internal/middleware"
	"github.com/iliyamo/seatmap-console/internal/queue"
	"github.com/iliyamo/seatmap-console/internal/repository"
	"github.com/iliyamo/seatmap-console/internal/router"
	"github.com/iliyamo/seatmap-console/internal/service"
)

func main() {
	cfg := config.Load() // Load environment config
	edCfg := config.LoadEditorConfig()
	cacheCfg := config.LoadCacheConfig()

	db, err := database.Open(cfg)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer db.Close()

	shows := repository.NewShowRepo(db)
	if err := shows.Migrate(context.Background()); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	rdb := config.NewRedisClient() // nil when Redis is down; drafts, cache and rate limit degrade
	if rdb != nil {
		defer rdb.Close()
	}

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	reg := editor.NewRegistry(editor.NewDraftStore(rdb, edCfg.DraftPrefix, edCfg.DraftTTL), edCfg)
	go reg.RunSweeper(ctx, edCfg.SweepEvery)
	go queue.StartSeatmapConsumer(ctx, cfg.RabbitURL, cfg.LogDir)

	showH := handler.NewShowHandler(shows, service.NewRabbitPublisher(cfg.RabbitURL), middleware.NewCacheInvalidator(cacheCfg, rdb))
	editorH := handler.NewEditorHandler(reg, showH)
	reviewH := &handler.ReviewHandler{Shows: shows, Width: edCfg.DefaultWidth, Height: edCfg.DefaultHeight}

	e := echo.New() // Create Echo instance
	e.HideBanner = true
	e.Use(echomw.Logger())
	e.Use(echomw.Recover())

	router.RegisterRoutes(e, db, rdb)
	router.RegisterOrganizer(e, editorH, showH, cfg.JWTSecret, middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))
	router.RegisterReview(e, reviewH, cfg.JWTSecret, middleware.NewRedisCache(cacheCfg, rdb))

	addr := ":" + cfg.Port
	go func() {
		log.Printf("listening on %s (env=%s, db=%s)", addr, cfg.Env, cfg.DBDriver)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("shutting down")

	stop() // stops the sweeper and the consumer
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("forced shutdown: %v", err)
	}
}
