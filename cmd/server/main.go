package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/joho/godotenv"

	httpadapter "serenityops/internal/adapter/http"
	repo "serenityops/internal/adapter/repository"
	"serenityops/internal/config"
	"serenityops/internal/infrastructure/migration"
	"serenityops/internal/logger"
	"serenityops/internal/model"
	"serenityops/internal/usecase"
	infra "serenityops/pkg/infrastructure"
	"serenityops/pkg/template"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		panic(err)
	}

	log := logger.New(cfg.Logger.Level)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Job store: Postgres when configured, file-backed otherwise.
	var store usecase.JobStore
	if cfg.Database.URL != "" {
		pool, err := infra.NewJobsPool(ctx, cfg.Database.URL)
		if err != nil {
			log.Error("jobs database unavailable", "error", err)
			os.Exit(1)
		}
		defer pool.Close()
		if err := migration.RunMigrations(ctx, pool, log); err != nil {
			log.Error("migrations failed", "error", err)
			os.Exit(1)
		}
		store = repo.NewPostgresJobStore(pool)
		log.Info("using postgres job store")
	} else {
		fileStore, err := repo.NewFileJobStore(cfg.Jobs.Dir, log)
		if err != nil {
			log.Error("failed to initialize job store", "dir", cfg.Jobs.Dir, "error", err)
			os.Exit(1)
		}
		store = fileStore
		log.Info("using file job store", "dir", cfg.Jobs.Dir)
	}

	engine, err := template.NewEngine(cfg.Templates.Dir)
	if err != nil {
		log.Error("failed to load templates", "dir", cfg.Templates.Dir, "error", err)
		os.Exit(1)
	}

	validator, err := model.NewValidator(filepath.Join(cfg.Templates.Dir, "cv.schema.json"))
	if err != nil {
		log.Error("failed to load cv schema", "error", err)
		os.Exit(1)
	}

	renderer := infra.NewChromedpRenderer(cfg.Renderer.ChromePath, time.Duration(cfg.Renderer.TimeoutSeconds)*time.Second)
	if err := renderer.Available(ctx); err != nil {
		log.Warn("pdf renderer not available at startup", "error", err)
	}

	orchestrator, err := usecase.NewOrchestrator(store, engine, renderer, cfg.Output.Dir, log)
	if err != nil {
		log.Error("failed to initialize orchestrator", "error", err)
		os.Exit(1)
	}

	retention := time.Duration(cfg.Jobs.RetentionHours) * time.Hour
	sweeper := usecase.NewSweeper(store, retention, time.Hour, log)
	go sweeper.Run(ctx)

	app := fiber.New(fiber.Config{
		AppName:               "serenityops-cv",
		DisableStartupMessage: true,
	})
	h := httpadapter.NewHandler(store, orchestrator, engine, renderer, validator, cfg.Output.Dir, cfg.Curriculum.Path, log)
	h.Register(app)

	go func() {
		log.Info("server listening", "address", cfg.Server.Address)
		if err := app.Listen(cfg.Server.Address); err != nil {
			log.Error("server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Error("shutdown failed", "error", err)
	}
}
