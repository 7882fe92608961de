package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/sites-hotels-dashboard/internal/application/auth"
	appdashboard "github.com/jhoicas/sites-hotels-dashboard/internal/application/dashboard"
	"github.com/jhoicas/sites-hotels-dashboard/internal/application/session"
	"github.com/jhoicas/sites-hotels-dashboard/internal/domain/repository"
	"github.com/jhoicas/sites-hotels-dashboard/internal/infrastructure/backend"
	"github.com/jhoicas/sites-hotels-dashboard/internal/infrastructure/memory"
	"github.com/jhoicas/sites-hotels-dashboard/internal/infrastructure/observability"
	infrapdf "github.com/jhoicas/sites-hotels-dashboard/internal/infrastructure/pdf"
	"github.com/jhoicas/sites-hotels-dashboard/internal/infrastructure/postgres"
	infraredis "github.com/jhoicas/sites-hotels-dashboard/internal/infrastructure/redis"
	httpRouter "github.com/jhoicas/sites-hotels-dashboard/internal/interfaces/http"
	"github.com/jhoicas/sites-hotels-dashboard/pkg/config"
	"github.com/jhoicas/sites-hotels-dashboard/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("filter_store", cfg.Filter.Store).
		Msg("iniciando aplicación")

	if cfg.JWT.Secret == "" {
		log.Fatal().Msg("JWT_SECRET es obligatorio")
	}

	ctx := context.Background()

	// Persistencia del último filtro por usuario
	var filterRepo repository.FilterStateRepository
	switch cfg.Filter.Store {
	case config.FilterStoreRedis:
		rdb, err := infraredis.NewClient(ctx, infraredis.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a Redis")
		}
		defer rdb.Close()
		filterRepo = infraredis.NewFilterRepository(rdb, cfg.Filter.TTL())
	case config.FilterStorePostgres:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		repo := postgres.NewFilterRepository(pool)
		if err := repo.EnsureSchema(ctx); err != nil {
			log.Fatal().Err(err).Msg("crear tabla de filtros")
		}
		filterRepo = repo
	default:
		filterRepo = memory.NewFilterRepository()
	}

	backendClient := backend.NewClient(backend.Config{
		BaseURL: cfg.Backend.URL,
		Timeout: cfg.Backend.Timeout(),
	}, log.Zerolog())

	// El gauge de sesiones se evalúa en cada scrape, después de crear el manager.
	var sessions *session.Manager
	collectors := observability.NewCollectors("sites_dashboard", func() int { return sessions.Len() })
	sessions = session.NewManager(filterRepo, backendClient, collectors, log.Component("sessions"),
		session.WithEpochYear(cfg.Dashboard.EpochYear))

	kpiUC := appdashboard.NewKPIUseCase()
	reportUC := appdashboard.NewReportUseCase(infrapdf.NewMarotoReportGenerator(), kpiUC)
	authUC := auth.NewAuthUseCase(backendClient, sessions, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Sites Hotels Dashboard API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name, "sessions": sessions.Len()})
	})
	app.Get("/metrics", adaptor.HTTPHandler(collectors.Handler()))

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:    authUC,
		Sessions:  sessions,
		KPIUC:     kpiUC,
		ReportUC:  reportUC,
		JWTSecret: cfg.JWT.Secret,
		EpochYear: cfg.Dashboard.EpochYear,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Cerrar las sesiones primero termina los streams SSE abiertos; sin eso el
	// apagado espera hasta el timeout. Los filtros guardados se conservan y el
	// próximo login los restaura.
	sessions.CloseAll()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
