package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	appanalytics "github.com/jhoicas/liga-formativa-api/internal/application/analytics"
	"github.com/jhoicas/liga-formativa-api/internal/application/auth"
	"github.com/jhoicas/liga-formativa-api/internal/application/photo"
	"github.com/jhoicas/liga-formativa-api/internal/application/usecase"
	"github.com/jhoicas/liga-formativa-api/internal/infrastructure/imgbb"
	"github.com/jhoicas/liga-formativa-api/internal/infrastructure/metrics"
	"github.com/jhoicas/liga-formativa-api/internal/infrastructure/storage"
	httpRouter "github.com/jhoicas/liga-formativa-api/internal/interfaces/http"
	"github.com/jhoicas/liga-formativa-api/pkg/config"
	"github.com/jhoicas/liga-formativa-api/pkg/logger"
)

// bodyLimit deja margen sobre el máximo de foto para que el pipeline informe el error de tamaño.
const bodyLimit = 12 * 1024 * 1024

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.Log.Level,
		File:  cfg.Log.File,
	})
	defer log.Close()
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	if cfg.JWT.Secret == "" {
		log.Fatal().Msg("JWT_SECRET es obligatorio")
	}

	ctx := context.Background()
	store, driver, err := storage.Open(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("abrir almacenamiento")
	}
	defer store.Close()
	log.Info().Str("driver", driver).Msg("almacenamiento listo")

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	collector := metrics.NewCollector(reg)

	// Host de imágenes: sin API key el pipeline responde ErrNotConfigured al subir fotos.
	imageHost := imgbb.New(imgbb.Config{APIKey: cfg.Photo.APIKey, Endpoint: cfg.Photo.Endpoint})
	if !imageHost.Configured() {
		log.Warn().Msg("IMGBB_API_KEY vacío: las fotos no se podrán subir")
	}
	pipeline := photo.New(photo.Config{
		MaxBytes:     cfg.Photo.MaxBytes,
		MaxDimension: cfg.Photo.MaxDimension,
		Quality:      cfg.Photo.JPEGQuality,
	}, imageHost, collector)

	clock := clockwork.NewRealClock()
	league := storage.LeagueConfig(cfg)
	userUC := usecase.NewUserUseCase(store, league, clock, log, collector)
	teamUC := usecase.NewTeamUseCase(store, league, clock, collector)
	playerUC := usecase.NewPlayerUseCase(store, pipeline, league, clock, log, collector).
		WithLinkResolver(imgbb.NewShareResolver(10 * time.Second))
	dashboardUC := appanalytics.NewDashboardUseCase(store, clock)
	authUC := auth.NewAuthUseCase(userUC, store, league, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	}, log, collector)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 30,
		WriteTimeout: time.Second * 60,
		IdleTimeout:  time.Second * 60,
		BodyLimit:    bodyLimit,
		ErrorHandler: httpRouter.ErrorHandler(log),
	})
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.HTTP.AllowOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: strings.Join([]string{fiber.MethodGet, fiber.MethodPost, fiber.MethodPut, fiber.MethodDelete, fiber.MethodOptions}, ","),
	}))

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Liga Formativa API",
	}))

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:             authUC,
		UserUC:             userUC,
		TeamUC:             teamUC,
		PlayerUC:           playerUC,
		DashboardUC:        dashboardUC,
		Metrics:            collector,
		Gatherer:           reg,
		LoginRatePerMinute: cfg.HTTP.LoginRatePerMinute,
		ServiceName:        cfg.App.Name,
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

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
