package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"

	appanalytics "github.com/jhoicas/liga-formativa-api/internal/application/analytics"
	"github.com/jhoicas/liga-formativa-api/internal/application/auth"
	"github.com/jhoicas/liga-formativa-api/internal/application/usecase"
	"github.com/jhoicas/liga-formativa-api/internal/infrastructure/metrics"
)

// RouterDeps dependencias para registrar rutas.
type RouterDeps struct {
	AuthUC      *auth.AuthUseCase
	UserUC      *usecase.UserUseCase
	TeamUC      *usecase.TeamUseCase
	PlayerUC    *usecase.PlayerUseCase
	DashboardUC *appanalytics.DashboardUseCase

	// Metrics y Gatherer son opcionales; sin ellos no se expone /metrics.
	Metrics  *metrics.Collector
	Gatherer prometheus.Gatherer

	LoginRatePerMinute int
	ServiceName        string
}

// Router registra todas las rutas en la app Fiber.
func Router(app *fiber.App, d RouterDeps) {
	if d.Metrics != nil {
		app.Use(MetricsMiddleware(d.Metrics))
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": d.ServiceName})
	})
	if d.Gatherer != nil {
		app.Get("/metrics", adaptor.HTTPHandler(metrics.Handler(d.Gatherer)))
	}

	api := app.Group("/api")

	authH := NewAuthHandler(d.AuthUC)
	limiter := NewLoginLimiter(d.LoginRatePerMinute)
	api.Post("/auth/login", limiter.Handler(), authH.Login)
	api.Get("/routes/check", OptionalAuth(d.AuthUC), authH.CheckRoute)

	protected := api.Group("/", AuthMiddleware(d.AuthUC))
	protected.Post("/auth/refresh", authH.Refresh)
	protected.Get("/auth/me", authH.Me)
	protected.Put("/profile", authH.UpdateProfile)

	dashH := NewDashboardHandler(d.DashboardUC)
	protected.Get("/dashboard", dashH.GetSummary)

	teamH := NewTeamHandler(d.TeamUC)
	protected.Get("/teams", teamH.List)
	protected.Post("/teams", teamH.Create)
	protected.Get("/teams/:id", teamH.GetByID)
	protected.Put("/teams/:id", teamH.Update)
	protected.Delete("/teams/:id", teamH.Delete)

	playerH := NewPlayerHandler(d.PlayerUC)
	protected.Get("/players", playerH.List)
	protected.Post("/players", playerH.Create)
	protected.Get("/players/:id", playerH.GetByID)
	protected.Put("/players/:id", playerH.Update)
	protected.Delete("/players/:id", playerH.Delete)

	userH := NewUserHandler(d.UserUC)
	protected.Get("/users", userH.List)
	protected.Post("/users", userH.Create)
	protected.Get("/users/:id", userH.GetByID)
	protected.Put("/users/:id", userH.Update)
	protected.Delete("/users/:id", userH.Delete)
}
